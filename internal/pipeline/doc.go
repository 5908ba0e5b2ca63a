// Package pipeline drives a release run.
//
// A run is an ordered sequence of stages over one shared, immutable
// [Context]. [Select] turns the command-line targets into a [Plan]: the
// architectures to process and the stage sequence. The [Driver] runs the
// stages strictly in order; a stage may fan out over the architectures
// internally, through the batch executor, but the next stage only starts
// once the previous one has returned.
//
// The stages are:
//
//	install-dependency              register QEMU binfmt handlers for foreign architectures
//	build                           run the release build container for every architecture
//	build-and-test-container-image  build the test image for every architecture
//	reconcile-metadata              reconcile artifacts with the previous release and stage the release files
//	skip-metadata                   end the run successfully without touching the manifest
//
// skip-metadata exists so that several invocations can build disjoint sets
// of architectures in parallel, possibly on different machines, and leave
// the manifest to a final metadata-only invocation.
//
// Example usage:
//
//	plan := pipeline.Select(args)
//	d := &pipeline.Driver{Runner: runtime.Exec{}, Fetcher: &release.Fetcher{}}
//	if err := d.Run(ctx, pc, plan); err != nil {
//	    return err
//	}
package pipeline
