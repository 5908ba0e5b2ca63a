// Package release reconciles freshly built artifacts against the previous
// release and assembles the files to publish.
//
// Every architecture produces two tarballs, a binary and a substitute cache,
// named by [ResourceName]. The [Reconciler] hashes each of them and compares
// the digest with the one recorded in the previously published manifest. An
// unchanged artifact keeps its old download URL and is not uploaded again; a
// changed or new one gets a URL under the new release tag and is scheduled
// for publication. Reconciling the same artifacts against the same previous
// manifest twice yields identical manifests and nothing to publish.
//
// The package also holds the collaborators around reconciliation: a
// [Fetcher] for the previous manifest and the auxiliary files shipped with
// each release, the date-based version kept in a VERSION file, and the
// [FileSet] of paths moved into the release directory at the end of a run.
package release
