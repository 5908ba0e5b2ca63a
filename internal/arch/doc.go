// Package arch defines the fixed matrix of target architectures.
//
// Each [Spec] pairs a container platform (passed to the container engine,
// e.g. "linux/arm/v7") with a Guix system identifier (used in artifact names
// and manifests, e.g. "armhf-linux"). The Guix identifier is the stable
// identity of an architecture; the platform is only ever handed to the build
// invocation.
package arch
