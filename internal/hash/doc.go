// Package hash computes content digests of release artifacts.
//
// A digest is the hex-encoded SHA-256 of a file's bytes and serves as the
// identity of the artifact's content. Files are streamed through the hash
// function, so artifacts of any size are hashed in constant memory.
package hash
