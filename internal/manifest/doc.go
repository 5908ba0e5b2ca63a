// Package manifest models build.json, the release manifest.
//
// A manifest maps each Guix system identifier to the download URL and
// SHA-256 digest of its binary tarball, with a nested record for the
// matching substitute cache tarball:
//
//	{
//	  "x86_64-linux": {
//	    "url": "https://.../guix-binary-20250101.x86_64-linux.tar.xz",
//	    "sha256": "...",
//	    "cache": {
//	      "url": "https://.../guix-cache-20250101.x86_64-linux.tar.xz",
//	      "sha256": "..."
//	    }
//	  }
//	}
//
// Entries keep insertion order, both when built in memory and when decoded,
// and are encoded in that order. Two manifests built from the same sequence
// of calls therefore encode to identical bytes.
//
// A cache record can only be attached to an architecture whose binary entry
// already exists; [Manifest.AttachCache] fails otherwise.
package manifest
