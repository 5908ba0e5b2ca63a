// Parses flags and configures logging for guix-release.
//
// The tool accepts the following global flags:
//
//	-q, --quiet     Suppress informational output.
//	-v, --verbose   Include source locations in log records.
//	-d, --debug     Enable debug output, including streamed command output.
//	    --config    Load flag defaults from a JSON file.
//
// Flag defaults are also read from $XDG_CONFIG_HOME/guix-release/config.json
// and ./guix-release.json, and from GUIX_RELEASE_* environment variables.
// Flags override build-time defaults set via linker flags. After parsing, the
// global logger is reconfigured to reflect the final level and verbosity.
//
// Without a subcommand, the release command runs with the remaining
// arguments as targets:
//
//	guix-release                    reconcile metadata of already built artifacts
//	guix-release all                build every architecture, then reconcile
//	guix-release docker             build and test the container images
//	guix-release x86_64-linux ...   build the named architectures only
package cli
