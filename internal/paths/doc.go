// Provides default locations for guix-release.
//
// The configuration file follows XDG conventions on Linux and platform-native
// conventions elsewhere. The release workspace (staging directory, build
// output and build scripts) is laid out relative to a project root, which
// defaults to the current working directory.
package paths
