// Package version reports the build of the start binary.
//
// Version, commit, branch and build time are set at compile time via
// -ldflags, and fall back to the VCS stamp of debug.ReadBuildInfo:
//
//	go build -ldflags "-X github.com/kbukum/start/version.Version=1.0.0" ./cmd/start
package version
