// Package buildinfo exposes version information for pumpd and pumpctl.
//
// Version, Commit and BuildTime are injected with ldflags:
//
//	go build -ldflags "-X github.com/robojar/pumpd/internal/infra/buildinfo.Version=v0.3.0"
//
// When they are not injected, the values recorded by the Go toolchain in the
// binary (module version, vcs.revision, vcs.time) are used instead.
package buildinfo
