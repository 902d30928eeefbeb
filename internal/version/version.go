// Package version provides build and version information for xdslconv.
package version

// Version is the current release version of xdslconv.
// This can be overridden at build time using:
//
//	go build -ldflags "-X github.com/pgmkit/xdslconv/internal/version.Version=x.y.z"
var Version = "1.0.0"
