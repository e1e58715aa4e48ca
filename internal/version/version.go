// Package version records the loom build version.
package version

// version is overridden at build time:
//
//	go build -ldflags "-X github.com/loom-ai/loom/internal/version.version=v0.2.0"
var version = "0.1.0-dev"

// Get returns the current version.
func Get() string {
	return version
}
