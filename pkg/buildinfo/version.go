// Package buildinfo provides build-time version information for the
// gridmerge binary. It is reported by "gridmerge --version" and by the
// serve command's /healthz endpoint.
//
// Variables are set via ldflags during build:
//
//	go build -ldflags "-X github.com/matzehuels/gridmerge/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/matzehuels/gridmerge/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/matzehuels/gridmerge/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package buildinfo

import "fmt"

var (
	// Version is the semantic version (e.g., "v1.2.3").
	// Set via ldflags: -X github.com/matzehuels/gridmerge/pkg/buildinfo.Version=...
	Version = "dev"

	// Commit is the git commit SHA.
	// Set via ldflags: -X github.com/matzehuels/gridmerge/pkg/buildinfo.Commit=...
	Commit = "none"

	// Date is the build timestamp.
	// Set via ldflags: -X github.com/matzehuels/gridmerge/pkg/buildinfo.Date=...
	Date = "unknown"
)

// Fields returns the build information as key-value pairs for the
// /healthz response.
func Fields() map[string]string {
	return map[string]string{"version": Version, "commit": Commit, "built": Date}
}

// Template returns the version template string for cobra.
func Template() string {
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", Version, Commit, Date)
}
