// Package version provides build version information for the CLI.
package version

import "fmt"

// Build-time variables set by ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// String returns a one-line version description.
func String() string {
	return fmt.Sprintf("cartml %s (commit %s, built %s)", Version, GitCommit, BuildDate)
}
