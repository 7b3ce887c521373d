package version

import "fmt"

// these values are set at build time via ldflags
//
//nolint:gochecknoglobals // set by the build
var (
	Version   = "0.0.0-dev"
	GitCommit = "none"
	BuildDate = "unknown"

	// FullVersion is displayed by the version command
	FullVersion = fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate)
)
