package buildconfig

import (
	"fmt"
	"runtime"
)

// Set via -ldflags "-X github.com/Harshitk-cp/keml-analysis/internal/buildconfig.version=..."
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func Version() string {
	return version
}

func Commit() string {
	return commit
}

// VersionInfo is served by /version and printed by the CLI.
func VersionInfo() map[string]string {
	return map[string]string{
		"version":    version,
		"commit":     commit,
		"build_date": buildDate,
		"go_version": runtime.Version(),
	}
}

// String is the one-line form used by `keml version`.
func String() string {
	return fmt.Sprintf("keml %s (commit %s, built %s, %s)", version, commit, buildDate, runtime.Version())
}
