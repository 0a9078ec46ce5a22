// Package cli holds the pieces shared by the command-line entry points:
// build metadata, --version/--help handling and exit codes.
package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/ironsheep/image-bgtools/internal/imaging"
)

// Exit codes.
const (
	ExitOK       = 0
	ExitFailure  = 1 // processing failed, including exhausted fallbacks
	ExitUsage    = 2 // bad arguments or parameters
	ExitNotFound = 3 // input file missing
)

// ExitCode maps an error returned by a command to its process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, imaging.ErrConfiguration):
		return ExitUsage
	case errors.Is(err, imaging.ErrNotFound):
		return ExitNotFound
	default:
		return ExitFailure
	}
}

// Build describes a binary. Version, BuildTime and GitCommit are normally set
// by ldflags in the command's main package.
type Build struct {
	Name      string
	Version   string
	BuildTime string
	GitCommit string
}

// HandleInfo prints version or help text when args[0] asks for it and
// reports whether it did. usage writes the command-specific help.
func HandleInfo(b Build, args []string, w io.Writer, usage func(io.Writer)) bool {
	if len(args) == 0 {
		return false
	}
	switch args[0] {
	case "--version", "-v", "version":
		fmt.Fprintf(w, "%s %s\n", b.Name, b.Version)
		fmt.Fprintf(w, "  Build time: %s\n", b.BuildTime)
		fmt.Fprintf(w, "  Git commit: %s\n", b.GitCommit)
		return true
	case "--help", "-h", "help":
		usage(w)
		return true
	}
	return false
}

// UsageError marks a command-line mistake. It wraps imaging.ErrConfiguration
// so ExitCode reports ExitUsage.
func UsageError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", imaging.ErrConfiguration, fmt.Sprintf(format, args...))
}
