package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/ironsheep/image-bgtools/internal/cli"
	"github.com/ironsheep/image-bgtools/internal/logging"
	"github.com/ironsheep/image-bgtools/internal/segment"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "remove-background - cut the background out of an image")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage: remove-background [flags] <input> <output> [transparent|solid] [#RRGGBB]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "The background color is taken from the image corners. Pixels within the")
	fmt.Fprintln(w, "tolerance of it become transparent, or are replaced by the fill color in")
	fmt.Fprintln(w, "solid mode. The result is always written as PNG.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -tolerance n    Per-channel match distance, 1-256 (default 30)")
	fmt.Fprintln(w, "  -json           Print a JSON summary of the result")
	fmt.Fprintln(w, "  --version, -v   Print version information")
	fmt.Fprintln(w, "  --help, -h      Print this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment variables:")
	fmt.Fprintln(w, "  IMAGE_TOOLS_LOG_LEVEL=debug    Enable debug logging")
}

func run(args []string, stdout, stderr io.Writer) int {
	build := cli.Build{Name: "remove-background", Version: Version, BuildTime: BuildTime, GitCommit: GitCommit}
	if cli.HandleInfo(build, args, stdout, usage) {
		return cli.ExitOK
	}

	fs := flag.NewFlagSet(build.Name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { usage(stderr) }
	tolerance := fs.Int("tolerance", segment.DefaultTolerance, "per-channel match distance")
	asJSON := fs.Bool("json", false, "print a JSON summary")
	if err := fs.Parse(args); err != nil {
		return cli.ExitUsage
	}

	pos := fs.Args()
	if len(pos) < 2 || len(pos) > 4 {
		usage(stderr)
		return cli.ExitUsage
	}

	mode := segment.ModeTransparent
	if len(pos) > 2 {
		m, err := segment.ParseMode(pos[2])
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return cli.ExitCode(err)
		}
		mode = m
	}
	fill := segment.DefaultFillColor
	if len(pos) > 3 {
		fill = pos[3]
	}

	opts := segment.RemoveBackgroundOptions(mode, fill)
	opts.Tolerance = *tolerance

	logger := logging.FromEnv(stderr)
	res, err := segment.New(logger).Run(pos[0], pos[1], opts)
	if err != nil {
		logger.Error("background removal failed", "input", pos[0], "err", err)
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return cli.ExitCode(err)
	}

	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(res)
		return cli.ExitOK
	}
	fmt.Fprintf(stdout, "Background removed successfully: %s\n", res.OutputPath)
	if res.Tier == segment.TierDegraded {
		fmt.Fprintln(stdout, "Note: corner detection failed; used near-white detection with a transparent background.")
	}
	return cli.ExitOK
}
