package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/ironsheep/image-bgtools/internal/cli"
	"github.com/ironsheep/image-bgtools/internal/logging"
	"github.com/ironsheep/image-bgtools/internal/upscale"
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
	fmt.Fprintln(w, "ai-upscale - enlarge an image with Lanczos resampling and sharpening")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage: ai-upscale [flags] <input> <output> [2x|4x|8x]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "The factor defaults to 2x. The result is written as an RGB PNG.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -json           Print a JSON summary of the result")
	fmt.Fprintln(w, "  --version, -v   Print version information")
	fmt.Fprintln(w, "  --help, -h      Print this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment variables:")
	fmt.Fprintln(w, "  IMAGE_TOOLS_LOG_LEVEL=debug    Enable debug logging")
}

func run(args []string, stdout, stderr io.Writer) int {
	build := cli.Build{Name: "ai-upscale", Version: Version, BuildTime: BuildTime, GitCommit: GitCommit}
	if cli.HandleInfo(build, args, stdout, usage) {
		return cli.ExitOK
	}

	fs := flag.NewFlagSet(build.Name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { usage(stderr) }
	asJSON := fs.Bool("json", false, "print a JSON summary")
	if err := fs.Parse(args); err != nil {
		return cli.ExitUsage
	}

	pos := fs.Args()
	if len(pos) < 2 || len(pos) > 3 {
		usage(stderr)
		return cli.ExitUsage
	}

	raw := ""
	if len(pos) > 2 {
		raw = pos[2]
	}
	factor, err := upscale.ParseFactor(raw)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return cli.ExitCode(err)
	}

	logger := logging.FromEnv(stderr)
	res, err := upscale.New(logger).Run(pos[0], pos[1], factor)
	if err != nil {
		logger.Error("upscale failed", "input", pos[0], "err", err)
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return cli.ExitCode(err)
	}

	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(res)
		return cli.ExitOK
	}
	fmt.Fprintf(stdout, "Image upscaled %dx: %dx%d -> %dx%d, saved to %s\n",
		res.Factor, res.OriginalWidth, res.OriginalHeight, res.Width, res.Height, res.OutputPath)
	if !res.Sharpened {
		fmt.Fprintln(stdout, "Note: sharpening was skipped; output is resampled only.")
	}
	return cli.ExitOK
}
