package main

import (
	"fmt"
	"io"
	"os"

	"github.com/ironsheep/image-bgtools/internal/cli"
	"github.com/ironsheep/image-bgtools/internal/logging"
	"github.com/ironsheep/image-bgtools/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func usage(w io.Writer) {
	fmt.Fprintln(w, "image-tools-mcp - MCP server for background removal and upscaling")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage: image-tools-mcp [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	fmt.Fprintln(w, "  --version, -v    Print version information")
	fmt.Fprintln(w, "  --help, -h       Print this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment variables:")
	fmt.Fprintln(w, "  IMAGE_TOOLS_LOG_LEVEL=debug    Enable debug logging")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "This server communicates via MCP protocol over stdin/stdout.")
	fmt.Fprintln(w, "Configure it in your MCP client (e.g., Claude Desktop).")
}

func main() {
	build := cli.Build{Name: "image-tools-mcp", Version: Version, BuildTime: BuildTime, GitCommit: GitCommit}
	if cli.HandleInfo(build, os.Args[1:], os.Stdout, usage) {
		return
	}

	// stdout is for MCP protocol
	logger := logging.FromEnv(os.Stderr)
	logger.Debug("starting image tools MCP server",
		"version", Version,
		"build_time", BuildTime,
		"commit", GitCommit)

	srv := server.New(logger)
	if err := srv.Run(); err != nil {
		logger.Error("server error", "err", err)
		os.Exit(cli.ExitFailure)
	}
}
