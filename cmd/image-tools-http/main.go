package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/ironsheep/image-bgtools/internal/cli"
	"github.com/ironsheep/image-bgtools/internal/config"
	"github.com/ironsheep/image-bgtools/internal/httpapi"
	"github.com/ironsheep/image-bgtools/internal/logging"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func usage(w io.Writer) {
	fmt.Fprintln(w, "image-tools-http - HTTP API for background removal and upscaling")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage: image-tools-http [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	fmt.Fprintln(w, "  --version, -v    Print version information")
	fmt.Fprintln(w, "  --help, -h       Print this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment variables:")
	fmt.Fprintf(w, "  %s       Listen address (default %s)\n", config.EnvHTTPAddr, config.DefaultHTTPAddr)
	fmt.Fprintf(w, "  %s        Staging directory for uploads and results\n", config.EnvWorkDir)
	fmt.Fprintf(w, "  %s   Upload size limit in MB (default %d)\n", config.EnvMaxUploadMB, config.DefaultMaxUploadMB)
	fmt.Fprintf(w, "  %s  Cron schedule of the stale-file sweep (default %q)\n", config.EnvSweepSchedule, config.DefaultSweepSchedule)
	fmt.Fprintf(w, "  %s    Age after which staged files are swept (default %s)\n", config.EnvFileMaxAge, config.DefaultFileMaxAge)
	fmt.Fprintf(w, "  %s       debug, info, warn or error (default info)\n", config.EnvLogLevel)
}

func main() {
	build := cli.Build{Name: "image-tools-http", Version: Version, BuildTime: BuildTime, GitCommit: GitCommit}
	if cli.HandleInfo(build, os.Args[1:], os.Stdout, usage) {
		return
	}

	cfg, err := config.Load(os.Getenv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.ExitCode(err))
	}

	logger := logging.New(os.Stderr, cfg.LogLevel)
	gin.SetMode(gin.ReleaseMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := httpapi.New(cfg, logger, Version).Run(ctx); err != nil {
		logger.Error("server error", "err", err)
		stop()
		os.Exit(cli.ExitFailure)
	}
}
