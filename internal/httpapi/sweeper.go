package httpapi

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
)

// Sweep removes regular files in the work directory last modified before
// now minus the configured max age, and returns how many it removed.
// A missing work directory is not an error.
func (s *Server) Sweep(now time.Time) (int, error) {
	entries, err := os.ReadDir(s.cfg.WorkDir)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to list work directory: %w", err)
	}

	cutoff := now.Add(-s.cfg.FileMaxAge)
	removed := 0
	var errs []error
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			// removed concurrently
			continue
		}
		if !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(s.cfg.WorkDir, e.Name())); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, err)
			continue
		}
		removed++
	}
	return removed, errors.Join(errs...)
}

// StartSweeper schedules Sweep on cfg.SweepSchedule. The caller stops the
// returned scheduler.
func (s *Server) StartSweeper() (*cron.Cron, error) {
	log := cronLogger{s.logger}
	c := cron.New(cron.WithLogger(log), cron.WithChain(cron.Recover(log), cron.SkipIfStillRunning(log)))

	_, err := c.AddFunc(s.cfg.SweepSchedule, func() {
		n, err := s.Sweep(time.Now())
		if err != nil {
			s.logger.Warn("work directory sweep incomplete", "removed", n, "err", err)
			return
		}
		if n > 0 {
			s.logger.Info("swept stale files", "removed", n, "dir", s.cfg.WorkDir)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid sweep schedule %q: %w", s.cfg.SweepSchedule, err)
	}
	c.Start()
	return c, nil
}

// cronLogger routes scheduler messages into slog. Routine messages are
// demoted to debug.
type cronLogger struct {
	l *slog.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debug("cron: "+msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Error("cron: "+msg, append(keysAndValues, "err", err)...)
}
