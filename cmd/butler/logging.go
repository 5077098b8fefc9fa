package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/butler/internal/config"
)

// LogDateLayout suffixes the daily log file name.
const LogDateLayout = "2006-01-02"

// newLogger returns a text logger writing to stderr and, when cfg.File is
// set, to "<file>-YYYY-MM-DD.log" as well.
func newLogger(cfg config.LogConfig, verbose bool, now time.Time) (*slog.Logger, io.Closer, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(cfg.Level))); err != nil {
		level = slog.LevelInfo
	}
	if verbose {
		level = slog.LevelDebug
	}

	var (
		w      io.Writer = os.Stderr
		closer io.Closer = io.NopCloser(nil)
	)
	if cfg.File != "" {
		path := dailyLogPath(cfg.File, now)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, nil, err
		}
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, nil, err
		}
		w = io.MultiWriter(os.Stderr, f)
		closer = f
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), closer, nil
}

func dailyLogPath(prefix string, now time.Time) string {
	return fmt.Sprintf("%s-%s.log", prefix, now.Format(LogDateLayout))
}
