package butler

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/butler/internal/config"
	"github.com/aretw0/butler/internal/platform"
	"github.com/aretw0/butler/pkg/core"
)

// --- Types ---

// Item is a title recovered from a library folder name.
type Item = core.Item

// Annotation is a parsed note: frontmatter lines and body lines.
type Annotation = core.Annotation

// MediaKind describes one reconciled kind of media.
type MediaKind = core.MediaKind

// Job reconciles one media kind.
type Job = core.Job

// Verdict is the retention classification of an item.
type Verdict = core.Verdict

// Config is the complete butler configuration.
type Config = config.Config

// Runtime holds the jobs and adapters built from a Config.
type Runtime = platform.Runtime

// Scheduler repeats every job until knock-off time.
type Scheduler = platform.Scheduler

// --- Parsing ---

// ParseItem recovers title and year from a folder name.
func ParseItem(folder string) Item {
	return core.ParseItem(folder)
}

// ParseAnnotation parses raw note contents.
func ParseAnnotation(data []byte) Annotation {
	return core.ParseAnnotationBytes(data)
}

// --- Configuration ---

// Option defines a functional option for building a Runtime.
type Option = platform.Option

// WithLogger sets the logger shared by every job.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithClock replaces the wall clock.
func WithClock(now func() time.Time) Option {
	return platform.WithClock(now)
}

// WithLookup replaces the configured metadata catalog.
func WithLookup(l core.MetadataLookup) Option {
	return platform.WithLookup(l)
}

// WithReporter replaces the dashboard reporter.
func WithReporter(r core.Reporter) Option {
	return platform.WithReporter(r)
}

// WithDryRun overrides cull.dry_run.
func WithDryRun(dry bool) Option {
	return platform.WithDryRun(dry)
}

// WithoutLock skips the single-instance lock.
func WithoutLock() Option {
	return platform.WithoutLock()
}

// WithReadOnly skips the lock and leaves the annotation roots untouched.
func WithReadOnly() Option {
	return platform.WithReadOnly()
}

// LoadConfig reads a YAML configuration file overlaid with BUTLER_* variables.
func LoadConfig(path string) (*Config, error) {
	return config.Load(path)
}

// --- Factory ---

// New builds the runtime for cfg.
func New(ctx context.Context, cfg *Config, opts ...Option) (*Runtime, error) {
	return platform.New(ctx, cfg, opts...)
}
