package platform

import (
	"log/slog"
	"time"

	"github.com/aretw0/butler/pkg/core"
)

// options holds the overrides applied on top of the configuration.
type options struct {
	logger   *slog.Logger
	now      func() time.Time
	lookup   core.MetadataLookup
	reporter core.Reporter
	dryRun   *bool
	noLock   bool
	readOnly bool
}

// Option defines a functional option for building a Runtime.
type Option func(*options)

func defaultOptions() *options {
	return &options{
		logger: nil,
		now:    time.Now,
	}
}

// WithLogger sets the logger shared by every job.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithClock replaces the wall clock (scaffold dates, grace window, knock-off).
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithLookup replaces the configured metadata catalog.
func WithLookup(l core.MetadataLookup) Option {
	return func(o *options) {
		o.lookup = l
	}
}

// WithReporter replaces the dashboard reporter.
func WithReporter(r core.Reporter) Option {
	return func(o *options) {
		o.reporter = r
	}
}

// WithDryRun overrides cull.dry_run.
func WithDryRun(dry bool) Option {
	return func(o *options) {
		o.dryRun = &dry
	}
}

// WithoutLock skips the single-instance lock. Read-only commands use it.
func WithoutLock() Option {
	return func(o *options) {
		o.noLock = true
	}
}

// WithReadOnly skips the instance lock and leaves the annotation roots as
// they are: no directories are created and no repository is initialized.
func WithReadOnly() Option {
	return func(o *options) {
		o.noLock = true
		o.readOnly = true
	}
}
