package platform

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/aretw0/butler/internal/config"
	"github.com/aretw0/butler/pkg/adapters/fs"
	"github.com/aretw0/butler/pkg/core"
	"github.com/aretw0/butler/pkg/report"
)

// Runtime bundles everything built from one configuration: a job per media
// kind plus the shared adapters.
type Runtime struct {
	Config   *config.Config
	Jobs     []*core.Job
	Stores   []*fs.Store
	Injector *fs.Injector

	logger *slog.Logger
	now    func() time.Time
	lock   *fs.InstanceLock
}

// New wires the runtime for cfg. Unless WithoutLock is given it takes the
// single-instance lock first, returning core.ErrAlreadyRunning when another
// process holds it. Call Close to release it.
//
//	rt, err := platform.New(ctx, cfg, platform.WithLogger(logger))
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*Runtime, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	logger := o.logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	rt := &Runtime{
		Config:   cfg,
		Injector: fs.NewInjector(cfg.Notes.Root),
		logger:   logger,
		now:      o.now,
	}

	if !o.noLock {
		lock, err := fs.AcquireInstanceLock(rt.LockPath())
		if err != nil {
			return nil, err
		}
		rt.lock = lock
	}

	lookup, err := rt.lookup(o)
	if err != nil {
		_ = rt.Close()
		return nil, err
	}
	reporter := o.reporter
	if reporter == nil && cfg.DashboardEnabled() {
		reporter = report.NewDashboard(rt.Injector, cfg.Notes.Dashboard, o.now)
	}
	dryRun := cfg.Cull.DryRun
	if o.dryRun != nil {
		dryRun = *o.dryRun
	}

	env := core.Env{Logger: logger, Now: o.now}
	for _, kind := range cfg.MediaKinds() {
		lib, err := fs.NewLibrary(kind.LibraryRoot, cfg.Library.Ignore...)
		if err != nil {
			_ = rt.Close()
			return nil, err
		}

		store := fs.NewStore(fs.StoreConfig{
			Root:       kind.AnnotationRoot,
			Kind:       kind.Name,
			Versioning: cfg.Notes.Versioning,
			AutoInit:   cfg.Notes.Versioning,
			Logger:     logger,
		})
		if !o.readOnly {
			if err := store.Initialize(ctx); err != nil {
				_ = rt.Close()
				return nil, fmt.Errorf("%s: %w", kind.Name, err)
			}
		}

		jobOpts := []core.JobOption{
			core.WithGraceDay(cfg.Cull.GraceDay),
			core.WithDryRun(dryRun),
			core.WithTagOptions(core.TagOptions{Normalize: cfg.Tags.Normalize}),
		}
		if lookup != nil {
			jobOpts = append(jobOpts, core.WithLookup(lookup))
		}
		if reporter != nil {
			jobOpts = append(jobOpts, core.WithReporter(reporter))
		}

		job, err := core.NewJob(kind, lib, store, env, jobOpts...)
		if err != nil {
			_ = rt.Close()
			return nil, err
		}
		rt.Jobs = append(rt.Jobs, job)
		rt.Stores = append(rt.Stores, store)
	}

	return rt, nil
}

func (rt *Runtime) lookup(o *options) (core.MetadataLookup, error) {
	if o.lookup != nil {
		return o.lookup, nil
	}
	if rt.Config.Metadata.Catalog == "" {
		return nil, nil
	}
	catalog, err := fs.LoadCatalog(rt.resolve(rt.Config.Metadata.Catalog))
	if err != nil {
		return nil, err
	}
	rt.logger.Debug("metadata catalog loaded", "entries", catalog.Len())
	return catalog, nil
}

// LockPath returns the absolute lock file location.
func (rt *Runtime) LockPath() string {
	return rt.resolve(rt.Config.Lock.File)
}

// resolve anchors relative paths at the notes root.
func (rt *Runtime) resolve(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(rt.Config.Notes.Root, p)
}

// Job returns the job of the named kind.
func (rt *Runtime) Job(kind string) (*core.Job, bool) {
	for _, j := range rt.Jobs {
		if j.Kind().Name == kind {
			return j, true
		}
	}
	return nil, false
}

// Select returns the jobs of the named kinds, or all jobs when none are named.
func (rt *Runtime) Select(kinds ...string) ([]*core.Job, error) {
	if len(kinds) == 0 {
		return rt.Jobs, nil
	}
	jobs := make([]*core.Job, 0, len(kinds))
	for _, k := range kinds {
		j, ok := rt.Job(k)
		if !ok {
			return nil, fmt.Errorf("%w: unknown media kind %q", core.ErrInvalidConfig, k)
		}
		jobs = append(jobs, j)
	}
	return jobs, nil
}

// Watcher returns a library watcher over every job's library root.
func (rt *Runtime) Watcher() *fs.Watcher {
	roots := make([]string, 0, len(rt.Jobs))
	for _, j := range rt.Jobs {
		roots = append(roots, j.Kind().LibraryRoot)
	}
	return fs.NewWatcher(rt.logger, roots...)
}

// LogSettings writes the effective settings at startup.
func (rt *Runtime) LogSettings() {
	cfg := rt.Config
	rt.logger.Info("settings",
		"notes", cfg.Notes.Root,
		"dashboard", cfg.Notes.Dashboard,
		"versioning", cfg.Notes.Versioning,
		"grace_day", cfg.Cull.GraceDay,
		"dry_run", cfg.Cull.DryRun,
		"interval", cfg.Schedule.Interval.String(),
		"knock_off", cfg.Schedule.KnockOff,
		"start", cfg.Schedule.Start,
		"log_file", cfg.Log.File,
	)
	for _, j := range rt.Jobs {
		k := j.Kind()
		rt.logger.Info("media kind", "kind", k.Name, "library", k.LibraryRoot, "notes", k.AnnotationRoot)
	}
}

// Close releases the single-instance lock.
func (rt *Runtime) Close() error {
	if rt.lock == nil {
		return nil
	}
	err := rt.lock.Release()
	rt.lock = nil
	return err
}
