package core

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// DefaultGraceDay is the last day of the month on which culling is suppressed.
const DefaultGraceDay = 27

// Job reconciles one media kind: Detect writes annotations for new library
// folders and Cull deletes the folders whose annotations allow it.
// A Job is not safe for concurrent passes.
type Job struct {
	kind     MediaKind
	library  Library
	store    AnnotationStore
	env      Env
	lookup   MetadataLookup
	reporter Reporter
	graceDay int
	dryRun   bool
	tagOpts  TagOptions

	mu         sync.RWMutex
	lastDetect *time.Time
	lastCull   *time.Time
}

// JobOption configures a Job.
type JobOption func(*Job)

// WithLookup enables scaffold enrichment for kinds that ask for it.
func WithLookup(l MetadataLookup) JobOption {
	return func(j *Job) { j.lookup = l }
}

// WithReporter publishes every pass result.
func WithReporter(r Reporter) JobOption {
	return func(j *Job) { j.reporter = r }
}

// WithGraceDay sets the day of month up to which Cull is a no-op.
func WithGraceDay(day int) JobOption {
	return func(j *Job) { j.graceDay = day }
}

// WithDryRun makes Cull log the folders it would delete instead of deleting them.
func WithDryRun(dry bool) JobOption {
	return func(j *Job) { j.dryRun = dry }
}

// WithTagOptions sets how tags are extracted.
func WithTagOptions(opts TagOptions) JobOption {
	return func(j *Job) { j.tagOpts = opts }
}

// NewJob creates a Job for kind.
func NewJob(kind MediaKind, library Library, store AnnotationStore, env Env, opts ...JobOption) (*Job, error) {
	if err := kind.Validate(); err != nil {
		return nil, err
	}
	if library == nil || store == nil {
		return nil, fmt.Errorf("%w: %s: library and store are required", ErrInvalidConfig, kind.Name)
	}
	j := &Job{
		kind:     kind,
		library:  library,
		store:    store,
		env:      env,
		graceDay: DefaultGraceDay,
	}
	for _, opt := range opts {
		opt(j)
	}
	return j, nil
}

// Kind returns the descriptor the job was built with.
func (j *Job) Kind() MediaKind {
	return j.kind
}

type entry struct {
	folder string
	item   Item
}

func (j *Job) scan(ctx context.Context) ([]entry, error) {
	folders, err := j.library.Folders(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s library: %w", j.kind.Name, err)
	}
	entries := make([]entry, 0, len(folders))
	for _, f := range folders {
		entries = append(entries, entry{folder: f, item: ParseItem(f)})
	}
	return entries, nil
}

// Items returns the library items currently on disk.
func (j *Job) Items(ctx context.Context) ([]Item, error) {
	entries, err := j.scan(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]Item, len(entries))
	for i, e := range entries {
		items[i] = e.item
	}
	return items, nil
}

// Classify reads the annotation of item and evaluates its retention state.
// Malformed property lines are logged and otherwise ignored.
func (j *Job) Classify(ctx context.Context, item Item) (Verdict, error) {
	a, exists, err := j.store.Read(ctx, item.Title)
	if err != nil {
		return Verdict{}, fmt.Errorf("failed to read annotation for %s: %w", item.Title, err)
	}
	if !exists {
		return Evaluate(false, nil, nil, j.kind.CompletionTag), nil
	}
	props, malformed := a.Properties()
	for _, m := range malformed {
		j.env.logger().Warn("malformed property line",
			"kind", j.kind.Name,
			"title", item.Title,
			"property", m.Property.Name,
			"line", m.Line,
		)
	}
	return Evaluate(true, props, a.Tags(j.tagOpts), j.kind.CompletionTag), nil
}

// Property returns the value of the named property of title's annotation,
// or "?" when there is no annotation or no such property.
func (j *Job) Property(ctx context.Context, title, name string) string {
	a, exists, err := j.store.Read(ctx, title)
	if err != nil || !exists {
		return "?"
	}
	props, _ := a.Properties()
	if v, ok := props.Get(name); ok {
		return v
	}
	return "?"
}

// ItemStatus pairs an item with its evaluated state.
type ItemStatus struct {
	Folder  string
	Item    Item
	Verdict Verdict
	Err     error
}

// Status classifies every item in the library.
func (j *Job) Status(ctx context.Context) ([]ItemStatus, error) {
	entries, err := j.scan(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ItemStatus, 0, len(entries))
	for _, e := range entries {
		v, err := j.Classify(ctx, e.item)
		out = append(out, ItemStatus{Folder: e.folder, Item: e.item, Verdict: v, Err: err})
	}
	return out, nil
}

// CullList returns the items a cull pass would delete, ignoring the grace window.
func (j *Job) CullList(ctx context.Context) ([]Item, error) {
	return j.filter(ctx, Cullable)
}

// Unprocessed returns the items whose annotation has no recognized property.
func (j *Job) Unprocessed(ctx context.Context) ([]Item, error) {
	return j.filter(ctx, Unprocessed)
}

func (j *Job) filter(ctx context.Context, want Classification) ([]Item, error) {
	statuses, err := j.Status(ctx)
	if err != nil {
		return nil, err
	}
	var items []Item
	for _, s := range statuses {
		if s.Err == nil && s.Verdict.Class == want {
			items = append(items, s.Item)
		}
	}
	return items, nil
}

// DetectReport summarizes a detect pass.
type DetectReport struct {
	Scanned  int
	Existing int
	Created  []Item
	Failed   []Item
}

// Detect writes a scaffold annotation for every library item that has none.
// Failed writes are logged and skipped; only a failure to list the library
// aborts the pass.
func (j *Job) Detect(ctx context.Context) (DetectReport, error) {
	log := j.env.logger().With("kind", j.kind.Name, "pass", "detect")
	var r DetectReport

	entries, err := j.scan(ctx)
	if err != nil {
		return r, err
	}
	for _, e := range entries {
		r.Scanned++
		if j.store.Exists(e.item.Title) {
			r.Existing++
			continue
		}
		meta := j.enrich(ctx, e.item)
		a := j.kind.Build(e.item, meta, j.env.now())
		if err := j.store.Create(ctx, e.item.Title, a); err != nil {
			if errors.Is(err, ErrAnnotationExists) {
				r.Existing++
				continue
			}
			log.Error("failed to create annotation", "title", e.item.Title, "error", err)
			r.Failed = append(r.Failed, e.item)
			continue
		}
		log.Info("annotation created", "item", e.item.String())
		r.Created = append(r.Created, e.item)
	}
	log.Info("detect finished", "scanned", r.Scanned, "created", len(r.Created), "failed", len(r.Failed))

	j.mark(&j.lastDetect)
	if j.reporter != nil {
		if err := j.reporter.ReportDetect(ctx, j.kind, r); err != nil {
			log.Warn("failed to publish detect report", "error", err)
		}
	}
	return r, nil
}

func (j *Job) enrich(ctx context.Context, item Item) Metadata {
	if !j.kind.Enrich || j.lookup == nil {
		return Metadata{}
	}
	meta, err := j.lookup.Lookup(ctx, item.Title, item.Year)
	if err != nil {
		j.env.logger().Warn("metadata lookup failed",
			"kind", j.kind.Name,
			"item", item.String(),
			"error", err,
		)
		return Metadata{}
	}
	return meta
}

// CullReport summarizes a cull pass.
type CullReport struct {
	// Skipped is set when the grace window suppressed the pass.
	Skipped       bool
	DaysRemaining int
	DryRun        bool

	Scanned     int
	New         int
	Unprocessed int
	Keepers     int
	Unwatched   int
	Errors      int
	Culled      []Item
	Failed      []Item
}

// Cull deletes the library folder of every Cullable item, but only once the
// day of month is past the grace day. Deletion failures are logged and the
// pass carries on.
func (j *Job) Cull(ctx context.Context) (CullReport, error) {
	log := j.env.logger().With("kind", j.kind.Name, "pass", "cull")
	r := CullReport{DryRun: j.dryRun}

	if day := j.env.now().Day(); day <= j.graceDay {
		r.Skipped = true
		r.DaysRemaining = j.graceDay + 1 - day
		log.Info("culling suppressed by grace window", "grace_day", j.graceDay, "days_remaining", r.DaysRemaining)
		j.publishCull(ctx, r)
		return r, nil
	}

	entries, err := j.scan(ctx)
	if err != nil {
		return r, err
	}
	for _, e := range entries {
		r.Scanned++
		v, err := j.Classify(ctx, e.item)
		if err != nil {
			log.Error("failed to classify", "item", e.item.String(), "error", err)
			r.Errors++
			continue
		}
		switch v.Class {
		case New:
			r.New++
			continue
		case Unprocessed:
			r.Unprocessed++
			continue
		case Keeper:
			r.Keepers++
			continue
		case Retained:
			r.Unwatched++
			continue
		}

		if j.dryRun {
			log.Info("would delete", "folder", e.folder)
			r.Culled = append(r.Culled, e.item)
			continue
		}
		if err := j.library.Remove(ctx, e.folder); err != nil {
			log.Error("failed to delete folder", "folder", e.folder, "error", err)
			r.Failed = append(r.Failed, e.item)
			continue
		}
		log.Info("deleted", "item", e.item.String())
		r.Culled = append(r.Culled, e.item)
	}
	log.Info("cull finished",
		"scanned", r.Scanned,
		"keepers", r.Keepers,
		"unwatched", r.Unwatched,
		"culled", len(r.Culled),
		"failed", len(r.Failed),
	)

	j.mark(&j.lastCull)
	j.publishCull(ctx, r)
	return r, nil
}

func (j *Job) publishCull(ctx context.Context, r CullReport) {
	if j.reporter == nil {
		return
	}
	if err := j.reporter.ReportCull(ctx, j.kind, r); err != nil {
		j.env.logger().Warn("failed to publish cull report", "kind", j.kind.Name, "error", err)
	}
}

func (j *Job) mark(at **time.Time) {
	now := j.env.now()
	j.mu.Lock()
	*at = &now
	j.mu.Unlock()
}
