package core_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/butler/pkg/core"
)

// memLibrary implements core.Library in memory.
type memLibrary struct {
	folders map[string]bool
	locked  map[string]bool
	listErr error
}

func newMemLibrary(folders ...string) *memLibrary {
	l := &memLibrary{folders: make(map[string]bool), locked: make(map[string]bool)}
	for _, f := range folders {
		l.folders[f] = true
	}
	return l
}

func (l *memLibrary) Folders(ctx context.Context) ([]string, error) {
	if l.listErr != nil {
		return nil, l.listErr
	}
	var out []string
	for f := range l.folders {
		out = append(out, f)
	}
	sort.Strings(out)
	return out, nil
}

func (l *memLibrary) Remove(ctx context.Context, folder string) error {
	if l.locked[folder] {
		return errors.New("file is locked")
	}
	delete(l.folders, folder)
	return nil
}

// memStore implements core.AnnotationStore in memory.
type memStore struct {
	notes    map[string][]byte
	failing  map[string]bool
	creates  int
	readErrs map[string]error
}

func newMemStore() *memStore {
	return &memStore{
		notes:    make(map[string][]byte),
		failing:  make(map[string]bool),
		readErrs: make(map[string]error),
	}
}

func (s *memStore) put(title, text string) {
	s.notes[title] = []byte(text)
}

func (s *memStore) Exists(title string) bool {
	_, ok := s.notes[title]
	return ok
}

func (s *memStore) Read(ctx context.Context, title string) (core.Annotation, bool, error) {
	if err := s.readErrs[title]; err != nil {
		return core.Annotation{}, false, err
	}
	data, ok := s.notes[title]
	if !ok {
		return core.Annotation{}, false, nil
	}
	return core.ParseAnnotationBytes(data), true, nil
}

func (s *memStore) Create(ctx context.Context, title string, a core.Annotation) error {
	if s.failing[title] {
		return errors.New("disk full")
	}
	if s.Exists(title) {
		return core.ErrAnnotationExists
	}
	s.creates++
	s.notes[title] = a.Bytes()
	return nil
}

type stubLookup struct {
	meta  map[string]core.Metadata
	calls int
}

func (s *stubLookup) Lookup(ctx context.Context, title, year string) (core.Metadata, error) {
	s.calls++
	m, ok := s.meta[title]
	if !ok {
		return core.Metadata{}, core.ErrNoMetadata
	}
	return m, nil
}

type recordingReporter struct {
	detects []core.DetectReport
	culls   []core.CullReport
}

func (r *recordingReporter) ReportDetect(ctx context.Context, kind core.MediaKind, rep core.DetectReport) error {
	r.detects = append(r.detects, rep)
	return nil
}

func (r *recordingReporter) ReportCull(ctx context.Context, kind core.MediaKind, rep core.CullReport) error {
	r.culls = append(r.culls, rep)
	return errors.New("dashboard unavailable")
}

func fixedClock(day int) func() time.Time {
	return func() time.Time { return time.Date(2026, 10, day, 10, 0, 0, 0, time.UTC) }
}

func newTestJob(t *testing.T, kind core.MediaKind, lib *memLibrary, store *memStore, day int, opts ...core.JobOption) *core.Job {
	t.Helper()
	job, err := core.NewJob(kind, lib, store, core.Env{Now: fixedClock(day)}, opts...)
	require.NoError(t, err)
	return job
}

func TestNewJob_Validation(t *testing.T) {
	_, err := core.NewJob(core.MediaKind{Name: "movie"}, newMemLibrary(), newMemStore(), core.Env{})
	assert.ErrorIs(t, err, core.ErrInvalidConfig)

	_, err = core.NewJob(core.Movie("/m", "/n"), nil, newMemStore(), core.Env{})
	assert.ErrorIs(t, err, core.ErrInvalidConfig)
}

func TestJob_Detect(t *testing.T) {
	ctx := context.Background()

	t.Run("Creates Only Missing Annotations", func(t *testing.T) {
		lib := newMemLibrary("Inception (2010)", "Heat [1995]", "Severance")
		store := newMemStore()
		store.put("Heat", "---\nKeeper: Y\n---\n")
		job := newTestJob(t, core.Movie("/m", "/n"), lib, store, 18)

		r, err := job.Detect(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, r.Scanned)
		assert.Equal(t, 1, r.Existing)
		assert.Equal(t, []core.Item{{Title: "Inception", Year: "2010"}, {Title: "Severance"}}, r.Created)
		assert.Empty(t, r.Failed)

		// The existing note is untouched.
		assert.Equal(t, "---\nKeeper: Y\n---\n", string(store.notes["Heat"]))

		// Year round-trips through the written scaffold.
		assert.Equal(t, "2010", job.Property(ctx, "Inception", core.PropYear))
		assert.Equal(t, "2026-10-18", job.Property(ctx, "Inception", core.PropWhen))
	})

	t.Run("Second Pass Is A No-op", func(t *testing.T) {
		lib := newMemLibrary("Inception (2010)")
		store := newMemStore()
		job := newTestJob(t, core.Movie("/m", "/n"), lib, store, 18)

		_, err := job.Detect(ctx)
		require.NoError(t, err)
		first := string(store.notes["Inception"])

		r, err := job.Detect(ctx)
		require.NoError(t, err)
		assert.Empty(t, r.Created)
		assert.Equal(t, 1, store.creates)
		assert.Equal(t, first, string(store.notes["Inception"]))
	})

	t.Run("Write Failure Continues Pass", func(t *testing.T) {
		lib := newMemLibrary("Alien (1979)", "Brazil (1985)")
		store := newMemStore()
		store.failing["Alien"] = true
		job := newTestJob(t, core.Movie("/m", "/n"), lib, store, 18)

		r, err := job.Detect(ctx)
		require.NoError(t, err)
		assert.Equal(t, []core.Item{{Title: "Alien", Year: "1979"}}, r.Failed)
		assert.Equal(t, []core.Item{{Title: "Brazil", Year: "1985"}}, r.Created)
	})

	t.Run("Lookup Enriches And Failure Degrades", func(t *testing.T) {
		lib := newMemLibrary("Alien (1979)", "Brazil (1985)")
		store := newMemStore()
		lookup := &stubLookup{meta: map[string]core.Metadata{"Alien": {Genre: "Horror"}}}
		job := newTestJob(t, core.Movie("/m", "/n"), lib, store, 18, core.WithLookup(lookup))

		r, err := job.Detect(ctx)
		require.NoError(t, err)
		assert.Len(t, r.Created, 2)
		assert.Equal(t, 2, lookup.calls)
		assert.Equal(t, "Horror", job.Property(ctx, "Alien", core.PropGenre))
		assert.Equal(t, "", job.Property(ctx, "Brazil", core.PropGenre))
	})

	t.Run("Kinds Without Enrichment Skip Lookup", func(t *testing.T) {
		lookup := &stubLookup{}
		job := newTestJob(t, core.TV("/t", "/n"), newMemLibrary("Severance"), newMemStore(), 18, core.WithLookup(lookup))

		_, err := job.Detect(ctx)
		require.NoError(t, err)
		assert.Zero(t, lookup.calls)
	})

	t.Run("Reporter Receives Result", func(t *testing.T) {
		rep := &recordingReporter{}
		job := newTestJob(t, core.TV("/t", "/n"), newMemLibrary("Severance"), newMemStore(), 18, core.WithReporter(rep))

		_, err := job.Detect(ctx)
		require.NoError(t, err)
		require.Len(t, rep.detects, 1)
		assert.Len(t, rep.detects[0].Created, 1)
	})

	t.Run("List Failure Aborts", func(t *testing.T) {
		lib := newMemLibrary()
		lib.listErr = errors.New("drive offline")
		job := newTestJob(t, core.TV("/t", "/n"), lib, newMemStore(), 18)

		_, err := job.Detect(ctx)
		assert.ErrorContains(t, err, "drive offline")
	})
}

// cullFixture is a library with one item per classification.
func cullFixture() (*memLibrary, *memStore) {
	lib := newMemLibrary(
		"Alien (1979)",   // cullable
		"Brazil (1985)",  // keeper, watched
		"Casablanca",     // retained
		"Dune (2021)",    // new
		"Eraserhead",     // unprocessed
		"Fargo [1996]",   // cullable, block tags
		"Gattaca (1997)", // keeper default N but not watched
	)
	store := newMemStore()
	store.put("Alien", "---\ntags: [movie/done]\nKeeper:\n---\n")
	store.put("Brazil", "---\ntags: [movie/done]\nKeeper: Y\n---\n")
	store.put("Casablanca", "---\ntags: [movie/planning]\nKeeper:\n---\n")
	store.put("Eraserhead", "")
	store.put("Fargo", "---\ntags:\n  - movie/done\nYear: 1996\n---\n")
	store.put("Gattaca", "---\nYear: 1997\n---\n")
	return lib, store
}

func TestJob_Cull(t *testing.T) {
	ctx := context.Background()

	t.Run("Grace Window Suppresses Deletion", func(t *testing.T) {
		lib, store := cullFixture()
		job := newTestJob(t, core.Movie("/m", "/n"), lib, store, 15)

		r, err := job.Cull(ctx)
		require.NoError(t, err)
		assert.True(t, r.Skipped)
		assert.Equal(t, 13, r.DaysRemaining)
		assert.Empty(t, r.Culled)
		assert.Len(t, lib.folders, 7)
	})

	t.Run("Grace Day Itself Is Suppressed", func(t *testing.T) {
		lib, store := cullFixture()
		job := newTestJob(t, core.Movie("/m", "/n"), lib, store, 27)

		r, err := job.Cull(ctx)
		require.NoError(t, err)
		assert.True(t, r.Skipped)
		assert.Equal(t, 1, r.DaysRemaining)
	})

	t.Run("Skipped Pass Is Still Reported", func(t *testing.T) {
		lib, store := cullFixture()
		rep := &recordingReporter{}
		job := newTestJob(t, core.Movie("/m", "/n"), lib, store, 10, core.WithReporter(rep))

		_, err := job.Cull(ctx)
		require.NoError(t, err)
		require.Len(t, rep.culls, 1)
		assert.True(t, rep.culls[0].Skipped)
		assert.Equal(t, 18, rep.culls[0].DaysRemaining)
	})

	t.Run("Deletes All And Only Cullable", func(t *testing.T) {
		lib, store := cullFixture()
		job := newTestJob(t, core.Movie("/m", "/n"), lib, store, 28)

		r, err := job.Cull(ctx)
		require.NoError(t, err)
		assert.False(t, r.Skipped)
		assert.Equal(t, []core.Item{{Title: "Alien", Year: "1979"}, {Title: "Fargo", Year: "1996"}}, r.Culled)
		assert.Equal(t, 7, r.Scanned)
		assert.Equal(t, 1, r.Keepers)
		assert.Equal(t, 2, r.Unwatched)
		assert.Equal(t, 1, r.New)
		assert.Equal(t, 1, r.Unprocessed)

		remaining, _ := lib.Folders(ctx)
		assert.Equal(t, []string{"Brazil (1985)", "Casablanca", "Dune (2021)", "Eraserhead", "Gattaca (1997)"}, remaining)

		// Annotations are never removed.
		assert.True(t, store.Exists("Alien"))
	})

	t.Run("Configurable Grace Day", func(t *testing.T) {
		lib, store := cullFixture()
		job := newTestJob(t, core.Movie("/m", "/n"), lib, store, 15, core.WithGraceDay(10))

		r, err := job.Cull(ctx)
		require.NoError(t, err)
		assert.Len(t, r.Culled, 2)
	})

	t.Run("Dry Run Deletes Nothing", func(t *testing.T) {
		lib, store := cullFixture()
		job := newTestJob(t, core.Movie("/m", "/n"), lib, store, 28, core.WithDryRun(true))

		r, err := job.Cull(ctx)
		require.NoError(t, err)
		assert.True(t, r.DryRun)
		assert.Len(t, r.Culled, 2)
		assert.Len(t, lib.folders, 7)
	})

	t.Run("Deletion Failure Continues Pass", func(t *testing.T) {
		lib, store := cullFixture()
		lib.locked["Alien (1979)"] = true
		job := newTestJob(t, core.Movie("/m", "/n"), lib, store, 28)

		r, err := job.Cull(ctx)
		require.NoError(t, err)
		assert.Equal(t, []core.Item{{Title: "Alien", Year: "1979"}}, r.Failed)
		assert.Equal(t, []core.Item{{Title: "Fargo", Year: "1996"}}, r.Culled)
	})

	t.Run("Read Failure Counts As Error", func(t *testing.T) {
		lib, store := cullFixture()
		store.readErrs["Alien"] = errors.New("permission denied")
		job := newTestJob(t, core.Movie("/m", "/n"), lib, store, 28)

		r, err := job.Cull(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, r.Errors)
		assert.Contains(t, lib.folders, "Alien (1979)")
	})

	t.Run("Report Failure Is Not Fatal", func(t *testing.T) {
		lib, store := cullFixture()
		rep := &recordingReporter{}
		job := newTestJob(t, core.Movie("/m", "/n"), lib, store, 28, core.WithReporter(rep))

		_, err := job.Cull(ctx)
		require.NoError(t, err)
		assert.Len(t, rep.culls, 1)
	})
}

func TestJob_Queries(t *testing.T) {
	ctx := context.Background()
	lib, store := cullFixture()
	job := newTestJob(t, core.Movie("/m", "/n"), lib, store, 3)

	cull, err := job.CullList(ctx)
	require.NoError(t, err)
	assert.Equal(t, []core.Item{{Title: "Alien", Year: "1979"}, {Title: "Fargo", Year: "1996"}}, cull)

	unprocessed, err := job.Unprocessed(ctx)
	require.NoError(t, err)
	assert.Equal(t, []core.Item{{Title: "Eraserhead"}}, unprocessed)

	items, err := job.Items(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 7)

	assert.Equal(t, "Y", job.Property(ctx, "Brazil", core.PropKeeper))
	assert.Equal(t, "N", job.Property(ctx, "Gattaca", core.PropKeeper))
	assert.Equal(t, "?", job.Property(ctx, "Gattaca", core.PropRating))
	assert.Equal(t, "?", job.Property(ctx, "Dune", core.PropYear))

	v, err := job.Classify(ctx, core.ParseItem("Dune (2021)"))
	require.NoError(t, err)
	assert.Equal(t, core.New, v.Class)
}

func TestJob_ClassifyLogsMalformedLines(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	store.put("Heat", "---\ntags: [movie/done]\nKeeper\nYear: 1995\n---\n")

	var buf bytes.Buffer
	env := core.Env{
		Logger: slog.New(slog.NewTextHandler(&buf, nil)),
		Now:    fixedClock(3),
	}
	job, err := core.NewJob(core.Movie("/m", "/n"), newMemLibrary("Heat (1995)"), store, env)
	require.NoError(t, err)

	v, err := job.Classify(ctx, core.ParseItem("Heat (1995)"))
	require.NoError(t, err)
	assert.Equal(t, core.Cullable, v.Class)

	out := buf.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, `msg="malformed property line"`)
	assert.Contains(t, out, "title=Heat")
	assert.Contains(t, out, "property=Keeper")
	assert.Equal(t, 1, strings.Count(out, "malformed property line"))
}

func TestJob_State(t *testing.T) {
	lib, store := cullFixture()
	job := newTestJob(t, core.Movie("/m", "/n"), lib, store, 28)

	state := job.State().(core.JobState)
	assert.Equal(t, "movie", state.Kind)
	assert.Nil(t, state.LastCull)

	_, err := job.Cull(context.Background())
	require.NoError(t, err)

	state = job.State().(core.JobState)
	require.NotNil(t, state.LastCull)
	assert.Equal(t, 28, state.LastCull.Day())
	assert.Equal(t, "job", job.ComponentType())
}
