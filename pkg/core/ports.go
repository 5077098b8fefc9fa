package core

import (
	"context"
	"log/slog"
	"time"
)

// Library lists and removes the title folders under one library root.
type Library interface {
	// Folders returns the names of the immediate subfolders of the root.
	Folders(ctx context.Context) ([]string, error)

	// Remove recursively deletes the named folder.
	Remove(ctx context.Context, folder string) error
}

// AnnotationStore maps a title to its annotation note.
type AnnotationStore interface {
	// Exists reports whether an annotation exists for title.
	Exists(title string) bool

	// Read returns the parsed annotation. A missing note is not an error:
	// it yields an empty annotation and exists == false.
	Read(ctx context.Context, title string) (a Annotation, exists bool, err error)

	// Create writes a new annotation. It never replaces an existing note and
	// returns ErrAnnotationExists instead.
	Create(ctx context.Context, title string, a Annotation) error
}

// Metadata enriches a scaffold. Every field may be empty.
type Metadata struct {
	Genre     string
	Cast      string
	Plot      string
	PosterURL string
}

// MetadataLookup finds metadata for a title. year may be empty.
type MetadataLookup interface {
	Lookup(ctx context.Context, title, year string) (Metadata, error)
}

// Injector upserts a named block into a shared markdown note.
type Injector interface {
	Inject(ctx context.Context, target, tag, markdown string) error
}

// Reporter publishes pass results, e.g. to a dashboard note.
type Reporter interface {
	ReportDetect(ctx context.Context, kind MediaKind, r DetectReport) error
	ReportCull(ctx context.Context, kind MediaKind, r CullReport) error
}

// Env carries the ambient collaborators of a job so none of them is global.
type Env struct {
	Logger *slog.Logger
	Now    func() time.Time
}

func (e Env) logger() *slog.Logger {
	if e.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return e.Logger
}

func (e Env) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}
