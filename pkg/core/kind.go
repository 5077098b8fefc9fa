package core

import (
	"fmt"
	"time"
)

// DateLayout formats the "when" scaffold field.
const DateLayout = "2006-01-02"

// ScaffoldFunc builds the annotation written for a newly detected item.
type ScaffoldFunc func(kind MediaKind, item Item, meta Metadata, now time.Time) Annotation

// MediaKind describes one kind of media the engine reconciles. Adding a kind
// means supplying one descriptor; the engine itself is shared.
type MediaKind struct {
	Name           string
	LibraryRoot    string
	AnnotationRoot string
	CompletionTag  string
	PlanningTag    string
	// How is the default value of the How field, e.g. "Plex".
	How string
	// Enrich asks the job to consult the MetadataLookup before writing a scaffold.
	Enrich   bool
	Scaffold ScaffoldFunc
}

// Movie returns the descriptor for a movie library.
func Movie(libraryRoot, annotationRoot string) MediaKind {
	return NewKind("movie", libraryRoot, annotationRoot, true)
}

// TV returns the descriptor for a TV library.
func TV(libraryRoot, annotationRoot string) MediaKind {
	return NewKind("tv", libraryRoot, annotationRoot, false)
}

// NewKind returns a descriptor whose tags derive from name ("<name>/done",
// "<name>/planning") and which uses the standard scaffold.
func NewKind(name, libraryRoot, annotationRoot string, enrich bool) MediaKind {
	return MediaKind{
		Name:           name,
		LibraryRoot:    libraryRoot,
		AnnotationRoot: annotationRoot,
		CompletionTag:  name + "/done",
		PlanningTag:    name + "/planning",
		How:            "Plex",
		Enrich:         enrich,
		Scaffold:       StandardScaffold,
	}
}

// Build renders the scaffold for item, falling back to StandardScaffold.
func (k MediaKind) Build(item Item, meta Metadata, now time.Time) Annotation {
	if k.Scaffold == nil {
		return StandardScaffold(k, item, meta, now)
	}
	return k.Scaffold(k, item, meta, now)
}

// Validate checks that the descriptor can drive a job.
func (k MediaKind) Validate() error {
	switch {
	case k.Name == "":
		return fmt.Errorf("%w: media kind has no name", ErrInvalidConfig)
	case k.LibraryRoot == "":
		return fmt.Errorf("%w: %s: library root is empty", ErrInvalidConfig, k.Name)
	case k.AnnotationRoot == "":
		return fmt.Errorf("%w: %s: annotation root is empty", ErrInvalidConfig, k.Name)
	case k.CompletionTag == "":
		return fmt.Errorf("%w: %s: completion tag is empty", ErrInvalidConfig, k.Name)
	}
	return nil
}

// StandardScaffold writes the fixed frontmatter keys (tags, Priority, when,
// genre, rating, Year, Completion, Keeper, How, With) and a body headed by the
// title. Whatever enrichment meta carries is appended below the heading.
func StandardScaffold(kind MediaKind, item Item, meta Metadata, now time.Time) Annotation {
	a := Annotation{
		Frontmatter: []string{
			"tags: [" + kind.PlanningTag + "]",
			field(PropPriority, "5"),
			field(PropWhen, now.Format(DateLayout)),
			field(PropGenre, meta.Genre),
			field(PropRating, ""),
			field(PropYear, item.Year),
			field(PropCompletion, ""),
			field(PropKeeper, ""),
			field(PropHow, kind.How),
			field(PropWith, ""),
		},
		Body: []string{"", "# " + item.Title},
	}
	if meta.Cast != "" {
		a.Body = append(a.Body, "", "Cast: "+meta.Cast)
	}
	if meta.Plot != "" {
		a.Body = append(a.Body, "", meta.Plot)
	}
	if meta.PosterURL != "" {
		a.Body = append(a.Body, "", "![poster]("+meta.PosterURL+")")
	}
	return a
}

func field(name, value string) string {
	if value == "" {
		return name + ":"
	}
	return name + ": " + value
}
