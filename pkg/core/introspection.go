package core

import (
	"time"

	"github.com/aretw0/introspection"
)

// JobState exposes internal state for observability.
type JobState struct {
	Kind           string     `json:"kind"`
	LibraryRoot    string     `json:"library_root"`
	AnnotationRoot string     `json:"annotation_root"`
	CompletionTag  string     `json:"completion_tag"`
	GraceDay       int        `json:"grace_day"`
	DryRun         bool       `json:"dry_run"`
	Enriched       bool       `json:"enriched"`
	LastDetect     *time.Time `json:"last_detect,omitempty"`
	LastCull       *time.Time `json:"last_cull,omitempty"`
}

// State implements introspection.Introspectable.
func (j *Job) State() any {
	j.mu.RLock()
	defer j.mu.RUnlock()

	return JobState{
		Kind:           j.kind.Name,
		LibraryRoot:    j.kind.LibraryRoot,
		AnnotationRoot: j.kind.AnnotationRoot,
		CompletionTag:  j.kind.CompletionTag,
		GraceDay:       j.graceDay,
		DryRun:         j.dryRun,
		Enriched:       j.kind.Enrich && j.lookup != nil,
		LastDetect:     j.lastDetect,
		LastCull:       j.lastCull,
	}
}

// ComponentType implements introspection.Component.
func (j *Job) ComponentType() string {
	return "job"
}

var _ introspection.Introspectable = (*Job)(nil)
var _ introspection.Component = (*Job)(nil)
