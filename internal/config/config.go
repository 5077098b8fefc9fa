// Package config provides configuration loading for butler.
package config

import (
	"path/filepath"
	"time"

	"github.com/aretw0/butler/pkg/core"
)

// Config is the complete butler configuration.
type Config struct {
	Library  LibraryConfig  `koanf:"library"`
	Notes    NotesConfig    `koanf:"notes"`
	Kinds    []KindConfig   `koanf:"kinds"`
	Cull     CullConfig     `koanf:"cull"`
	Schedule ScheduleConfig `koanf:"schedule"`
	Log      LogConfig      `koanf:"log"`
	Metadata MetadataConfig `koanf:"metadata"`
	Tags     TagsConfig     `koanf:"tags"`
	Lock     LockConfig     `koanf:"lock"`
}

// LibraryConfig points at the media libraries. An empty root disables its kind.
type LibraryConfig struct {
	Movies string   `koanf:"movies"`
	TV     string   `koanf:"tv"`
	Ignore []string `koanf:"ignore"`
}

// NotesConfig locates the annotation vault.
type NotesConfig struct {
	Root string `koanf:"root"`
	// Movies and TV are annotation roots, relative to Root unless absolute.
	Movies string `koanf:"movies"`
	TV     string `koanf:"tv"`
	// Dashboard is the note receiving reports, relative to Root. Empty disables it.
	Dashboard  string `koanf:"dashboard"`
	Versioning bool   `koanf:"versioning"`
}

// KindConfig declares an extra media kind beyond movies and TV.
type KindConfig struct {
	Name          string `koanf:"name"`
	Library       string `koanf:"library"`
	Notes         string `koanf:"notes"`
	Enrich        bool   `koanf:"enrich"`
	CompletionTag string `koanf:"completion_tag"`
	PlanningTag   string `koanf:"planning_tag"`
}

// CullConfig tunes the cull pass.
type CullConfig struct {
	GraceDay int  `koanf:"grace_day"`
	DryRun   bool `koanf:"dry_run"`
}

// ScheduleConfig drives the long-running loop.
type ScheduleConfig struct {
	Interval time.Duration `koanf:"interval"`
	// KnockOff is a time of day ("23:00") after which the loop exits.
	KnockOff string `koanf:"knock_off"`
	// Watch wakes the loop early when library folders change.
	Watch bool `koanf:"watch"`
	// Start is the date incident-free days are counted from.
	Start string `koanf:"start"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `koanf:"level"`
	// File is a path prefix; a daily "<file>-YYYY-MM-DD.log" is appended to.
	File string `koanf:"file"`
}

// MetadataConfig locates the metadata catalog.
type MetadataConfig struct {
	Catalog string `koanf:"catalog"`
}

// TagsConfig tunes tag extraction.
type TagsConfig struct {
	Normalize bool `koanf:"normalize"`
}

// LockConfig names the single-instance lock file.
type LockConfig struct {
	File string `koanf:"file"`
}

// MediaKinds returns the descriptors of every configured kind, movies first.
func (c *Config) MediaKinds() []core.MediaKind {
	var kinds []core.MediaKind
	if c.Library.Movies != "" {
		kinds = append(kinds, core.Movie(c.Library.Movies, c.notesPath(c.Notes.Movies)))
	}
	if c.Library.TV != "" {
		kinds = append(kinds, core.TV(c.Library.TV, c.notesPath(c.Notes.TV)))
	}
	for _, kc := range c.Kinds {
		k := core.NewKind(kc.Name, kc.Library, c.notesPath(kc.Notes), kc.Enrich)
		if kc.CompletionTag != "" {
			k.CompletionTag = kc.CompletionTag
		}
		if kc.PlanningTag != "" {
			k.PlanningTag = kc.PlanningTag
		}
		kinds = append(kinds, k)
	}
	return kinds
}

// DashboardEnabled reports whether reports go to a dashboard note.
func (c *Config) DashboardEnabled() bool {
	return c.Notes.Dashboard != ""
}

// StartDate parses Schedule.Start. Invalid dates are rejected by Validate.
func (c *Config) StartDate() time.Time {
	t, _ := time.ParseInLocation(core.DateLayout, c.Schedule.Start, time.Local)
	return t
}

// KnockOffClock parses Schedule.KnockOff into hours and minutes since midnight.
// ok is false when no knock-off time is set.
func (c *Config) KnockOffClock() (d time.Duration, ok bool) {
	if c.Schedule.KnockOff == "" {
		return 0, false
	}
	t, err := time.Parse(clockLayout, c.Schedule.KnockOff)
	if err != nil {
		return 0, false
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, true
}

func (c *Config) notesPath(p string) string {
	if p == "" || filepath.IsAbs(p) || c.Notes.Root == "" {
		return p
	}
	return filepath.Join(c.Notes.Root, p)
}
