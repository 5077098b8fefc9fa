package config

import (
	"time"

	"github.com/aretw0/butler/pkg/core"
)

const (
	DefaultInterval  = 60 * time.Minute
	DefaultStart     = "2024-01-01"
	DefaultLogLevel  = "info"
	DefaultDashboard = "Dashboard.md"
	DefaultLockFile  = ".butler/butler.lock"

	clockLayout = "15:04"
)

// DefaultIgnore skips NAS metadata folders and hidden folders.
var DefaultIgnore = []string{"@eaDir", ".*"}

// applyDefaults fills in every value left empty by the file and environment.
func applyDefaults(cfg *Config) {
	if cfg.Library.Ignore == nil {
		cfg.Library.Ignore = append([]string(nil), DefaultIgnore...)
	}

	if cfg.Notes.Movies == "" {
		cfg.Notes.Movies = "Movies"
	}
	if cfg.Notes.TV == "" {
		cfg.Notes.TV = "TV"
	}
	if cfg.Notes.Dashboard == "" {
		cfg.Notes.Dashboard = DefaultDashboard
	}

	if cfg.Cull.GraceDay == 0 {
		cfg.Cull.GraceDay = core.DefaultGraceDay
	}

	if cfg.Schedule.Interval == 0 {
		cfg.Schedule.Interval = DefaultInterval
	}
	if cfg.Schedule.Start == "" {
		cfg.Schedule.Start = DefaultStart
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}

	if cfg.Lock.File == "" {
		cfg.Lock.File = DefaultLockFile
	}
}
