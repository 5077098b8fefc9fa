package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aretw0/butler/pkg/core"
)

// Validate checks the configuration after defaults were applied.
func (c *Config) Validate() error {
	var errs []error

	if c.Notes.Root == "" {
		errs = append(errs, errors.New("notes.root is required"))
	}
	kinds := c.MediaKinds()
	if len(kinds) == 0 {
		errs = append(errs, errors.New("no media library configured (library.movies, library.tv or kinds)"))
	}
	seen := make(map[string]bool)
	for _, k := range kinds {
		if err := k.Validate(); err != nil {
			errs = append(errs, err)
		}
		if seen[k.Name] {
			errs = append(errs, fmt.Errorf("media kind %q declared twice", k.Name))
		}
		seen[k.Name] = true
	}

	if c.Cull.GraceDay < 0 || c.Cull.GraceDay > 31 {
		errs = append(errs, fmt.Errorf("cull.grace_day must be within 0..31, got %d", c.Cull.GraceDay))
	}
	if c.Schedule.Interval < time.Second {
		errs = append(errs, fmt.Errorf("schedule.interval must be at least 1s, got %s", c.Schedule.Interval))
	}
	if c.Schedule.KnockOff != "" {
		if _, err := time.Parse(clockLayout, c.Schedule.KnockOff); err != nil {
			errs = append(errs, fmt.Errorf("schedule.knock_off must look like 23:00, got %q", c.Schedule.KnockOff))
		}
	}
	if _, err := time.Parse(core.DateLayout, c.Schedule.Start); err != nil {
		errs = append(errs, fmt.Errorf("schedule.start must look like 2024-01-01, got %q", c.Schedule.Start))
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level must be debug, info, warn or error, got %q", c.Log.Level))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", core.ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}
