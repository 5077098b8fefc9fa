package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/butler/pkg/core"
)

const sampleYAML = `
library:
  movies: /media/Movies
  tv: /media/TV
notes:
  root: /vault
  tv: Shows
  versioning: true
cull:
  dry_run: true
schedule:
  interval: 15m
  knock_off: "23:30"
  watch: true
log:
  file: /var/log/butler
metadata:
  catalog: /vault/catalog.yaml
kinds:
  - name: anime
    library: /media/Anime
    notes: /vault/Anime
    completion_tag: anime/finished
`

func TestLoad(t *testing.T) {
	t.Run("File Values And Defaults", func(t *testing.T) {
		cfg, err := load([]byte(sampleYAML))
		require.NoError(t, err)

		assert.Equal(t, "/media/Movies", cfg.Library.Movies)
		assert.Equal(t, DefaultIgnore, cfg.Library.Ignore)
		assert.True(t, cfg.Notes.Versioning)
		assert.Equal(t, DefaultDashboard, cfg.Notes.Dashboard)
		assert.Equal(t, core.DefaultGraceDay, cfg.Cull.GraceDay)
		assert.True(t, cfg.Cull.DryRun)
		assert.Equal(t, 15*time.Minute, cfg.Schedule.Interval)
		assert.Equal(t, DefaultStart, cfg.Schedule.Start)
		assert.Equal(t, DefaultLogLevel, cfg.Log.Level)
		assert.Equal(t, DefaultLockFile, cfg.Lock.File)

		off, ok := cfg.KnockOffClock()
		assert.True(t, ok)
		assert.Equal(t, 23*time.Hour+30*time.Minute, off)
		assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local), cfg.StartDate())
	})

	t.Run("Media Kinds", func(t *testing.T) {
		cfg, err := load([]byte(sampleYAML))
		require.NoError(t, err)

		kinds := cfg.MediaKinds()
		require.Len(t, kinds, 3)

		assert.Equal(t, "movie", kinds[0].Name)
		assert.Equal(t, filepath.Join("/vault", "Movies"), kinds[0].AnnotationRoot)
		assert.True(t, kinds[0].Enrich)

		assert.Equal(t, "tv", kinds[1].Name)
		assert.Equal(t, filepath.Join("/vault", "Shows"), kinds[1].AnnotationRoot)
		assert.Equal(t, "tv/done", kinds[1].CompletionTag)

		assert.Equal(t, "anime", kinds[2].Name)
		assert.Equal(t, "/vault/Anime", kinds[2].AnnotationRoot)
		assert.Equal(t, "anime/finished", kinds[2].CompletionTag)
		assert.Equal(t, "anime/planning", kinds[2].PlanningTag)
	})

	t.Run("Environment Overrides File", func(t *testing.T) {
		t.Setenv("BUTLER_CULL_GRACE_DAY", "20")
		t.Setenv("BUTLER_CULL_DRY_RUN", "false")
		t.Setenv("BUTLER_LIBRARY_IGNORE", "@eaDir,#recycle")
		t.Setenv("BUTLER_LOG_LEVEL", "debug")
		t.Setenv("BUTLER_LOCK_FILE", "/run/butler.lock")

		cfg, err := load([]byte(sampleYAML))
		require.NoError(t, err)

		assert.Equal(t, 20, cfg.Cull.GraceDay)
		assert.False(t, cfg.Cull.DryRun)
		assert.Equal(t, []string{"@eaDir", "#recycle"}, cfg.Library.Ignore)
		assert.Equal(t, "debug", cfg.Log.Level)
		assert.Equal(t, "/run/butler.lock", cfg.Lock.File)
	})

	t.Run("Environment Alone", func(t *testing.T) {
		t.Setenv("BUTLER_NOTES_ROOT", "/vault")
		t.Setenv("BUTLER_LIBRARY_TV", "/media/TV")

		cfg, err := load(nil)
		require.NoError(t, err)
		require.Len(t, cfg.MediaKinds(), 1)
		assert.Equal(t, "tv", cfg.MediaKinds()[0].Name)
	})

	t.Run("Missing File Is Fine", func(t *testing.T) {
		t.Setenv("BUTLER_NOTES_ROOT", "/vault")
		t.Setenv("BUTLER_LIBRARY_MOVIES", "/media/Movies")

		cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		require.NoError(t, err)
		assert.Equal(t, "/media/Movies", cfg.Library.Movies)
	})

	t.Run("Reads File", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "butler.yaml")
		require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0600))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "/vault", cfg.Notes.Root)
	})

	t.Run("Malformed YAML", func(t *testing.T) {
		_, err := load([]byte("library: [unclosed"))
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := &Config{
			Library: LibraryConfig{Movies: "/media/Movies"},
			Notes:   NotesConfig{Root: "/vault"},
		}
		applyDefaults(cfg)
		return cfg
	}

	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no notes root", func(c *Config) { c.Notes.Root = "" }},
		{"no libraries", func(c *Config) { c.Library.Movies = "" }},
		{"duplicate kind", func(c *Config) {
			c.Kinds = []KindConfig{{Name: "movie", Library: "/x", Notes: "/y"}}
		}},
		{"unnamed kind", func(c *Config) {
			c.Kinds = []KindConfig{{Library: "/x", Notes: "/y"}}
		}},
		{"grace day out of range", func(c *Config) { c.Cull.GraceDay = 40 }},
		{"tiny interval", func(c *Config) { c.Schedule.Interval = time.Millisecond }},
		{"bad knock off", func(c *Config) { c.Schedule.KnockOff = "late" }},
		{"bad start", func(c *Config) { c.Schedule.Start = "01/01/2024" }},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), core.ErrInvalidConfig)
		})
	}
}
