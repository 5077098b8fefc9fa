package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/butler/internal/config"
)

func TestNewLogger(t *testing.T) {
	now := time.Date(2026, 10, 18, 8, 0, 0, 0, time.UTC)

	t.Run("Daily File", func(t *testing.T) {
		prefix := filepath.Join(t.TempDir(), "logs", "LogFile")
		logger, closer, err := newLogger(config.LogConfig{Level: "info", File: prefix}, false, now)
		require.NoError(t, err)

		logger.Info("no errors found")
		logger.Debug("hidden")
		require.NoError(t, closer.Close())

		data, err := os.ReadFile(prefix + "-2026-10-18.log")
		require.NoError(t, err)
		assert.Contains(t, string(data), "no errors found")
		assert.NotContains(t, string(data), "hidden")
	})

	t.Run("Verbose Wins", func(t *testing.T) {
		prefix := filepath.Join(t.TempDir(), "butler")
		logger, closer, err := newLogger(config.LogConfig{Level: "warn", File: prefix}, true, now)
		require.NoError(t, err)

		logger.Debug("details")
		require.NoError(t, closer.Close())

		data, err := os.ReadFile(dailyLogPath(prefix, now))
		require.NoError(t, err)
		assert.Contains(t, string(data), "details")
	})

	t.Run("Stderr Only", func(t *testing.T) {
		logger, closer, err := newLogger(config.LogConfig{Level: "debug"}, false, now)
		require.NoError(t, err)
		assert.NotNil(t, logger)
		assert.NoError(t, closer.Close())
	})
}
