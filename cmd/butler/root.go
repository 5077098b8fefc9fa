package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/butler/internal/config"
	"github.com/aretw0/butler/internal/platform"
)

var (
	verbose    bool
	configPath string

	// logCloser closes the daily log file opened in PersistentPreRun.
	logCloser io.Closer = io.NopCloser(nil)
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "butler",
	Short: "Keeps a media library and its markdown notes in step",
	Long: `Butler writes a scaffold note for every new movie or show folder and,
once the monthly grace window has passed, deletes the folders whose notes
say they were watched and are not keepers.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		slog.SetDefault(logger)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logCloser.Close()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: butler.yaml found upwards from the working directory)")
}

// loadConfig resolves the config file, loads it and switches the default
// logger to the configured level and daily log file.
func loadConfig() *config.Config {
	path := configPath
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			fatal("Error getting working directory", err)
		}
		found, err := platform.FindConfig(wd)
		if err != nil && !errors.Is(err, platform.ErrConfigNotFound) {
			fatal("Error locating config", err)
		}
		path = found
	}

	cfg, err := config.Load(path)
	if err != nil {
		fatal("Error loading config", err)
	}

	logger, closer, err := newLogger(cfg.Log, verbose, time.Now())
	if err != nil {
		fatal("Error opening log file", err)
	}
	logCloser = closer
	slog.SetDefault(logger)
	slog.Debug("config loaded", "path", path)
	return cfg
}
