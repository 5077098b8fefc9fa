package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/butler/internal/config"
	"github.com/aretw0/butler/internal/platform"
	"github.com/aretw0/butler/pkg/core"
)

// openRuntime builds the runtime or exits. A held instance lock gets a
// friendlier message than the raw error.
func openRuntime(ctx context.Context, cfg *config.Config, opts ...platform.Option) *platform.Runtime {
	opts = append([]platform.Option{platform.WithLogger(slog.Default())}, opts...)
	rt, err := platform.New(ctx, cfg, opts...)
	if errors.Is(err, core.ErrAlreadyRunning) {
		fmt.Fprintln(os.Stderr, "Another butler is reconciling these libraries; try again later.")
		os.Exit(1)
	}
	if err != nil {
		fatal("Error initializing butler", err)
	}
	return rt
}

func selectJobs(rt *platform.Runtime, kinds []string) []*core.Job {
	jobs, err := rt.Select(kinds...)
	if err != nil {
		fatal("Error selecting media kinds", err)
	}
	return jobs
}
