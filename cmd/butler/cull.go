package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/butler/internal/platform"
)

var cullDryRun bool

var cullCmd = &cobra.Command{
	Use:   "cull [kind...]",
	Short: "Delete watched, non-keeper folders once the grace window has passed",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		cfg := loadConfig()

		var opts []platform.Option
		if cmd.Flags().Changed("dry-run") {
			opts = append(opts, platform.WithDryRun(cullDryRun))
		}
		rt := openRuntime(ctx, cfg, opts...)
		defer rt.Close()

		for _, job := range selectJobs(rt, args) {
			r, err := job.Cull(ctx)
			if err != nil {
				fatal("Error culling "+job.Kind().Name, err)
			}
			name := job.Kind().Name
			if r.Skipped {
				fmt.Printf("%s: grace window, culling starts in %d day(s)\n", name, r.DaysRemaining)
				continue
			}
			verb := "culled"
			if r.DryRun {
				verb = "would cull"
			}
			fmt.Printf("%s: scanned %d, keepers %d, unwatched %d, unprocessed %d, new %d, %s %d, failed %d\n",
				name, r.Scanned, r.Keepers, r.Unwatched, r.Unprocessed, r.New, verb, len(r.Culled), len(r.Failed))
			for _, item := range r.Culled {
				fmt.Printf("  - %s\n", item)
			}
		}
	},
}

func init() {
	cullCmd.Flags().BoolVar(&cullDryRun, "dry-run", false, "Log what would be deleted without deleting (overrides cull.dry_run)")
	rootCmd.AddCommand(cullCmd)
}
