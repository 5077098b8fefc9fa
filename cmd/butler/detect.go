package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var detectCmd = &cobra.Command{
	Use:   "detect [kind...]",
	Short: "Write a scaffold note for every library folder without one",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		cfg := loadConfig()
		rt := openRuntime(ctx, cfg)
		defer rt.Close()

		for _, job := range selectJobs(rt, args) {
			r, err := job.Detect(ctx)
			if err != nil {
				fatal("Error detecting "+job.Kind().Name, err)
			}
			fmt.Printf("%s: scanned %d, annotated %d, created %d, failed %d\n",
				job.Kind().Name, r.Scanned, r.Existing, len(r.Created), len(r.Failed))
			for _, item := range r.Created {
				fmt.Printf("  + %s\n", item)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(detectCmd)
}
