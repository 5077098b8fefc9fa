package main

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/butler/pkg/adapters/fs"
)

var injectCmd = &cobra.Command{
	Use:   "inject <target> <tag> [file]",
	Short: "Upsert a tagged markdown region into a note",
	Long: `Inject replaces the region between
  <!-- butler:begin <tag> -->
  <!-- butler:end <tag> -->
in target (relative to notes.root) with the markdown read from file, or from
stdin when file is omitted or "-". The region is appended when missing.`,
	Args: cobra.RangeArgs(2, 3),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()

		var (
			data []byte
			err  error
		)
		if len(args) < 3 || args[2] == "-" {
			data, err = io.ReadAll(cmd.InOrStdin())
		} else {
			data, err = os.ReadFile(args[2])
		}
		if err != nil {
			fatal("Error reading markdown", err)
		}

		injector := fs.NewInjector(cfg.Notes.Root)
		if err := injector.Inject(context.Background(), args[0], args[1], string(data)); err != nil {
			fatal("Error injecting markdown", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(injectCmd)
}
