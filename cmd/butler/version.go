package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/butler"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of butler",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("butler version %s\n", strings.TrimSpace(butler.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
