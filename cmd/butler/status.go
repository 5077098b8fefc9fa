package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/butler/internal/platform"
	"github.com/aretw0/butler/pkg/core"
	"github.com/aretw0/butler/pkg/report"
)

var (
	statusYAML   bool
	statusFilter string
	statusState  bool
)

// statusRow is one line of `butler status`.
type statusRow struct {
	Kind     string `yaml:"kind"`
	Title    string `yaml:"title"`
	Year     string `yaml:"year,omitempty"`
	Class    string `yaml:"class"`
	Watched  bool   `yaml:"watched"`
	Keeper   bool   `yaml:"keeper"`
	Priority string `yaml:"priority"`
	Error    string `yaml:"error,omitempty"`
}

var statusCmd = &cobra.Command{
	Use:   "status [kind...]",
	Short: "Show how every library item is classified",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		cfg := loadConfig()
		rt := openRuntime(ctx, cfg, platform.WithReadOnly())
		defer rt.Close()

		jobs := selectJobs(rt, args)
		if statusState {
			printState(jobs, rt)
			return
		}

		rows, err := collectStatus(ctx, jobs, statusFilter)
		if err != nil {
			fatal("Error reading status", err)
		}

		if statusYAML {
			enc := yaml.NewEncoder(os.Stdout)
			enc.SetIndent(2)
			if err := enc.Encode(rows); err != nil {
				fatal("Error encoding status", err)
			}
			return
		}

		table := make([][]string, 0, len(rows))
		for _, r := range rows {
			class := r.Class
			if r.Error != "" {
				class = "error: " + r.Error
			}
			table = append(table, []string{r.Kind, r.Title, r.Year, class, r.Priority})
		}
		fmt.Println(report.Text(
			[]string{"Kind", "Title", "Year", "Class", "Priority"},
			table,
			report.AlignLeft, report.AlignLeft, report.AlignRight, report.AlignLeft, report.AlignRight,
		))
	},
}

func collectStatus(ctx context.Context, jobs []*core.Job, filter string) ([]statusRow, error) {
	var rows []statusRow
	for _, job := range jobs {
		statuses, err := job.Status(ctx)
		if err != nil {
			return nil, err
		}
		for _, s := range statuses {
			class := s.Verdict.Class.String()
			if filter != "" && filter != class {
				continue
			}
			row := statusRow{
				Kind:     job.Kind().Name,
				Title:    s.Item.Title,
				Year:     s.Item.Year,
				Class:    class,
				Watched:  s.Verdict.Watched(),
				Keeper:   s.Verdict.IsKeeper(),
				Priority: job.Property(ctx, s.Item.Title, core.PropPriority),
			}
			if s.Err != nil {
				row.Error = s.Err.Error()
			}
			rows = append(rows, row)
		}
	}
	return rows, nil
}

func printState(jobs []*core.Job, rt *platform.Runtime) {
	states := map[string][]any{}
	for _, j := range jobs {
		states[j.ComponentType()] = append(states[j.ComponentType()], j.State())
	}
	for _, s := range rt.Stores {
		states[s.ComponentType()] = append(states[s.ComponentType()], s.State())
	}
	if err := yaml.NewEncoder(os.Stdout).Encode(states); err != nil {
		fatal("Error encoding state", err)
	}
}

func init() {
	statusCmd.Flags().BoolVar(&statusYAML, "yaml", false, "Output as YAML")
	statusCmd.Flags().StringVar(&statusFilter, "class", "", "Only show items of this class (new, unprocessed, keeper, cullable, retained)")
	statusCmd.Flags().BoolVar(&statusState, "state", false, "Print the internal state of jobs and stores")
	rootCmd.AddCommand(statusCmd)
}
