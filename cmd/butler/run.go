package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var runOnce bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Reconcile every library repeatedly until knock-off time",
	Long: `Run detects and culls every configured media kind, then waits for
schedule.interval (or, with schedule.watch, for a library change) and repeats
until schedule.knock_off. Interrupts are honored between cycles.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		cfg := loadConfig()
		rt := openRuntime(ctx, cfg)
		defer rt.Close()
		rt.LogSettings()

		var wake <-chan struct{}
		if cfg.Schedule.Watch && !runOnce {
			signals, err := rt.Watcher().Watch(ctx)
			if err != nil {
				slog.Warn("library watch unavailable, falling back to the interval", "error", err)
			} else {
				wake = signals
			}
		}

		s := rt.Scheduler(wake)
		if runOnce {
			res := s.Cycle(ctx)
			if res.Errors > 0 {
				os.Exit(2)
			}
			return
		}
		if err := s.Run(ctx); err != nil {
			fatal("Error running scheduler", err)
		}
	},
}

func init() {
	runCmd.Flags().BoolVar(&runOnce, "once", false, "Run a single cycle and exit (exit status 2 when it had errors)")
	rootCmd.AddCommand(runCmd)
}
