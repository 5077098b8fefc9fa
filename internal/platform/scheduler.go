package platform

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/aretw0/butler/pkg/core"
)

// CycleResult summarizes one pass over every job.
type CycleResult struct {
	RunID  string
	Errors int
	Detect []core.DetectReport
	Cull   []core.CullReport
}

// Scheduler runs Detect then Cull for every job, repeatedly, until the
// knock-off time of day or until its context ends.
type Scheduler struct {
	Jobs     []*core.Job
	Interval time.Duration
	// KnockOff is the time since midnight at which the loop exits.
	// Zero with HasKnockOff false means no cutoff.
	KnockOff    time.Duration
	HasKnockOff bool
	// Start is the date incident-free days are counted from.
	Start time.Time
	// Wake, when set, ends the wait between cycles early.
	Wake <-chan struct{}

	Logger *slog.Logger
	Now    func() time.Time

	afterCycle func(CycleResult)
}

// Scheduler returns a scheduler over every job of the runtime.
func (rt *Runtime) Scheduler(wake <-chan struct{}) *Scheduler {
	off, ok := rt.Config.KnockOffClock()
	return &Scheduler{
		Jobs:        rt.Jobs,
		Interval:    rt.Config.Schedule.Interval,
		KnockOff:    off,
		HasKnockOff: ok,
		Start:       rt.Config.StartDate(),
		Wake:        wake,
		Logger:      rt.logger,
		Now:         rt.now,
	}
}

// Run loops until knock-off or until ctx is done. A cycle that has started
// always completes; cancellation is observed between cycles.
func (s *Scheduler) Run(ctx context.Context) error {
	log := s.logger()
	wake := s.Wake

	for {
		if ctx.Err() != nil {
			log.Info("butler shutting down", "reason", ctx.Err())
			return nil
		}
		if s.pastKnockOff() {
			log.Info(fmt.Sprintf("knock off time %s, butler shutting down", clock(s.KnockOff)))
			return nil
		}

		res := s.Cycle(context.WithoutCancel(ctx))
		if s.afterCycle != nil {
			s.afterCycle(res)
		}

		log.Info("restart scheduled", "in", s.Interval.String())
		timer := time.NewTimer(s.Interval)
		select {
		case <-ctx.Done():
		case <-timer.C:
		case _, ok := <-wake:
			if !ok {
				wake = nil
			} else {
				log.Info("library changed, starting early")
			}
		}
		timer.Stop()
	}
}

// Cycle runs every job once and logs the error tally the way an operator
// reads it: "N errors" or days without incident.
func (s *Scheduler) Cycle(ctx context.Context) CycleResult {
	res := CycleResult{RunID: uuid.NewString()}
	log := s.logger().With("run", res.RunID)
	log.Info("cycle started", "jobs", len(s.Jobs))

	for _, j := range s.Jobs {
		d, err := j.Detect(ctx)
		if err != nil {
			log.Error("detect failed", "kind", j.Kind().Name, "error", err)
			res.Errors++
		} else {
			res.Errors += len(d.Failed)
		}
		res.Detect = append(res.Detect, d)

		c, err := j.Cull(ctx)
		if err != nil {
			log.Error("cull failed", "kind", j.Kind().Name, "error", err)
			res.Errors++
		} else {
			res.Errors += len(c.Failed) + c.Errors
		}
		res.Cull = append(res.Cull, c)
	}

	if res.Errors > 0 {
		log.Warn(fmt.Sprintf("there are %d errors atm", res.Errors))
	} else {
		log.Info(fmt.Sprintf("no errors found, %s days without incident", s.daysSinceStart()))
	}
	return res
}

func (s *Scheduler) pastKnockOff() bool {
	if !s.HasKnockOff {
		return false
	}
	now := s.now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return now.Sub(midnight) >= s.KnockOff
}

func (s *Scheduler) daysSinceStart() string {
	if s.Start.IsZero() {
		return "unknown"
	}
	return fmt.Sprintf("%.1f", s.now().Sub(s.Start).Hours()/24)
}

func (s *Scheduler) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return s.Logger
}

func (s *Scheduler) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func clock(d time.Duration) string {
	return fmt.Sprintf("%02d:%02d", int(d.Hours()), int(d.Minutes())%60)
}
