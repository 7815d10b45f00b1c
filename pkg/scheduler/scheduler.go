// Package scheduler triggers the brief cadences on cron schedules. A failed
// run is logged and simply retried on its next tick; there is no in-run
// retry.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/ctiworks/intel-strategy/pkg/config"
	"github.com/ctiworks/intel-strategy/pkg/engine"
	"github.com/ctiworks/intel-strategy/pkg/logger"
)

// Scheduler owns the cron entries for the three cadences.
type Scheduler struct {
	cron *cron.Cron
	eng  *engine.Engine
	cfg  config.ScheduleConfig
}

// New builds a Scheduler from the schedule config. Empty cron expressions
// leave the matching cadence untriggered.
func New(cfg config.ScheduleConfig, eng *engine.Engine) (*Scheduler, error) {
	loc := time.Local
	if cfg.Timezone != "" {
		var err error
		loc, err = time.LoadLocation(cfg.Timezone)
		if err != nil {
			return nil, fmt.Errorf("scheduler: load timezone %q: %w", cfg.Timezone, err)
		}
	}

	s := &Scheduler{
		cron: cron.New(cron.WithLocation(loc)),
		eng:  eng,
		cfg:  cfg,
	}

	type entry struct {
		name string
		expr string
		run  func(context.Context) error
	}
	entries := []entry{
		{"daily", cfg.DailyCron, func(ctx context.Context) error {
			_, err := eng.RunDaily(ctx)
			return err
		}},
		{"weekly", cfg.WeeklyCron, func(ctx context.Context) error {
			_, err := eng.RunWeekly(ctx)
			return err
		}},
		{"monthly", cfg.MonthlyCron, func(ctx context.Context) error {
			_, err := eng.RunMonthly(ctx, cfg.MonthlyDays)
			return err
		}},
	}

	for _, e := range entries {
		if e.expr == "" {
			continue
		}
		name, run := e.name, e.run
		if _, err := s.cron.AddFunc(e.expr, func() {
			if err := run(context.Background()); err != nil {
				logger.Log.Errorf("%s brief not generated this cycle: %v", name, err)
			}
		}); err != nil {
			return nil, fmt.Errorf("scheduler: bad %s cron %q: %w", e.name, e.expr, err)
		}
	}

	return s, nil
}

// Start launches the cron loop in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
	logger.Log.Infof("scheduler started (tz=%s) daily=%q weekly=%q monthly=%q",
		s.cron.Location(), s.cfg.DailyCron, s.cfg.WeeklyCron, s.cfg.MonthlyCron)
}

// Stop halts scheduling and waits for in-flight runs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
