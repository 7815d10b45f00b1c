// Package engine wires one brief cycle: fetch windowed intel, compose the
// narrative, submit it to the platform, archive the run.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/ctiworks/intel-strategy/pkg/brief"
	"github.com/ctiworks/intel-strategy/pkg/config"
	"github.com/ctiworks/intel-strategy/pkg/logger"
	"github.com/ctiworks/intel-strategy/pkg/model"
)

// Fetch page sizes per cadence; the engine never paginates past the first
// page.
const (
	dailyReportPage   = 300
	dailyObsPage      = 500
	weeklyReportPage  = 800
	monthlyReportPage = 1200
	monthlyObsPage    = 2000
)

// Submission confidence per cadence: a caller-chosen constant reflecting
// increasing trust in longer-window, more-aggregated artifacts.
const (
	dailyConfidence   = 70
	weeklyConfidence  = 75
	monthlyConfidence = 80
)

// Platform is the narrow interface to the intelligence platform.
type Platform interface {
	ListReports(ctx context.Context, start, end time.Time, first int) ([]model.IntelItem, error)
	ListObservables(ctx context.Context, start, end time.Time, first int) ([]model.Observable, error)
	SubmitBrief(ctx context.Context, b model.Brief, cadence string, confidence int) (string, error)
}

// Archive persists run records locally. Optional.
type Archive interface {
	SaveBriefRun(cadence, reportID string, b model.Brief) error
}

// Engine runs the three brief cadences. Cadences share no mutable state and
// may run concurrently.
type Engine struct {
	cfg      *config.Config
	client   Platform
	store    Archive // nil disables archiving
	composer *brief.Composer
	now      func() time.Time
}

// New builds an Engine from a validated config. store may be nil.
func New(cfg *config.Config, client Platform, store Archive) *Engine {
	return &Engine{
		cfg:      cfg,
		client:   client,
		store:    store,
		composer: brief.NewComposer(cfg),
		now:      time.Now,
	}
}

// RunDaily produces and submits the 24-hour brief.
func (e *Engine) RunDaily(ctx context.Context) (model.RunResult, error) {
	now := e.now().UTC()
	start := now.Add(-24 * time.Hour)

	items, err := e.client.ListReports(ctx, start, now, dailyReportPage)
	if err != nil {
		return model.RunResult{}, fmt.Errorf("daily: fetch reports: %w", err)
	}
	observables, err := e.client.ListObservables(ctx, start, now, dailyObsPage)
	if err != nil {
		return model.RunResult{}, fmt.Errorf("daily: fetch observables: %w", err)
	}

	b := e.composer.Daily(items, observables)
	return e.submit(ctx, "daily", b, dailyConfidence)
}

// RunWeekly produces and submits the 7-day brief, compared against the
// preceding 7 days.
func (e *Engine) RunWeekly(ctx context.Context) (model.RunResult, error) {
	now := e.now().UTC()
	start := now.AddDate(0, 0, -7)
	prevStart := start.AddDate(0, 0, -7)

	curr, err := e.client.ListReports(ctx, start, now, weeklyReportPage)
	if err != nil {
		return model.RunResult{}, fmt.Errorf("weekly: fetch reports: %w", err)
	}
	prev, err := e.client.ListReports(ctx, prevStart, start, weeklyReportPage)
	if err != nil {
		return model.RunResult{}, fmt.Errorf("weekly: fetch previous window: %w", err)
	}

	b := e.composer.Weekly(curr, prev)
	return e.submit(ctx, "weekly", b, weeklyConfidence)
}

// RunMonthly produces and submits the landscape assessment over the trailing
// days window. days <= 0 falls back to 30.
func (e *Engine) RunMonthly(ctx context.Context, days int) (model.RunResult, error) {
	if days <= 0 {
		days = 30
	}
	now := e.now().UTC()
	start := now.AddDate(0, 0, -days)
	prevStart := start.AddDate(0, 0, -days)

	curr, err := e.client.ListReports(ctx, start, now, monthlyReportPage)
	if err != nil {
		return model.RunResult{}, fmt.Errorf("monthly: fetch reports: %w", err)
	}
	prev, err := e.client.ListReports(ctx, prevStart, start, monthlyReportPage)
	if err != nil {
		return model.RunResult{}, fmt.Errorf("monthly: fetch previous window: %w", err)
	}
	observables, err := e.client.ListObservables(ctx, start, now, monthlyObsPage)
	if err != nil {
		return model.RunResult{}, fmt.Errorf("monthly: fetch observables: %w", err)
	}

	b := e.composer.Monthly(curr, prev, observables, days)
	return e.submit(ctx, "monthly", b, monthlyConfidence)
}

func (e *Engine) submit(ctx context.Context, cadence string, b model.Brief, confidence int) (model.RunResult, error) {
	id, err := e.client.SubmitBrief(ctx, b, cadence, confidence)
	if err != nil {
		return model.RunResult{}, fmt.Errorf("%s: submit brief: %w", cadence, err)
	}
	logger.Log.Infof("%s brief submitted: %s (%s)", cadence, id, b.ReportName)

	// Archive failures are logged, not fatal: the platform copy is the
	// system of record.
	if e.store != nil {
		if err := e.store.SaveBriefRun(cadence, id, b); err != nil {
			logger.Log.Errorf("failed to archive %s brief run: %v", cadence, err)
		}
	}

	return model.RunResult{ReportID: id, Name: b.ReportName}, nil
}
