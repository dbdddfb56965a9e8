package jobs

import (
	"context"
	"errors"
	"fmt"

	"github.com/wonny/superinvestor/internal/contracts"
	"github.com/wonny/superinvestor/internal/screener"
	"github.com/wonny/superinvestor/pkg/logger"
)

// DefaultRefreshSchedule runs at the top of every hour, matching the cache TTL
const DefaultRefreshSchedule = "0 0 * * * *"

// Refresher re-fetches every listing and quote, bypassing cached entries
// (satisfied by *screener.Pipeline)
type Refresher interface {
	Refresh(ctx context.Context, progress screener.ProgressFunc) (*contracts.Result, error)
}

// ScreenerRefreshJob rewrites the cache so requests after each tick are served warm
type ScreenerRefreshJob struct {
	runner   Refresher
	schedule string
	logger   *logger.Logger
}

// NewScreenerRefreshJob creates a refresh job. Empty schedule uses the hourly default.
func NewScreenerRefreshJob(runner Refresher, schedule string, log *logger.Logger) *ScreenerRefreshJob {
	if schedule == "" {
		schedule = DefaultRefreshSchedule
	}

	return &ScreenerRefreshJob{
		runner:   runner,
		schedule: schedule,
		logger:   log.WithComponent("refresh_job"),
	}
}

// Name returns the job name
func (j *ScreenerRefreshJob) Name() string {
	return "screener_refresh"
}

// Schedule returns the cron schedule
func (j *ScreenerRefreshJob) Schedule() string {
	return j.schedule
}

// Run executes one refresh pass
func (j *ScreenerRefreshJob) Run(ctx context.Context) error {
	result, err := j.runner.Refresh(ctx, nil)
	if err != nil {
		if errors.Is(err, contracts.ErrEmptyResult) {
			j.logger.Warn("Refresh produced no rows")
		}
		return fmt.Errorf("screener refresh: %w", err)
	}

	j.logger.WithFields(map[string]interface{}{
		"run_id":   result.RunID,
		"rows":     result.Listed,
		"enriched": result.Enriched,
		"duration": result.Duration,
	}).Info("Screener cache refreshed")

	return nil
}
