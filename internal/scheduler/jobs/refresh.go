package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/tickerpulse/internal/contracts"
	"github.com/wonny/tickerpulse/pkg/logger"
)

// Refresher is the subset of the orchestrator a refresh job drives
type Refresher interface {
	Posts(ctx context.Context, refresh bool) ([]contracts.Post, error)
	Signals(ctx context.Context, refresh bool) (contracts.SignalSet, error)
}

// RefreshJob performs the explicit refresh: posts first, then signals from those posts.
// It is the same path as ?refresh=true on the API.
// ⭐ SSOT: 주기적 갱신은 이 Job에서만
type RefreshJob struct {
	refresher Refresher
	schedule  string
	logger    *logger.Logger
}

// NewRefreshJob creates a refresh job
func NewRefreshJob(r Refresher, schedule string, log *logger.Logger) *RefreshJob {
	return &RefreshJob{
		refresher: r,
		schedule:  schedule,
		logger:    log.Component("refresh_job"),
	}
}

// Name returns the job name
func (j *RefreshJob) Name() string {
	return "refresh"
}

// Schedule returns the configured cron expression
func (j *RefreshJob) Schedule() string {
	return j.schedule
}

// Run refreshes posts then signals
func (j *RefreshJob) Run(ctx context.Context) error {
	posts, err := j.refresher.Posts(ctx, true)
	if err != nil {
		return fmt.Errorf("refresh posts: %w", err)
	}

	set, err := j.refresher.Signals(ctx, true)
	if err != nil {
		return fmt.Errorf("refresh signals: %w", err)
	}

	j.logger.WithFields(map[string]interface{}{
		"posts":            len(posts),
		"industry_signals": len(set.IndustrySignals),
		"stock_signals":    len(set.StockSignals),
	}).Info("Scheduled refresh completed")

	return nil
}
