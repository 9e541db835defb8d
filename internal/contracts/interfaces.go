package contracts

import (
	"context"
	"time"
)

// PostFetcher is an acquisition feed ("fetch current mentions")
type PostFetcher interface {
	Name() string
	FetchMentions(ctx context.Context) ([]Post, error)
}

// ImpactAnalyzer turns posts into an industry impact summary
type ImpactAnalyzer interface {
	Analyze(ctx context.Context, posts []Post) (ImpactSummary, error)
}

// Resource names one of the three served resources
type Resource string

const (
	ResourcePosts      Resource = "posts"
	ResourceSignals    Resource = "signals"
	ResourceHistorical Resource = "historical"
)

// RefreshEvent is published after a resource artifact is (re)written
type RefreshEvent struct {
	Resource    Resource  `json:"resource"`
	Count       int       `json:"count"`
	Sample      bool      `json:"sample"` // true when the write was a sample fallback
	RefreshedAt time.Time `json:"refreshed_at"`
}

// Notifier receives refresh events
type Notifier interface {
	Publish(event RefreshEvent)
}
