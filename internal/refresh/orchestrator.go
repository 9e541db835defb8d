package refresh

import (
	"context"
	"sync"
	"time"

	"github.com/wonny/tickerpulse/internal/cache"
	"github.com/wonny/tickerpulse/internal/contracts"
	"github.com/wonny/tickerpulse/internal/sample"
	"github.com/wonny/tickerpulse/internal/signals"
	"github.com/wonny/tickerpulse/pkg/logger"
)

// Orchestrator decides per resource between serving the cache and recomputing it.
// Refresh is always explicit; there is no staleness policy.
// ⭐ SSOT: posts / signals / historical 캐시 갱신 결정은 여기서만
type Orchestrator struct {
	store    *cache.Store
	feeds    []contracts.PostFetcher
	analyzer contracts.ImpactAnalyzer
	notifier contracts.Notifier
	now      func() time.Time
	logger   *logger.Logger

	// one writer per artifact
	postsMu      sync.Mutex
	signalsMu    sync.Mutex
	historicalMu sync.Mutex
}

// Option configures an Orchestrator
type Option func(*Orchestrator)

// WithFeeds sets the acquisition feeds; their outputs are concatenated in this order
func WithFeeds(feeds ...contracts.PostFetcher) Option {
	return func(o *Orchestrator) {
		for _, f := range feeds {
			if f != nil {
				o.feeds = append(o.feeds, f)
			}
		}
	}
}

// WithAnalyzer sets the impact summary collaborator
func WithAnalyzer(a contracts.ImpactAnalyzer) Option {
	return func(o *Orchestrator) { o.analyzer = a }
}

// WithNotifier sets the refresh event sink
func WithNotifier(n contracts.Notifier) Option {
	return func(o *Orchestrator) { o.notifier = n }
}

// WithClock overrides time.Now
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// NewOrchestrator creates a new orchestrator
func NewOrchestrator(store *cache.Store, log *logger.Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		store:  store,
		now:    time.Now,
		logger: log.Component("refresh"),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Posts returns the posts resource, newest first.
//
// refresh: fetch from every feed, tolerating failures. The cache is
// overwritten only when the combined result is non-empty; the fetched
// result is returned either way.
func (o *Orchestrator) Posts(ctx context.Context, refresh bool) ([]contracts.Post, error) {
	o.postsMu.Lock()
	defer o.postsMu.Unlock()

	if refresh {
		posts := o.fetchAll(ctx)
		contracts.SortNewestFirst(posts)

		if len(posts) > 0 {
			if err := o.store.SavePosts(ctx, posts); err != nil {
				return nil, err
			}
			o.publish(contracts.ResourcePosts, len(posts), false)
		} else {
			o.logger.Warn("Refresh produced no posts, keeping cached posts")
		}
		return posts, nil
	}

	posts, found, err := o.store.LoadPosts(ctx)
	if err != nil {
		return nil, err
	}
	if found {
		return posts, nil
	}

	posts = sample.Posts(o.now())
	if err := o.store.SavePosts(ctx, posts); err != nil {
		return nil, err
	}
	o.publish(contracts.ResourcePosts, len(posts), true)
	return posts, nil
}

// Signals returns the signals resource.
//
// refresh: analyze the cached posts (sample posts when none are cached),
// derive signals and overwrite the cache, even with an empty set. A refresh
// whose context ends during analysis fails and leaves the cache untouched.
func (o *Orchestrator) Signals(ctx context.Context, refresh bool) (contracts.SignalSet, error) {
	o.signalsMu.Lock()
	defer o.signalsMu.Unlock()

	if refresh {
		posts, found, err := o.store.LoadPosts(ctx)
		if err != nil {
			return contracts.SignalSet{}, err
		}
		if !found {
			posts = sample.Posts(o.now())
		}

		summary, err := o.analyze(ctx, posts)
		if err != nil {
			return contracts.SignalSet{}, err
		}

		set := signals.Derive(summary)
		if err := o.store.SaveSignals(ctx, set); err != nil {
			return contracts.SignalSet{}, err
		}
		o.publish(contracts.ResourceSignals, len(set.IndustrySignals), false)
		return set, nil
	}

	set, found, err := o.store.LoadSignals(ctx)
	if err != nil {
		return contracts.SignalSet{}, err
	}
	if found {
		return set, nil
	}

	set = sample.Signals()
	if err := o.store.SaveSignals(ctx, set); err != nil {
		return contracts.SignalSet{}, err
	}
	o.publish(contracts.ResourceSignals, len(set.IndustrySignals), true)
	return set, nil
}

// Historical returns the cached ledger, or persists and returns the seeded sample.
// There is no live recomputation path.
func (o *Orchestrator) Historical(ctx context.Context) (contracts.HistoricalLedger, error) {
	o.historicalMu.Lock()
	defer o.historicalMu.Unlock()

	l, found, err := o.store.LoadHistorical(ctx)
	if err != nil {
		return contracts.HistoricalLedger{}, err
	}
	if found {
		return l, nil
	}

	l = sample.Historical(o.now())
	if err := o.store.SaveHistorical(ctx, l); err != nil {
		return contracts.HistoricalLedger{}, err
	}
	o.publish(contracts.ResourceHistorical, len(l.Data), true)
	return l, nil
}

// fetchAll runs every feed concurrently. A failed feed contributes nothing.
func (o *Orchestrator) fetchAll(ctx context.Context) []contracts.Post {
	results := make([][]contracts.Post, len(o.feeds))

	var wg sync.WaitGroup
	for i, feed := range o.feeds {
		wg.Add(1)
		go func(i int, feed contracts.PostFetcher) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					o.logger.WithFields(map[string]interface{}{
						"feed":  feed.Name(),
						"panic": r,
					}).Warn("Feed panicked, using empty result")
				}
			}()

			posts, err := feed.FetchMentions(ctx)
			if err != nil {
				o.logger.WithField("feed", feed.Name()).WithError(err).Warn("Feed fetch failed, using empty result")
				return
			}
			results[i] = posts
		}(i, feed)
	}
	wg.Wait()

	all := []contracts.Post{}
	for _, posts := range results {
		all = append(all, posts...)
	}
	return all
}

// analyze runs the impact collaborator; absence or failure yields an empty summary.
// A cancelled or expired ctx is returned as an error instead.
func (o *Orchestrator) analyze(ctx context.Context, posts []contracts.Post) (contracts.ImpactSummary, error) {
	if o.analyzer == nil {
		return contracts.ImpactSummary{}, nil
	}

	summary, err := o.analyzer.Analyze(ctx, posts)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			o.logger.WithError(ctxErr).Warn("Impact analysis interrupted, keeping cached signals")
			return nil, ctxErr
		}
		o.logger.WithError(err).Warn("Impact analysis failed, using empty summary")
		return contracts.ImpactSummary{}, nil
	}
	return summary, nil
}

func (o *Orchestrator) publish(resource contracts.Resource, count int, isSample bool) {
	if o.notifier == nil {
		return
	}
	o.notifier.Publish(contracts.RefreshEvent{
		Resource:    resource,
		Count:       count,
		Sample:      isSample,
		RefreshedAt: o.now(),
	})
}
