package refresh

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/tickerpulse/internal/cache"
	"github.com/wonny/tickerpulse/internal/contracts"
	"github.com/wonny/tickerpulse/pkg/logger"
)

var fixedNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

type stubFeed struct {
	name  string
	posts []contracts.Post
	err   error
}

func (f stubFeed) Name() string { return f.name }

func (f stubFeed) FetchMentions(context.Context) ([]contracts.Post, error) {
	return f.posts, f.err
}

type stubAnalyzer struct {
	summary contracts.ImpactSummary
	err     error
	seen    []contracts.Post
}

func (a *stubAnalyzer) Analyze(_ context.Context, posts []contracts.Post) (contracts.ImpactSummary, error) {
	a.seen = posts
	return a.summary, a.err
}

// ctxAnalyzer reports a result until its context ends
type ctxAnalyzer struct {
	summary contracts.ImpactSummary
}

func (a ctxAnalyzer) Analyze(ctx context.Context, _ []contracts.Post) (contracts.ImpactSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return a.summary, nil
}

type panicFeed struct{}

func (panicFeed) Name() string { return "panicky" }

func (panicFeed) FetchMentions(context.Context) ([]contracts.Post, error) {
	panic("decoder blew up")
}

type recorder struct {
	mu     sync.Mutex
	events []contracts.RefreshEvent
}

func (r *recorder) Publish(e contracts.RefreshEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func newTestOrchestrator(t *testing.T, opts ...Option) (*Orchestrator, *cache.FileBackend, *recorder) {
	t.Helper()
	backend := cache.NewFileBackend(t.TempDir())
	rec := &recorder{}
	opts = append([]Option{WithClock(func() time.Time { return fixedNow }), WithNotifier(rec)}, opts...)
	return NewOrchestrator(cache.NewStore(backend, logger.Nop()), logger.Nop(), opts...), backend, rec
}

func readArtifact(t *testing.T, b *cache.FileBackend, a cache.Artifact) []byte {
	t.Helper()
	data, err := b.Read(context.Background(), a)
	require.NoError(t, err)
	return data
}

func post(id string, hoursAgo int) contracts.Post {
	return contracts.Post{ID: id, Author: "a", Content: id, Timestamp: fixedNow.Add(-time.Duration(hoursAgo) * time.Hour), Source: "News"}
}

func ids(posts []contracts.Post) []string {
	out := make([]string, len(posts))
	for i, p := range posts {
		out[i] = p.ID
	}
	return out
}

func TestPosts_MissPersistsSample(t *testing.T) {
	o, backend, rec := newTestOrchestrator(t)
	ctx := context.Background()

	posts, err := o.Posts(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3"}, ids(posts))

	ok, err := backend.Exists(ctx, cache.ArtifactPosts)
	require.NoError(t, err)
	assert.True(t, ok)

	again, err := o.Posts(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, ids(posts), ids(again))

	require.Len(t, rec.events, 1)
	assert.Equal(t, contracts.ResourcePosts, rec.events[0].Resource)
	assert.True(t, rec.events[0].Sample)
	assert.Equal(t, 3, rec.events[0].Count)
}

func TestPosts_RefreshMergesAndSorts(t *testing.T) {
	social := stubFeed{name: "social", posts: []contracts.Post{post("s1", 5), post("s2", 1)}}
	news := stubFeed{name: "news", posts: []contracts.Post{post("n1", 3)}}
	o, _, rec := newTestOrchestrator(t, WithFeeds(social, news))
	ctx := context.Background()

	posts, err := o.Posts(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"s2", "n1", "s1"}, ids(posts))

	cached, err := o.Posts(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"s2", "n1", "s1"}, ids(cached))

	require.Len(t, rec.events, 1)
	assert.False(t, rec.events[0].Sample)
}

func TestPosts_RefreshToleratesOneFailingFeed(t *testing.T) {
	social := stubFeed{name: "social", err: errors.New("timeout")}
	news := stubFeed{name: "news", posts: []contracts.Post{post("n1", 3)}}
	o, _, _ := newTestOrchestrator(t, WithFeeds(social, news))

	posts, err := o.Posts(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, []string{"n1"}, ids(posts))
}

func TestPosts_EmptyRefreshKeepsCache(t *testing.T) {
	failing := []contracts.PostFetcher{
		stubFeed{name: "social", err: errors.New("403")},
		stubFeed{name: "news", err: errors.New("dns")},
	}
	o, backend, rec := newTestOrchestrator(t, WithFeeds(failing...))
	ctx := context.Background()

	_, err := o.Posts(ctx, false)
	require.NoError(t, err)
	before := readArtifact(t, backend, cache.ArtifactPosts)

	posts, err := o.Posts(ctx, true)
	require.NoError(t, err)
	assert.NotNil(t, posts)
	assert.Empty(t, posts)

	assert.Equal(t, before, readArtifact(t, backend, cache.ArtifactPosts))
	assert.Len(t, rec.events, 1)
}

func TestPosts_EmptyRefreshWithoutCacheWritesNothing(t *testing.T) {
	o, backend, _ := newTestOrchestrator(t)

	posts, err := o.Posts(context.Background(), true)
	require.NoError(t, err)
	assert.Empty(t, posts)

	ok, err := backend.Exists(context.Background(), cache.ArtifactPosts)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSignals_MissPersistsSample(t *testing.T) {
	o, backend, _ := newTestOrchestrator(t)
	ctx := context.Background()

	set, err := o.Signals(ctx, false)
	require.NoError(t, err)
	assert.Len(t, set.IndustrySignals, 3)

	ok, err := backend.Exists(ctx, cache.ArtifactSignals)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSignals_RefreshDerivesFromCachedPosts(t *testing.T) {
	analyzer := &stubAnalyzer{summary: contracts.ImpactSummary{
		{Industry: "automotive", Sentiment: contracts.SentimentPositive, ImpactScore: 8.5, AffectedStocks: []string{"TSLA", "GM"}},
	}}
	feed := stubFeed{name: "news", posts: []contracts.Post{post("n1", 1)}}
	o, _, _ := newTestOrchestrator(t, WithFeeds(feed), WithAnalyzer(analyzer))
	ctx := context.Background()

	_, err := o.Posts(ctx, true)
	require.NoError(t, err)

	set, err := o.Signals(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"n1"}, ids(analyzer.seen))

	require.Len(t, set.IndustrySignals, 1)
	assert.Equal(t, "Automotive", set.IndustrySignals[0].Industry)
	assert.Equal(t, contracts.SignalBullish, set.IndustrySignals[0].SignalType)
	assert.InDelta(t, 0.85, set.IndustrySignals[0].Strength, 1e-9)
	assert.Len(t, set.StockSignals, 2)

	cached, err := o.Signals(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, set, cached)
}

func TestSignals_RefreshUsesSamplePostsWhenUncached(t *testing.T) {
	analyzer := &stubAnalyzer{summary: contracts.ImpactSummary{}}
	o, backend, _ := newTestOrchestrator(t, WithAnalyzer(analyzer))
	ctx := context.Background()

	_, err := o.Signals(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3"}, ids(analyzer.seen))

	ok, err := backend.Exists(ctx, cache.ArtifactPosts)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSignals_EmptyRefreshOverwritesCache(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
	}{
		{"no analyzer", nil},
		{"failing analyzer", []Option{WithAnalyzer(&stubAnalyzer{err: errors.New("model offline")})}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, _, rec := newTestOrchestrator(t, tt.opts...)
			ctx := context.Background()

			sampleSet, err := o.Signals(ctx, false)
			require.NoError(t, err)
			require.False(t, sampleSet.Empty())

			set, err := o.Signals(ctx, true)
			require.NoError(t, err)
			assert.True(t, set.Empty())

			cached, err := o.Signals(ctx, false)
			require.NoError(t, err)
			assert.True(t, cached.Empty())
			assert.NotNil(t, cached.IndustrySignals)

			require.Len(t, rec.events, 2)
			assert.Equal(t, 0, rec.events[1].Count)
		})
	}
}

func TestSignals_CancelledRefreshKeepsCache(t *testing.T) {
	analyzer := ctxAnalyzer{summary: contracts.ImpactSummary{
		{Industry: "automotive", Sentiment: contracts.SentimentPositive, ImpactScore: 6, AffectedStocks: []string{"TSLA"}},
		{Industry: "energy", Sentiment: contracts.SentimentNegative, ImpactScore: 4, AffectedStocks: []string{"XOM"}},
	}}
	o, backend, rec := newTestOrchestrator(t, WithAnalyzer(analyzer))

	set, err := o.Signals(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, set.IndustrySignals, 2)
	before := readArtifact(t, backend, cache.ArtifactSignals)

	tests := []struct {
		name string
		ctx  func() (context.Context, context.CancelFunc)
		want error
	}{
		{"cancelled", func() (context.Context, context.CancelFunc) {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			return ctx, cancel
		}, context.Canceled},
		{"deadline exceeded", func() (context.Context, context.CancelFunc) {
			return context.WithDeadline(context.Background(), fixedNow)
		}, context.DeadlineExceeded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := tt.ctx()
			defer cancel()

			_, err := o.Signals(ctx, true)
			assert.ErrorIs(t, err, tt.want)

			assert.Equal(t, before, readArtifact(t, backend, cache.ArtifactSignals))

			cached, err := o.Signals(context.Background(), false)
			require.NoError(t, err)
			assert.Len(t, cached.IndustrySignals, 2)
		})
	}

	assert.Len(t, rec.events, 1)
}

func TestPosts_RefreshToleratesPanickingFeed(t *testing.T) {
	news := stubFeed{name: "news", posts: []contracts.Post{post("n1", 2)}}
	o, _, _ := newTestOrchestrator(t, WithFeeds(panicFeed{}, news))

	posts, err := o.Posts(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, []string{"n1"}, ids(posts))
}

func TestHistorical_MissIsReproducible(t *testing.T) {
	first, b1, _ := newTestOrchestrator(t)
	second, b2, _ := newTestOrchestrator(t)
	ctx := context.Background()

	l1, err := first.Historical(ctx)
	require.NoError(t, err)
	l2, err := second.Historical(ctx)
	require.NoError(t, err)

	assert.Len(t, l1.Data, 30)
	assert.Equal(t, l1, l2)
	assert.Equal(t, readArtifact(t, b1, cache.ArtifactHistorical), readArtifact(t, b2, cache.ArtifactHistorical))
}

func TestHistorical_ServesCache(t *testing.T) {
	o, _, _ := newTestOrchestrator(t)
	ctx := context.Background()

	stored := contracts.HistoricalLedger{
		Data:          []contracts.HistoricalDayRecord{{Date: "2026-03-09", BullishAccuracy: 0.7, BearishAccuracy: 0.6, TotalSignals: 10}},
		AccuracyStats: contracts.AccuracyStats{OverallAccuracy: 0.65, BullishAccuracy: 0.7, BearishAccuracy: 0.6, TotalSignals: 10},
	}
	require.NoError(t, o.store.SaveHistorical(ctx, stored))

	l, err := o.Historical(ctx)
	require.NoError(t, err)
	assert.Equal(t, stored, l)
}

func TestReadFailureIsSurfaced(t *testing.T) {
	o, backend, _ := newTestOrchestrator(t)
	ctx := context.Background()

	path, err := backend.Path(cache.ArtifactSignals)
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err = o.Signals(ctx, false)
	require.Error(t, err)
	assert.True(t, cache.IsReadFailure(err))
}
