package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/tickerpulse/internal/contracts"
	"github.com/wonny/tickerpulse/pkg/logger"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	return NewStore(NewFileBackend(dir), logger.Nop()), dir
}

func TestStore_Posts(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	_, found, err := store.LoadPosts(ctx)
	require.NoError(t, err)
	assert.False(t, found)

	posts := []contracts.Post{
		{ID: "a", Author: "x", Content: "hello", Timestamp: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), Source: "News"},
	}
	require.NoError(t, store.SavePosts(ctx, posts))

	loaded, found, err := store.LoadPosts(ctx)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, posts, loaded)
}

func TestStore_SignalsAndHistorical(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	set := contracts.SignalSet{
		IndustrySignals: []contracts.IndustrySignal{{Industry: "Energy", SignalType: contracts.SignalNeutral, Strength: 0.2, RelatedStocks: []string{"XOM"}}},
		StockSignals:    []contracts.StockSignal{{Symbol: "XOM", Company: "XOM", SignalType: contracts.SignalNeutral, Strength: 0.2, Industry: "Energy"}},
	}
	require.NoError(t, store.SaveSignals(ctx, set))
	gotSet, found, err := store.LoadSignals(ctx)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, set, gotSet)

	l := contracts.HistoricalLedger{
		Data:          []contracts.HistoricalDayRecord{{Date: "2026-01-01", BullishAccuracy: 0.6, BearishAccuracy: 0.5, TotalSignals: 8}},
		AccuracyStats: contracts.AccuracyStats{OverallAccuracy: 0.55, BullishAccuracy: 0.6, BearishAccuracy: 0.5, TotalSignals: 8},
	}
	require.NoError(t, store.SaveHistorical(ctx, l))
	gotL, found, err := store.LoadHistorical(ctx)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, l, gotL)
}

func TestStore_EmptySignalSetPersistsArrays(t *testing.T) {
	ctx := context.Background()
	store, dir := newTestStore(t)

	require.NoError(t, store.SaveSignals(ctx, contracts.SignalSet{}))

	data, err := os.ReadFile(filepath.Join(dir, "signals.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"industry_signals":[],"stock_signals":[]}`, string(data))
}

func TestStore_MalformedContentIsReadFailure(t *testing.T) {
	ctx := context.Background()
	store, dir := newTestStore(t)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "signals.json"), []byte("{not json"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "posts.csv"), []byte("id,timestamp\n1,garbage\n"), 0o644))

	_, found, err := store.LoadSignals(ctx)
	assert.True(t, found)
	assert.True(t, IsReadFailure(err))

	_, _, err = store.LoadPosts(ctx)
	assert.True(t, IsReadFailure(err))

	var ce *Error
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, ArtifactPosts, ce.Artifact)
	assert.Contains(t, err.Error(), "cache read posts")
}

type brokenBackend struct{}

func (brokenBackend) Name() string { return "broken" }
func (brokenBackend) Exists(context.Context, Artifact) (bool, error) {
	return false, errors.New("disk gone")
}
func (brokenBackend) Read(context.Context, Artifact) ([]byte, error) {
	return nil, errors.New("disk gone")
}
func (brokenBackend) Write(context.Context, Artifact, []byte) error {
	return errors.New("read-only file system")
}

func TestStore_BackendFailures(t *testing.T) {
	ctx := context.Background()
	store := NewStore(brokenBackend{}, logger.Nop())

	_, err := store.Exists(ctx, ArtifactPosts)
	assert.True(t, IsReadFailure(err))

	_, _, err = store.LoadHistorical(ctx)
	assert.True(t, IsReadFailure(err))

	err = store.SaveHistorical(ctx, contracts.HistoricalLedger{})
	assert.True(t, IsWriteFailure(err))
	assert.False(t, IsReadFailure(err))
	assert.Contains(t, err.Error(), "read-only file system")
}
