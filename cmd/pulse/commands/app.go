package commands

import (
	"context"
	"fmt"

	"github.com/wonny/tickerpulse/internal/analysis"
	"github.com/wonny/tickerpulse/internal/cache"
	"github.com/wonny/tickerpulse/internal/contracts"
	"github.com/wonny/tickerpulse/internal/feeds"
	"github.com/wonny/tickerpulse/internal/refresh"
	"github.com/wonny/tickerpulse/pkg/config"
	"github.com/wonny/tickerpulse/pkg/database"
	"github.com/wonny/tickerpulse/pkg/httputil"
	"github.com/wonny/tickerpulse/pkg/logger"
	"github.com/wonny/tickerpulse/pkg/redis"
)

// app holds the wiring shared by every command
type app struct {
	cfg     *config.Config
	log     *logger.Logger
	store   *cache.Store
	closers []func()
}

// bootstrap loads config and initializes the logger
func bootstrap() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	return &app{cfg: cfg, log: logger.New(cfg)}, nil
}

// openStore connects the configured cache backend
func (a *app) openStore(ctx context.Context) error {
	backend, err := a.openBackend(ctx)
	if err != nil {
		return err
	}

	a.store = cache.NewStore(backend, a.log)
	a.log.WithField("backend", backend.Name()).Info("Cache backend ready")
	return nil
}

func (a *app) openBackend(ctx context.Context) (cache.Backend, error) {
	switch a.cfg.CacheBackend {
	case config.BackendPostgres:
		db, err := database.New(ctx, a.cfg)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		a.closers = append(a.closers, db.Close)

		backend, err := cache.NewPostgresBackend(ctx, db.Pool)
		if err != nil {
			return nil, err
		}
		return backend, nil

	case config.BackendRedis:
		client, err := redis.New(ctx, a.cfg)
		if err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		a.closers = append(a.closers, func() { client.Close() })
		return cache.NewRedisBackend(client.Redis(), client.Prefix()), nil

	default:
		return cache.NewFileBackend(a.cfg.DataDir), nil
	}
}

// orchestrator builds the refresh orchestrator with the enabled feeds and the
// configured analyzer. notifier may be nil.
func (a *app) orchestrator(notifier contracts.Notifier) (*refresh.Orchestrator, error) {
	analyzer, err := a.analyzer()
	if err != nil {
		return nil, err
	}

	opts := []refresh.Option{
		refresh.WithFeeds(a.feeds()...),
		refresh.WithAnalyzer(analyzer),
	}
	if notifier != nil {
		opts = append(opts, refresh.WithNotifier(notifier))
	}

	return refresh.NewOrchestrator(a.store, a.log, opts...), nil
}

func (a *app) analyzer() (contracts.ImpactAnalyzer, error) {
	if a.cfg.Analyzer == config.AnalyzerNone {
		return analysis.NullAnalyzer{}, nil
	}

	lex, err := analysis.LoadLexicon(a.cfg.Lexicon)
	if err != nil {
		return nil, fmt.Errorf("load lexicon: %w", err)
	}
	return analysis.NewKeywordAnalyzer(lex), nil
}

func (a *app) feeds() []contracts.PostFetcher {
	var out []contracts.PostFetcher
	if a.cfg.Social.Enabled {
		out = append(out, feeds.NewSocialFeed(a.cfg.Social, a.cfg.Fetch, a.log))
	}
	if a.cfg.News.Enabled {
		client := httputil.New(a.cfg.Fetch, a.log)
		out = append(out, feeds.NewNewsFeed(a.cfg.News, client, a.log))
	}
	return out
}

// Close releases backend connections
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}
