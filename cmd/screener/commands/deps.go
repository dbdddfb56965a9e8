package commands

import (
	"fmt"

	"github.com/wonny/superinvestor/internal/cache"
	"github.com/wonny/superinvestor/internal/external/dataroma"
	"github.com/wonny/superinvestor/internal/external/page"
	"github.com/wonny/superinvestor/internal/external/yahoo"
	"github.com/wonny/superinvestor/internal/screener"
	"github.com/wonny/superinvestor/pkg/config"
	"github.com/wonny/superinvestor/pkg/httputil"
	"github.com/wonny/superinvestor/pkg/logger"
	"github.com/wonny/superinvestor/pkg/redis"
)

// app bundles the wired dependencies shared by all commands
type app struct {
	cfg      *config.Config
	log      *logger.Logger
	pipeline *screener.Pipeline
	purger   cache.Purger
	memory   *cache.Memory // nil unless CACHE_BACKEND=memory
	redis    *redis.Client
}

// overrides adjusts the loaded config from command-line flags
type overrides func(cfg *config.Config)

// newApp wires config → logger → fetchers → lister/provider → cache → pipeline
func newApp(override overrides) (*app, error) {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if verbose {
		cfg.LogLevel = "debug"
	}
	if override != nil {
		override(cfg)
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid flags: %w", err)
		}
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	// 3. Page fetcher (plain / headered / rendered)
	httpClient := httputil.New(cfg, log)
	fetcher, err := page.New(cfg, httpClient, log)
	if err != nil {
		return nil, fmt.Errorf("create page fetcher: %w", err)
	}

	// 4. Quote provider (own throttled client)
	provider, err := yahoo.NewProvider(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("create quote provider: %w", err)
	}

	// 5. Cache backend
	a := &app{cfg: cfg, log: log}

	var store cache.Store
	switch cfg.Cache.Backend {
	case config.CacheRedis:
		rc, err := redis.New(cfg)
		if err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		a.redis = rc
		shared := redis.NewCache(rc, cfg.Cache.Prefix)
		store, a.purger = shared, shared
	default:
		a.memory = cache.NewMemory(log)
		store, a.purger = a.memory, a.memory
	}

	// 6. Pipeline
	source := dataroma.NewClient(fetcher, cfg.Source.URL, cfg.Source.TableSelector, log)
	lister := screener.NewCachedLister(source, store, cfg.Cache.TTL, log)
	enricher := screener.NewEnricher(provider, store, cfg.Cache.TTL, log)
	a.pipeline = screener.NewPipeline(lister, enricher, cfg.Screener.Concurrency, log)

	log.WithFields(map[string]interface{}{
		"strategy":    fetcher.Name(),
		"provider":    provider.Name(),
		"cache":       cfg.Cache.Backend,
		"concurrency": cfg.Screener.Concurrency,
	}).Debug("Screener wired")

	return a, nil
}

// Close releases external connections
func (a *app) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.WithError(err).Warn("Failed to close redis")
		}
	}
}
