package enrich

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/stagelist/venue-cli/internal/config"
	"github.com/stagelist/venue-cli/internal/fetch"
	"github.com/stagelist/venue-cli/internal/resilience"
	"github.com/stagelist/venue-cli/internal/store"
)

// pruneExpired drops stale fetch cache entries. Best effort: a failed prune
// is logged and the run proceeds with whatever the cache still holds.
func pruneExpired(ctx context.Context, cache *store.Cache) {
	if n, err := cache.DeleteExpired(ctx); err != nil {
		zap.L().Warn("could not prune expired fetch cache entries", zap.Error(err))
	} else if n > 0 {
		zap.L().Debug("pruned expired fetch cache entries", zap.Int("count", n))
	}
}

// RunOnce performs one full enrichment pass: it acquires the browser engine,
// wires the fetch cache, runs the orchestrator, records the run in history,
// and releases the engine on every exit path. limit > 0 caps the working set
// for quick runs.
func RunOnce(ctx context.Context, cfg *config.Config, limit int) (*Stats, error) {
	venueStore := store.NewVenueStore(cfg.Store.VenuesPath)

	cache, err := store.NewCache(cfg.Store.CachePath)
	if err != nil {
		return nil, err
	}
	defer cache.Close() //nolint:errcheck
	if err := cache.Migrate(ctx); err != nil {
		return nil, err
	}
	pruneExpired(ctx, cache)

	browser, err := fetch.Launch(cfg.Crawl.NavTimeout())
	if err != nil {
		return nil, eris.Wrap(err, "enrich: browser engine launch")
	}
	defer browser.Close() //nolint:errcheck

	client := fetch.WithCache(browser, cache,
		time.Duration(cfg.Store.CacheTTLHours)*time.Hour)

	enricher := NewEnricher(client, resilience.Policy{
		MaxAttempts: cfg.Crawl.MaxAttempts,
		Delay:       cfg.Crawl.RetryDelay(),
	})

	runID, err := cache.StartRun(ctx)
	if err != nil {
		zap.L().Warn("could not record run start", zap.Error(err))
	}

	stats, runErr := NewOrchestrator(venueStore, enricher, cfg.Crawl).Run(ctx, limit)

	if runID != "" {
		status, errMsg := "complete", ""
		if runErr != nil {
			status, errMsg = "failed", runErr.Error()
		}
		var p, u, r int
		if stats != nil {
			p, u, r = stats.Processed, stats.Updated, stats.Remaining
		}
		if err := cache.FinishRun(ctx, runID, status, p, u, r, errMsg); err != nil {
			zap.L().Warn("could not record run finish", zap.Error(err))
		}
	}

	return stats, runErr
}
