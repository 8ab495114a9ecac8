package enrich

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/stagelist/venue-cli/internal/config"
	"github.com/stagelist/venue-cli/internal/model"
)

// VenueStore is the slice of store behavior the orchestrator needs.
type VenueStore interface {
	Load() ([]model.Venue, error)
	Save([]model.Venue) error
}

// Stats aggregates one enrichment run.
type Stats struct {
	Processed int `json:"processed"`
	Updated   int `json:"updated"`
	Remaining int `json:"remaining"`
}

// Orchestrator drives enrichment across the whole collection for one run. It
// owns the sole in-memory copy of the records while running and is
// responsible for flushing it.
type Orchestrator struct {
	store    VenueStore
	enricher *Enricher
	cfg      config.CrawlConfig
}

// NewOrchestrator creates an Orchestrator.
func NewOrchestrator(store VenueStore, enricher *Enricher, cfg config.CrawlConfig) *Orchestrator {
	return &Orchestrator{store: store, enricher: enricher, cfg: cfg}
}

// Run enriches the working set: venues with a website and at least one
// missing target field. A positive limit caps the working set for quick,
// time-bounded runs. Venues are processed strictly sequentially in batches
// against the one shared browser engine; the delays between venues and
// batches are a politeness budget for third-party servers, not correctness.
// The store is flushed every FlushEvery successful updates, once more at run
// end if dirty, and before any abnormal exit. Persistence failures are fatal
// to the run; in-memory progress survives for a retried flush by the caller.
func (o *Orchestrator) Run(ctx context.Context, limit int) (*Stats, error) {
	venues, err := o.store.Load()
	if err != nil {
		return nil, eris.Wrap(err, "enrich: load venues")
	}

	var working []int
	for i := range venues {
		if venues[i].Website != "" && model.MissingFields(&venues[i]).Any() {
			working = append(working, i)
		}
	}
	if limit > 0 && len(working) > limit {
		working = working[:limit]
	}

	batchSize := o.cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 4
	}
	flushEvery := o.cfg.FlushEvery
	if flushEvery <= 0 {
		flushEvery = 5
	}

	log := zap.L().With(zap.String("phase", "enrich"))
	log.Info("starting run",
		zap.Int("total", len(venues)),
		zap.Int("working_set", len(working)),
		zap.Int("batch_size", batchSize),
	)

	stats := &Stats{}
	dirty := false
	sinceFlush := 0

	for start := 0; start < len(working); start += batchSize {
		end := start + batchSize
		if end > len(working) {
			end = len(working)
		}

		for pos, idx := range working[start:end] {
			if pos > 0 {
				if err := pause(ctx, o.cfg.VenueDelay()); err != nil {
					return stats, o.flushOnExit(venues, dirty, err)
				}
			}

			v := &venues[idx]
			facts, err := o.enricher.Enrich(ctx, v)
			if err != nil {
				return stats, o.flushOnExit(venues, dirty, err)
			}
			stats.Processed++

			if facts.Apply(v) {
				stats.Updated++
				sinceFlush++
				dirty = true
			}

			if sinceFlush >= flushEvery {
				if err := o.store.Save(venues); err != nil {
					return stats, eris.Wrap(err, "enrich: incremental flush")
				}
				log.Debug("flushed store", zap.Int("updated", stats.Updated))
				sinceFlush = 0
				dirty = false
			}
		}

		if end < len(working) {
			if err := pause(ctx, o.cfg.BatchDelay()); err != nil {
				return stats, o.flushOnExit(venues, dirty, err)
			}
		}
	}

	if dirty {
		if err := o.store.Save(venues); err != nil {
			return stats, eris.Wrap(err, "enrich: final flush")
		}
	}

	for i := range venues {
		if model.MissingFields(&venues[i]).Any() {
			stats.Remaining++
		}
	}

	log.Info("run complete",
		zap.Int("processed", stats.Processed),
		zap.Int("updated", stats.Updated),
		zap.Int("remaining", stats.Remaining),
	)
	return stats, nil
}

// flushOnExit persists unflushed progress before surfacing an abnormal exit.
func (o *Orchestrator) flushOnExit(venues []model.Venue, dirty bool, cause error) error {
	if dirty {
		if err := o.store.Save(venues); err != nil {
			zap.L().Error("flush on abnormal exit failed", zap.Error(err))
		}
	}
	return cause
}

// pause sleeps for d or returns early when the context ends.
func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
