// Package enrich fills missing venue contact fields by crawling venue
// websites. The Enricher handles one venue; the Orchestrator drives the full
// collection under a courtesy pacing budget and flushes progress
// incrementally.
package enrich

import (
	"context"

	"go.uber.org/zap"

	"github.com/stagelist/venue-cli/internal/extract"
	"github.com/stagelist/venue-cli/internal/fetch"
	"github.com/stagelist/venue-cli/internal/model"
	"github.com/stagelist/venue-cli/internal/resilience"
)

// Enricher decides whether a single venue is worth crawling and merges any
// newly found facts. It never mutates the venue itself; the caller applies
// the returned facts.
type Enricher struct {
	client fetch.Client
	policy resilience.Policy
}

// NewEnricher creates an Enricher over the given fetch client and retry
// policy.
func NewEnricher(client fetch.Client, policy resilience.Policy) *Enricher {
	return &Enricher{client: client, policy: policy}
}

// Enrich crawls one venue and returns the facts found for its missing
// fields. Venues without a website, or with nothing missing, are skipped.
// Fetch failures after the retry budget are a normal outcome: the venue
// yields empty facts and the run continues. Only context cancellation is
// returned as an error.
func (e *Enricher) Enrich(ctx context.Context, v *model.Venue) (model.Facts, error) {
	missing := model.MissingFields(v)
	if v.Website == "" || missing.None() {
		return model.Facts{}, nil
	}

	log := zap.L().With(zap.String("venue", v.Name), zap.String("website", v.Website))

	primary, err := e.fetchWithRetry(ctx, v.Website)
	if err != nil {
		if ctx.Err() != nil {
			return model.Facts{}, ctx.Err()
		}
		log.Warn("primary fetch failed, skipping venue", zap.Error(err))
		return model.Facts{}, nil
	}

	facts := extract.Run(primary.Content, missing)

	// One secondary page at most. Facts from it never override what the
	// primary page produced.
	remaining := missingAfter(missing, facts)
	if remaining.Any() && len(primary.ContactLinks) > 0 {
		secondary, err := e.fetchWithRetry(ctx, primary.ContactLinks[0])
		if err != nil {
			if ctx.Err() != nil {
				return model.Facts{}, ctx.Err()
			}
			log.Debug("secondary fetch failed", zap.String("url", primary.ContactLinks[0]), zap.Error(err))
		} else {
			facts = facts.Merge(extract.Run(secondary.Content, remaining))
		}
	}

	if !facts.Empty() {
		log.Info("facts extracted",
			zap.Bool("email", facts.Email != ""),
			zap.Bool("phone", facts.Phone != ""),
			zap.Bool("capacity", facts.Capacity != ""),
			zap.Bool("genres", facts.Genres != ""),
		)
	}
	return facts, nil
}

func (e *Enricher) fetchWithRetry(ctx context.Context, url string) (*fetch.Result, error) {
	policy := e.policy
	if policy.OnRetry == nil {
		policy.OnRetry = resilience.RetryLogger("fetch", url)
	}
	return resilience.DoVal(ctx, policy, func(ctx context.Context) (*fetch.Result, error) {
		return e.client.Fetch(ctx, url)
	})
}

// missingAfter reports which fields are still missing once facts are layered
// over the original gap set.
func missingAfter(m model.Missing, f model.Facts) model.Missing {
	return model.Missing{
		Email:    m.Email && f.Email == "",
		Phone:    m.Phone && f.Phone == "",
		Capacity: m.Capacity && f.Capacity == "",
		Genres:   m.Genres && f.Genres == "",
	}
}
