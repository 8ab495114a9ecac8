// Package discovery finds candidate venues by scraping web search result
// listings for a target city. Candidates land in the discovered-venue store
// as pending records awaiting human triage; approved records are promoted
// into the master directory by Promote.
package discovery

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/stagelist/venue-cli/internal/config"
	"github.com/stagelist/venue-cli/internal/model"
)

// searchPhrases are the fixed venue-category queries issued per city. The
// city name is substituted for %s.
var searchPhrases = []string{
	"live music venues in %s",
	"concert halls in %s",
	"jazz clubs in %s",
	"music bars in %s",
	"theaters with live music in %s",
	"breweries with live music in %s",
}

// SearchClient issues one search query and returns the raw result-listing
// HTML. Swappable for fixture HTML in tests.
type SearchClient interface {
	Search(ctx context.Context, query string) (string, error)
}

// DiscoveredStore is the slice of store behavior discovery needs.
type DiscoveredStore interface {
	Load() ([]model.DiscoveredVenue, error)
	Append(records []model.DiscoveredVenue) ([]model.DiscoveredVenue, error)
}

// Discoverer runs search-derived venue discovery for one city at a time.
type Discoverer struct {
	store   DiscoveredStore
	client  SearchClient
	limiter *rate.Limiter
	cfg     config.DiscoveryConfig
}

// NewDiscoverer creates a Discoverer. Queries are paced by a shared rate
// limiter regardless of search parallelism.
func NewDiscoverer(store DiscoveredStore, client SearchClient, cfg config.DiscoveryConfig) *Discoverer {
	qps := cfg.QueriesPerSec
	if qps <= 0 {
		qps = 0.5
	}
	return &Discoverer{
		store:   store,
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(qps), 1),
		cfg:     cfg,
	}
}

// Discover issues the category queries for the city, classifies and filters
// the parsed results, and appends up to max new pending records deduplicated
// against everything previously discovered. Returns the records actually
// added. Individual query failures are logged and skipped; the pass fails
// only when every query fails or the store cannot be written.
func (d *Discoverer) Discover(ctx context.Context, city string, max int) ([]model.DiscoveredVenue, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return nil, eris.New("discovery: city is required")
	}
	if max <= 0 {
		max = d.cfg.MaxResults
	}
	if max <= 0 {
		max = 20
	}

	log := zap.L().With(zap.String("phase", "discover"), zap.String("city", city))

	parallel := d.cfg.SearchParallel
	if parallel <= 0 {
		parallel = 2
	}

	var (
		mu         sync.Mutex
		candidates []model.DiscoveredVenue
		failures   int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)

	today := time.Now().Format("2006-01-02")
	for _, phrase := range searchPhrases {
		query := strings.ReplaceAll(phrase, "%s", city)
		g.Go(func() error {
			if err := d.limiter.Wait(gctx); err != nil {
				return nil //nolint:nilerr // context end handled by caller
			}

			html, err := d.client.Search(gctx, query)
			if err != nil {
				log.Warn("search query failed", zap.String("query", query), zap.Error(err))
				mu.Lock()
				failures++
				mu.Unlock()
				return nil
			}

			var batch []model.DiscoveredVenue
			for _, r := range parseResults(html) {
				if excluded(r) {
					continue
				}
				batch = append(batch, model.DiscoveredVenue{
					Name:           r.Name,
					Location:       city,
					Address:        extractAddress(r.Snippet),
					VenueType:      classify(r.Name + " " + r.Snippet),
					Website:        r.Link,
					DiscoveredFrom: query,
					DiscoveryDate:  today,
					Status:         model.StatusPending,
				})
			}

			mu.Lock()
			candidates = append(candidates, batch...)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	if ctx.Err() != nil {
		return nil, eris.Wrap(ctx.Err(), "discovery: cancelled")
	}
	if failures == len(searchPhrases) {
		return nil, eris.New("discovery: all search queries failed")
	}

	// Dedupe against the pass and everything previously discovered before
	// capping, so known records never consume the max budget.
	existing, err := d.store.Load()
	if err != nil {
		return nil, eris.Wrap(err, "discovery: load discovered")
	}
	seen := make(map[string]bool, len(existing))
	for _, e := range existing {
		seen[e.Key()] = true
	}

	var unique []model.DiscoveredVenue
	for _, c := range candidates {
		if c.Name == "" || seen[c.Key()] {
			continue
		}
		seen[c.Key()] = true
		unique = append(unique, c)
		if len(unique) >= max {
			break
		}
	}

	added, err := d.store.Append(unique)
	if err != nil {
		return nil, eris.Wrap(err, "discovery: append candidates")
	}

	log.Info("discovery complete",
		zap.Int("parsed", len(candidates)),
		zap.Int("new", len(added)),
	)
	return added, nil
}
