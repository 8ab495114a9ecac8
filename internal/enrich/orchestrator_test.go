package enrich

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stagelist/venue-cli/internal/config"
	"github.com/stagelist/venue-cli/internal/fetch"
	"github.com/stagelist/venue-cli/internal/model"
	"github.com/stagelist/venue-cli/internal/store"
)

func quickCrawlConfig() config.CrawlConfig {
	// Zero delays: pacing is irrelevant to correctness.
	return config.CrawlConfig{BatchSize: 3, FlushEvery: 5, MaxAttempts: 1, RetryDelaySecs: 1}
}

// countingStore wraps an in-memory collection and counts Save calls.
type countingStore struct {
	venues []model.Venue
	saves  int
}

func (s *countingStore) Load() ([]model.Venue, error) { return s.venues, nil }

func (s *countingStore) Save(venues []model.Venue) error {
	s.venues = venues
	s.saves++
	return nil
}

func TestOrchestrator_EndToEndScenario(t *testing.T) {
	dir := t.TempDir()
	venueStore := store.NewVenueStore(filepath.Join(dir, "venues.csv"))
	require.NoError(t, venueStore.Save([]model.Venue{{
		Name:     "The Blue Note",
		Location: "Raleigh",
		Website:  "http://bluenote.test",
	}}))

	client := newFakeClient()
	client.pages["http://bluenote.test"] = &fetch.Result{
		Content: `booking@bluenote.test (919) 555-0134 capacity: 300 people genres: jazz, blues`,
	}

	orch := NewOrchestrator(venueStore, NewEnricher(client, fastRetry()), quickCrawlConfig())
	stats, err := orch.Run(context.Background(), 0)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Processed)
	assert.Equal(t, 1, stats.Updated)
	assert.Equal(t, 0, stats.Remaining)

	venues, err := venueStore.Load()
	require.NoError(t, err)
	require.Len(t, venues, 1)
	assert.Equal(t, "booking@bluenote.test", venues[0].ContactEmail)
	assert.Equal(t, "(919) 555-0134", venues[0].ContactPhone)
	assert.Equal(t, "300", venues[0].Capacity)
	assert.Equal(t, "Blues; Jazz", venues[0].TypicalGenres)

	_, err = os.Stat(venueStore.BackupPath())
	assert.NoError(t, err, "backup of the pre-run store must exist")
}

func TestOrchestrator_NeverOverwritesPopulatedFields(t *testing.T) {
	s := &countingStore{venues: []model.Venue{{
		Name:         "The Pour House",
		Location:     "Raleigh",
		Website:      "http://pourhouse.test",
		ContactEmail: "kept@pourhouse.test",
	}}}

	client := newFakeClient()
	client.pages["http://pourhouse.test"] = &fetch.Result{
		Content: `new@pourhouse.test (919) 555-0177`,
	}

	orch := NewOrchestrator(s, NewEnricher(client, fastRetry()), quickCrawlConfig())
	_, err := orch.Run(context.Background(), 0)
	require.NoError(t, err)

	assert.Equal(t, "kept@pourhouse.test", s.venues[0].ContactEmail)
	assert.Equal(t, "(919) 555-0177", s.venues[0].ContactPhone)
}

func TestOrchestrator_FlushCadence(t *testing.T) {
	s := &countingStore{}
	client := newFakeClient()
	for i := 0; i < 12; i++ {
		url := fmt.Sprintf("http://venue%d.test", i)
		client.pages[url] = &fetch.Result{Content: fmt.Sprintf("booking%d@venue.test", i)}
		s.venues = append(s.venues, model.Venue{
			Name:     fmt.Sprintf("Venue %d", i),
			Location: "Raleigh",
			Website:  url,
		})
	}

	orch := NewOrchestrator(s, NewEnricher(client, fastRetry()), quickCrawlConfig())
	stats, err := orch.Run(context.Background(), 0)
	require.NoError(t, err)

	assert.Equal(t, 12, stats.Processed)
	assert.Equal(t, 12, stats.Updated)
	// 12 updates with flush-every-5: flushes at 5 and 10, plus the final
	// flush for the trailing 2.
	assert.Equal(t, 3, s.saves)
}

func TestOrchestrator_LimitCapsWorkingSet(t *testing.T) {
	s := &countingStore{}
	client := newFakeClient()
	for i := 0; i < 8; i++ {
		url := fmt.Sprintf("http://venue%d.test", i)
		client.pages[url] = &fetch.Result{
			Content: "info@venue.test (919) 555-0134 capacity 450 live jazz",
		}
		s.venues = append(s.venues, model.Venue{
			Name:     fmt.Sprintf("Venue %d", i),
			Location: "Raleigh",
			Website:  url,
		})
	}

	orch := NewOrchestrator(s, NewEnricher(client, fastRetry()), quickCrawlConfig())
	stats, err := orch.Run(context.Background(), 3)
	require.NoError(t, err)

	assert.Equal(t, 3, stats.Processed)
	assert.Equal(t, 5, stats.Remaining)
}

func TestOrchestrator_SkipsVenuesOutsideWorkingSet(t *testing.T) {
	s := &countingStore{venues: []model.Venue{
		{Name: "No Website", Location: "Raleigh"},
		{Name: "Complete", Location: "Raleigh", Website: "http://done.test",
			ContactEmail: "a@b.c", ContactPhone: "p", Capacity: "100", TypicalGenres: "Jazz"},
	}}
	client := newFakeClient()

	orch := NewOrchestrator(s, NewEnricher(client, fastRetry()), quickCrawlConfig())
	stats, err := orch.Run(context.Background(), 0)
	require.NoError(t, err)

	assert.Equal(t, 0, stats.Processed)
	assert.Empty(t, client.calls)
	// The venue with no website still has gaps.
	assert.Equal(t, 1, stats.Remaining)
	assert.Zero(t, s.saves, "clean run must not rewrite the store")
}
