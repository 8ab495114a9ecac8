package enrich

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stagelist/venue-cli/internal/fetch"
	"github.com/stagelist/venue-cli/internal/model"
	"github.com/stagelist/venue-cli/internal/resilience"
)

// fakeClient serves canned pages and can fail a URL a set number of times
// before succeeding.
type fakeClient struct {
	pages     map[string]*fetch.Result
	failFirst map[string]int
	calls     map[string]int
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		pages:     make(map[string]*fetch.Result),
		failFirst: make(map[string]int),
		calls:     make(map[string]int),
	}
}

func (f *fakeClient) Fetch(_ context.Context, url string) (*fetch.Result, error) {
	f.calls[url]++
	if f.failFirst[url] > 0 {
		f.failFirst[url]--
		return nil, resilience.Transient(errors.New("navigation timeout"))
	}
	res, ok := f.pages[url]
	if !ok {
		return nil, resilience.Transient(errors.New("net::ERR_NAME_NOT_RESOLVED"))
	}
	return res, nil
}

func (f *fakeClient) Close() error { return nil }

func fastRetry() resilience.Policy {
	return resilience.Policy{MaxAttempts: 3, Delay: time.Millisecond}
}

func TestEnrich_SkipsVenueWithoutWebsite(t *testing.T) {
	client := newFakeClient()
	e := NewEnricher(client, fastRetry())

	facts, err := e.Enrich(context.Background(), &model.Venue{Name: "x", Location: "y"})
	require.NoError(t, err)
	assert.True(t, facts.Empty())
	assert.Empty(t, client.calls)
}

func TestEnrich_SkipsFullyPopulatedVenue(t *testing.T) {
	client := newFakeClient()
	e := NewEnricher(client, fastRetry())

	v := &model.Venue{
		Name: "x", Location: "y", Website: "http://x.test",
		ContactEmail: "a@b.c", ContactPhone: "(919) 555-0134",
		Capacity: "300", TypicalGenres: "Jazz",
	}
	facts, err := e.Enrich(context.Background(), v)
	require.NoError(t, err)
	assert.True(t, facts.Empty())
	assert.Empty(t, client.calls, "no fetch for a venue with nothing missing")
}

func TestEnrich_PrimaryPageFacts(t *testing.T) {
	client := newFakeClient()
	client.pages["http://bluenote.test"] = &fetch.Result{
		Content: `booking@bluenote.test (919) 555-0134 capacity: 300 people genres: jazz, blues`,
	}
	e := NewEnricher(client, fastRetry())

	v := &model.Venue{Name: "The Blue Note", Location: "Raleigh", Website: "http://bluenote.test"}
	facts, err := e.Enrich(context.Background(), v)
	require.NoError(t, err)

	assert.Equal(t, "booking@bluenote.test", facts.Email)
	assert.Equal(t, "(919) 555-0134", facts.Phone)
	assert.Equal(t, "300", facts.Capacity)
	assert.Equal(t, "Blues; Jazz", facts.Genres)
}

func TestEnrich_SecondaryPageFillsGapsOnly(t *testing.T) {
	client := newFakeClient()
	client.pages["http://x.test"] = &fetch.Result{
		Content:      `email us: info@x.test`,
		ContactLinks: []string{"http://x.test/contact", "http://x.test/about"},
	}
	client.pages["http://x.test/contact"] = &fetch.Result{
		Content: `other@x.test call (919) 555-0199`,
	}
	e := NewEnricher(client, fastRetry())

	v := &model.Venue{Name: "x", Location: "y", Website: "http://x.test", Capacity: "250", TypicalGenres: "Rock"}
	facts, err := e.Enrich(context.Background(), v)
	require.NoError(t, err)

	// Primary fact wins; secondary only fills the phone gap.
	assert.Equal(t, "info@x.test", facts.Email)
	assert.Equal(t, "(919) 555-0199", facts.Phone)
	assert.Equal(t, 1, client.calls["http://x.test/contact"], "only the first contact link is fetched")
	assert.Zero(t, client.calls["http://x.test/about"])
}

func TestEnrich_NoSecondaryFetchWhenPrimaryComplete(t *testing.T) {
	client := newFakeClient()
	client.pages["http://x.test"] = &fetch.Result{
		Content:      `info@x.test (919) 555-0134 capacity 300 genres: jazz`,
		ContactLinks: []string{"http://x.test/contact"},
	}
	e := NewEnricher(client, fastRetry())

	v := &model.Venue{Name: "x", Location: "y", Website: "http://x.test"}
	_, err := e.Enrich(context.Background(), v)
	require.NoError(t, err)
	assert.Zero(t, client.calls["http://x.test/contact"])
}

func TestEnrich_RetriesThenSucceeds(t *testing.T) {
	client := newFakeClient()
	client.pages["http://flaky.test"] = &fetch.Result{Content: `booking@flaky.test`}
	client.failFirst["http://flaky.test"] = 2
	e := NewEnricher(client, fastRetry())

	v := &model.Venue{Name: "x", Location: "y", Website: "http://flaky.test"}
	facts, err := e.Enrich(context.Background(), v)
	require.NoError(t, err)

	assert.Equal(t, "booking@flaky.test", facts.Email)
	assert.Equal(t, 3, client.calls["http://flaky.test"])
}

func TestEnrich_ExhaustedRetriesIsNonFatal(t *testing.T) {
	client := newFakeClient()
	e := NewEnricher(client, fastRetry())

	v := &model.Venue{Name: "x", Location: "y", Website: "http://down.test"}
	facts, err := e.Enrich(context.Background(), v)

	require.NoError(t, err, "fetch failure must not be fatal")
	assert.True(t, facts.Empty())
	assert.Equal(t, 3, client.calls["http://down.test"])
}
