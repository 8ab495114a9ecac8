package extract

import (
	"testing"

	"github.com/stagelist/venue-cli/internal/model"
)

const samplePage = `
<html><body>
<p>Book shows: booking@bluenote.test</p>
<p>Call (919) 555-0134</p>
<p>capacity: 300 people</p>
<p>genres: jazz, blues</p>
</body></html>`

func TestRun_AllMissing(t *testing.T) {
	facts := Run(samplePage, model.Missing{Email: true, Phone: true, Capacity: true, Genres: true})

	if facts.Email != "booking@bluenote.test" {
		t.Errorf("email: got %q", facts.Email)
	}
	if facts.Phone != "(919) 555-0134" {
		t.Errorf("phone: got %q", facts.Phone)
	}
	if facts.Capacity != "300" {
		t.Errorf("capacity: got %q", facts.Capacity)
	}
	if facts.Genres != "Blues; Jazz" {
		t.Errorf("genres: got %q", facts.Genres)
	}
}

func TestRun_OnlyMissingFieldsExtracted(t *testing.T) {
	facts := Run(samplePage, model.Missing{Phone: true})

	if facts.Email != "" || facts.Capacity != "" || facts.Genres != "" {
		t.Errorf("extracted fields that were not missing: %+v", facts)
	}
	if facts.Phone != "(919) 555-0134" {
		t.Errorf("phone: got %q", facts.Phone)
	}
}

func TestRun_NothingFound(t *testing.T) {
	facts := Run("an empty page", model.Missing{Email: true, Phone: true, Capacity: true, Genres: true})
	if !facts.Empty() {
		t.Errorf("expected empty facts, got %+v", facts)
	}
}
