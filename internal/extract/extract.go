// Package extract turns raw page text into candidate venue facts via
// heuristic pattern matching. Every extractor is a pure function: text in,
// optional value out, no I/O. Heuristics are best-effort; an empty result is
// a normal outcome, not an error.
package extract

import "github.com/stagelist/venue-cli/internal/model"

// Run applies the extractors for the fields listed as missing and returns
// whatever they found. Fields not marked missing are never extracted, so a
// caller can cheaply rerun extraction for a shrinking gap set.
func Run(text string, missing model.Missing) model.Facts {
	var facts model.Facts
	if missing.Email {
		facts.Email = Email(text)
	}
	if missing.Phone {
		facts.Phone = Phone(text)
	}
	if missing.Capacity {
		facts.Capacity = Capacity(text)
	}
	if missing.Genres {
		facts.Genres = Genres(text)
	}
	return facts
}
