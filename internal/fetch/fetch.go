// Package fetch retrieves best-effort textual snapshots of venue websites.
// Target sites are frequently JavaScript-rendered, so the real implementation
// drives a headless browser; the Client interface keeps the engine swappable
// for a canned-HTML double in tests.
package fetch

import "context"

// Result is one fetched page: the raw markup concatenated with the rendered
// visible text, plus any contact-like links found on the page.
type Result struct {
	// Content is the page HTML followed by the rendered body text. Both are
	// included so the extractors see mailto:/tel: hrefs and visible text.
	Content string `json:"content"`

	// ContactLinks are resolved URLs of anchors whose text or target matches
	// contact|booking|about|info, in document order.
	ContactLinks []string `json:"contact_links,omitempty"`
}

// Client fetches a single URL and returns its content snapshot.
type Client interface {
	Fetch(ctx context.Context, url string) (*Result, error)
	Close() error
}
