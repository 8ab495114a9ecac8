package discovery

import (
	"net/url"
	"regexp"
	"strings"
)

// excludedDomains are aggregator, ticketing, and social sites whose result
// pages describe venues without being one.
var excludedDomains = []string{
	"ticketmaster.", "eventbrite.", "stubhub.", "seatgeek.",
	"bandsintown.", "songkick.", "facebook.", "instagram.",
	"twitter.", "x.com", "yelp.", "tripadvisor.", "wikipedia.",
	"youtube.", "reddit.", "foursquare.",
}

var excludedNameWords = []string{
	"event", "ticket", "things to do", "best of", "top 10", "guide to",
}

// excluded reports whether a search result is an aggregator or listing page
// rather than a venue's own site.
func excluded(r searchResult) bool {
	if host := hostOf(r.Link); host != "" {
		for _, d := range excludedDomains {
			if strings.Contains(host, d) {
				return true
			}
		}
	}
	lower := strings.ToLower(r.Name)
	for _, w := range excludedNameWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

func hostOf(link string) string {
	u, err := url.Parse(link)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

// typeRules maps keyword sets to a venue type, checked in priority order so
// "jazz bar" lands on Jazz Club rather than Bar.
var typeRules = []struct {
	words []string
	label string
}{
	{[]string{"theater", "theatre", "playhouse"}, "Theater"},
	{[]string{"jazz"}, "Jazz Club"},
	{[]string{"blues"}, "Blues Club"},
	{[]string{"bar", "pub", "tavern", "saloon"}, "Bar"},
	{[]string{"coffee", "cafe", "café"}, "Coffee House"},
	{[]string{"brewery", "brewing", "taproom"}, "Brewery"},
	{[]string{"amphitheater", "amphitheatre", "outdoor", "pavilion"}, "Outdoor Venue"},
	{[]string{"hall", "center", "centre", "auditorium", "arena"}, "Concert Hall"},
}

// classify derives a coarse venue type from the result's name and snippet.
func classify(text string) string {
	lower := strings.ToLower(text)
	for _, rule := range typeRules {
		for _, w := range rule.words {
			if strings.Contains(lower, w) {
				return rule.label
			}
		}
	}
	return "Music Venue"
}

// addressRe matches a US-style street address: leading number, then a name
// ending in a street-type word.
var addressRe = regexp.MustCompile(
	`\b\d{1,5}\s+[A-Z][A-Za-z0-9 .]*?` +
		`(?:Street|St|Avenue|Ave|Boulevard|Blvd|Road|Rd|Drive|Dr|Lane|Ln|Way|Place|Pl)\.?\b`)

// extractAddress pulls the first street address out of a snippet, if any.
func extractAddress(snippet string) string {
	return strings.TrimSpace(addressRe.FindString(snippet))
}
