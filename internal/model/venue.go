// Package model defines the venue directory records shared across the CLI.
package model

import "strings"

// DiscoveryStatus represents the triage state of a discovered venue.
type DiscoveryStatus string

const (
	StatusPending  DiscoveryStatus = "pending"
	StatusApproved DiscoveryStatus = "approved"
	StatusRejected DiscoveryStatus = "rejected"
)

// Venue is a directory entry for a place hosting live music.
// Capacity is kept as a string because the store is a plain tabular file and
// an unknown capacity is the empty string, not zero.
type Venue struct {
	Name          string `json:"name"`
	Location      string `json:"location"`
	Address       string `json:"address,omitempty"`
	VenueType     string `json:"venue_type,omitempty"`
	Capacity      string `json:"capacity,omitempty"`
	ContactEmail  string `json:"contact_email,omitempty"`
	ContactPhone  string `json:"contact_phone,omitempty"`
	ContactName   string `json:"contact_name,omitempty"`
	Website       string `json:"website,omitempty"`
	TypicalGenres string `json:"typical_genres,omitempty"`
}

// DiscoveredVenue is a candidate awaiting human triage before promotion into
// the main directory.
type DiscoveredVenue struct {
	Name           string          `json:"name"`
	Location       string          `json:"location"`
	Address        string          `json:"address,omitempty"`
	VenueType      string          `json:"venue_type,omitempty"`
	Website        string          `json:"website,omitempty"`
	DiscoveredFrom string          `json:"discovered_from,omitempty"`
	DiscoveryDate  string          `json:"discovery_date,omitempty"`
	Status         DiscoveryStatus `json:"status"`
}

// Key builds the case-insensitive identity pair used to deduplicate records.
// All lookups and uniqueness checks go through this, never raw string compare.
func Key(name, location string) string {
	return strings.ToLower(strings.TrimSpace(name)) + "\x1f" + strings.ToLower(strings.TrimSpace(location))
}

// Key returns the venue's identity pair.
func (v *Venue) Key() string { return Key(v.Name, v.Location) }

// Key returns the discovered venue's identity pair.
func (d *DiscoveredVenue) Key() string { return Key(d.Name, d.Location) }

// Facts holds the optional values produced by one extraction pass. A Facts
// value is ephemeral: it is merged into a Venue or discarded, never persisted.
type Facts struct {
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Capacity string `json:"capacity,omitempty"`
	Genres   string `json:"genres,omitempty"`
}

// Empty reports whether the pass found nothing.
func (f Facts) Empty() bool {
	return f.Email == "" && f.Phone == "" && f.Capacity == "" && f.Genres == ""
}

// Merge copies values from other into f, keeping f's existing values. Used to
// layer secondary-page facts under primary-page facts.
func (f Facts) Merge(other Facts) Facts {
	if f.Email == "" {
		f.Email = other.Email
	}
	if f.Phone == "" {
		f.Phone = other.Phone
	}
	if f.Capacity == "" {
		f.Capacity = other.Capacity
	}
	if f.Genres == "" {
		f.Genres = other.Genres
	}
	return f
}

// Apply fills empty venue fields from f and reports whether anything changed.
// Populated fields are never overwritten.
func (f Facts) Apply(v *Venue) bool {
	changed := false
	if v.ContactEmail == "" && f.Email != "" {
		v.ContactEmail = f.Email
		changed = true
	}
	if v.ContactPhone == "" && f.Phone != "" {
		v.ContactPhone = f.Phone
		changed = true
	}
	if v.Capacity == "" && f.Capacity != "" {
		v.Capacity = f.Capacity
		changed = true
	}
	if v.TypicalGenres == "" && f.Genres != "" {
		v.TypicalGenres = f.Genres
		changed = true
	}
	return changed
}

// Missing describes which of the four enrichment target fields a venue still
// lacks.
type Missing struct {
	Email    bool
	Phone    bool
	Capacity bool
	Genres   bool
}

// MissingFields reports the enrichment gaps on a venue.
func MissingFields(v *Venue) Missing {
	return Missing{
		Email:    v.ContactEmail == "",
		Phone:    v.ContactPhone == "",
		Capacity: v.Capacity == "",
		Genres:   v.TypicalGenres == "",
	}
}

// Any reports whether at least one target field is missing.
func (m Missing) Any() bool { return m.Email || m.Phone || m.Capacity || m.Genres }

// None reports whether every target field is populated.
func (m Missing) None() bool { return !m.Any() }
