package store

import (
	"os"

	"github.com/rotisserie/eris"

	"github.com/stagelist/venue-cli/internal/model"
)

// DiscoveredHeader is the fixed column order of the discovered-venue file.
var DiscoveredHeader = []string{
	"name", "location", "address", "venue_type", "website",
	"discovered_from", "discovery_date", "status",
}

// DiscoveredStore owns the on-disk triage queue of discovered venues.
// Records are never deleted; approved and rejected rows stay for audit.
type DiscoveredStore struct {
	path string
}

// NewDiscoveredStore creates a DiscoveredStore backed by the given file path.
func NewDiscoveredStore(path string) *DiscoveredStore {
	return &DiscoveredStore{path: path}
}

// Path returns the store's file path.
func (s *DiscoveredStore) Path() string { return s.path }

// BackupPath returns the sibling file that receives the rolling backup.
func (s *DiscoveredStore) BackupPath() string { return s.path + ".backup" }

// Load reads all discovered venues. An absent or empty file yields an empty
// collection. Rows missing an identity field are skipped: they can never be
// matched by a lookup, so they are treated as not found.
func (s *DiscoveredStore) Load() ([]model.DiscoveredVenue, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, eris.Wrap(err, "store: open discovered")
	}
	defer f.Close() //nolint:errcheck

	rows, err := readAll(f)
	if err != nil {
		return nil, eris.Wrap(err, "store: read discovered")
	}

	var records []model.DiscoveredVenue
	for _, row := range rows {
		row = pad(row, len(DiscoveredHeader))
		d := model.DiscoveredVenue{
			Name:           row[0],
			Location:       row[1],
			Address:        row[2],
			VenueType:      row[3],
			Website:        row[4],
			DiscoveredFrom: row[5],
			DiscoveryDate:  row[6],
			Status:         model.DiscoveryStatus(row[7]),
		}
		if d.Name == "" || d.Location == "" {
			continue
		}
		if d.Status == "" {
			d.Status = model.StatusPending
		}
		records = append(records, d)
	}
	return records, nil
}

// Save backs up the prior file and rewrites the full collection.
func (s *DiscoveredStore) Save(records []model.DiscoveredVenue) error {
	if err := backupFile(s.path, s.BackupPath()); err != nil {
		return eris.Wrap(err, "store: backup discovered")
	}

	rows := make([][]string, 0, len(records))
	for _, d := range records {
		rows = append(rows, []string{
			d.Name, d.Location, d.Address, d.VenueType, d.Website,
			d.DiscoveredFrom, d.DiscoveryDate, string(d.Status),
		})
	}

	if err := writeAll(s.path, DiscoveredHeader, rows); err != nil {
		return eris.Wrap(err, "store: write discovered")
	}
	return nil
}

// Append adds new records, deduplicated by identity pair against everything
// already in the store, and returns the records actually added.
func (s *DiscoveredStore) Append(records []model.DiscoveredVenue) ([]model.DiscoveredVenue, error) {
	existing, err := s.Load()
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(existing))
	for _, d := range existing {
		seen[d.Key()] = true
	}

	var added []model.DiscoveredVenue
	for _, d := range records {
		if d.Name == "" || d.Location == "" || seen[d.Key()] {
			continue
		}
		seen[d.Key()] = true
		existing = append(existing, d)
		added = append(added, d)
	}

	if len(added) == 0 {
		return nil, nil
	}
	if err := s.Save(existing); err != nil {
		return nil, err
	}
	return added, nil
}

// SetStatus updates the status of the record matching the identity pair.
// Returns false when no record matches; the store is left untouched in that
// case. Transitions are last-write-wins.
func (s *DiscoveredStore) SetStatus(name, location string, status model.DiscoveryStatus) (bool, error) {
	records, err := s.Load()
	if err != nil {
		return false, err
	}

	key := model.Key(name, location)
	found := false
	for i := range records {
		if records[i].Key() == key {
			records[i].Status = status
			found = true
			break
		}
	}
	if !found {
		return false, nil
	}

	if err := s.Save(records); err != nil {
		return false, err
	}
	return true, nil
}
