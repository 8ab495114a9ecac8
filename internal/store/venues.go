// Package store persists the venue directory. The master and discovered
// collections are delimited tabular files with a fixed header; every rewrite
// is preceded by a single rolling backup of the prior file. A SQLite database
// holds the fetch cache and run history.
package store

import (
	"encoding/csv"
	"io"
	"os"

	"github.com/rotisserie/eris"

	"github.com/stagelist/venue-cli/internal/model"
)

// VenueHeader is the fixed column order of the master venue file.
var VenueHeader = []string{
	"name", "location", "address", "venue_type", "capacity",
	"contact_email", "contact_phone", "contact_name", "website", "typical_genres",
}

// VenueStore owns the on-disk representation of the master venue collection.
// Callers hold the loaded slice as the single in-memory copy during a run and
// flush it back through Save.
type VenueStore struct {
	path string
}

// NewVenueStore creates a VenueStore backed by the given file path.
func NewVenueStore(path string) *VenueStore {
	return &VenueStore{path: path}
}

// Path returns the store's file path.
func (s *VenueStore) Path() string { return s.path }

// BackupPath returns the sibling file that receives the rolling backup.
func (s *VenueStore) BackupPath() string { return s.path + ".backup" }

// Load reads the full venue collection. An absent or empty file yields an
// empty collection, not an error.
func (s *VenueStore) Load() ([]model.Venue, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, eris.Wrap(err, "store: open venues")
	}
	defer f.Close() //nolint:errcheck

	rows, err := readAll(f)
	if err != nil {
		return nil, eris.Wrap(err, "store: read venues")
	}

	var venues []model.Venue
	for _, row := range rows {
		row = pad(row, len(VenueHeader))
		v := model.Venue{
			Name:          row[0],
			Location:      row[1],
			Address:       row[2],
			VenueType:     row[3],
			Capacity:      row[4],
			ContactEmail:  row[5],
			ContactPhone:  row[6],
			ContactName:   row[7],
			Website:       row[8],
			TypicalGenres: row[9],
		}
		if v.Name == "" || v.Location == "" {
			// Malformed record: unreferencable by identity pair, drop it.
			continue
		}
		venues = append(venues, v)
	}
	return venues, nil
}

// Save backs up the prior file and rewrites the full collection with the
// fixed header. The backup-then-overwrite sequence means a failed write never
// destroys the last good copy.
func (s *VenueStore) Save(venues []model.Venue) error {
	if err := backupFile(s.path, s.BackupPath()); err != nil {
		return eris.Wrap(err, "store: backup venues")
	}

	rows := make([][]string, 0, len(venues))
	for _, v := range venues {
		rows = append(rows, []string{
			v.Name, v.Location, v.Address, v.VenueType, v.Capacity,
			v.ContactEmail, v.ContactPhone, v.ContactName, v.Website, v.TypicalGenres,
		})
	}

	if err := writeAll(s.path, VenueHeader, rows); err != nil {
		return eris.Wrap(err, "store: write venues")
	}
	return nil
}

// Find returns the venue matching the identity pair, or nil.
func Find(venues []model.Venue, name, location string) *model.Venue {
	key := model.Key(name, location)
	for i := range venues {
		if venues[i].Key() == key {
			return &venues[i]
		}
	}
	return nil
}

// readAll consumes a headered tabular file and returns the data rows.
func readAll(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // tolerate ragged rows

	var rows [][]string
	first := true
	for {
		record, err := reader.Read()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}
		if first {
			first = false
			continue // header
		}
		rows = append(rows, record)
	}
}

// writeAll rewrites path with a header and the full row set.
func writeAll(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		f.Close() //nolint:errcheck
		return err
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			f.Close() //nolint:errcheck
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close() //nolint:errcheck
		return err
	}
	return f.Close()
}

// backupFile copies src over dst if src exists. One rolling backup, not a
// versioned history.
func backupFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return os.WriteFile(dst, data, 0o644)
}

func pad(row []string, n int) []string {
	for len(row) < n {
		row = append(row, "")
	}
	return row
}
