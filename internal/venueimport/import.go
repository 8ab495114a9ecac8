// Package venueimport loads master venue lists from CSV or XLSX files into
// the directory, merging by identity pair so re-imports are safe.
package venueimport

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/stagelist/venue-cli/internal/model"
)

// VenueStore is the slice of directory behavior importing needs.
type VenueStore interface {
	Load() ([]model.Venue, error)
	Save(venues []model.Venue) error
}

// Result reports the outcome of one import.
type Result struct {
	Added   int
	Merged  int
	Skipped int
}

// headerAliases maps the column names accepted in source files onto venue
// fields. Matching is case-insensitive after trimming.
var headerAliases = map[string]string{
	"name":           "name",
	"venue":          "name",
	"venue name":     "name",
	"location":       "location",
	"city":           "location",
	"address":        "address",
	"street address": "address",
	"venue type":     "venue_type",
	"venue_type":     "venue_type",
	"type":           "venue_type",
	"capacity":       "capacity",
	"contact email":  "contact_email",
	"contact_email":  "contact_email",
	"email":          "contact_email",
	"contact phone":  "contact_phone",
	"contact_phone":  "contact_phone",
	"phone":          "contact_phone",
	"contact name":   "contact_name",
	"contact_name":   "contact_name",
	"contact":        "contact_name",
	"website":        "website",
	"url":            "website",
	"typical genres": "typical_genres",
	"typical_genres": "typical_genres",
	"genres":         "typical_genres",
}

// ImportFile reads the given CSV or XLSX file and merges its rows into the
// store. New identity pairs are appended; rows matching an existing venue
// fill its empty fields only. Rows without both identity fields are skipped.
func ImportFile(store VenueStore, path string) (*Result, error) {
	var (
		rows [][]string
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		rows, err = readCSV(path)
	case ".xlsx":
		rows, err = readXLSX(path)
	default:
		return nil, eris.Errorf("import: unsupported file type %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, eris.New("import: file has no rows")
	}

	fields := mapHeader(rows[0])
	if _, ok := fields["name"]; !ok {
		return nil, eris.New("import: no name column found in header")
	}

	incoming := make([]model.Venue, 0, len(rows)-1)
	skipped := 0
	for _, row := range rows[1:] {
		v := rowToVenue(row, fields)
		if v.Name == "" || v.Location == "" {
			skipped++
			continue
		}
		incoming = append(incoming, v)
	}

	res, err := merge(store, incoming)
	if err != nil {
		return nil, err
	}
	res.Skipped += skipped

	zap.L().Info("import complete",
		zap.String("file", path),
		zap.Int("added", res.Added),
		zap.Int("merged", res.Merged),
		zap.Int("skipped", res.Skipped),
	)
	return res, nil
}

// merge folds incoming venues into the store. Existing records only gain
// values for fields they lack; populated fields are never overwritten.
func merge(store VenueStore, incoming []model.Venue) (*Result, error) {
	existing, err := store.Load()
	if err != nil {
		return nil, eris.Wrap(err, "import: load directory")
	}

	index := make(map[string]int, len(existing))
	for i, v := range existing {
		index[v.Key()] = i
	}

	res := &Result{}
	dirty := false
	seen := make(map[string]bool, len(incoming))
	for _, v := range incoming {
		key := v.Key()
		if seen[key] {
			res.Skipped++
			continue
		}
		seen[key] = true

		i, ok := index[key]
		if !ok {
			index[key] = len(existing)
			existing = append(existing, v)
			res.Added++
			dirty = true
			continue
		}
		if fillEmpty(&existing[i], v) {
			res.Merged++
			dirty = true
		} else {
			res.Skipped++
		}
	}

	if dirty {
		if err := store.Save(existing); err != nil {
			return nil, eris.Wrap(err, "import: save directory")
		}
	}
	return res, nil
}

// fillEmpty copies populated fields of src into empty fields of dst and
// reports whether anything changed.
func fillEmpty(dst *model.Venue, src model.Venue) bool {
	changed := false
	set := func(field *string, value string) {
		if *field == "" && value != "" {
			*field = value
			changed = true
		}
	}
	set(&dst.Address, src.Address)
	set(&dst.VenueType, src.VenueType)
	set(&dst.Capacity, src.Capacity)
	set(&dst.ContactEmail, src.ContactEmail)
	set(&dst.ContactPhone, src.ContactPhone)
	set(&dst.ContactName, src.ContactName)
	set(&dst.Website, src.Website)
	set(&dst.TypicalGenres, src.TypicalGenres)
	return changed
}

func mapHeader(header []string) map[string]int {
	fields := make(map[string]int)
	for i, col := range header {
		key := strings.ToLower(strings.TrimSpace(col))
		if field, ok := headerAliases[key]; ok {
			if _, dup := fields[field]; !dup {
				fields[field] = i
			}
		}
	}
	return fields
}

func rowToVenue(row []string, fields map[string]int) model.Venue {
	at := func(field string) string {
		i, ok := fields[field]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}
	return model.Venue{
		Name:          at("name"),
		Location:      at("location"),
		Address:       at("address"),
		VenueType:     at("venue_type"),
		Capacity:      at("capacity"),
		ContactEmail:  at("contact_email"),
		ContactPhone:  at("contact_phone"),
		ContactName:   at("contact_name"),
		Website:       at("website"),
		TypicalGenres: at("typical_genres"),
	}
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "import: open csv")
	}
	defer f.Close() //nolint:errcheck

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // allow variable fields
	reader.LazyQuotes = true

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, eris.Wrap(err, "import: read csv row")
		}
		rows = append(rows, record)
	}
}

func readXLSX(path string) ([][]string, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "import: open xlsx")
	}
	if len(f.Sheets) == 0 {
		return nil, eris.New("import: xlsx has no sheets")
	}

	var rows [][]string
	for _, row := range f.Sheets[0].Rows {
		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = cell.String()
		}
		rows = append(rows, cells)
	}
	return rows, nil
}
