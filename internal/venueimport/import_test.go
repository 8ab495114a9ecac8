package venueimport

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/stagelist/venue-cli/internal/model"
)

type memStore struct {
	venues []model.Venue
	saves  int
}

func (m *memStore) Load() ([]model.Venue, error) { return m.venues, nil }

func (m *memStore) Save(venues []model.Venue) error {
	m.venues = venues
	m.saves++
	return nil
}

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "venues.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestImportFile_CSV(t *testing.T) {
	path := writeCSV(t, `Venue Name,City,Website,Email
The Blue Note,Raleigh,http://bluenote.test,booking@bluenote.test
The Pour House,Raleigh,http://pourhouse.test,
,Raleigh,http://nameless.test,
`)
	s := &memStore{}

	res, err := ImportFile(s, path)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Added)
	assert.Equal(t, 0, res.Merged)
	assert.Equal(t, 1, res.Skipped, "rows without both identity fields are skipped")

	require.Len(t, s.venues, 2)
	assert.Equal(t, "The Blue Note", s.venues[0].Name)
	assert.Equal(t, "Raleigh", s.venues[0].Location)
	assert.Equal(t, "booking@bluenote.test", s.venues[0].ContactEmail)
}

func TestImportFile_MergeFillsGapsOnly(t *testing.T) {
	path := writeCSV(t, `name,location,website,phone
the blue note,raleigh,http://other.test,(919) 555-0134
`)
	s := &memStore{venues: []model.Venue{{
		Name:     "The Blue Note",
		Location: "Raleigh",
		Website:  "http://bluenote.test",
	}}}

	res, err := ImportFile(s, path)
	require.NoError(t, err)

	assert.Equal(t, 0, res.Added)
	assert.Equal(t, 1, res.Merged)
	require.Len(t, s.venues, 1)
	assert.Equal(t, "http://bluenote.test", s.venues[0].Website, "populated field survives")
	assert.Equal(t, "(919) 555-0134", s.venues[0].ContactPhone, "gap is filled")
}

func TestImportFile_DuplicateRowsInFile(t *testing.T) {
	path := writeCSV(t, `name,location
The Blue Note,Raleigh
The Blue Note,Raleigh
`)
	s := &memStore{}

	res, err := ImportFile(s, path)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Added)
	assert.Equal(t, 1, res.Skipped)
}

func TestImportFile_NoChangesNoSave(t *testing.T) {
	path := writeCSV(t, `name,location
The Blue Note,Raleigh
`)
	s := &memStore{venues: []model.Venue{{Name: "The Blue Note", Location: "Raleigh"}}}

	res, err := ImportFile(s, path)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Skipped)
	assert.Zero(t, s.saves, "identical re-import must not rewrite the store")
}

func TestImportFile_XLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "venues.xlsx")

	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Venues")
	require.NoError(t, err)
	for _, row := range [][]string{
		{"Name", "Location", "Capacity"},
		{"Meymandi Concert Hall", "Raleigh", "1700"},
	} {
		r := sheet.AddRow()
		for _, cell := range row {
			r.AddCell().SetString(cell)
		}
	}
	require.NoError(t, f.Save(path))

	s := &memStore{}
	res, err := ImportFile(s, path)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Added)
	require.Len(t, s.venues, 1)
	assert.Equal(t, "1700", s.venues[0].Capacity)
}

func TestImportFile_UnsupportedExtension(t *testing.T) {
	_, err := ImportFile(&memStore{}, "venues.json")
	assert.Error(t, err)
}

func TestImportFile_MissingNameColumn(t *testing.T) {
	path := writeCSV(t, `city,website
Raleigh,http://x.test
`)
	_, err := ImportFile(&memStore{}, path)
	assert.Error(t, err)
}
