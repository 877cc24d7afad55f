package facs

import (
	"encoding/csv"
	"os"
	"strconv"

	"github.com/pkg/errors"
)

// LoadNeedsCSV parses a needs table CSV: header row names one building
// category per column after the leading age-index column, each data row is
// one age's weekly minutes in each category. Columns are reordered to match
// reg's category order; a category present in reg but absent from the file
// errors via MissingFieldError rather than silently defaulting to zero,
// matching the source's column-set equality check in Needs.__init__.
func LoadNeedsCSV(path string, reg *BuildingTypeRegistry) ([][]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, FileNotFoundError, path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "parsing needs CSV")
	}
	if len(records) < 2 {
		return nil, errors.Errorf("needs file %s has no data rows", path)
	}

	header := records[0]
	colForCategory := make([]int, reg.Len())
	for cat, name := range reg.Names() {
		found := -1
		for col := 1; col < len(header); col++ {
			if header[col] == name {
				found = col
				break
			}
		}
		if found < 0 {
			return nil, errors.Errorf(MissingFieldError, path, name)
		}
		colForCategory[cat] = found
	}

	rows := make([][]float64, MaxAge+1)
	for age := range rows {
		rows[age] = make([]float64, reg.Len())
	}
	for _, rec := range records[1:] {
		if len(rec) == 0 {
			continue
		}
		age, err := strconv.Atoi(rec[0])
		if err != nil || age < 0 || age > MaxAge {
			continue
		}
		for cat, col := range colForCategory {
			if col >= len(rec) {
				continue
			}
			v, err := strconv.ParseFloat(rec[col], 64)
			if err != nil {
				continue
			}
			rows[age][cat] = v
		}
	}
	return rows, nil
}
