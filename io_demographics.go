package facs

import (
	"encoding/csv"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// DefaultAgeColumn is used when the requested country column is absent from
// the age-distribution CSV, matching read_age_csv.py's United Kingdom
// fallback.
const DefaultAgeColumn = "United Kingdom"

// LoadAgeDistribution reads a wide age-distribution CSV (one row per age,
// one column per country, lower-cased header matching) and returns a
// probability mass with one entry per data row, normalised to sum to one.
func LoadAgeDistribution(path, column string) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, FileNotFoundError, path, err)
	}
	defer f.Close()
	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, errors.Errorf(BadCSVRowError, path, 0, "no data rows")
	}
	header := rows[0]
	colIdx := -1
	wanted := strings.ToLower(column)
	fallbackIdx := -1
	for i, h := range header {
		lh := strings.ToLower(strings.TrimSpace(h))
		if lh == wanted {
			colIdx = i
		}
		if lh == strings.ToLower(DefaultAgeColumn) {
			fallbackIdx = i
		}
	}
	if colIdx < 0 {
		colIdx = fallbackIdx
	}
	if colIdx < 0 {
		return nil, errors.Errorf(MissingFieldError, path, column)
	}

	ages := make([]float64, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if colIdx >= len(row) {
			return nil, errors.Errorf(BadCSVRowError, path, i+1, "missing column")
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(row[colIdx]), 64)
		if err != nil {
			return nil, errors.Wrapf(err, BadCSVRowError, path, i+1, err)
		}
		ages = append(ages, v)
	}
	total := 0.0
	for _, v := range ages {
		total += v
	}
	if total <= 0 {
		return nil, errors.Errorf(InvalidProbabilityError, "age distribution total", total)
	}
	for i := range ages {
		ages[i] /= total
	}
	return ages, nil
}
