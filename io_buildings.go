package facs

import (
	"encoding/csv"
	"os"
	"strconv"

	"github.com/pkg/errors"
)

// WorkspaceSqmPerWorker is the office floor area budgeted per working
// resident when generating synthetic offices. Office rows in the buildings
// CSV are skipped, so generated offices supply all office floor area.
const WorkspaceSqmPerWorker = 15.0

// WorkParticipationRate is the fraction of the population assumed to
// commute to an office.
const WorkParticipationRate = 0.5

// LoadBuildingsCSV reads a building CSV (lon, lat, label, area columns, one
// header row) and populates e's house and location registries. Every
// `houseRatio`-th row labelled as a dwelling becomes one House carrying
// houseRatio households, and the rows in between are skipped; houseRatio
// less than 1 is treated as 1. This down-sampling mirrors
// read_building_csv.py's house_ratio parameter, which --quicktest raises to
// trade population fidelity for a smaller, faster-to-simulate house count
// on populous regions. Every other labelled row becomes a Location, except
// rows mapped to "office", which are skipped here (offices are generated
// separately by GenerateOffices once the bounding box and house count are
// known).
func LoadBuildingsCSV(path string, e *Ecosystem, ageDist []float64, avgHouseholdSize float64, houseRatio int, rng *Rng) (minX, minY, maxX, maxY float64, houseCSVCount int, err error) {
	if houseRatio < 1 {
		houseRatio = 1
	}
	f, ferr := os.Open(path)
	if ferr != nil {
		return 0, 0, 0, 0, 0, errors.Wrapf(ferr, FileNotFoundError, path, ferr)
	}
	defer f.Close()
	r := csv.NewReader(f)
	rows, rerr := r.ReadAll()
	if rerr != nil {
		return 0, 0, 0, 0, 0, rerr
	}
	if len(rows) < 2 {
		return 0, 0, 0, 0, 0, errors.Errorf(BadCSVRowError, path, 0, "no data rows")
	}

	officeCategory := e.OfficeCategory
	first := true
	for i, row := range rows[1:] {
		if len(row) < 4 {
			return 0, 0, 0, 0, 0, errors.Errorf(BadCSVRowError, path, i+1, "expected 4 columns")
		}
		lon, perr := strconv.ParseFloat(row[0], 64)
		if perr != nil {
			return 0, 0, 0, 0, 0, errors.Wrapf(perr, BadCSVRowError, path, i+1, perr)
		}
		lat, perr := strconv.ParseFloat(row[1], 64)
		if perr != nil {
			return 0, 0, 0, 0, 0, errors.Wrapf(perr, BadCSVRowError, path, i+1, perr)
		}
		label := row[2]
		sqm, perr := strconv.ParseFloat(row[3], 64)
		if perr != nil {
			sqm = e.Registry.ByIndex(0).DefaultSqm
		}

		if first {
			minX, maxX, minY, maxY = lon, lon, lat, lat
			first = false
		} else {
			if lon < minX {
				minX = lon
			}
			if lon > maxX {
				maxX = lon
			}
			if lat < minY {
				minY = lat
			}
			if lat > maxY {
				maxY = lat
			}
		}

		categoryName := e.Registry.CategoryForLabel(label)
		if categoryName == "house" {
			if houseCSVCount%houseRatio == 0 {
				house := e.AddHouse(lon, lat)
				for n := 0; n < houseRatio; n++ {
					size := 1 + rng.UniformInt(maxInt(1, int(avgHouseholdSize*2)-1))
					e.AddHousehold(house, size, ageDist, rng)
				}
			}
			houseCSVCount++
			continue
		}
		category, ok := e.Registry.Category(categoryName)
		if !ok {
			continue
		}
		if category == officeCategory {
			// Offices listed in the source CSV are skipped; synthetic
			// offices are generated afterwards by GenerateOffices.
			continue
		}
		if sqm <= 0 {
			sqm = e.Registry.ByIndex(category).DefaultSqm
		}
		e.AddLocation(category, lon, lat, sqm)
	}
	return minX, minY, maxX, maxY, houseCSVCount, nil
}

// GenerateOffices adds synthetic offices at uniformly random coordinates
// within the bounding box until the cumulative office floor area reaches
// workspace * houseCSVCount * WorkParticipationRate square meters, mirroring
// addRandomOffice's rank-0-generates-then-broadcasts pattern. In the
// goroutine model every worker builds the same registry from the same
// parsed input, so there is no explicit broadcast step to translate.
func GenerateOffices(e *Ecosystem, minX, minY, maxX, maxY float64, houseCSVCount int, rng *Rng) []*Location {
	target := WorkspaceSqmPerWorker * float64(houseCSVCount) * WorkParticipationRate
	defaultSqm := e.Registry.ByIndex(e.OfficeCategory).DefaultSqm
	if defaultSqm <= 0 {
		defaultSqm = 500
	}
	var added []*Location
	for total := 0.0; total < target; total += defaultSqm {
		x := minX + rng.UniformFloat()*(maxX-minX)
		y := minY + rng.UniformFloat()*(maxY-minY)
		added = append(added, e.AddLocation(e.OfficeCategory, x, y, defaultSqm))
	}
	return added
}

// WriteOfficesCSV persists generated offices to offices.csv, matching
// addRandomOffice's output side effect.
func WriteOfficesCSV(path string, offices []*Location) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, FileNotFoundError, path, err)
	}
	defer f.Close()
	w := csv.NewWriter(f)
	defer w.Flush()
	if err := w.Write([]string{"lon", "lat", "label", "sqm"}); err != nil {
		return err
	}
	for _, office := range offices {
		row := []string{
			strconv.FormatFloat(office.X, 'f', 6, 64),
			strconv.FormatFloat(office.Y, 'f', 6, 64),
			"office",
			strconv.FormatFloat(office.Sqm, 'f', 1, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}
