package facs

import (
	"encoding/csv"
	"math"
	"os"
	"sort"
	"strconv"

	"github.com/pkg/errors"
)

// HouseID indexes into Ecosystem.houses.
type HouseID int

// House is a spatial anchor holding one or more households. Its
// nearest-locations cache is computed once after ingest and reused for
// every visit-planning tick thereafter.
type House struct {
	ID              HouseID
	X, Y            float64
	Households      []HouseholdID
	NearestLocations [][]LocationID // indexed by category
	NumAgents       int
}

// NewHouse constructs an empty House at the given coordinates.
func NewHouse(id HouseID, x, y float64) *House {
	return &House{ID: id, X: x, Y: y}
}

func calcDist(x1, y1, x2, y2 float64) float64 {
	dx := x1 - x2
	dy := y1 - y2
	return math.Sqrt(dx*dx + dy*dy)
}

// FindNearestLocations implements §4.1: for every category, score each
// building of that category by euclidean distance over sqrt(area), keep
// the nearest `neighbours`, collapse to one uniformly-chosen member when
// the category is `fixed`. Offices are always picked uniformly at random
// from the full office set regardless of distance, since offices model
// commuting rather than proximity.
func (h *House) FindNearestLocations(reg *BuildingTypeRegistry, locations [][]*Location, officeCategory int, rng *Rng) error {
	h.NearestLocations = make([][]LocationID, reg.Len())
	for cat := 0; cat < reg.Len(); cat++ {
		locs := locations[cat]
		if len(locs) == 0 {
			h.NearestLocations[cat] = nil
			continue
		}
		for _, loc := range locs {
			if loc.Sqm <= 0 {
				return errors.Errorf(ZeroAreaLocationError, int(loc.ID), reg.ByIndex(cat).Name)
			}
		}
		if cat == officeCategory {
			h.NearestLocations[cat] = []LocationID{locs[rng.UniformInt(len(locs))].ID}
			continue
		}
		bt := reg.ByIndex(cat)
		type scoredLoc struct {
			id    LocationID
			score float64
		}
		scoredList := make([]scoredLoc, len(locs))
		for i, loc := range locs {
			scoredList[i] = scoredLoc{id: loc.ID, score: calcDist(h.X, h.Y, loc.X, loc.Y) / math.Sqrt(loc.Sqm)}
		}
		sort.Slice(scoredList, func(i, j int) bool { return scoredList[i].score < scoredList[j].score })
		n := bt.Neighbours
		if n > len(scoredList) || n <= 0 {
			n = len(scoredList)
		}
		shortlist := make([]LocationID, n)
		for i := 0; i < n; i++ {
			shortlist[i] = scoredList[i].id
		}
		if bt.Fixed && len(shortlist) > 0 {
			shortlist = []LocationID{shortlist[rng.UniformInt(len(shortlist))]}
		}
		h.NearestLocations[cat] = shortlist
	}
	return nil
}

// WriteNearestLocationsCSV persists the resolver's output, one row per
// house and one column per category, each cell the global LocationID of the
// first entry of that category's shortlist, or -1 when the shortlist is
// empty. Shortlist entries after the first are not written.
func WriteNearestLocationsCSV(path string, houses []*House, numCategories int) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, FileNotFoundError, path, err)
	}
	defer f.Close()
	w := csv.NewWriter(f)
	defer w.Flush()
	for _, h := range houses {
		row := make([]string, numCategories)
		for cat := 0; cat < numCategories; cat++ {
			if cat < len(h.NearestLocations) && len(h.NearestLocations[cat]) > 0 {
				row[cat] = strconv.Itoa(int(h.NearestLocations[cat][0]))
			} else {
				row[cat] = "-1"
			}
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// LoadNearestLocationsCSV reloads a previously written nearest-locations
// table, assigning each house a single-entry shortlist per category holding
// the written LocationID (cells of -1 leave that category's shortlist
// empty). A house whose shortlist had several entries when written reloads
// with only the first of them.
func LoadNearestLocationsCSV(path string, houses []*House, numCategories int) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, FileNotFoundError, path, err)
	}
	defer f.Close()
	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return err
	}
	if len(rows) != len(houses) {
		return errors.Errorf(BadCSVRowError, path, len(rows), "row count does not match house count")
	}
	for i, row := range rows {
		h := houses[i]
		h.NearestLocations = make([][]LocationID, numCategories)
		for cat := 0; cat < numCategories && cat < len(row); cat++ {
			idx, err := strconv.Atoi(row[cat])
			if err != nil {
				return errors.Wrapf(err, BadCSVRowError, path, i, err)
			}
			if idx >= 0 {
				h.NearestLocations[cat] = []LocationID{LocationID(idx)}
			}
		}
	}
	return nil
}

// AddInfection pre-seeds one infection in a uniformly-chosen household
// member. Returns false if the chosen agent was not susceptible, letting
// the caller retry (spec.md §7 kind 3: up to 500 attempts).
func (h *House) AddInfection(e *Ecosystem, severity int, rng *Rng) bool {
	if len(h.Households) == 0 {
		return false
	}
	hh := e.household(h.Households[rng.UniformInt(len(h.Households))])
	if len(hh.Agents) == 0 {
		return false
	}
	agent := e.agent(hh.Agents[rng.UniformInt(len(hh.Agents))])
	if agent.Status != StatusSusceptible {
		return false
	}
	agent.Infect(e, severity, -1, rng)
	return true
}

// HasAgeSusceptible reports whether the house contains a susceptible agent
// of the given age. The original source checked `age.status` instead of
// `agent.status` here (original_source/facs/base/house.py line 118); that
// is a bug, corrected per spec.md §9(c).
func (h *House) HasAgeSusceptible(e *Ecosystem, age int) bool {
	for _, hid := range h.Households {
		hh := e.household(hid)
		for _, aid := range hh.Agents {
			agent := e.agent(aid)
			if agent.Age == age && agent.Status == StatusSusceptible {
				return true
			}
		}
	}
	return false
}

// AddInfectionByAge infects every susceptible agent of the given age in the
// house.
func (h *House) AddInfectionByAge(e *Ecosystem, age int, rng *Rng) {
	for _, hid := range h.Households {
		hh := e.household(hid)
		for _, aid := range hh.Agents {
			agent := e.agent(aid)
			if agent.Age == age && agent.Status == StatusSusceptible {
				agent.Infect(e, StatusExposed, -1, rng)
			}
		}
	}
}
