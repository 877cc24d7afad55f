package facs

import (
	"sync"
	"time"

	"github.com/pkg/errors"
)

// seasonalMultipliers gives the monthly infection-rate multiplier used by
// GetSeasonalEffect, indexed January..December.
var seasonalMultipliers = []float64{1.4, 1.25, 1.1, 0.95, 0.8, 0.7, 0.7, 0.8, 0.95, 1.1, 1.25, 1.4}

// Ecosystem owns every registry, the calendar, intervention state and the
// per-tick orchestration described in spec.md §5 and §7.4.
type Ecosystem struct {
	Registry *BuildingTypeRegistry
	Disease  *Disease
	Needs    *Needs

	HospitalCategory, OfficeCategory, SchoolCategory, ShoppingCategory, ParkCategory int
	HouseCategory int // pseudo-category index, last slot of ContactRateMultiplier

	locationsByCategory [][]*Location
	locationsByID       []*Location
	houses              []*House
	households          []*Household
	agents              []*Person

	LocInfMinutes []float64

	Time int
	Date time.Time

	ContactRateMultiplier []float64
	SelfIsolationMultiplier, HouseholdIsolationMultiplier float64
	TrackTraceMultiplier, CiMultiplier                    float64
	SeasonalEffect                                        float64
	AirflowIndoors, AirflowOutdoors                        float64
	HospitalProtectionFactor                              float64
	TrafficMultiplier                                     float64
	ExternalTravelMultiplier, ExternalInfectionRatio       float64
	EnforceMasksOnTransport                                bool
	KeyworkerFraction                                      float64
	WorkFromHome                                           bool
	WorkFromHomeCompliance                                 float64

	// statsMu guards NumHospitalised and the daily event counters
	// (NumInfectionsToday et al.) from concurrent updates made by workers
	// running their house partitions in parallel.
	statsMu         sync.Mutex
	NumHospitalised int

	VaccinationsAvailable, VaccinationsToday       float64
	VacNoSymptoms, VacNoTransmission, VacDuration  float64
	VaccinationsAgeLimit, VaccinationsLegalAgeLimit int
	VaccineEffectTime                              int

	Closures map[int]int // category -> day the closure takes effect

	Deterministic bool
	NumWorkers    int
	Rank          int

	GlobalStats [6]int64
	NumInfectionsToday, NumHospitalisationsToday, NumRecoveriesToday, NumDeathsToday int

	locGroups map[int]map[int]LocationID

	persistentMaskUptake, persistentMaskUptakeShopping float64
	persistentSocialDistance, persistentWorkFromHome   float64

	mutationDailyChange   float64
	mutationDaysRemaining int

	Logger DataLogger
}

// NewEcosystem wires a Disease and Needs table into a fresh, empty
// Ecosystem with default multipliers, following the Python Ecosystem
// constructor's default values (original_source/facs/base/facs.py) except
// HospitalProtectionFactor and the airflow coefficients, whose values are
// recorded in DESIGN.md's C7 entry.
func NewEcosystem(reg *BuildingTypeRegistry, disease *Disease, needs *Needs) (*Ecosystem, error) {
	e := &Ecosystem{
		Registry:                     reg,
		Disease:                      disease,
		Needs:                        needs,
		SelfIsolationMultiplier:      1.0,
		HouseholdIsolationMultiplier: 1.0,
		TrackTraceMultiplier:         1.0,
		CiMultiplier:                 0.625,
		SeasonalEffect:               1.0,
		AirflowIndoors:               0.007,
		AirflowOutdoors:              0.028,
		HospitalProtectionFactor:     0.2,
		TrafficMultiplier:            1.0,
		ExternalTravelMultiplier:     1.0,
		ExternalInfectionRatio:       0.5,
		VacNoSymptoms:                1.0,
		VacNoTransmission:            1.0,
		VaccinationsAgeLimit:         70,
		VaccinationsLegalAgeLimit:    16,
		VaccineEffectTime:            14,
		VacDuration:                  -1,
		Closures:                     make(map[int]int),
		locGroups:                    make(map[int]map[int]LocationID),
		NumWorkers:                   1,
	}
	var ok bool
	if e.HospitalCategory, ok = reg.Category("hospital"); !ok {
		return nil, errors.Errorf(UnknownCategoryError, "hospital")
	}
	e.OfficeCategory, _ = reg.Category("office")
	e.SchoolCategory, _ = reg.Category("school")
	e.ShoppingCategory, _ = reg.Category("shopping")
	e.ParkCategory, _ = reg.Category("park")
	e.HouseCategory = reg.Len()

	e.ContactRateMultiplier = make([]float64, reg.Len()+1)
	e.InitialiseSocialDistance(1.0)

	e.locationsByCategory = make([][]*Location, reg.Len())
	return e, nil
}

// adjustHospitalised atomically changes the hospital-census counter,
// called from ProgressCondition which may run concurrently across workers.
func (e *Ecosystem) adjustHospitalised(delta int) {
	e.statsMu.Lock()
	e.NumHospitalised += delta
	e.statsMu.Unlock()
}

func (e *Ecosystem) agent(id AgentID) *Person       { return e.agents[id] }
func (e *Ecosystem) household(id HouseholdID) *Household { return e.households[id] }
func (e *Ecosystem) house(id HouseID) *House        { return e.houses[id] }
func (e *Ecosystem) location(id LocationID) *Location { return e.locationsByID[id] }

// AddHouse appends a new house to the registry at the given coordinates.
func (e *Ecosystem) AddHouse(x, y float64) *House {
	h := NewHouse(HouseID(len(e.houses)), x, y)
	e.houses = append(e.houses, h)
	return h
}

// AddHousehold appends a household to a house and populates it with newly
// created agents drawn from the age distribution.
func (e *Ecosystem) AddHousehold(house *House, size int, ageDist []float64, rng *Rng) *Household {
	hh := NewHousehold(HouseholdID(len(e.households)), house.ID)
	e.households = append(e.households, hh)
	house.Households = append(house.Households, hh.ID)
	for i := 0; i < size; i++ {
		age := rng.WeightedChoice(ageDist)
		agent := NewPerson(AgentID(len(e.agents)), house.ID, hh.ID, age, rng)
		e.agents = append(e.agents, agent)
		hh.Agents = append(hh.Agents, agent.ID)
		house.NumAgents++
	}
	return hh
}

// AddLocation appends a non-residential building to the category and
// global registries.
func (e *Ecosystem) AddLocation(category int, x, y, sqm float64) *Location {
	id := LocationID(len(e.locationsByID))
	loc := NewLocation(id, category, x, y, sqm, e.ParkCategory)
	e.locationsByID = append(e.locationsByID, loc)
	e.locationsByCategory[category] = append(e.locationsByCategory[category], loc)
	return loc
}

// InitLocInfMinutes allocates the shared exposure-minutes array once every
// location has been added, sized to the total number of non-house
// locations (house contact uses the separate household-transmission path
// and has no entry here).
func (e *Ecosystem) InitLocInfMinutes() {
	e.LocInfMinutes = make([]float64, len(e.locationsByID))
}

// BuildNearestLocations resolves §4.1 for every house.
func (e *Ecosystem) BuildNearestLocations(rng *Rng) error {
	for _, h := range e.houses {
		if err := h.FindNearestLocations(e.Registry, e.locationsByCategory, e.OfficeCategory, rng); err != nil {
			return err
		}
	}
	return nil
}

// Houses exposes the house registry for worker partitioning.
func (e *Ecosystem) Houses() []*House { return e.houses }

// MakeGroup creates a round-robin grouping of a category's locations and
// assigns every agent a random group membership in it, mirroring
// facs.py's make_group.
func (e *Ecosystem) MakeGroup(category, maxGroups int, rng *Rng) {
	locs := e.locationsByCategory[category]
	if len(locs) == 0 || maxGroups <= 0 {
		return
	}
	group := make(map[int]LocationID, maxGroups)
	for i := 0; i < maxGroups; i++ {
		group[i] = locs[i%len(locs)].ID
	}
	e.locGroups[category] = group
	for _, agent := range e.agents {
		agent.AssignGroup(category, rng.UniformInt(maxGroups))
	}
}

// LocationByGroup resolves an agent's group assignment to a concrete
// location.
func (e *Ecosystem) LocationByGroup(category, groupID int) LocationID {
	group, ok := e.locGroups[category]
	if !ok {
		return NoLocation
	}
	loc, ok := group[groupID]
	if !ok {
		return NoLocation
	}
	return loc
}

// pickFromShortlist picks a location from a house's category shortlist,
// uniformly or weighted by area per the category's Weighted flag, per
// spec.md §4.2.
func (e *Ecosystem) pickFromShortlist(house *House, category int, rng *Rng) LocationID {
	if category < 0 || category >= len(house.NearestLocations) {
		return NoLocation
	}
	shortlist := house.NearestLocations[category]
	if len(shortlist) == 0 {
		return NoLocation
	}
	if len(shortlist) == 1 {
		return shortlist[0]
	}
	if e.Registry.ByIndex(category).Weighted {
		weights := make([]float64, len(shortlist))
		for i, id := range shortlist {
			weights[i] = e.location(id).Sqm
		}
		return shortlist[rng.WeightedChoice(weights)]
	}
	return shortlist[rng.UniformInt(len(shortlist))]
}

// householdHasInfectious reports whether any member of the given household
// is currently infectious and not hospitalised, gating the household
// isolation visit-time multiplier.
func (e *Ecosystem) householdHasInfectious(id HouseholdID) bool {
	return e.household(id).IsInfected(e)
}

// FindHospital implements §4.7: choose uniformly among hospitals with area
// over 4000 sqm, weighted by area.
func (e *Ecosystem) FindHospital(rng *Rng) LocationID {
	hospitals := e.locationsByCategory[e.HospitalCategory]
	var candidates []*Location
	var weights []float64
	for _, h := range hospitals {
		if h.Sqm > 4000 {
			candidates = append(candidates, h)
			weights = append(weights, h.Sqm)
		}
	}
	if len(candidates) == 0 {
		return NoLocation
	}
	return candidates[rng.WeightedChoice(weights)].ID
}

// InitialiseSocialDistance resets every category's contact-rate multiplier
// (including the pseudo "house" category) to the given ratio, the default
// no-measures state.
func (e *Ecosystem) InitialiseSocialDistance(ratio float64) {
	for i := range e.ContactRateMultiplier {
		e.ContactRateMultiplier[i] = ratio
	}
}

// GetSeasonalEffect returns the calendar month's infection-rate multiplier.
func (e *Ecosystem) GetSeasonalEffect() float64 {
	if e.Date.IsZero() {
		return 1.0
	}
	return seasonalMultipliers[int(e.Date.Month())-1]
}

// AddInfections pre-seeds num infections in houses drawn from the whole
// house registry, retrying up to 500 times per target before passing a
// warning to warn (when non-nil) and giving up on that one, per spec.md §7
// kind 3.
func (e *Ecosystem) AddInfections(num int, severity int, rng *Rng, warn func(string)) {
	for i := 0; i < num; i++ {
		infected := false
		for attempts := 0; !infected && attempts < 500; attempts++ {
			h := e.houses[rng.UniformInt(len(e.houses))]
			infected = h.AddInfection(e, severity, rng)
		}
		if !infected && warn != nil {
			warn(errors.Errorf(SeedingFailedWarning, 500).Error())
		}
	}
}

// EligibleForVaccine reports whether an agent may receive a dose: not
// already immune-by-vaccine-ineligible status, not symptom-suppressed
// already, not an antivaxxer.
func EligibleForVaccine(p *Person) bool {
	return p.Status == StatusSusceptible && !p.SymptomsSuppressed && !p.Antivax
}

// VaccinateTick implements the two-pass allocation of §4.8: first agents
// above VaccinationsAgeLimit, then (if budget remains) agents above the
// lower VaccinationsLegalAgeLimit.
func (e *Ecosystem) VaccinateTick(rng *Rng) {
	e.VaccinationsToday = 0
	if e.VaccinationsAvailable <= 0 {
		return
	}
	pass := func(ageLimit int) {
		for _, agent := range e.agents {
			if e.VaccinationsAvailable-e.VaccinationsToday <= 0 {
				return
			}
			if agent.Age > ageLimit && EligibleForVaccine(agent) {
				agent.Vaccinate(e, e.VacNoSymptoms, e.VacNoTransmission, e.VacDuration, rng)
				e.VaccinationsToday++
			}
		}
	}
	pass(e.VaccinationsAgeLimit)
	if e.VaccinationsAvailable-e.VaccinationsToday > 0 {
		pass(e.VaccinationsLegalAgeLimit)
	}
}

// EvolvePublicTransport implements §4.5, a no-op during warm-up
// (time < 0).
func (e *Ecosystem) EvolvePublicTransport(rng *Rng) {
	if e.Time < 0 {
		return
	}
	live := e.GlobalStats[StatusSusceptible] + e.GlobalStats[StatusExposed] +
		e.GlobalStats[StatusInfectious] + e.GlobalStats[StatusRecovered] + e.GlobalStats[StatusImmune]
	if live == 0 {
		return
	}
	nLive := float64(live)
	nExt := nLive * e.ExternalInfectionRatio * e.ExternalTravelMultiplier

	p := e.TrafficMultiplier
	if e.EnforceMasksOnTransport {
		p *= 0.44
	}
	p *= e.Disease.InfectionRate
	p *= 30.0 / 1440.0
	p *= (float64(e.GlobalStats[StatusInfectious]) + nExt) / nLive
	p *= 30.0 / 900.0

	for _, h := range e.houses {
		for _, hid := range h.Households {
			hh := e.household(hid)
			for _, aid := range hh.Agents {
				agent := e.agent(aid)
				if agent.Status == StatusDead {
					continue
				}
				if rng.Bernoulli(p) {
					agent.Infect(e, StatusExposed, -1, rng)
				}
			}
		}
	}
}

// RecomputeGlobalStats recounts the six status totals and should be called
// after worker.go's collective reduction (single-worker runs call it
// directly at the end of each tick).
func (e *Ecosystem) RecomputeGlobalStats() {
	var stats [6]int64
	for _, agent := range e.agents {
		stats[agent.Status]++
	}
	e.GlobalStats = stats
}

// AdvanceCalendar moves the simulation one day forward and recomputes the
// seasonal multiplier for the new date.
func (e *Ecosystem) AdvanceCalendar() {
	e.Time++
	if !e.Date.IsZero() {
		e.Date = e.Date.AddDate(0, 0, 1)
	}
	e.SeasonalEffect = e.GetSeasonalEffect()
}
