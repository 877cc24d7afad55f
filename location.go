package facs

import "sync"

// LocationID indexes into Ecosystem.locationsByID.
type LocationID int

// NoLocation marks an absent location reference (e.g. an agent with no
// assigned hospital yet).
const NoLocation LocationID = -1

// AvgVisitTimes gives the default per-visit minutes for each of the seven
// base categories, in the building-types YAML's index order: park,
// hospital, supermarket, office, school, leisure, shopping.
var AvgVisitTimes = []float64{90, 60, 60, 360, 360, 60, 60}

// MinutesOpened is the daily opening window (12 hours) used to normalise
// the per-location infection base rate.
const MinutesOpened = 12 * 60.0

// visit records one agent's planned attendance at a location for the
// current tick.
type visit struct {
	agent     AgentID
	visitTime float64
}

// Location is a non-residential building: a park, hospital, supermarket,
// office, school, leisure venue or shop.
type Location struct {
	ID            LocationID
	Category      int
	X, Y          float64
	Sqm           float64
	AvgVisitTime  float64
	ExposureID    int

	// mu guards visits, detCounter and this location's slot in
	// Ecosystem.LocInfMinutes, all of which RegisterVisit may update from
	// concurrently running workers during a partitioned tick.
	mu         sync.Mutex
	visits     []visit
	detCounter float64
}

// NewLocation constructs a Location. Parks have their area multiplied by
// ten on construction, per the literature-derived effective-usable-share
// correction.
func NewLocation(id LocationID, category int, x, y, sqm float64, parkCategory int) *Location {
	if category == parkCategory {
		sqm *= 10
	}
	avgTime := 60.0
	if category >= 0 && category < len(AvgVisitTimes) {
		avgTime = AvgVisitTimes[category]
	}
	return &Location{
		ID:           id,
		Category:     category,
		X:            x,
		Y:            y,
		Sqm:          sqm,
		AvgVisitTime: avgTime,
		ExposureID:   int(id),
		detCounter:   0.5,
	}
}

// ClearVisits resets the day's visit list and the location's entry in the
// shared exposure-minutes array.
func (l *Location) ClearVisits(locInfMinutes []float64) {
	l.visits = l.visits[:0]
	locInfMinutes[l.ExposureID] = 0.0
}

// RegisterVisit implements the §4.3 visit-registration rule: dead agents
// register nothing; infectious visitors have their visit time scaled by
// self-isolation; agents in a household with an active infectious member
// are scaled by household isolation; hospitalised infectious visitors to a
// hospital contribute a protected exposure fraction and stop there.
//
// deterministic selects the fractional-accumulator fallback used only
// during warm-up (spec.md §9 open question (d); forced off whenever more
// than one worker is active, see worker.go).
func (l *Location) RegisterVisit(e *Ecosystem, agent *Person, need float64, hospitalCategory int, deterministic bool, rng *Rng) {
	if agent.Status == StatusDead {
		return
	}
	visitTime := l.AvgVisitTime
	switch {
	case agent.Status == StatusInfectious:
		visitTime *= e.SelfIsolationMultiplier
		if l.Category == hospitalCategory && agent.Hospitalised {
			l.mu.Lock()
			e.LocInfMinutes[l.ExposureID] += need / 7 * e.HospitalProtectionFactor
			l.mu.Unlock()
			return
		}
	case e.householdHasInfectious(agent.Household):
		visitTime *= e.HouseholdIsolationMultiplier
	}

	if visitTime <= 0 {
		return
	}
	visitProbability := need / (visitTime * 7)
	if visitProbability > 1 {
		visitProbability = 1
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if deterministic {
		l.detCounter += minF(visitProbability, 1)
		if l.detCounter > 1.0 {
			l.detCounter -= 1.0
			l.visits = append(l.visits, visit{agent: agent.ID, visitTime: visitTime})
			if agent.Status == StatusInfectious {
				e.LocInfMinutes[l.ExposureID] += visitTime
			}
		}
		return
	}
	if rng.Bernoulli(visitProbability) {
		l.visits = append(l.visits, visit{agent: agent.ID, visitTime: visitTime})
		if agent.Status == StatusInfectious {
			e.LocInfMinutes[l.ExposureID] += visitTime
		}
	}
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

// Evolve computes this location's infection base rate from the reduced
// exposure-minutes total and draws an infection outcome for every
// susceptible visitor, per the §4.3 formula.
func (l *Location) Evolve(e *Ecosystem, parkCategory int, rng *Rng) {
	airflow := e.AirflowIndoors
	if l.Category == parkCategory {
		airflow = e.AirflowOutdoors
	}
	baseRate := (4.0 * e.SeasonalEffect * e.ContactRateMultiplier[l.Category] *
		e.Disease.InfectionRate * e.LocInfMinutes[l.ExposureID]) /
		(airflow * 24.0 * 60.0 * l.Sqm * MinutesOpened)

	for _, v := range l.visits {
		agent := e.agent(v.agent)
		if agent.Status != StatusSusceptible {
			continue
		}
		infectionProbability := v.visitTime * baseRate
		if infectionProbability <= 0 {
			continue
		}
		if rng.Bernoulli(infectionProbability) {
			agent.Infect(e, StatusExposed, l.Category, rng)
		}
	}
}
