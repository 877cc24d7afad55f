package facs

// AgentID indexes into Ecosystem.agents.
type AgentID int

// Disease status codes, following the teacher's simulator.go convention of
// small integer status constants rather than string tags.
const (
	StatusSusceptible = iota
	StatusExposed
	StatusInfectious
	StatusRecovered
	StatusDead
	StatusImmune
)

// Job codes, with their population shares from the source's job-assignment
// distribution.
const (
	JobDefault = iota
	JobTeacher
	JobShopWorker
	JobHealthWorker
)

// JobProbabilities gives the population share of each job code, in order.
var JobProbabilities = []float64{0.865, 0.015, 0.08, 0.04}

// AntivaxRate is the population fraction that refuses vaccination.
const AntivaxRate = 0.05

// Person is one simulated individual.
type Person struct {
	ID         AgentID
	HomeHouse  HouseID
	Household  HouseholdID
	Age        int
	Job        int

	WorkFromHome      bool
	SchoolFromHome    bool
	Hospitalised      bool
	MildVersion       bool
	Dying             bool
	SymptomsSuppressed bool
	Antivax           bool

	Status           int
	StatusChangeTime int
	PhaseDuration    float64

	Groups   map[int]int // category index -> group id
	Hospital LocationID

	currentX, currentY float64 // current location coordinates, for logging
}

// NewPerson constructs an agent of the given age resident in the given
// household, drawing job/antivax status from their fixed marginal
// probabilities.
func NewPerson(id AgentID, home HouseID, household HouseholdID, age int, rng *Rng) *Person {
	p := &Person{
		ID:          id,
		HomeHouse:   home,
		Household:   household,
		Age:         age,
		Job:         rng.WeightedChoice(JobProbabilities),
		MildVersion: true,
		Status:      StatusSusceptible,
		StatusChangeTime: -1,
		Groups:      make(map[int]int),
		Hospital:    NoLocation,
	}
	if rng.UniformFloat() < AntivaxRate {
		p.Antivax = true
	}
	return p
}

// AssignGroup binds the agent to a fixed group within a category (e.g. a
// specific school class), used by the visit planner in preference to the
// nearest-location shortlist.
func (p *Person) AssignGroup(category, groupID int) {
	p.Groups[category] = groupID
}

// eligibleToPlan reports whether the agent still participates in the
// tick's visit planning: dead, recovered and immune agents do not.
func (p *Person) eligibleToPlan() bool {
	switch p.Status {
	case StatusSusceptible, StatusExposed, StatusInfectious:
		return true
	}
	return false
}

// PlanVisits implements §4.2: build the agent's adjusted weekly-minutes
// profile and register a visit at the appropriate target for every
// category with positive minutes that is not currently closed.
func (p *Person) PlanVisits(e *Ecosystem, house *House, rng *Rng) {
	if !p.eligibleToPlan() {
		return
	}
	var row []float64
	if p.Hospitalised {
		row = HospitalConfinedRow(e.Needs.NumCategories(), e.HospitalCategory)
	} else {
		row = e.Needs.Row(p.Age)
		if p.WorkFromHome && e.OfficeCategory >= 0 {
			row[e.OfficeCategory] = 0
		}
		if p.SchoolFromHome && e.SchoolCategory >= 0 {
			row[e.SchoolCategory] = 0
		}
	}

	for k, minutes := range row {
		if minutes < 1 || e.IsClosed(k) {
			continue
		}
		var target LocationID = NoLocation
		switch {
		case k == e.HospitalCategory && p.Hospitalised:
			target = p.Hospital
		case k == e.OfficeCategory && p.Job != JobDefault:
			switch p.Job {
			case JobTeacher:
				target = firstOrNone(house.NearestLocations, e.SchoolCategory)
			case JobShopWorker:
				target = firstOrNone(house.NearestLocations, e.ShoppingCategory)
			case JobHealthWorker:
				target = firstOrNone(house.NearestLocations, e.HospitalCategory)
			}
		default:
			if groupID, ok := p.Groups[k]; ok {
				target = e.LocationByGroup(k, groupID)
			} else {
				target = e.pickFromShortlist(house, k, rng)
			}
		}
		if target == NoLocation {
			continue
		}
		loc := e.location(target)
		loc.RegisterVisit(e, p, minutes, e.HospitalCategory, e.Deterministic, rng)
	}
}

func firstOrNone(nearest [][]LocationID, category int) LocationID {
	if category < 0 || category >= len(nearest) || len(nearest[category]) == 0 {
		return NoLocation
	}
	return nearest[category][0]
}

// Infect transitions the agent into severity (normally StatusExposed;
// pre-seeding may pass StatusInfectious directly), records the transition
// time and samples an incubation-phase duration. locationCategory is -1
// for household/pre-seed infections.
func (p *Person) Infect(e *Ecosystem, severity int, locationCategory int, rng *Rng) {
	p.Status = severity
	p.StatusChangeTime = e.Time
	p.MildVersion = true
	p.Hospitalised = false
	p.PhaseDuration = float64(maxInt(1, rng.Poisson(e.Disease.IncubationPeriod)))
	e.LogInfection(p, locationCategory)
}

// Recover transitions the agent to recovered, sampling a waning-immunity
// duration when the disease's immunity is not permanent.
func (p *Person) Recover(e *Ecosystem, locationCategory int, rng *Rng) {
	if e.Disease.ImmunityDuration > 0 {
		p.PhaseDuration = rng.Gamma(e.Disease.ImmunityDuration/20.0, 20.0)
	}
	p.Status = StatusRecovered
	p.StatusChangeTime = e.Time
	e.LogRecovery(p, locationCategory)
}

// Vaccinate administers a dose: records the transition time, samples a
// protection duration, and with the configured probabilities grants full
// immunity or merely suppresses symptoms while leaving the agent
// susceptible-but-non-infectious-looking.
func (p *Person) Vaccinate(e *Ecosystem, vacNoSymptoms, vacNoTransmission, vacDuration float64, rng *Rng) {
	p.StatusChangeTime = e.Time
	if vacDuration > 0 {
		if vacDuration > 100 {
			p.PhaseDuration = rng.Gamma(vacDuration/20.0, 20.0)
		} else {
			p.PhaseDuration = float64(rng.Poisson(vacDuration))
		}
	}
	if p.Status == StatusSusceptible {
		if rng.Bernoulli(vacNoTransmission) {
			p.Status = StatusImmune
		} else if rng.Bernoulli(vacNoSymptoms) {
			p.SymptomsSuppressed = true
		}
	}
}

// ProgressCondition advances the agent's state machine by one tick,
// implementing §4.6's transition table.
func (p *Person) ProgressCondition(e *Ecosystem, t int, rng *Rng) {
	if p.StatusChangeTime > t {
		return
	}
	switch p.Status {
	case StatusExposed:
		if t-p.StatusChangeTime >= int(p.PhaseDuration) {
			p.Status = StatusInfectious
			p.StatusChangeTime = t
			if !p.SymptomsSuppressed && rng.Bernoulli(e.Disease.HospitalisationChance(p.Age)) {
				p.MildVersion = false
				p.PhaseDuration = float64(maxInt(1, rng.Poisson(e.Disease.PeriodToHospitalisation)-int(p.PhaseDuration)))
			} else {
				p.MildVersion = true
				p.PhaseDuration = float64(maxInt(1, rng.Poisson(e.Disease.MildRecoveryPeriod)-int(p.PhaseDuration)))
			}
		}
	case StatusInfectious:
		if p.MildVersion {
			if t-p.StatusChangeTime >= int(p.PhaseDuration) {
				p.Recover(e, e.HouseCategory, rng)
			}
			return
		}
		if !p.Hospitalised {
			if t-p.StatusChangeTime >= int(p.PhaseDuration) {
				p.Hospitalised = true
				p.Hospital = e.FindHospital(rng)
				e.adjustHospitalised(1)
				p.StatusChangeTime = t
				e.LogHospitalisation(p)
				hospChance := e.Disease.HospitalisationChance(p.Age)
				mortChance := e.Disease.MortalityChance(p.Age)
				ratio := 0.0
				if hospChance > 0 {
					ratio = mortChance / hospChance
				}
				if rng.Bernoulli(ratio) {
					p.Dying = true
					p.PhaseDuration = float64(rng.Poisson(e.Disease.MortalityPeriod))
				} else {
					p.Dying = false
					p.PhaseDuration = float64(rng.Poisson(e.Disease.RecoveryPeriod))
				}
			}
			return
		}
		if t-p.StatusChangeTime >= int(p.PhaseDuration) {
			p.Hospitalised = false
			e.adjustHospitalised(-1)
			p.StatusChangeTime = t
			if p.Dying {
				p.Status = StatusDead
				e.LogDeath(p)
			} else {
				p.Recover(e, e.HospitalCategory, rng)
			}
		}
	case StatusRecovered, StatusImmune:
		if e.Disease.ImmunityDuration > 0 {
			if t-p.StatusChangeTime >= int(p.PhaseDuration) {
				p.Status = StatusSusceptible
				p.SymptomsSuppressed = false
				p.StatusChangeTime = t // reset per spec.md §9(b)
			}
		}
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
