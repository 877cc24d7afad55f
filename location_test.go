package facs

import "testing"

func TestNewLocation_ParkAreaIsScaledUp(t *testing.T) {
	loc := NewLocation(0, 0, 0, 0, 100, 0)
	if loc.Sqm != 1000 {
		t.Errorf("expected park area scaled by 10 to 1000, got %f", loc.Sqm)
	}
}

func TestNewLocation_NonParkAreaUnscaled(t *testing.T) {
	loc := NewLocation(0, 1, 0, 0, 100, 0)
	if loc.Sqm != 100 {
		t.Errorf("expected non-park area untouched, got %f", loc.Sqm)
	}
}

func TestLocation_RegisterVisit_DeadAgentRegistersNothing(t *testing.T) {
	e := newTestEcosystem(t)
	loc := e.AddLocation(e.ShoppingCategory, 0, 0, 500)
	e.InitLocInfMinutes()
	agent := &Person{Status: StatusDead}
	rng := NewRng(14)

	loc.RegisterVisit(e, agent, 1000, e.HospitalCategory, false, rng)
	if len(loc.visits) != 0 {
		t.Errorf("expected no visit recorded for a dead agent, got %d", len(loc.visits))
	}
}

func TestLocation_RegisterVisit_HospitalisedInfectiousContributesProtectedExposure(t *testing.T) {
	e := newTestEcosystem(t)
	loc := e.AddLocation(e.HospitalCategory, 0, 0, 8000)
	e.InitLocInfMinutes()
	agent := &Person{ID: 0, Status: StatusInfectious, Hospitalised: true}
	e.agents = append(e.agents, agent)
	rng := NewRng(15)

	loc.RegisterVisit(e, agent, 700, e.HospitalCategory, false, rng)
	want := 700.0 / 7 * e.HospitalProtectionFactor
	if e.LocInfMinutes[loc.ExposureID] != want {
		t.Errorf("expected protected exposure contribution %f, got %f", want, e.LocInfMinutes[loc.ExposureID])
	}
	if len(loc.visits) != 0 {
		t.Error("expected no ordinary visit recorded for a hospitalised infectious agent at their hospital")
	}
}

func TestLocation_RegisterVisit_DeterministicAccumulatorCrossesThreshold(t *testing.T) {
	e := newTestEcosystem(t)
	loc := e.AddLocation(e.ShoppingCategory, 0, 0, 500)
	e.InitLocInfMinutes()
	rng := NewRng(16)
	house := e.AddHouse(0, 0)
	ageDist := make([]float64, MaxAge+1)
	ageDist[30] = 1.0
	hh := e.AddHousehold(house, 1, ageDist, rng)
	agent := e.agent(hh.Agents[0])

	// detCounter starts at 0.5; a visitProbability of 1 should push it over
	// 1.0 on the very first call and register a visit.
	loc.RegisterVisit(e, agent, loc.AvgVisitTime*7, e.HospitalCategory, true, rng)
	if len(loc.visits) != 1 {
		t.Fatalf("expected the deterministic accumulator to register exactly one visit, got %d", len(loc.visits))
	}
}

func TestLocation_ClearVisits(t *testing.T) {
	e := newTestEcosystem(t)
	loc := e.AddLocation(e.ShoppingCategory, 0, 0, 500)
	e.InitLocInfMinutes()
	loc.visits = append(loc.visits, visit{agent: 0, visitTime: 10})
	e.LocInfMinutes[loc.ExposureID] = 42

	loc.ClearVisits(e.LocInfMinutes)
	if len(loc.visits) != 0 {
		t.Error("expected visits cleared")
	}
	if e.LocInfMinutes[loc.ExposureID] != 0 {
		t.Error("expected exposure minutes reset to zero")
	}
}

func TestLocation_Evolve_InfectsSusceptibleVisitorsUnderHighExposure(t *testing.T) {
	e := newTestEcosystem(t)
	loc := e.AddLocation(e.ShoppingCategory, 0, 0, 1)
	e.InitLocInfMinutes()
	e.Disease.InfectionRate = 1000
	e.ContactRateMultiplier[e.ShoppingCategory] = 1.0
	e.LocInfMinutes[loc.ExposureID] = 10000

	susceptible := &Person{ID: 0, Status: StatusSusceptible}
	e.agents = append(e.agents, susceptible)
	loc.visits = append(loc.visits, visit{agent: susceptible.ID, visitTime: loc.AvgVisitTime})

	rng := NewRng(17)
	loc.Evolve(e, e.ParkCategory, rng)
	if susceptible.Status != StatusExposed {
		t.Errorf("expected the susceptible visitor to be exposed under saturated infection probability, got status %d", susceptible.Status)
	}
}

func TestLocation_Evolve_SkipsNonSusceptibleVisitors(t *testing.T) {
	e := newTestEcosystem(t)
	loc := e.AddLocation(e.ShoppingCategory, 0, 0, 1)
	e.InitLocInfMinutes()
	e.Disease.InfectionRate = 1000
	e.LocInfMinutes[loc.ExposureID] = 10000

	recovered := &Person{ID: 0, Status: StatusRecovered}
	e.agents = append(e.agents, recovered)
	loc.visits = append(loc.visits, visit{agent: recovered.ID, visitTime: loc.AvgVisitTime})

	rng := NewRng(18)
	loc.Evolve(e, e.ParkCategory, rng)
	if recovered.Status != StatusRecovered {
		t.Errorf("expected a recovered visitor to remain untouched, got status %d", recovered.Status)
	}
}
