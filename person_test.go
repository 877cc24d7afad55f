package facs

import "testing"

func TestNewPerson_InitialState(t *testing.T) {
	rng := NewRng(20)
	p := NewPerson(1, 0, 0, 30, rng)
	if p.Status != StatusSusceptible {
		t.Errorf("expected a new agent to start susceptible, got %d", p.Status)
	}
	if p.StatusChangeTime != -1 {
		t.Errorf("expected StatusChangeTime to start at -1, got %d", p.StatusChangeTime)
	}
	if p.Hospital != NoLocation {
		t.Errorf("expected no hospital assignment yet, got %d", p.Hospital)
	}
}

func TestPerson_EligibleToPlan(t *testing.T) {
	cases := map[int]bool{
		StatusSusceptible: true,
		StatusExposed:     true,
		StatusInfectious:  true,
		StatusRecovered:   false,
		StatusDead:        false,
		StatusImmune:      false,
	}
	for status, want := range cases {
		p := &Person{Status: status}
		if got := p.eligibleToPlan(); got != want {
			t.Errorf("status %d: eligibleToPlan() = %v, want %v", status, got, want)
		}
	}
}

func TestPerson_Infect_SetsStateAndLogs(t *testing.T) {
	e := newTestEcosystem(t)
	e.Time = 5
	p := &Person{ID: 0, Status: StatusSusceptible}
	e.agents = append(e.agents, p)
	rng := NewRng(21)

	p.Infect(e, StatusExposed, -1, rng)
	if p.Status != StatusExposed {
		t.Errorf("expected exposed status, got %d", p.Status)
	}
	if p.StatusChangeTime != 5 {
		t.Errorf("expected status change time to be the current tick, got %d", p.StatusChangeTime)
	}
	if e.NumInfectionsToday != 1 {
		t.Errorf("expected LogInfection to increment the daily counter, got %d", e.NumInfectionsToday)
	}
}

func TestPerson_Recover_PermanentImmunitySkipsWaningDuration(t *testing.T) {
	e := newTestEcosystem(t)
	e.Disease.ImmunityDuration = 0
	p := &Person{ID: 0, Status: StatusInfectious, PhaseDuration: 99}
	e.agents = append(e.agents, p)
	rng := NewRng(22)

	p.Recover(e, e.HouseCategory, rng)
	if p.Status != StatusRecovered {
		t.Errorf("expected recovered status, got %d", p.Status)
	}
	if p.PhaseDuration != 99 {
		t.Errorf("expected PhaseDuration untouched under permanent immunity, got %f", p.PhaseDuration)
	}
}

func TestPerson_Vaccinate_GrantsImmunityOrSuppression(t *testing.T) {
	p := &Person{Status: StatusSusceptible}
	e := &Ecosystem{Time: 3}
	rng := NewRng(23)
	p.Vaccinate(e, 1.0, 1.0, -1, rng)
	if p.Status != StatusImmune {
		t.Errorf("expected certain no-transmission probability to grant immunity, got status %d", p.Status)
	}
}

func TestPerson_Vaccinate_LeavesNonSusceptibleUntouched(t *testing.T) {
	p := &Person{Status: StatusRecovered}
	e := &Ecosystem{Time: 3}
	rng := NewRng(24)
	p.Vaccinate(e, 1.0, 1.0, -1, rng)
	if p.Status != StatusRecovered {
		t.Errorf("expected a non-susceptible agent's status untouched by vaccination, got %d", p.Status)
	}
}

func TestPerson_ProgressCondition_ExposedAdvancesToInfectiousAfterIncubation(t *testing.T) {
	e := newTestEcosystem(t)
	e.Disease.MildRecoveryPeriod = 10
	p := &Person{ID: 0, Status: StatusExposed, StatusChangeTime: 0, PhaseDuration: 3, SymptomsSuppressed: true}
	e.agents = append(e.agents, p)
	rng := NewRng(25)

	p.ProgressCondition(e, 3, rng)
	if p.Status != StatusInfectious {
		t.Fatalf("expected agent to become infectious after incubation, got status %d", p.Status)
	}
	if !p.MildVersion {
		t.Error("expected symptom-suppressed agents to always take the mild path")
	}
}

func TestPerson_ProgressCondition_WaningImmunityResetsStatusChangeTime(t *testing.T) {
	e := newTestEcosystem(t)
	e.Disease.ImmunityDuration = 90
	p := &Person{ID: 0, Status: StatusRecovered, StatusChangeTime: 0, PhaseDuration: 5, SymptomsSuppressed: true}
	e.agents = append(e.agents, p)
	rng := NewRng(26)

	p.ProgressCondition(e, 5, rng)
	if p.Status != StatusSusceptible {
		t.Fatalf("expected waned immunity to return the agent to susceptible, got status %d", p.Status)
	}
	if p.StatusChangeTime != 5 {
		t.Errorf("expected status change time reset to the current tick, got %d", p.StatusChangeTime)
	}
	if p.SymptomsSuppressed {
		t.Error("expected symptom suppression cleared on waning immunity")
	}
}

func TestPerson_ProgressCondition_StatusChangeInFutureIsNoOp(t *testing.T) {
	p := &Person{Status: StatusExposed, StatusChangeTime: 10, PhaseDuration: 3}
	e := &Ecosystem{}
	p.ProgressCondition(e, 5, NewRng(27))
	if p.Status != StatusExposed {
		t.Errorf("expected no transition while StatusChangeTime is in the future, got status %d", p.Status)
	}
}

func TestFirstOrNone(t *testing.T) {
	nearest := [][]LocationID{{5, 6}, nil}
	if got := firstOrNone(nearest, 0); got != 5 {
		t.Errorf("expected first entry 5, got %d", got)
	}
	if got := firstOrNone(nearest, 1); got != NoLocation {
		t.Errorf("expected NoLocation for an empty shortlist, got %d", got)
	}
	if got := firstOrNone(nearest, 5); got != NoLocation {
		t.Errorf("expected NoLocation for an out-of-range category, got %d", got)
	}
}
