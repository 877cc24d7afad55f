package facs

import "testing"

func TestApplyVaccinationForDate_NoScheduleZeroesBudget(t *testing.T) {
	e := newTestEcosystem(t)
	e.Date = mustParseDate(t, "2026-01-01")
	e.VaccinationsAvailable = 500
	e.ApplyVaccinationForDate(nil, "%Y-%m-%d")
	if e.VaccinationsAvailable != 0 {
		t.Errorf("expected zero budget with no schedule, got %f", e.VaccinationsAvailable)
	}
}

func TestApplyVaccinationForDate_LooksUpEffectiveDate(t *testing.T) {
	e := newTestEcosystem(t)
	e.VaccineEffectTime = 14
	e.NumWorkers = 2
	e.Date = mustParseDate(t, "2026-01-15") // effective date: 2026-01-01
	sched := &VaccinationSchedule{Entries: map[string]VaccinationEntry{
		"2026-01-01": {VaccinesPerDay: 1000, AgeLimit: 50, NoSymptoms: 0.7, NoTransmission: 0.9},
	}}
	e.ApplyVaccinationForDate(sched, "%Y-%m-%d")
	if e.VaccinationsAvailable != 500 {
		t.Errorf("expected the daily dose budget split across 2 workers to 500, got %f", e.VaccinationsAvailable)
	}
	if e.VaccinationsAgeLimit != 50 {
		t.Errorf("expected age limit updated to 50, got %d", e.VaccinationsAgeLimit)
	}
	if e.VacNoSymptoms != 0.7 || e.VacNoTransmission != 0.9 {
		t.Errorf("expected efficacy parameters updated, got %f/%f", e.VacNoSymptoms, e.VacNoTransmission)
	}
}

func TestApplyVaccinationForDate_MissingEntryZeroesBudget(t *testing.T) {
	e := newTestEcosystem(t)
	e.Date = mustParseDate(t, "2026-01-15")
	sched := &VaccinationSchedule{Entries: map[string]VaccinationEntry{
		"2099-01-01": {VaccinesPerDay: 1000},
	}}
	e.ApplyVaccinationForDate(sched, "%Y-%m-%d")
	if e.VaccinationsAvailable != 0 {
		t.Errorf("expected zero budget when no entry matches the effective date, got %f", e.VaccinationsAvailable)
	}
}

func TestApplyVaccinationForDate_ZeroEfficacyLeavesPriorDefaults(t *testing.T) {
	e := newTestEcosystem(t)
	e.VacNoSymptoms = 0.5
	e.VacNoTransmission = 0.5
	e.Date = mustParseDate(t, "2026-01-15")
	sched := &VaccinationSchedule{Entries: map[string]VaccinationEntry{
		"2026-01-01": {VaccinesPerDay: 100, AgeLimit: 16},
	}}
	e.ApplyVaccinationForDate(sched, "%Y-%m-%d")
	if e.VacNoSymptoms != 0.5 || e.VacNoTransmission != 0.5 {
		t.Errorf("expected zero-valued efficacy fields to leave prior defaults untouched, got %f/%f", e.VacNoSymptoms, e.VacNoTransmission)
	}
}
