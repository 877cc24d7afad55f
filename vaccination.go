package facs

// VaccinationSchedule is a date-keyed table of daily vaccine rollout
// parameters, parsed from the vaccinations YAML input (io_vaccination.go).
type VaccinationSchedule struct {
	Entries map[string]VaccinationEntry
}

// VaccinationEntry is one day's vaccine availability and eligibility
// parameters.
type VaccinationEntry struct {
	VaccinesPerDay    float64
	AgeLimit          int
	NoSymptoms        float64
	NoTransmission    float64
}

// ApplyVaccinationForDate looks up the schedule entry effective
// VaccineEffectTime days before today (vaccines administered now take
// effect only after that delay) and updates the day's available budget and
// eligibility parameters accordingly, per read_vaccinations_yml.py.
func (e *Ecosystem) ApplyVaccinationForDate(sched *VaccinationSchedule, dateFormat string) {
	if sched == nil || e.Date.IsZero() {
		e.VaccinationsAvailable = 0
		return
	}
	effectiveDate := e.Date.AddDate(0, 0, -e.VaccineEffectTime)
	key := effectiveDate.Format(goDateLayout(dateFormat))
	entry, ok := sched.Entries[key]
	if !ok {
		e.VaccinationsAvailable = 0
		return
	}
	perWorker := entry.VaccinesPerDay
	if e.NumWorkers > 0 {
		perWorker /= float64(e.NumWorkers)
	}
	e.VaccinationsAvailable = perWorker
	e.VaccinationsAgeLimit = entry.AgeLimit
	if entry.NoSymptoms > 0 {
		e.VacNoSymptoms = entry.NoSymptoms
	}
	if entry.NoTransmission > 0 {
		e.VacNoTransmission = entry.NoTransmission
	}
}
