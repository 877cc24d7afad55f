package facs

import (
	"fmt"
	"time"
)

// BuildEcosystem loads every input file named by conf and assembles a
// fully populated, ready-to-run Ecosystem: building types, disease
// parameters, age distribution, the building/house/household/agent
// registries, nearest-location shortlists and the shared exposure-minutes
// array.
func BuildEcosystem(conf *RunConfig, seed int64) (*Ecosystem, error) {
	reg, err := LoadBuildingTypeRegistry(conf.BuildingTypeFile)
	if err != nil {
		return nil, err
	}
	disease, err := LoadDisease(conf.DiseaseFile)
	if err != nil {
		return nil, err
	}
	ageDist, err := LoadAgeDistribution(conf.AgeDistribution, conf.Country)
	if err != nil {
		return nil, err
	}
	schoolCategory, _ := reg.Category("school")
	needsRows, err := loadOrDefaultNeedsRows(conf.NeedsFile, reg)
	if err != nil {
		return nil, err
	}
	needs := NewNeeds(needsRows, schoolCategory)

	e, err := NewEcosystem(reg, disease, needs)
	if err != nil {
		return nil, err
	}
	e.NumWorkers = conf.NumWorkers
	if disease.ImmunityDuration > 0 {
		e.VacDuration = disease.ImmunityDuration
	}

	rng := NewRng(seed)
	minX, minY, maxX, maxY, houseCSVCount, err := LoadBuildingsCSV(conf.BuildingsFile, e, ageDist, conf.AvgHouseholdSize, conf.HouseRatio, rng)
	if err != nil {
		return nil, err
	}
	offices := GenerateOffices(e, minX, minY, maxX, maxY, houseCSVCount, rng)
	if conf.OutputDir != "" {
		_ = WriteOfficesCSV(conf.OutputDir+"/offices.csv", offices)
	}

	e.InitLocInfMinutes()
	if err := e.BuildNearestLocations(rng); err != nil {
		return nil, err
	}

	if conf.StartDate != "" {
		date, err := time.Parse("2006-01-02", conf.StartDate)
		if err != nil {
			return nil, fmt.Errorf("parsing start_date %q: %w", conf.StartDate, err)
		}
		e.Date = date
	}
	e.SeasonalEffect = e.GetSeasonalEffect()
	e.Time = -conf.WarmUpDays
	e.Deterministic = conf.WarmUpDays > 0 && conf.NumWorkers == 1

	seedCases, err := conf.ResolveSeedCases(len(e.agents))
	if err != nil {
		return nil, err
	}
	e.AddInfections(seedCases, conf.SeedSeverityStatus(), rng, nil)
	return e, nil
}

// loadOrDefaultNeedsRows loads a needs table from needsFile when given, else
// falls back to a flat weekly-minutes table: every age spends
// AvgVisitTimes[i]*5 minutes a week in registry category i for the first
// len(AvgVisitTimes) categories, and 0 minutes in any later category. The
// fallback stands in for countries without a needs CSV on hand.
func loadOrDefaultNeedsRows(needsFile string, reg *BuildingTypeRegistry) ([][]float64, error) {
	if needsFile != "" {
		return LoadNeedsCSV(needsFile, reg)
	}
	numCategories := reg.Len()
	rows := make([][]float64, MaxAge+1)
	for age := range rows {
		row := make([]float64, numCategories)
		for cat := 0; cat < numCategories && cat < len(AvgVisitTimes); cat++ {
			row[cat] = AvgVisitTimes[cat] * 5
		}
		rows[age] = row
	}
	return rows, nil
}

// TickCallback is invoked once per simulated day with that day's snapshot.
type TickCallback func(day int, row SeriesRow)

// RunSimulation drives the full day-by-day orchestration documented in
// spec.md §5: partitioned visit planning and condition progression,
// two-pass vaccination, the location and household transmission passes,
// public transport, measures and mutation application, and per-day output.
func RunSimulation(e *Ecosystem, conf *RunConfig, seed int64, onTick TickCallback) error {
	var measuresSched *MeasuresSchedule
	var measuresDateFormat string
	if conf.MeasuresFile != "" {
		sched, format, err := LoadMeasuresSchedule(conf.MeasuresFile, e.Registry)
		if err != nil {
			return err
		}
		measuresSched = sched
		measuresDateFormat = format
		e.KeyworkerFraction = sched.KeyworkerFraction
	}

	var vacSched *VaccinationSchedule
	var vacDateFormat = "%Y-%m-%d"
	if conf.VaccinationsFile != "" {
		sched, effectTime, err := LoadVaccinationSchedule(conf.VaccinationsFile)
		if err != nil {
			return err
		}
		vacSched = sched
		e.VaccineEffectTime = effectTime
	}

	var mutations map[string]MutationEntry
	if conf.DataDir != "" {
		m, err := LoadMutationSchedule(conf.DataDir + "/mutations.yml")
		if err != nil {
			return err
		}
		mutations = m
	}

	needsRows, err := loadOrDefaultNeedsRows(conf.NeedsFile, e.Registry)
	if err != nil {
		return err
	}
	schoolCategory, _ := e.Registry.Category("school")

	seeds := make([]int64, e.NumWorkers)
	for i := range seeds {
		seeds[i] = seed + int64(i) + 1
	}
	tickRng := NewRng(seed)

	for day := 0; day < conf.SimDays; day++ {
		e.NumInfectionsToday = 0
		e.NumHospitalisationsToday = 0
		e.NumRecoveriesToday = 0
		e.NumDeathsToday = 0
		if e.Time >= 0 {
			// The deterministic visit accumulator is a warm-up-only fallback.
			e.Deterministic = false
		}

		for _, loc := range e.locationsByID {
			loc.ClearVisits(e.LocInfMinutes)
		}

		if measuresSched != nil {
			e.ApplyMeasuresForDate(measuresSched, measuresDateFormat, needsRows, schoolCategory, tickRng)
		}
		if mutations != nil {
			e.ApplyMutations(mutations, measuresDateFormat)
		}
		if vacSched != nil {
			e.ApplyVaccinationForDate(vacSched, vacDateFormat)
		}

		workers := RunPartitionedTick(e, seeds)
		VaccinatePartitioned(e, workers)
		ReduceLocInfMinutes(workers)

		for _, loc := range e.locationsByID {
			loc.Evolve(e, e.ParkCategory, tickRng)
		}
		HouseholdTransmissionPartitioned(workers)
		e.EvolvePublicTransport(tickRng)

		e.RecomputeGlobalStats()
		e.AdvanceCalendar()

		if onTick != nil {
			row := SeriesRow{
				Time:                     e.Time,
				Date:                     e.Date.Format("2006-01-02"),
				Susceptible:              e.GlobalStats[StatusSusceptible],
				Exposed:                  e.GlobalStats[StatusExposed],
				Infectious:               e.GlobalStats[StatusInfectious],
				Recovered:                e.GlobalStats[StatusRecovered],
				Dead:                     e.GlobalStats[StatusDead],
				Immune:                   e.GlobalStats[StatusImmune],
				NumInfectionsToday:       e.NumInfectionsToday,
				NumHospitalisationsToday: e.NumHospitalisationsToday,
				HospitalBedOccupancy:     e.NumHospitalised,
				NumHospitalisationsData:  0,
			}
			onTick(day, row)
		}
		if e.Logger != nil {
			row := SeriesRow{
				Time:                     e.Time,
				Date:                     e.Date.Format("2006-01-02"),
				Susceptible:              e.GlobalStats[StatusSusceptible],
				Exposed:                  e.GlobalStats[StatusExposed],
				Infectious:               e.GlobalStats[StatusInfectious],
				Recovered:                e.GlobalStats[StatusRecovered],
				Dead:                     e.GlobalStats[StatusDead],
				Immune:                   e.GlobalStats[StatusImmune],
				NumInfectionsToday:       e.NumInfectionsToday,
				NumHospitalisationsToday: e.NumHospitalisationsToday,
				HospitalBedOccupancy:     e.NumHospitalised,
				NumHospitalisationsData:  0,
			}
			if err := e.Logger.WriteSeriesRow(row); err != nil {
				return err
			}
		}
	}
	return nil
}
