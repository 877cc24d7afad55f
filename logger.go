package facs

import "os"

// DataLogger is the general definition of a logger that records simulation
// output, whether to CSV files or a SQLite database.
type DataLogger interface {
	// SetBasePath sets the base path of the logger and the worker rank
	// used to disambiguate per-worker output files.
	SetBasePath(path string, rank int)
	// Init prepares the logger for writing: creates files or tables and
	// writes the main series header.
	Init() error
	// WriteSeriesRow appends one row of the main daily time series.
	WriteSeriesRow(row SeriesRow) error
	// WriteInfection records one new infection event.
	WriteInfection(e InfectionEvent) error
	// WriteRecovery records one recovery event.
	WriteRecovery(e RecoveryEvent) error
	// WriteHospitalisation records one hospital admission event.
	WriteHospitalisation(e HospitalisationEvent) error
	// WriteDeath records one death event.
	WriteDeath(e DeathEvent) error
	// Close flushes and releases any held resources.
	Close() error
}

// SeriesRow is one day's aggregate snapshot, matching the column order of
// print_header/print_status in spec.md §6.
type SeriesRow struct {
	Time                     int
	Date                     string
	Susceptible              int64
	Exposed                  int64
	Infectious               int64
	Recovered                int64
	Dead                     int64
	Immune                   int64
	NumInfectionsToday       int
	NumHospitalisationsToday int
	HospitalBedOccupancy     int
	NumHospitalisationsData  int
}

// InfectionEvent records who was infected, when, and in what kind of
// location.
type InfectionEvent struct {
	Time             int
	AgentID          AgentID
	LocationCategory int
}

// RecoveryEvent records who recovered and when.
type RecoveryEvent struct {
	Time    int
	AgentID AgentID
}

// HospitalisationEvent records who was admitted and when.
type HospitalisationEvent struct {
	Time    int
	AgentID AgentID
}

// DeathEvent records who died and when.
type DeathEvent struct {
	Time    int
	AgentID AgentID
}

// LogInfection increments the daily counter and forwards to the configured
// logger, a no-op when no logger is attached (the common case in tests that
// build an Ecosystem directly).
func (e *Ecosystem) LogInfection(p *Person, locationCategory int) {
	e.statsMu.Lock()
	e.NumInfectionsToday++
	e.statsMu.Unlock()
	if e.Logger == nil {
		return
	}
	_ = e.Logger.WriteInfection(InfectionEvent{Time: e.Time, AgentID: p.ID, LocationCategory: locationCategory})
}

// LogRecovery forwards a recovery event to the configured logger.
func (e *Ecosystem) LogRecovery(p *Person, locationCategory int) {
	e.statsMu.Lock()
	e.NumRecoveriesToday++
	e.statsMu.Unlock()
	if e.Logger == nil {
		return
	}
	_ = e.Logger.WriteRecovery(RecoveryEvent{Time: e.Time, AgentID: p.ID})
}

// LogHospitalisation forwards a hospital-admission event to the configured
// logger.
func (e *Ecosystem) LogHospitalisation(p *Person) {
	e.statsMu.Lock()
	e.NumHospitalisationsToday++
	e.statsMu.Unlock()
	if e.Logger == nil {
		return
	}
	_ = e.Logger.WriteHospitalisation(HospitalisationEvent{Time: e.Time, AgentID: p.ID})
}

// LogDeath forwards a death event to the configured logger.
func (e *Ecosystem) LogDeath(p *Person) {
	e.statsMu.Lock()
	e.NumDeathsToday++
	e.statsMu.Unlock()
	if e.Logger == nil {
		return
	}
	_ = e.Logger.WriteDeath(DeathEvent{Time: e.Time, AgentID: p.ID})
}

// NewFile creates a new file at path, failing if it already exists.
func NewFile(path string, b []byte) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.Write(b); err != nil {
		return err
	}
	return f.Sync()
}

// AppendToFile creates path if it does not exist, or appends to the end of
// the existing file.
func AppendToFile(path string, b []byte) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.Write(b); err != nil {
		return err
	}
	return f.Sync()
}
