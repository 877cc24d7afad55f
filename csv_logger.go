package facs

import (
	"bytes"
	"fmt"
	"strings"
)

// SeriesHeader is the exact column header written by CSVLogger.Init,
// matching print_header's output format.
const SeriesHeader = "#time,date,susceptible,exposed,infectious,recovered,dead,immune,num infections today,num hospitalisations today,hospital bed occupancy,num hospitalisations today (data)\n"

// CSVLogger is a DataLogger that writes simulation output as buffered,
// append-only comma-delimited files, one set per worker rank.
type CSVLogger struct {
	seriesPath          string
	infectionPath       string
	recoveryPath        string
	hospitalisationPath string
	deathPath           string
}

// NewCSVLogger creates a logger rooted at basepath, disambiguated by rank.
func NewCSVLogger(basepath string, rank int) *CSVLogger {
	l := new(CSVLogger)
	l.SetBasePath(basepath, rank)
	return l
}

// SetBasePath derives each output file's path from basepath and rank.
func (l *CSVLogger) SetBasePath(basepath string, rank int) {
	trimmed := strings.TrimSuffix(basepath, ".")
	l.seriesPath = trimmed + fmt.Sprintf(".%03d.out.csv", rank)
	l.infectionPath = trimmed + fmt.Sprintf(".%03d.infections.csv", rank)
	l.recoveryPath = trimmed + fmt.Sprintf(".%03d.recoveries.csv", rank)
	l.hospitalisationPath = trimmed + fmt.Sprintf(".%03d.hospitalisations.csv", rank)
	l.deathPath = trimmed + fmt.Sprintf(".%03d.deaths.csv", rank)
}

// Init writes the header row for each output file.
func (l *CSVLogger) Init() error {
	if err := NewFile(l.seriesPath, []byte(SeriesHeader)); err != nil {
		return err
	}
	if err := NewFile(l.infectionPath, []byte("time,agentID,locationCategory\n")); err != nil {
		return err
	}
	if err := NewFile(l.recoveryPath, []byte("time,agentID\n")); err != nil {
		return err
	}
	if err := NewFile(l.hospitalisationPath, []byte("time,agentID\n")); err != nil {
		return err
	}
	if err := NewFile(l.deathPath, []byte("time,agentID\n")); err != nil {
		return err
	}
	return nil
}

// WriteSeriesRow appends one daily snapshot row.
func (l *CSVLogger) WriteSeriesRow(row SeriesRow) error {
	const template = "%d,%s,%d,%d,%d,%d,%d,%d,%d,%d,%d,%d\n"
	line := fmt.Sprintf(template,
		row.Time, row.Date, row.Susceptible, row.Exposed, row.Infectious,
		row.Recovered, row.Dead, row.Immune, row.NumInfectionsToday,
		row.NumHospitalisationsToday, row.HospitalBedOccupancy, row.NumHospitalisationsData,
	)
	return AppendToFile(l.seriesPath, []byte(line))
}

// WriteInfection appends one infection event row.
func (l *CSVLogger) WriteInfection(ev InfectionEvent) error {
	var b bytes.Buffer
	fmt.Fprintf(&b, "%d,%d,%d\n", ev.Time, ev.AgentID, ev.LocationCategory)
	return AppendToFile(l.infectionPath, b.Bytes())
}

// WriteRecovery appends one recovery event row.
func (l *CSVLogger) WriteRecovery(ev RecoveryEvent) error {
	var b bytes.Buffer
	fmt.Fprintf(&b, "%d,%d\n", ev.Time, ev.AgentID)
	return AppendToFile(l.recoveryPath, b.Bytes())
}

// WriteHospitalisation appends one hospital-admission event row.
func (l *CSVLogger) WriteHospitalisation(ev HospitalisationEvent) error {
	var b bytes.Buffer
	fmt.Fprintf(&b, "%d,%d\n", ev.Time, ev.AgentID)
	return AppendToFile(l.hospitalisationPath, b.Bytes())
}

// WriteDeath appends one death event row.
func (l *CSVLogger) WriteDeath(ev DeathEvent) error {
	var b bytes.Buffer
	fmt.Fprintf(&b, "%d,%d\n", ev.Time, ev.AgentID)
	return AppendToFile(l.deathPath, b.Bytes())
}

// Close is a no-op: CSVLogger holds no persistent file handles between
// writes.
func (l *CSVLogger) Close() error { return nil }
