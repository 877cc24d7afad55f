package facs

import (
	"database/sql"
	"fmt"
	"strings"

	// sqlite3 driver
	_ "github.com/mattn/go-sqlite3"
)

// SQLiteLogger is a DataLogger that writes simulation output to a SQLite
// database, one file per worker rank, with one table per event kind.
type SQLiteLogger struct {
	path string
	rank int
	db   *sql.DB
}

// NewSQLiteLogger creates a logger rooted at basepath, disambiguated by
// rank.
func NewSQLiteLogger(basepath string, rank int) *SQLiteLogger {
	l := new(SQLiteLogger)
	l.SetBasePath(basepath, rank)
	return l
}

// SetBasePath derives the database file path from basepath and rank.
func (l *SQLiteLogger) SetBasePath(basepath string, rank int) {
	l.path = strings.TrimSuffix(basepath, ".") + fmt.Sprintf(".%03d.db", rank)
	l.rank = rank
}

// Init opens the database connection and creates every table.
func (l *SQLiteLogger) Init() error {
	db, err := OpenSQLiteDBOptimized(l.path)
	if err != nil {
		return err
	}
	l.db = db
	stmts := []string{
		`create table series (time integer, date text, susceptible integer, exposed integer,
			infectious integer, recovered integer, dead integer, immune integer,
			infections_today integer, hospitalisations_today integer,
			hospital_occupancy integer, hospitalisations_data integer)`,
		`create table infections (time integer, agent_id integer, location_category integer)`,
		`create table recoveries (time integer, agent_id integer)`,
		`create table hospitalisations (time integer, agent_id integer)`,
		`create table deaths (time integer, agent_id integer)`,
	}
	for _, stmt := range stmts {
		if _, err := l.db.Exec(stmt); err != nil {
			return fmt.Errorf("%q: %s", err, stmt)
		}
	}
	return nil
}

// WriteSeriesRow inserts one daily snapshot row.
func (l *SQLiteLogger) WriteSeriesRow(row SeriesRow) error {
	_, err := l.db.Exec(`insert into series values (?,?,?,?,?,?,?,?,?,?,?,?)`,
		row.Time, row.Date, row.Susceptible, row.Exposed, row.Infectious,
		row.Recovered, row.Dead, row.Immune, row.NumInfectionsToday,
		row.NumHospitalisationsToday, row.HospitalBedOccupancy, row.NumHospitalisationsData)
	return err
}

// WriteInfection inserts one infection event row.
func (l *SQLiteLogger) WriteInfection(ev InfectionEvent) error {
	_, err := l.db.Exec(`insert into infections values (?,?,?)`, ev.Time, ev.AgentID, ev.LocationCategory)
	return err
}

// WriteRecovery inserts one recovery event row.
func (l *SQLiteLogger) WriteRecovery(ev RecoveryEvent) error {
	_, err := l.db.Exec(`insert into recoveries values (?,?)`, ev.Time, ev.AgentID)
	return err
}

// WriteHospitalisation inserts one hospital-admission event row.
func (l *SQLiteLogger) WriteHospitalisation(ev HospitalisationEvent) error {
	_, err := l.db.Exec(`insert into hospitalisations values (?,?)`, ev.Time, ev.AgentID)
	return err
}

// WriteDeath inserts one death event row.
func (l *SQLiteLogger) WriteDeath(ev DeathEvent) error {
	_, err := l.db.Exec(`insert into deaths values (?,?)`, ev.Time, ev.AgentID)
	return err
}

// Close releases the database connection.
func (l *SQLiteLogger) Close() error {
	if l.db == nil {
		return nil
	}
	return l.db.Close()
}

// OpenSQLiteDBOptimized establishes a database connection using WAL
// journaling and exclusive locking, matching the teacher's connection
// tuning.
func OpenSQLiteDBOptimized(path string) (*sql.DB, error) {
	return sql.Open("sqlite3", fmt.Sprintf("file:%s?_journal=WAL&_locking=EXCLUSIVE&_sync=NORMAL", path))
}
