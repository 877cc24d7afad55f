package facs

import (
	"fmt"
	"strconv"

	"github.com/BurntSushi/toml"
)

// RunConfig holds every parameter needed to build and run one simulation
// instance, loaded from a TOML configuration file and optionally overlaid
// with command-line flags.
type RunConfig struct {
	DataDir          string `toml:"data_dir"`
	OutputDir        string `toml:"output_dir"`
	BuildingsFile    string `toml:"buildings_file"`
	BuildingTypeFile string `toml:"building_type_file"`
	AgeDistribution  string `toml:"age_distribution_file"`
	Country          string `toml:"country"`
	DiseaseFile      string `toml:"disease_file"`
	NeedsFile        string `toml:"needs_file"`
	MeasuresFile     string `toml:"measures_file"`
	VaccinationsFile string `toml:"vaccinations_file"`

	StartDate    string `toml:"start_date"`
	SimDays      int    `toml:"simulation_days"`
	WarmUpDays   int    `toml:"warmup_days"`
	SeedCases    int    `toml:"seed_cases"`
	SeedSeverity string `toml:"seed_severity"`

	// StartingInfections overrides SeedCases when set, in the CLI's
	// "--starting_infections" format: a leading '0' selects a population
	// ratio (e.g. "0.01" seeds 1% of the built population), anything else
	// is parsed as an absolute count. Left empty, SeedCases is used as-is.
	StartingInfections string `toml:"starting_infections"`

	AvgHouseholdSize float64 `toml:"avg_household_size"`
	HouseRatio       int     `toml:"house_ratio"`

	NumWorkers int   `toml:"num_workers"`
	RandomSeed int64 `toml:"random_seed"`

	OutputFormat string `toml:"output_format"` // "csv" or "sqlite"
	Quicktest    bool   `toml:"quicktest"`

	validated bool
}

// Validate checks RunConfig for internally consistent, recognized values.
func (c *RunConfig) Validate() error {
	if c.SimDays <= 0 {
		return fmt.Errorf(NegativeParameterError, "simulation_days", float64(c.SimDays))
	}
	if c.NumWorkers <= 0 {
		c.NumWorkers = 1
	}
	switch c.SeedSeverity {
	case "", "exposed":
		c.SeedSeverity = "exposed"
	case "infectious":
	default:
		return fmt.Errorf(UnrecognizedKeywordError, c.SeedSeverity, "seed_severity")
	}
	switch c.OutputFormat {
	case "", "csv":
		c.OutputFormat = "csv"
	case "sqlite":
	default:
		return fmt.Errorf(UnrecognizedKeywordError, c.OutputFormat, "output_format")
	}
	if c.AvgHouseholdSize <= 0 {
		c.AvgHouseholdSize = 2.5
	}
	if c.HouseRatio <= 0 {
		c.HouseRatio = 4
		if c.Quicktest {
			c.HouseRatio = 100
		}
	}
	c.validated = true
	return nil
}

// LoadRunConfig reads and validates a TOML configuration file.
func LoadRunConfig(path string) (*RunConfig, error) {
	var c RunConfig
	if _, err := toml.DecodeFile(path, &c); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// ResolveSeedCases applies StartingInfections over a built population of
// the given size, returning SeedCases unchanged when StartingInfections is
// empty. A StartingInfections value beginning with '0' is a population
// ratio; anything else is parsed as an absolute count, per run_grid.py's
// starting_infections convention.
func (c *RunConfig) ResolveSeedCases(populationSize int) (int, error) {
	if c.StartingInfections == "" {
		return c.SeedCases, nil
	}
	if c.StartingInfections[0] == '0' && len(c.StartingInfections) > 1 {
		ratio, err := strconv.ParseFloat(c.StartingInfections, 64)
		if err != nil {
			return 0, fmt.Errorf("parsing starting_infections ratio %q: %w", c.StartingInfections, err)
		}
		return int(ratio * float64(populationSize)), nil
	}
	n, err := strconv.Atoi(c.StartingInfections)
	if err != nil {
		return 0, fmt.Errorf("parsing starting_infections count %q: %w", c.StartingInfections, err)
	}
	return n, nil
}

// SeedSeverityStatus translates the configured seed_severity keyword into
// a Person status constant.
func (c *RunConfig) SeedSeverityStatus() int {
	if c.SeedSeverity == "infectious" {
		return StatusInfectious
	}
	return StatusExposed
}

// NewLogger constructs the DataLogger selected by OutputFormat, rooted at
// the configured output directory.
func (c *RunConfig) NewLogger(rank int) DataLogger {
	base := c.OutputDir + "/run"
	if c.OutputFormat == "sqlite" {
		return NewSQLiteLogger(base, rank)
	}
	return NewCSVLogger(base, rank)
}
