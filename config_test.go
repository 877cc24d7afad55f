package facs

import (
	"os"
	"path/filepath"
	"testing"
)

const testRunConfigTOML = `
data_dir = "data"
output_dir = "out"
buildings_file = "buildings.csv"
building_type_file = "building_types.yml"
age_distribution_file = "age.csv"
country = "United Kingdom"
disease_file = "disease.yml"
measures_file = "measures.yml"
vaccinations_file = "vaccinations.yml"
start_date = "2026-01-01"
simulation_days = 100
warmup_days = 10
seed_cases = 5
seed_severity = "exposed"
num_workers = 4
random_seed = 42
output_format = "csv"
`

func TestLoadRunConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(testRunConfigTOML), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	conf, err := LoadRunConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if conf.NumWorkers != 4 || conf.SimDays != 100 {
		t.Errorf("unexpected config values: %+v", conf)
	}
}

func TestRunConfig_Validate_DefaultsAndRejections(t *testing.T) {
	c := &RunConfig{SimDays: 0}
	if err := c.Validate(); err == nil {
		t.Fatal("expected error for zero simulation_days")
	}

	c = &RunConfig{SimDays: 10}
	if err := c.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.NumWorkers != 1 {
		t.Errorf("expected NumWorkers to default to 1, got %d", c.NumWorkers)
	}
	if c.SeedSeverity != "exposed" {
		t.Errorf("expected seed_severity to default to exposed, got %q", c.SeedSeverity)
	}
	if c.OutputFormat != "csv" {
		t.Errorf("expected output_format to default to csv, got %q", c.OutputFormat)
	}
	if c.AvgHouseholdSize != 2.5 {
		t.Errorf("expected avg_household_size to default to 2.5, got %f", c.AvgHouseholdSize)
	}
	if c.HouseRatio != 4 {
		t.Errorf("expected house_ratio to default to 4, got %d", c.HouseRatio)
	}
}

func TestRunConfig_Validate_QuicktestRaisesHouseRatio(t *testing.T) {
	c := &RunConfig{SimDays: 10, Quicktest: true}
	if err := c.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.HouseRatio != 100 {
		t.Errorf("expected quicktest to raise house_ratio to 100, got %d", c.HouseRatio)
	}
}

func TestRunConfig_Validate_RejectsUnrecognizedKeywords(t *testing.T) {
	c := &RunConfig{SimDays: 10, SeedSeverity: "nonsense"}
	if err := c.Validate(); err == nil {
		t.Fatal("expected error for unrecognized seed_severity")
	}
	c = &RunConfig{SimDays: 10, OutputFormat: "parquet"}
	if err := c.Validate(); err == nil {
		t.Fatal("expected error for unrecognized output_format")
	}
}

func TestRunConfig_SeedSeverityStatus(t *testing.T) {
	c := &RunConfig{SeedSeverity: "infectious"}
	if got := c.SeedSeverityStatus(); got != StatusInfectious {
		t.Errorf("expected infectious status, got %d", got)
	}
	c = &RunConfig{SeedSeverity: "exposed"}
	if got := c.SeedSeverityStatus(); got != StatusExposed {
		t.Errorf("expected exposed status, got %d", got)
	}
}

func TestRunConfig_ResolveSeedCases(t *testing.T) {
	c := &RunConfig{SeedCases: 5}
	if got, err := c.ResolveSeedCases(1000); err != nil || got != 5 {
		t.Errorf("expected SeedCases passthrough with no override, got %d err=%v", got, err)
	}

	c.StartingInfections = "0.01"
	if got, err := c.ResolveSeedCases(1000); err != nil || got != 10 {
		t.Errorf("expected a 1%% population ratio of 10, got %d err=%v", got, err)
	}

	c.StartingInfections = "250"
	if got, err := c.ResolveSeedCases(1000); err != nil || got != 250 {
		t.Errorf("expected absolute count 250, got %d err=%v", got, err)
	}

	c.StartingInfections = "not-a-number"
	if _, err := c.ResolveSeedCases(1000); err == nil {
		t.Fatal("expected an error for an unparseable starting_infections value")
	}
}

func TestRunConfig_NewLogger(t *testing.T) {
	c := &RunConfig{OutputDir: t.TempDir(), OutputFormat: "sqlite"}
	if _, ok := c.NewLogger(0).(*SQLiteLogger); !ok {
		t.Error("expected sqlite output format to build a SQLiteLogger")
	}
	c.OutputFormat = "csv"
	if _, ok := c.NewLogger(0).(*CSVLogger); !ok {
		t.Error("expected csv output format to build a CSVLogger")
	}
}
