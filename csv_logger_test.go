package facs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCSVLogger_InitAndWriteRoundTrip(t *testing.T) {
	base := filepath.Join(t.TempDir(), "run")
	l := NewCSVLogger(base, 0)
	if err := l.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := l.WriteSeriesRow(SeriesRow{Time: 1, Date: "2026-01-01", Susceptible: 99, Exposed: 1}); err != nil {
		t.Fatalf("WriteSeriesRow: %v", err)
	}
	if err := l.WriteInfection(InfectionEvent{Time: 1, AgentID: 5, LocationCategory: 2}); err != nil {
		t.Fatalf("WriteInfection: %v", err)
	}
	if err := l.WriteRecovery(RecoveryEvent{Time: 2, AgentID: 5}); err != nil {
		t.Fatalf("WriteRecovery: %v", err)
	}
	if err := l.WriteHospitalisation(HospitalisationEvent{Time: 3, AgentID: 6}); err != nil {
		t.Fatalf("WriteHospitalisation: %v", err)
	}
	if err := l.WriteDeath(DeathEvent{Time: 4, AgentID: 7}); err != nil {
		t.Fatalf("WriteDeath: %v", err)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	series, err := os.ReadFile(base + ".000.out.csv")
	if err != nil {
		t.Fatalf("reading series file: %v", err)
	}
	if !strings.HasPrefix(string(series), SeriesHeader) {
		t.Error("expected series file to start with the header row")
	}
	if !strings.Contains(string(series), "1,2026-01-01,99,1") {
		t.Errorf("expected the written row to appear, got %q", series)
	}

	infections, err := os.ReadFile(base + ".000.infections.csv")
	if err != nil {
		t.Fatalf("reading infections file: %v", err)
	}
	if !strings.Contains(string(infections), "1,5,2") {
		t.Errorf("expected infection row, got %q", infections)
	}
}

func TestCSVLogger_SetBasePath_DisambiguatesByRank(t *testing.T) {
	l := NewCSVLogger(filepath.Join(t.TempDir(), "run"), 3)
	if !strings.HasSuffix(l.seriesPath, ".003.out.csv") {
		t.Errorf("expected rank-003 suffix, got %s", l.seriesPath)
	}
}

func TestCSVLogger_Init_FailsOnExistingFile(t *testing.T) {
	base := filepath.Join(t.TempDir(), "run")
	l := NewCSVLogger(base, 0)
	if err := l.Init(); err != nil {
		t.Fatalf("first Init: %v", err)
	}
	l2 := NewCSVLogger(base, 0)
	if err := l2.Init(); err == nil {
		t.Fatal("expected Init to fail when output files already exist")
	}
}
