package facs

import "testing"

const testAgeCSV = `age,United Kingdom,France
0,10,5
1,20,15
2,70,80
`

func TestLoadAgeDistribution_NormalizesToOne(t *testing.T) {
	path := writeTempFile(t, "age.csv", testAgeCSV)
	dist, err := LoadAgeDistribution(path, "United Kingdom")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	total := 0.0
	for _, v := range dist {
		total += v
	}
	if diff := total - 1.0; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("expected distribution to sum to 1, got %f", total)
	}
	if dist[2] != 0.7 {
		t.Errorf("expected age 2 probability 0.7, got %f", dist[2])
	}
}

func TestLoadAgeDistribution_FallsBackToDefaultColumn(t *testing.T) {
	path := writeTempFile(t, "age.csv", testAgeCSV)
	dist, err := LoadAgeDistribution(path, "Germany")
	if err != nil {
		t.Fatalf("expected fallback to United Kingdom column, got error: %v", err)
	}
	if dist[2] != 0.7 {
		t.Errorf("expected fallback column values, got %f", dist[2])
	}
}

func TestLoadAgeDistribution_MissingFileErrors(t *testing.T) {
	if _, err := LoadAgeDistribution("/nonexistent/age.csv", "United Kingdom"); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestLoadAgeDistribution_NoMatchingColumnErrors(t *testing.T) {
	csv := "age,France\n0,10\n1,20\n"
	path := writeTempFile(t, "age_no_uk.csv", csv)
	if _, err := LoadAgeDistribution(path, "Germany"); err == nil {
		t.Fatal("expected an error when neither the requested nor default column exists")
	}
}
