package facs

import "testing"

func TestNewDisease_RejectsNegativeParameter(t *testing.T) {
	if _, err := NewDisease(-1, 5, 5, 14, 5, 5, 90, 0.9); err == nil {
		t.Fatal("expected error for negative infection rate")
	}
}

func TestNewDisease_Defaults(t *testing.T) {
	d, err := NewDisease(0.2, 5, 7, 14, 5, 5, 90, 0.9)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.HospitalisationChance(40) != 0 {
		t.Errorf("expected zero hospitalisation chance before AddHospitalisationChances, got %f", d.HospitalisationChance(40))
	}
	if len(d.Mutations) != 0 {
		t.Errorf("expected empty mutation table, got %d entries", len(d.Mutations))
	}
}

func TestDisease_AddHospitalisationChances_Interpolates(t *testing.T) {
	d, _ := NewDisease(0.2, 5, 7, 14, 5, 5, 90, 0.9)
	err := d.AddHospitalisationChances([]AgeProbabilityPair{
		{Age: 0, Probability: 0.0},
		{Age: 80, Probability: 0.8},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := d.HospitalisationChance(40); got != 0.4 {
		t.Errorf("expected midpoint interpolation of 0.4, got %f", got)
	}
	if got := d.HospitalisationChance(90); got != 0.8 {
		t.Errorf("expected clamping above the last sample to 0.8, got %f", got)
	}
	if got := d.HospitalisationChance(0); got != 0.0 {
		t.Errorf("expected clamping at the first sample to 0.0, got %f", got)
	}
}

func TestDisease_AddHospitalisationChances_RejectsUnsortedAges(t *testing.T) {
	d, _ := NewDisease(0.2, 5, 7, 14, 5, 5, 90, 0.9)
	err := d.AddHospitalisationChances([]AgeProbabilityPair{
		{Age: 10, Probability: 0.1},
		{Age: 10, Probability: 0.2},
	})
	if err == nil {
		t.Fatal("expected error for duplicate ages")
	}
}

func TestDisease_AddHospitalisationChances_RejectsOutOfRangeAge(t *testing.T) {
	d, _ := NewDisease(0.2, 5, 7, 14, 5, 5, 90, 0.9)
	err := d.AddHospitalisationChances([]AgeProbabilityPair{{Age: 200, Probability: 0.1}})
	if err == nil {
		t.Fatal("expected error for out of range age")
	}
}

func TestDisease_AddMutations_Merges(t *testing.T) {
	d, _ := NewDisease(0.2, 5, 7, 14, 5, 5, 90, 0.9)
	d.AddMutations(map[string]Mutation{"alpha": {Name: "alpha", InfectionRate: 0.3}})
	d.AddMutations(map[string]Mutation{"beta": {Name: "beta", InfectionRate: 0.4}})
	if len(d.Mutations) != 2 {
		t.Fatalf("expected both mutations retained, got %d", len(d.Mutations))
	}
	if d.Mutations["alpha"].InfectionRate != 0.3 {
		t.Errorf("expected alpha infection rate 0.3, got %f", d.Mutations["alpha"].InfectionRate)
	}
}

func TestClampAge(t *testing.T) {
	cases := map[int]int{-5: 0, 0: 0, 45: 45, MaxAge: MaxAge, MaxAge + 10: MaxAge}
	for in, want := range cases {
		if got := clampAge(in); got != want {
			t.Errorf("clampAge(%d) = %d, want %d", in, got, want)
		}
	}
}
