package facs

import (
	"sort"

	"github.com/pkg/errors"
)

// MaxAge is the highest age index carried in the hospitalisation and
// mortality probability tables.
const MaxAge = 90

// Mutation describes a named disease variant with its own infection rate.
type Mutation struct {
	Name          string
	InfectionRate float64
}

// Disease holds the scalar and age-indexed parameters of a respiratory
// disease, translated from the sparse (age, probability) pairs of the
// input YAML into dense length-91 arrays.
type Disease struct {
	InfectionRate            float64
	IncubationPeriod         float64
	MildRecoveryPeriod       float64
	RecoveryPeriod           float64
	MortalityPeriod          float64
	PeriodToHospitalisation  float64
	ImmunityDuration         float64
	ImmunityFraction         float64

	hospital [MaxAge + 1]float64
	mortality [MaxAge + 1]float64

	Mutations map[string]Mutation
}

// NewDisease builds a Disease from its scalar parameters. All scalars must
// be non-negative; ImmunityDuration may be zero or negative to mean
// permanent immunity (no waning).
func NewDisease(infectionRate, incubation, mildRecovery, recovery, mortalityPeriod, periodToHosp, immunityDuration, immunityFraction float64) (*Disease, error) {
	for name, v := range map[string]float64{
		"infection_rate":             infectionRate,
		"incubation_period":          incubation,
		"mild_recovery_period":       mildRecovery,
		"recovery_period":            recovery,
		"mortality_period":           mortalityPeriod,
		"period_to_hospitalisation":  periodToHosp,
	} {
		if v < 0 {
			return nil, errors.Errorf(NegativeParameterError, name, v)
		}
	}
	return &Disease{
		InfectionRate:           infectionRate,
		IncubationPeriod:        incubation,
		MildRecoveryPeriod:      mildRecovery,
		RecoveryPeriod:          recovery,
		MortalityPeriod:         mortalityPeriod,
		PeriodToHospitalisation: periodToHosp,
		ImmunityDuration:        immunityDuration,
		ImmunityFraction:        immunityFraction,
		Mutations:               make(map[string]Mutation),
	}, nil
}

// AgeProbabilityPair is one (age, probability) sample of a sparse curve.
type AgeProbabilityPair struct {
	Age         int
	Probability float64
}

// interpolateDense linearly interpolates a sparse, sorted-by-age set of
// (age, probability) pairs into a dense length MaxAge+1 array, clamping
// below the first and above the last sample.
func interpolateDense(pairs []AgeProbabilityPair, fieldName string) ([MaxAge + 1]float64, error) {
	var out [MaxAge + 1]float64
	if len(pairs) == 0 {
		return out, nil
	}
	sorted := make([]AgeProbabilityPair, len(pairs))
	copy(sorted, pairs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Age < sorted[j].Age })
	for i, p := range sorted {
		if p.Age < 0 || p.Age > MaxAge {
			return out, errors.Errorf(InvalidAgeError, p.Age, MaxAge)
		}
		if p.Probability < 0 || p.Probability > 1 {
			return out, errors.Errorf(InvalidProbabilityError, fieldName, p.Probability)
		}
		if i > 0 && p.Age <= sorted[i-1].Age {
			return out, errors.Errorf(UnsortedAgeTableError, fieldName)
		}
	}
	j := 0
	for age := 0; age <= MaxAge; age++ {
		for j < len(sorted)-1 && sorted[j+1].Age <= age {
			j++
		}
		switch {
		case age <= sorted[0].Age:
			out[age] = sorted[0].Probability
		case age >= sorted[len(sorted)-1].Age:
			out[age] = sorted[len(sorted)-1].Probability
		default:
			lo, hi := sorted[j], sorted[j+1]
			frac := float64(age-lo.Age) / float64(hi.Age-lo.Age)
			out[age] = lo.Probability + frac*(hi.Probability-lo.Probability)
		}
	}
	return out, nil
}

// AddHospitalisationChances populates the age-indexed hospitalisation
// probability table from sparse samples.
func (d *Disease) AddHospitalisationChances(pairs []AgeProbabilityPair) error {
	dense, err := interpolateDense(pairs, "hospitalised")
	if err != nil {
		return err
	}
	d.hospital = dense
	return nil
}

// AddMortalityChances populates the age-indexed mortality probability
// table from sparse samples.
func (d *Disease) AddMortalityChances(pairs []AgeProbabilityPair) error {
	dense, err := interpolateDense(pairs, "mortality")
	if err != nil {
		return err
	}
	d.mortality = dense
	return nil
}

// HospitalisationChance returns the probability that an infectious agent
// of the given age becomes a non-mild (hospitalisation-bound) case.
func (d *Disease) HospitalisationChance(age int) float64 {
	return d.hospital[clampAge(age)]
}

// MortalityChance returns the unconditional probability that an infected
// agent of the given age dies; ProgressCondition divides it by
// HospitalisationChance to get a hospitalised agent's chance of dying.
func (d *Disease) MortalityChance(age int) float64 {
	return d.mortality[clampAge(age)]
}

func clampAge(age int) int {
	if age < 0 {
		return 0
	}
	if age > MaxAge {
		return MaxAge
	}
	return age
}

// AddMutations registers named mutation variants, each with its own
// infection rate, addressable by name from a mutation schedule entry.
func (d *Disease) AddMutations(muts map[string]Mutation) {
	if d.Mutations == nil {
		d.Mutations = make(map[string]Mutation)
	}
	for name, m := range muts {
		d.Mutations[name] = m
	}
}
