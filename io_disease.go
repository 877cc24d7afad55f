package facs

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type diseaseYAML struct {
	InfectionRate           float64              `yaml:"infection_rate"`
	IncubationPeriod        float64              `yaml:"incubation_period"`
	MildRecoveryPeriod      float64              `yaml:"mild_recovery_period"`
	RecoveryPeriod          float64              `yaml:"recovery_period"`
	MortalityPeriod         float64              `yaml:"mortality_period"`
	PeriodToHospitalisation float64              `yaml:"period_to_hospitalisation"`
	ImmunityDuration        float64              `yaml:"immunity_duration"`
	ImmunityFraction        float64              `yaml:"immunity_fraction"`
	Hospitalised            []ageProbabilityYAML `yaml:"hospitalised"`
	Mortality               []ageProbabilityYAML `yaml:"mortality"`
	Mutations               map[string]struct {
		InfectionRate float64 `yaml:"infection_rate"`
	} `yaml:"mutations"`
}

type ageProbabilityYAML struct {
	Age         int     `yaml:"age"`
	Probability float64 `yaml:"percentage"`
}

// LoadDisease parses a disease definition YAML file into a fully populated
// Disease, including its age-indexed hospitalisation, mortality and named
// mutation tables.
func LoadDisease(path string) (*Disease, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, FileNotFoundError, path, err)
	}
	var spec diseaseYAML
	if err := yaml.Unmarshal(raw, &spec); err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}
	d, err := NewDisease(
		spec.InfectionRate, spec.IncubationPeriod, spec.MildRecoveryPeriod,
		spec.RecoveryPeriod, spec.MortalityPeriod, spec.PeriodToHospitalisation,
		spec.ImmunityDuration, spec.ImmunityFraction,
	)
	if err != nil {
		return nil, err
	}
	if err := d.AddHospitalisationChances(toPairs(spec.Hospitalised)); err != nil {
		return nil, err
	}
	if err := d.AddMortalityChances(toPairs(spec.Mortality)); err != nil {
		return nil, err
	}
	muts := make(map[string]Mutation, len(spec.Mutations))
	for name, m := range spec.Mutations {
		muts[name] = Mutation{Name: name, InfectionRate: m.InfectionRate}
	}
	d.AddMutations(muts)
	return d, nil
}

func toPairs(entries []ageProbabilityYAML) []AgeProbabilityPair {
	pairs := make([]AgeProbabilityPair, len(entries))
	for i, e := range entries {
		pairs[i] = AgeProbabilityPair{Age: e.Age, Probability: e.Probability}
	}
	return pairs
}
