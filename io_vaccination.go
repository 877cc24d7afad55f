package facs

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type vaccinationEntryYAML struct {
	VaccinesPerDay float64 `yaml:"vaccines_per_day"`
	AgeLimit       int     `yaml:"vaccine_age_limit"`
	NoSymptoms     float64 `yaml:"no_symptoms"`
	NoTransmission float64 `yaml:"no_transmission"`
}

// LoadVaccinationSchedule parses a vaccinations YAML file into a date-keyed
// schedule. vaccine_effect_time defaults to 14 when absent, matching
// read_vaccinations_yml.py.
func LoadVaccinationSchedule(path string) (*VaccinationSchedule, int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, errors.Wrapf(err, FileNotFoundError, path, err)
	}
	var doc map[string]yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, 0, errors.Wrap(err, "parsing vaccination schedule")
	}

	effectTime := 14
	if node, ok := doc["vaccine_effect_time"]; ok {
		_ = node.Decode(&effectTime)
		delete(doc, "vaccine_effect_time")
	}

	sched := &VaccinationSchedule{Entries: make(map[string]VaccinationEntry, len(doc))}
	for date, node := range doc {
		var raw vaccinationEntryYAML
		if err := node.Decode(&raw); err != nil {
			return nil, 0, errors.Wrapf(err, "parsing vaccination entry for %s", date)
		}
		sched.Entries[date] = VaccinationEntry{
			VaccinesPerDay: raw.VaccinesPerDay,
			AgeLimit:       raw.AgeLimit,
			NoSymptoms:     raw.NoSymptoms,
			NoTransmission: raw.NoTransmission,
		}
	}
	return sched, effectTime, nil
}

type mutationEntryYAML struct {
	Type             string `yaml:"type"`
	TransitionPeriod int    `yaml:"transition_period"`
}

// LoadMutationSchedule parses an optional mutations.yml, returning a nil
// map (not an error) when the file does not exist, matching the upstream's
// FileNotFoundError-swallowing try/except.
func LoadMutationSchedule(path string) (map[string]MutationEntry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, FileNotFoundError, path, err)
	}
	var doc map[string]mutationEntryYAML
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, errors.Wrap(err, "parsing mutation schedule")
	}
	out := make(map[string]MutationEntry, len(doc))
	for date, m := range doc {
		out[date] = MutationEntry{Type: m.Type, TransitionPeriod: m.TransitionPeriod}
	}
	return out, nil
}
