package facs

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type measuresEntryYAML struct {
	CaseIsolation        *bool              `yaml:"case_isolation"`
	HouseholdIsolation   *bool              `yaml:"household_isolation"`
	ExternalMultiplier   *float64           `yaml:"external_multiplier"`
	PartialClosure       map[string]float64 `yaml:"partial_closure"`
	Closure              map[string]bool    `yaml:"closure"`
	WorkFromHome         *float64           `yaml:"work_from_home"`
	MaskUptake           *float64           `yaml:"mask_uptake"`
	MaskUptakeShopping   *float64           `yaml:"mask_uptake_shopping"`
	SocialDistance       *float64           `yaml:"social_distance"`
	TrafficMultiplier    *float64           `yaml:"traffic_multiplier"`
	HospitalProtection   *float64           `yaml:"hospital_protection_factor"`
	TrackTraceEfficiency *float64           `yaml:"track_trace_efficiency"`
}

// LoadMeasuresSchedule parses a measures YAML file into a date-keyed
// schedule, resolving each entry's category names against reg. The
// top-level date_format key (if present) is normalised from the
// Python-style "%d/%m/%Y" convention used by a handful of older schedule
// files to the "%-d/%-m/%Y" no-leading-zero form, per
// read_measures_yml.py's backwards-compatibility shim.
func LoadMeasuresSchedule(path string, reg *BuildingTypeRegistry) (*MeasuresSchedule, string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, "", errors.Wrapf(err, FileNotFoundError, path, err)
	}
	var doc map[string]yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, "", errors.Wrap(err, "parsing measures schedule")
	}

	dateFormat := "%Y-%m-%d"
	if node, ok := doc["date_format"]; ok {
		var df string
		if err := node.Decode(&df); err == nil {
			if df == "%d/%m/%Y" {
				df = "%-d/%-m/%Y"
			}
			dateFormat = df
		}
		delete(doc, "date_format")
	}
	var keyworkerFraction float64
	if node, ok := doc["keyworker_fraction"]; ok {
		_ = node.Decode(&keyworkerFraction)
		delete(doc, "keyworker_fraction")
	}

	sched := &MeasuresSchedule{
		Entries:           make(map[string]MeasuresEntry, len(doc)),
		KeyworkerFraction: keyworkerFraction,
	}
	for date, node := range doc {
		var raw measuresEntryYAML
		if err := node.Decode(&raw); err != nil {
			return nil, "", errors.Wrapf(err, "parsing measures entry for %s", date)
		}
		entry := MeasuresEntry{
			CaseIsolation:        raw.CaseIsolation,
			HouseholdIsolation:   raw.HouseholdIsolation,
			ExternalMultiplier:   raw.ExternalMultiplier,
			WorkFromHome:         raw.WorkFromHome,
			MaskUptake:           raw.MaskUptake,
			MaskUptakeShopping:   raw.MaskUptakeShopping,
			SocialDistance:       raw.SocialDistance,
			TrafficMultiplier:    raw.TrafficMultiplier,
			HospitalProtection:   raw.HospitalProtection,
			TrackTraceEfficiency: raw.TrackTraceEfficiency,
		}
		if len(raw.PartialClosure) > 0 {
			entry.PartialClosure = make(map[int]float64, len(raw.PartialClosure))
			for name, fraction := range raw.PartialClosure {
				if idx, ok := reg.Category(name); ok {
					entry.PartialClosure[idx] = fraction
				}
			}
		}
		if len(raw.Closure) > 0 {
			entry.Closure = make(map[int]bool, len(raw.Closure))
			for name, immediate := range raw.Closure {
				if idx, ok := reg.Category(name); ok {
					entry.Closure[idx] = immediate
				}
			}
		}
		sched.Entries[date] = entry
	}
	return sched, dateFormat, nil
}
