package facs

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// BuildingType is one entry of the closed building-category registry loaded
// from a building-types YAML file. Index is the category's dense array
// position, used to address Needs columns, contact-rate multipliers and
// location registries.
type BuildingType struct {
	Index      int
	Name       string
	Labels     []string
	DefaultSqm float64
	Fixed      bool
	Weighted   bool
	Neighbours int
}

// buildingTypeYAML mirrors the on-disk schema: a map of category name to
// its fields.
type buildingTypeYAML struct {
	Labels     []string `yaml:"labels"`
	DefaultSqm float64  `yaml:"default_sqm"`
	Fixed      bool     `yaml:"fixed"`
	Weighted   bool     `yaml:"weighted"`
	Neighbours int      `yaml:"neighbours"`
	Index      int      `yaml:"index"`
}

// BuildingTypeRegistry is the closed, ordered set of building categories
// known to a run.
type BuildingTypeRegistry struct {
	byIndex []BuildingType
	byName  map[string]int
	labelToName map[string]string
}

// LoadBuildingTypeRegistry reads the building-type map YAML (see
// original_source/facs/base/location_types.py for the narrower upstream
// schema; this registry additionally carries fixed/weighted/neighbours per
// the full specification).
func LoadBuildingTypeRegistry(path string) (*BuildingTypeRegistry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, FileNotFoundError, path, err)
	}
	var decoded map[string]buildingTypeYAML
	if err := yaml.Unmarshal(raw, &decoded); err != nil {
		return nil, errors.Wrap(err, "parsing building type registry")
	}
	reg := &BuildingTypeRegistry{
		byName:      make(map[string]int),
		labelToName: make(map[string]string),
	}
	reg.byIndex = make([]BuildingType, len(decoded))
	for name, bt := range decoded {
		if bt.Index < 0 || bt.Index >= len(decoded) {
			return nil, errors.Errorf(MissingFieldError, path, "index")
		}
		reg.byIndex[bt.Index] = BuildingType{
			Index:      bt.Index,
			Name:       name,
			Labels:     bt.Labels,
			DefaultSqm: bt.DefaultSqm,
			Fixed:      bt.Fixed,
			Weighted:   bt.Weighted,
			Neighbours: bt.Neighbours,
		}
		reg.byName[name] = bt.Index
		for _, label := range bt.Labels {
			reg.labelToName[label] = name
		}
	}
	return reg, nil
}

// Category looks up a building type by name, returning its index and ok.
func (r *BuildingTypeRegistry) Category(name string) (int, bool) {
	idx, ok := r.byName[name]
	return idx, ok
}

// CategoryForLabel maps a raw building CSV label to a category, defaulting
// to "house" per the building-mapping fallback rule.
func (r *BuildingTypeRegistry) CategoryForLabel(label string) string {
	if name, ok := r.labelToName[label]; ok {
		return name
	}
	return "house"
}

// ByIndex returns the BuildingType registered at the given index.
func (r *BuildingTypeRegistry) ByIndex(i int) BuildingType {
	return r.byIndex[i]
}

// Len reports the number of registered building categories.
func (r *BuildingTypeRegistry) Len() int {
	return len(r.byIndex)
}

// Names returns all registered category names ordered by index.
func (r *BuildingTypeRegistry) Names() []string {
	names := make([]string, len(r.byIndex))
	for i, bt := range r.byIndex {
		names[i] = bt.Name
	}
	return names
}
