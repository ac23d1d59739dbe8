package config

import (
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// ModeAliases maps user-facing mode synonyms to canonical mode keys, so a
// hint of "learners" can resolve to the "students" mode.
type ModeAliases struct {
	Aliases map[string]string `yaml:"aliases"`
}

// UnmarshalYAML decodes a bare alias map, so a config file can carry an
// aliases block directly under its top-level key.
func (a *ModeAliases) UnmarshalYAML(value *yaml.Node) error {
	m := make(map[string]string)
	if err := value.Decode(&m); err != nil {
		return err
	}
	a.Aliases = m
	return nil
}

// LoadAliases reads mode aliases from a standalone YAML file with a single
// top-level "aliases" key.
func LoadAliases(path string) (*ModeAliases, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var doc struct {
		Aliases *ModeAliases `yaml:"aliases"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Aliases == nil {
		doc.Aliases = &ModeAliases{Aliases: make(map[string]string)}
	}
	return doc.Aliases, nil
}

// Resolve returns the canonical mode for an alias. If the input is not a
// known alias it is returned unchanged.
func (a *ModeAliases) Resolve(modeOrAlias string) string {
	if a == nil || a.Aliases == nil {
		return modeOrAlias
	}
	if canonical, ok := a.Aliases[modeOrAlias]; ok {
		return canonical
	}
	return modeOrAlias
}

// IsAlias reports whether name is a known alias.
func (a *ModeAliases) IsAlias(name string) bool {
	if a == nil || a.Aliases == nil {
		return false
	}
	_, ok := a.Aliases[name]
	return ok
}

// Names returns all alias names, sorted.
func (a *ModeAliases) Names() []string {
	if a == nil {
		return nil
	}
	names := make([]string, 0, len(a.Aliases))
	for name := range a.Aliases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
