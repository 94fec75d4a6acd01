package jurisdiction

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// overrideFile is the on-disk format for jurisdiction overrides:
//
//	jurisdictions:
//	  - code: GB
//	    name: United Kingdom
//	    region: EU_EQUIVALENT
//	    passporting: false
//	    permissions:
//	      professional: true
//	      institutional: true
type overrideFile struct {
	Jurisdictions []overrideEntry `yaml:"jurisdictions"`
}

type overrideEntry struct {
	Code        string      `yaml:"code"`
	Name        string      `yaml:"name"`
	Region      string      `yaml:"region"`
	Passporting bool        `yaml:"passporting"`
	Permissions Permissions `yaml:"permissions"`
}

// ParseOverrides decodes override rules from YAML. Unknown keys are rejected
// so a misspelt permission never silently denies or grants access.
func ParseOverrides(data []byte) ([]Rule, error) {
	var file overrideFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("decode jurisdiction overrides: %w", err)
	}

	rules := make([]Rule, 0, len(file.Jurisdictions))
	for _, e := range file.Jurisdictions {
		rules = append(rules, Rule{
			CountryCode: e.Code,
			Name:        e.Name,
			Region:      Region(e.Region),
			Passporting: e.Passporting,
			Permissions: e.Permissions,
		})
	}
	return rules, nil
}

// LoadOverrides reads override rules from a YAML file.
func LoadOverrides(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read jurisdiction overrides: %w", err)
	}
	return ParseOverrides(data)
}

// Load builds the registry used at startup: the built-in table with the
// optional override file applied. An empty path yields the built-in table.
func Load(path string) (*Registry, error) {
	base := Default()
	if path == "" {
		return base, nil
	}
	overrides, err := LoadOverrides(path)
	if err != nil {
		return nil, err
	}
	return base.WithOverrides(overrides)
}
