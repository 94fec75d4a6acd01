package jurisdiction

import (
	"fmt"
	"sort"

	dErrors "meridian/pkg/domain-errors"
	s "meridian/pkg/string"
)

// Registry is an immutable lookup table of jurisdiction rules. It is built
// once at startup and safe for concurrent reads.
type Registry struct {
	rules map[string]Rule
}

// NewRegistry validates rules and builds a registry. Each country code must
// appear once, be two upper-case letters after normalization, and name a
// known region.
func NewRegistry(rules []Rule) (*Registry, error) {
	byCode := make(map[string]Rule, len(rules))
	for _, rule := range rules {
		normalized, err := normalizeRule(rule)
		if err != nil {
			return nil, err
		}
		if _, dup := byCode[normalized.CountryCode]; dup {
			return nil, fmt.Errorf("duplicate jurisdiction %s", normalized.CountryCode)
		}
		byCode[normalized.CountryCode] = normalized
	}
	return &Registry{rules: byCode}, nil
}

// Default returns a registry over the built-in table.
func Default() *Registry {
	r, err := NewRegistry(BuiltinRules())
	if err != nil {
		panic("jurisdiction: invalid built-in table: " + err.Error())
	}
	return r
}

// WithOverrides returns a new registry where each override replaces the rule
// for its country code or adds it when absent. The receiver is unchanged.
func (r *Registry) WithOverrides(overrides []Rule) (*Registry, error) {
	merged := make(map[string]Rule, len(r.rules)+len(overrides))
	for code, rule := range r.rules {
		merged[code] = rule
	}
	seen := make(map[string]struct{}, len(overrides))
	for _, rule := range overrides {
		normalized, err := normalizeRule(rule)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[normalized.CountryCode]; dup {
			return nil, fmt.Errorf("duplicate jurisdiction override %s", normalized.CountryCode)
		}
		seen[normalized.CountryCode] = struct{}{}
		merged[normalized.CountryCode] = normalized
	}
	return &Registry{rules: merged}, nil
}

// Lookup returns the rule for a country code. The code is trimmed and
// upper-cased first. Unknown codes fail with CodeNotFound; there is no
// default region.
func (r *Registry) Lookup(countryCode string) (Rule, error) {
	code := s.NormalizeCountry(countryCode)
	rule, ok := r.rules[code]
	if !ok {
		return Rule{}, dErrors.Newf(dErrors.CodeNotFound, "jurisdiction %q not found", code)
	}
	return rule, nil
}

// ListByRegion returns every rule in the region, sorted by country code.
func (r *Registry) ListByRegion(region Region) []Rule {
	out := make([]Rule, 0)
	for _, rule := range r.rules {
		if rule.Region == region {
			out = append(out, rule)
		}
	}
	sortByCode(out)
	return out
}

// All returns every rule sorted by country code.
func (r *Registry) All() []Rule {
	out := make([]Rule, 0, len(r.rules))
	for _, rule := range r.rules {
		out = append(out, rule)
	}
	sortByCode(out)
	return out
}

// Len returns the number of jurisdictions in the registry.
func (r *Registry) Len() int {
	return len(r.rules)
}

func sortByCode(rules []Rule) {
	sort.Slice(rules, func(i, j int) bool { return rules[i].CountryCode < rules[j].CountryCode })
}

func normalizeRule(rule Rule) (Rule, error) {
	rule.CountryCode = s.NormalizeCountry(rule.CountryCode)
	if !isAlpha2(rule.CountryCode) {
		return Rule{}, fmt.Errorf("invalid country code %q", rule.CountryCode)
	}
	region, err := ParseRegion(string(rule.Region))
	if err != nil {
		return Rule{}, fmt.Errorf("jurisdiction %s: %w", rule.CountryCode, err)
	}
	rule.Region = region
	if rule.Name == "" {
		rule.Name = rule.CountryCode
	}
	return rule, nil
}

func isAlpha2(code string) bool {
	if len(code) != 2 {
		return false
	}
	for i := 0; i < len(code); i++ {
		if code[i] < 'A' || code[i] > 'Z' {
			return false
		}
	}
	return true
}
