// Package jurisdiction maps ISO-3166 alpha-2 country codes to the regulatory
// rules that govern which investor classifications may subscribe from there.
package jurisdiction

import (
	"strings"

	"meridian/pkg/domain"
	dErrors "meridian/pkg/domain-errors"
)

// Region groups jurisdictions that share a regulatory regime.
type Region string

const (
	RegionEU                     Region = "EU"
	RegionEEA                    Region = "EEA"
	RegionEUEquivalent           Region = "EU_EQUIVALENT"
	RegionThirdCountryFriendly   Region = "THIRD_COUNTRY_FRIENDLY"
	RegionThirdCountryRestricted Region = "THIRD_COUNTRY_RESTRICTED"
)

var regions = []Region{
	RegionEU,
	RegionEEA,
	RegionEUEquivalent,
	RegionThirdCountryFriendly,
	RegionThirdCountryRestricted,
}

// ParseRegion validates a region name. Input is trimmed and upper-cased.
func ParseRegion(s string) (Region, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for _, r := range regions {
		if Region(s) == r {
			return r, nil
		}
	}
	return "", dErrors.New(dErrors.CodeValidation, "invalid region: "+s)
}

// Permissions records which investor classifications are allowed to invest
// from a jurisdiction.
type Permissions struct {
	Retail        bool `yaml:"retail" json:"retail"`
	Professional  bool `yaml:"professional" json:"professional"`
	Qualified     bool `yaml:"qualified" json:"qualified"`
	Accredited    bool `yaml:"accredited" json:"accredited"`
	Wholesale     bool `yaml:"wholesale" json:"wholesale"`
	Institutional bool `yaml:"institutional" json:"institutional"`
}

// Allows reports whether the given classification is permitted.
// Unknown classifications are never permitted.
func (p Permissions) Allows(t domain.InvestorType) bool {
	switch t {
	case domain.InvestorRetail:
		return p.Retail
	case domain.InvestorProfessional:
		return p.Professional
	case domain.InvestorQualified:
		return p.Qualified
	case domain.InvestorAccredited:
		return p.Accredited
	case domain.InvestorWholesale:
		return p.Wholesale
	case domain.InvestorInstitutional:
		return p.Institutional
	default:
		return false
	}
}

// Rule is the immutable regulatory rule for one country.
type Rule struct {
	CountryCode string
	Name        string
	Region      Region
	// Passporting is true when a product authorised in one member state may be
	// offered to retail investors in another without local authorisation.
	Passporting bool
	Permissions Permissions
}

// Permits reports whether the rule allows the given classification.
func (r Rule) Permits(t domain.InvestorType) bool {
	return r.Permissions.Allows(t)
}
