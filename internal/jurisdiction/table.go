package jurisdiction

// Built-in rules. EU and EEA members share the passported regime; the
// EU-equivalent and third-country entries carry per-country permissions.

var (
	passportedPermissions = Permissions{
		Retail:        true,
		Professional:  true,
		Qualified:     true,
		Institutional: true,
	}
	professionalOnly = Permissions{
		Professional:  true,
		Qualified:     true,
		Institutional: true,
	}
	blocked = Permissions{}
)

var euMembers = map[string]string{
	"AT": "Austria",
	"BE": "Belgium",
	"BG": "Bulgaria",
	"HR": "Croatia",
	"CY": "Cyprus",
	"CZ": "Czechia",
	"DK": "Denmark",
	"EE": "Estonia",
	"FI": "Finland",
	"FR": "France",
	"DE": "Germany",
	"GR": "Greece",
	"HU": "Hungary",
	"IE": "Ireland",
	"IT": "Italy",
	"LV": "Latvia",
	"LT": "Lithuania",
	"LU": "Luxembourg",
	"MT": "Malta",
	"NL": "Netherlands",
	"PL": "Poland",
	"PT": "Portugal",
	"RO": "Romania",
	"SK": "Slovakia",
	"SI": "Slovenia",
	"ES": "Spain",
	"SE": "Sweden",
}

var eeaMembers = map[string]string{
	"IS": "Iceland",
	"LI": "Liechtenstein",
	"NO": "Norway",
}

var otherRules = []Rule{
	{
		CountryCode: "GB", Name: "United Kingdom", Region: RegionEUEquivalent,
		Permissions: Permissions{Professional: true, Qualified: true, Wholesale: true, Institutional: true},
	},
	{
		CountryCode: "CH", Name: "Switzerland", Region: RegionEUEquivalent,
		Permissions: professionalOnly,
	},
	{
		CountryCode: "CA", Name: "Canada", Region: RegionThirdCountryFriendly,
		Permissions: Permissions{Professional: true, Qualified: true, Accredited: true, Institutional: true},
	},
	{
		CountryCode: "AU", Name: "Australia", Region: RegionThirdCountryFriendly,
		Permissions: Permissions{Professional: true, Qualified: true, Wholesale: true, Institutional: true},
	},
	{
		CountryCode: "NZ", Name: "New Zealand", Region: RegionThirdCountryFriendly,
		Permissions: Permissions{Professional: true, Qualified: true, Wholesale: true, Institutional: true},
	},
	{
		CountryCode: "SG", Name: "Singapore", Region: RegionThirdCountryFriendly,
		Permissions: Permissions{Professional: true, Qualified: true, Wholesale: true, Institutional: true},
	},
	{
		CountryCode: "JP", Name: "Japan", Region: RegionThirdCountryFriendly,
		Permissions: professionalOnly,
	},
	{
		CountryCode: "HK", Name: "Hong Kong", Region: RegionThirdCountryFriendly,
		Permissions: professionalOnly,
	},
	{
		CountryCode: "AE", Name: "United Arab Emirates", Region: RegionThirdCountryFriendly,
		Permissions: professionalOnly,
	},
	{
		// US offerings are limited to accredited and institutional investors.
		CountryCode: "US", Name: "United States", Region: RegionThirdCountryRestricted,
		Permissions: Permissions{Accredited: true, Institutional: true},
	},
	{
		CountryCode: "CN", Name: "China", Region: RegionThirdCountryRestricted,
		Permissions: Permissions{Institutional: true},
	},
	{CountryCode: "RU", Name: "Russia", Region: RegionThirdCountryRestricted, Permissions: blocked},
	{CountryCode: "BY", Name: "Belarus", Region: RegionThirdCountryRestricted, Permissions: blocked},
	{CountryCode: "IR", Name: "Iran", Region: RegionThirdCountryRestricted, Permissions: blocked},
	{CountryCode: "KP", Name: "North Korea", Region: RegionThirdCountryRestricted, Permissions: blocked},
	{CountryCode: "SY", Name: "Syria", Region: RegionThirdCountryRestricted, Permissions: blocked},
	{CountryCode: "CU", Name: "Cuba", Region: RegionThirdCountryRestricted, Permissions: blocked},
}

// BuiltinRules returns a fresh copy of the built-in table.
func BuiltinRules() []Rule {
	rules := make([]Rule, 0, len(euMembers)+len(eeaMembers)+len(otherRules))
	for code, name := range euMembers {
		rules = append(rules, Rule{
			CountryCode: code, Name: name, Region: RegionEU,
			Passporting: true, Permissions: passportedPermissions,
		})
	}
	for code, name := range eeaMembers {
		rules = append(rules, Rule{
			CountryCode: code, Name: name, Region: RegionEEA,
			Passporting: true, Permissions: passportedPermissions,
		})
	}
	rules = append(rules, otherRules...)
	return rules
}
