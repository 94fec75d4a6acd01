package eligibility

import (
	"github.com/shopspring/decimal"

	"meridian/internal/disclosure"
	disclosureModels "meridian/internal/disclosure/models"
	investorModels "meridian/internal/investor/models"
	"meridian/internal/jurisdiction"
	"meridian/pkg/domain"
	s "meridian/pkg/string"
)

// Jurisdictions is the registry lookup the evaluator needs.
type Jurisdictions interface {
	Lookup(countryCode string) (jurisdiction.Rule, error)
}

// Evaluator applies the eligibility rule chain.
type Evaluator struct {
	jurisdictions Jurisdictions
}

// NewEvaluator builds an evaluator over a jurisdiction registry.
func NewEvaluator(jurisdictions Jurisdictions) *Evaluator {
	if jurisdictions == nil {
		panic("jurisdiction registry is required")
	}
	return &Evaluator{jurisdictions: jurisdictions}
}

// Evaluate decides whether investor may subscribe to deal.
func (e *Evaluator) Evaluate(investor *investorModels.Profile, deal *disclosureModels.DealProfile) Decision {
	return e.EvaluateWithAmount(investor, deal, nil)
}

// EvaluateWithAmount also checks a proposed subscription amount against the
// deal minimum. A nil amount skips that rule.
//
// Rule priority (first denial decides):
//  1. Compliance status rejected or suspended
//  2. Sanctioned investor, with no jurisdiction exception
//  3. Investor jurisdiction unknown
//  4. Investor type not permitted in the jurisdiction
//  5. Retail deal, no passporting, issuer in another country
//  6. Amount below the deal minimum
//
// Every later rule that also denies is reported as a secondary reason.
// Rules 4 and 5 cannot be evaluated without a jurisdiction.
func (e *Evaluator) EvaluateWithAmount(investor *investorModels.Profile, deal *disclosureModels.DealProfile, amount *decimal.Decimal) Decision {
	if investor == nil || deal == nil {
		return deny([]Reason{ReasonProfileUnavailable}, nil)
	}

	var denials []Reason

	// Rule 1: compliance block
	if investor.ComplianceStatus.Blocks() {
		denials = append(denials, ReasonComplianceBlocked)
	}

	// Rule 2: sanctions (absolute)
	if investor.IsSanctioned {
		denials = append(denials, ReasonSanctioned)
	}

	// Rules 3-5: jurisdiction
	rule, err := e.jurisdictions.Lookup(investor.CountryCode)
	if err != nil {
		denials = append(denials, ReasonUnsupportedJurisdiction)
	} else {
		if !rule.Permits(investor.InvestorType) {
			denials = append(denials, ReasonInvestorTypeNotPermitted)
		}
		if crossBorderRetailWithoutPassport(rule, investor, deal) {
			denials = append(denials, ReasonNoPassportingRights)
		}
	}

	// Rule 6: minimum subscription
	if amount != nil && amount.LessThan(deal.MinimumInvestment) {
		denials = append(denials, ReasonBelowMinimumInvestment)
	}

	info := informational(investor, deal)
	if len(denials) > 0 {
		return deny(denials, info)
	}

	documents := disclosure.ResolveForDeal(deal).Documents()

	// Rule 7: eligible pending the investor's own documents
	if investor.ComplianceStatus == domain.StatusRequiresDocuments {
		documents = append(documents, disclosureModels.DocInvestorSupporting)
		return allow(ReasonConditionalApproval, info, documents)
	}

	// Rule 8: eligible
	return allow(ReasonEligible, info, documents)
}

func crossBorderRetailWithoutPassport(rule jurisdiction.Rule, investor *investorModels.Profile, deal *disclosureModels.DealProfile) bool {
	return deal.Compartment == disclosureModels.CompartmentRetail &&
		!rule.Passporting &&
		s.NormalizeCountry(deal.IssuerCountry) != s.NormalizeCountry(investor.CountryCode)
}

// informational returns the non-blocking reasons in fixed order.
func informational(investor *investorModels.Profile, deal *disclosureModels.DealProfile) []Reason {
	var out []Reason
	if investor.IsPEP {
		out = append(out, ReasonPoliticallyExposed)
	}
	if disclosure.ResolveForDeal(deal).RegulatorApproval && !deal.RegulatorApproved {
		out = append(out, ReasonRegulatorApprovalPending)
	}
	return out
}

func deny(denials, info []Reason) Decision {
	reasons := make([]Reason, 0, len(denials)+len(info))
	reasons = append(reasons, denials...)
	reasons = append(reasons, info...)
	return Decision{
		Allowed:           false,
		PrimaryReason:     denials[0],
		Reasons:           reasons,
		RequiredDocuments: []disclosureModels.DocumentKind{},
	}
}

func allow(primary Reason, info []Reason, documents []disclosureModels.DocumentKind) Decision {
	reasons := make([]Reason, 0, 1+len(info))
	reasons = append(reasons, primary)
	reasons = append(reasons, info...)
	if documents == nil {
		documents = []disclosureModels.DocumentKind{}
	}
	return Decision{
		Allowed:           true,
		PrimaryReason:     primary,
		Reasons:           reasons,
		RequiredDocuments: documents,
	}
}
