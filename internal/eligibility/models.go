// Package eligibility decides whether an investor may subscribe to a deal.
// The evaluator is pure: it reads already-loaded profiles and never mutates
// or caches anything, so it is safe for unbounded concurrent use.
package eligibility

import disclosureModels "meridian/internal/disclosure/models"

// Reason explains a decision. Denial reasons come first in rule order;
// informational reasons never change the outcome.
type Reason string

const (
	ReasonComplianceBlocked        Reason = "compliance_blocked"
	ReasonSanctioned               Reason = "sanctioned"
	ReasonUnsupportedJurisdiction  Reason = "unsupported_jurisdiction"
	ReasonInvestorTypeNotPermitted Reason = "investor_type_not_permitted"
	ReasonNoPassportingRights      Reason = "no_passporting_rights"
	ReasonBelowMinimumInvestment   Reason = "below_minimum_investment"
	ReasonConditionalApproval      Reason = "conditional_approval"
	ReasonEligible                 Reason = "eligible"
	ReasonProfileUnavailable       Reason = "profile_unavailable"

	// Informational.
	ReasonPoliticallyExposed       Reason = "politically_exposed"
	ReasonRegulatorApprovalPending Reason = "regulator_approval_pending"
)

// Decision is the evaluation outcome. Reasons[0] is always PrimaryReason.
// It carries no timestamps so identical inputs give identical decisions.
type Decision struct {
	Allowed           bool
	PrimaryReason     Reason
	Reasons           []Reason
	RequiredDocuments []disclosureModels.DocumentKind
}

// Conditional reports an allow that still needs documents from the investor.
func (d Decision) Conditional() bool {
	return d.Allowed && d.PrimaryReason == ReasonConditionalApproval
}

// SecondaryReasons returns every reason after the primary one.
func (d Decision) SecondaryReasons() []Reason {
	if len(d.Reasons) <= 1 {
		return []Reason{}
	}
	return d.Reasons[1:]
}
