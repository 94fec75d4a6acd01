package domain

import (
	"strings"

	dErrors "meridian/pkg/domain-errors"
)

// InvestorType is the regulatory classification of an investor.
type InvestorType string

const (
	InvestorRetail        InvestorType = "retail"
	InvestorProfessional  InvestorType = "professional"
	InvestorQualified     InvestorType = "qualified"
	InvestorAccredited    InvestorType = "accredited"
	InvestorWholesale     InvestorType = "wholesale"
	InvestorInstitutional InvestorType = "institutional"
)

// InvestorTypes lists every classification in a stable order.
var InvestorTypes = []InvestorType{
	InvestorRetail,
	InvestorProfessional,
	InvestorQualified,
	InvestorAccredited,
	InvestorWholesale,
	InvestorInstitutional,
}

// ParseInvestorType validates an investor classification at trust boundaries.
// Input is trimmed and lower-cased. An empty value defaults to retail.
func ParseInvestorType(s string) (InvestorType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return InvestorRetail, nil
	}
	for _, t := range InvestorTypes {
		if InvestorType(s) == t {
			return t, nil
		}
	}
	return "", dErrors.New(dErrors.CodeValidation, "invalid investor type: "+s)
}

func (t InvestorType) String() string { return string(t) }

// ComplianceStatus is the investor's position in the review lifecycle.
type ComplianceStatus string

const (
	StatusPendingReview     ComplianceStatus = "pending_review"
	StatusApproved          ComplianceStatus = "approved"
	StatusRejected          ComplianceStatus = "rejected"
	StatusRequiresDocuments ComplianceStatus = "requires_documents"
	StatusSuspended         ComplianceStatus = "suspended"
)

// ComplianceStatuses lists every status in a stable order.
var ComplianceStatuses = []ComplianceStatus{
	StatusPendingReview,
	StatusApproved,
	StatusRejected,
	StatusRequiresDocuments,
	StatusSuspended,
}

// ParseComplianceStatus validates a status string. Unlike investor types
// there is no default: an empty or unknown value is an invalid status.
func ParseComplianceStatus(s string) (ComplianceStatus, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, st := range ComplianceStatuses {
		if ComplianceStatus(s) == st {
			return st, nil
		}
	}
	return "", dErrors.New(dErrors.CodeValidation, "invalid status")
}

// Blocks reports whether the status forbids any subscription.
func (s ComplianceStatus) Blocks() bool {
	return s == StatusRejected || s == StatusSuspended
}

func (s ComplianceStatus) String() string { return string(s) }
