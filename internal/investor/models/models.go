package models

import (
	"time"

	"meridian/pkg/domain"
	dErrors "meridian/pkg/domain-errors"
	s "meridian/pkg/string"

	"github.com/google/uuid"
)

// StatusSource records who set the current compliance status.
type StatusSource string

const (
	SourceInitial   StatusSource = "initial"
	SourceManual    StatusSource = "manual"
	SourceAutomatic StatusSource = "automatic"
)

// HistoryField names the profile field a history entry tracks.
type HistoryField string

const (
	FieldComplianceStatus HistoryField = "compliance_status"
	FieldInvestorType     HistoryField = "investor_type"
)

// Risk score inputs. Sanctioned profiles are pinned to the cap.
const (
	RiskScorePEP        = 50
	RiskScoreSanctioned = 100
)

// Profile is an investor's classification and compliance state.
//
// InvestorType and ComplianceStatus only change through SetStatus and
// Reclassify, which return the HistoryEntry the caller must persist with the
// update. Tags are auxiliary labels and never encode status or type.
type Profile struct {
	ID                      domain.InvestorID
	CountryCode             string
	InvestorType            domain.InvestorType
	IsPEP                   bool
	IsSanctioned            bool
	ComplianceStatus        domain.ComplianceStatus
	RiskScore               int
	VerificationApplicantID *string
	Tags                    []string
	StatusSource            StatusSource
	ReviewedBy              string
	ReviewNotes             string
	ReviewedAt              *time.Time
	Version                 int64
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// HistoryEntry is one append-only change to a tracked profile field.
type HistoryEntry struct {
	ID         uuid.UUID
	InvestorID domain.InvestorID
	Field      HistoryField
	Previous   string
	New        string
	Source     StatusSource
	ChangedBy  string
	Notes      string
	ChangedAt  time.Time
}

// NewProfile creates a profile awaiting review.
func NewProfile(investorID domain.InvestorID, countryCode string, investorType domain.InvestorType, isPEP, isSanctioned bool, tags []string, now time.Time) (*Profile, error) {
	if investorID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "investor ID required")
	}
	countryCode = s.NormalizeCountry(countryCode)
	if len(countryCode) != 2 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "country code must be two letters")
	}
	if investorType == "" {
		investorType = domain.InvestorRetail
	}
	if now.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "creation time required")
	}
	return &Profile{
		ID:               investorID,
		CountryCode:      countryCode,
		InvestorType:     investorType,
		IsPEP:            isPEP,
		IsSanctioned:     isSanctioned,
		ComplianceStatus: domain.StatusPendingReview,
		RiskScore:        ComputeRiskScore(isPEP, isSanctioned),
		Tags:             s.DedupeAndTrimLower(tags),
		StatusSource:     SourceInitial,
		Version:          1,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

// ComputeRiskScore derives the 0-100 risk score from screening flags.
func ComputeRiskScore(isPEP, isSanctioned bool) int {
	if isSanctioned {
		return RiskScoreSanctioned
	}
	if isPEP {
		return RiskScorePEP
	}
	return 0
}

// SetStatus moves the profile to status and returns the history entry for
// the change. Transitions are unconditional; guards live in the caller.
func (p *Profile) SetStatus(status domain.ComplianceStatus, source StatusSource, changedBy, notes string, now time.Time) HistoryEntry {
	entry := HistoryEntry{
		ID:         uuid.New(),
		InvestorID: p.ID,
		Field:      FieldComplianceStatus,
		Previous:   string(p.ComplianceStatus),
		New:        string(status),
		Source:     source,
		ChangedBy:  changedBy,
		Notes:      notes,
		ChangedAt:  now,
	}
	p.ComplianceStatus = status
	p.StatusSource = source
	p.ReviewedBy = changedBy
	p.ReviewNotes = notes
	p.ReviewedAt = &now
	p.UpdatedAt = now
	return entry
}

// Reclassify changes the investor type. It reports false, with no entry,
// when the type is unchanged.
func (p *Profile) Reclassify(investorType domain.InvestorType, changedBy, notes string, now time.Time) (HistoryEntry, bool) {
	if p.InvestorType == investorType {
		return HistoryEntry{}, false
	}
	entry := HistoryEntry{
		ID:         uuid.New(),
		InvestorID: p.ID,
		Field:      FieldInvestorType,
		Previous:   string(p.InvestorType),
		New:        string(investorType),
		Source:     SourceManual,
		ChangedBy:  changedBy,
		Notes:      notes,
		ChangedAt:  now,
	}
	p.InvestorType = investorType
	p.UpdatedAt = now
	return entry, true
}

// UpdateScreening replaces the screening flags and recomputes the risk score.
func (p *Profile) UpdateScreening(isPEP, isSanctioned bool, now time.Time) {
	p.IsPEP = isPEP
	p.IsSanctioned = isSanctioned
	p.RiskScore = ComputeRiskScore(isPEP, isSanctioned)
	p.UpdatedAt = now
}

// LinkApplicant records the verification provider's applicant id.
func (p *Profile) LinkApplicant(applicantID string, now time.Time) {
	p.VerificationApplicantID = &applicantID
	p.UpdatedAt = now
}

// ApplicantID returns the linked applicant id or "".
func (p *Profile) ApplicantID() string {
	if p.VerificationApplicantID == nil {
		return ""
	}
	return *p.VerificationApplicantID
}

// Clone returns a deep copy safe to hand out of a store.
func (p *Profile) Clone() *Profile {
	cp := *p
	if p.VerificationApplicantID != nil {
		applicant := *p.VerificationApplicantID
		cp.VerificationApplicantID = &applicant
	}
	if p.ReviewedAt != nil {
		reviewed := *p.ReviewedAt
		cp.ReviewedAt = &reviewed
	}
	cp.Tags = append([]string(nil), p.Tags...)
	return &cp
}
