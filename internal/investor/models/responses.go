package models

import "time"

// ProfileResponse is the admin view of an investor profile.
type ProfileResponse struct {
	Success          bool       `json:"success"`
	InvestorID       string     `json:"investor_id"`
	CountryCode      string     `json:"country_code"`
	InvestorType     string     `json:"investor_type"`
	IsPEP            bool       `json:"is_pep"`
	IsSanctioned     bool       `json:"is_sanctioned"`
	ComplianceStatus string     `json:"compliance_status"`
	StatusSource     string     `json:"status_source"`
	RiskScore        int        `json:"risk_score"`
	ApplicantID      string     `json:"verification_applicant_id,omitempty"`
	Tags             []string   `json:"tags"`
	ReviewedBy       string     `json:"reviewed_by,omitempty"`
	ReviewNotes      string     `json:"review_notes,omitempty"`
	ReviewedAt       *time.Time `json:"reviewed_at,omitempty"`
	Version          int64      `json:"version"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// ToProfileResponse maps a profile to its response body.
func ToProfileResponse(p *Profile) *ProfileResponse {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return &ProfileResponse{
		Success:          true,
		InvestorID:       p.ID.String(),
		CountryCode:      p.CountryCode,
		InvestorType:     string(p.InvestorType),
		IsPEP:            p.IsPEP,
		IsSanctioned:     p.IsSanctioned,
		ComplianceStatus: string(p.ComplianceStatus),
		StatusSource:     string(p.StatusSource),
		RiskScore:        p.RiskScore,
		ApplicantID:      p.ApplicantID(),
		Tags:             tags,
		ReviewedBy:       p.ReviewedBy,
		ReviewNotes:      p.ReviewNotes,
		ReviewedAt:       p.ReviewedAt,
		Version:          p.Version,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

type HistoryEntryResponse struct {
	Field     string    `json:"field"`
	Previous  string    `json:"previous"`
	New       string    `json:"new"`
	Source    string    `json:"source"`
	ChangedBy string    `json:"changed_by"`
	Notes     string    `json:"notes,omitempty"`
	ChangedAt time.Time `json:"changed_at"`
}

type HistoryResponse struct {
	Success    bool                   `json:"success"`
	InvestorID string                 `json:"investor_id"`
	History    []HistoryEntryResponse `json:"history"`
}

func ToHistoryResponse(investorID string, entries []HistoryEntry) *HistoryResponse {
	out := make([]HistoryEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, HistoryEntryResponse{
			Field:     string(e.Field),
			Previous:  e.Previous,
			New:       e.New,
			Source:    string(e.Source),
			ChangedBy: e.ChangedBy,
			Notes:     e.Notes,
			ChangedAt: e.ChangedAt,
		})
	}
	return &HistoryResponse{Success: true, InvestorID: investorID, History: out}
}
