package models

import (
	"strings"

	"meridian/pkg/domain"
	s "meridian/pkg/string"
	"meridian/pkg/validation"
)

// RegisterRequest creates an investor profile.
type RegisterRequest struct {
	CountryCode  string   `json:"country_code" validate:"required,country"`
	InvestorType string   `json:"investor_type"`
	IsPEP        bool     `json:"is_pep"`
	IsSanctioned bool     `json:"is_sanctioned"`
	Tags         []string `json:"tags" validate:"max=20,dive,max=64"`

	parsedType domain.InvestorType
}

func (r *RegisterRequest) Normalize() {
	s.TrimStrings(&r.InvestorType)
	r.CountryCode = s.NormalizeCountry(r.CountryCode)
	r.InvestorType = strings.ToLower(r.InvestorType)
	r.Tags = s.DedupeAndTrimLower(r.Tags)
}

func (r *RegisterRequest) Validate() error {
	if err := validation.Validate(r); err != nil {
		return err
	}
	t, err := domain.ParseInvestorType(r.InvestorType)
	if err != nil {
		return err
	}
	r.parsedType = t
	return nil
}

// Type returns the validated investor type. Call after Validate.
func (r *RegisterRequest) Type() domain.InvestorType {
	if r.parsedType == "" {
		return domain.InvestorRetail
	}
	return r.parsedType
}

// ReclassifyRequest changes an investor's regulatory classification.
type ReclassifyRequest struct {
	InvestorType string `json:"investor_type" validate:"required"`
	Notes        string `json:"notes" validate:"max=2000"`
}

func (r *ReclassifyRequest) Normalize() {
	s.TrimStrings(&r.InvestorType, &r.Notes)
	r.InvestorType = strings.ToLower(r.InvestorType)
}

func (r *ReclassifyRequest) Validate() error {
	return validation.Validate(r)
}

// ScreeningRequest replaces the PEP and sanctions flags. Both are required so
// a partial payload cannot silently clear a sanctions hit.
type ScreeningRequest struct {
	IsPEP        *bool `json:"is_pep" validate:"required"`
	IsSanctioned *bool `json:"is_sanctioned" validate:"required"`
}

func (r *ScreeningRequest) Validate() error {
	return validation.Validate(r)
}

// LinkApplicantRequest links a verification provider applicant to an investor.
type LinkApplicantRequest struct {
	ApplicantID string `json:"applicant_id" validate:"required,max=128"`
}

func (r *LinkApplicantRequest) Normalize() {
	s.TrimStrings(&r.ApplicantID)
}

func (r *LinkApplicantRequest) Validate() error {
	return validation.Validate(r)
}
