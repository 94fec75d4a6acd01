package models

import "time"

type DealResponse struct {
	Success             bool           `json:"success"`
	DealID              string         `json:"deal_id"`
	IssuerCountry       string         `json:"issuer_country"`
	CompartmentType     string         `json:"compartment_type"`
	InstrumentType      string         `json:"instrument_type"`
	MinimumInvestment   string         `json:"minimum_investment"`
	RiskLevel           int            `json:"risk_level"`
	Requirements        Requirements   `json:"requirements"`
	RequiredDocuments   []DocumentKind `json:"required_documents"`
	RegulatorApproved   bool           `json:"regulator_approved"`
	RegulatorApprovedBy string         `json:"regulator_approved_by,omitempty"`
	RegulatorApprovedAt *time.Time     `json:"regulator_approved_at,omitempty"`
	UpdatedAt           time.Time      `json:"updated_at"`
}

func ToDealResponse(d *DealProfile) *DealResponse {
	return &DealResponse{
		Success:             true,
		DealID:              d.DealID.String(),
		IssuerCountry:       d.IssuerCountry,
		CompartmentType:     d.Compartment.String(),
		InstrumentType:      d.Instrument.String(),
		MinimumInvestment:   d.MinimumInvestment.StringFixed(2),
		RiskLevel:           d.RiskLevel,
		Requirements:        d.Requirements(),
		RequiredDocuments:   d.Requirements().Documents(),
		RegulatorApproved:   d.RegulatorApproved,
		RegulatorApprovedBy: d.RegulatorApprovedBy,
		RegulatorApprovedAt: d.RegulatorApprovedAt,
		UpdatedAt:           d.UpdatedAt,
	}
}

// DisclosureResponse is the public view of what a deal must carry.
type DisclosureResponse struct {
	Success                   bool           `json:"success"`
	DealID                    string         `json:"deal_id"`
	CompartmentType           string         `json:"compartment_type"`
	InstrumentType            string         `json:"instrument_type"`
	RequiredDocuments         []DocumentKind `json:"required_documents"`
	RequiresRegulatorApproval bool           `json:"requires_regulator_approval"`
	RegulatorApproved         bool           `json:"regulator_approved"`
}

func ToDisclosureResponse(d *DealProfile) *DisclosureResponse {
	req := d.Requirements()
	return &DisclosureResponse{
		Success:                   true,
		DealID:                    d.DealID.String(),
		CompartmentType:           d.Compartment.String(),
		InstrumentType:            d.Instrument.String(),
		RequiredDocuments:         req.Documents(),
		RequiresRegulatorApproval: req.RegulatorApproval,
		RegulatorApproved:         d.RegulatorApproved,
	}
}
