package models

import (
	"strings"

	"github.com/shopspring/decimal"

	dErrors "meridian/pkg/domain-errors"
	s "meridian/pkg/string"
	"meridian/pkg/validation"
)

// UpsertDealRequest creates or replaces the compliance profile of a deal.
// MinimumInvestment is a decimal string so amounts never pass through float64.
type UpsertDealRequest struct {
	IssuerCountry     string `json:"issuer_country" validate:"required,country"`
	CompartmentType   string `json:"compartment_type" validate:"required"`
	InstrumentType    string `json:"instrument_type" validate:"required,max=64"`
	MinimumInvestment string `json:"minimum_investment"`
	RiskLevel         int    `json:"risk_level" validate:"min=0,max=10"`

	compartment Compartment
	minimum     decimal.Decimal
}

func (r *UpsertDealRequest) Normalize() {
	s.TrimStrings(&r.CompartmentType, &r.InstrumentType, &r.MinimumInvestment)
	r.IssuerCountry = s.NormalizeCountry(r.IssuerCountry)
	r.CompartmentType = strings.ToLower(r.CompartmentType)
	r.InstrumentType = strings.ToLower(r.InstrumentType)
}

func (r *UpsertDealRequest) Validate() error {
	if err := validation.Validate(r); err != nil {
		return err
	}
	c, err := ParseCompartment(r.CompartmentType)
	if err != nil {
		return err
	}
	r.compartment = c

	r.minimum = decimal.Zero
	if r.MinimumInvestment != "" {
		amount, err := decimal.NewFromString(r.MinimumInvestment)
		if err != nil {
			return dErrors.New(dErrors.CodeValidation, "minimum_investment must be a decimal amount")
		}
		if amount.IsNegative() {
			return dErrors.New(dErrors.CodeValidation, "minimum_investment must not be negative")
		}
		r.minimum = amount
	}
	return nil
}

// Compartment returns the parsed compartment. Call after Validate.
func (r *UpsertDealRequest) Compartment() Compartment { return r.compartment }

// Minimum returns the parsed minimum investment. Call after Validate.
func (r *UpsertDealRequest) Minimum() decimal.Decimal { return r.minimum }

// RegulatorApprovalRequest records or withdraws a regulator sign-off.
type RegulatorApprovalRequest struct {
	Approved *bool `json:"approved" validate:"required"`
}

func (r *RegulatorApprovalRequest) Validate() error {
	return validation.Validate(r)
}
