package eligibility

import (
	"github.com/shopspring/decimal"

	"meridian/pkg/domain"
	dErrors "meridian/pkg/domain-errors"
	s "meridian/pkg/string"
	"meridian/pkg/validation"
)

// EvaluateRequest is the API input for one evaluation.
type EvaluateRequest struct {
	InvestorID string `json:"investor_id" validate:"required,uuid"`
	DealID     string `json:"deal_id" validate:"required,uuid"`
	Amount     string `json:"amount" validate:"omitempty,max=32"`

	investorID domain.InvestorID
	dealID     domain.DealID
	amount     *decimal.Decimal
}

func (r *EvaluateRequest) Normalize() {
	s.TrimStrings(&r.InvestorID, &r.DealID, &r.Amount)
}

func (r *EvaluateRequest) Validate() error {
	if err := validation.Validate(r); err != nil {
		return err
	}
	investorID, err := domain.ParseInvestorID(r.InvestorID)
	if err != nil {
		return err
	}
	dealID, err := domain.ParseDealID(r.DealID)
	if err != nil {
		return err
	}
	r.investorID, r.dealID = investorID, dealID
	if r.Amount == "" {
		return nil
	}
	amount, err := decimal.NewFromString(r.Amount)
	if err != nil || amount.IsNegative() {
		return dErrors.New(dErrors.CodeValidation, "amount must be a non-negative decimal")
	}
	r.amount = &amount
	return nil
}

// IDs returns the parsed identifiers. Call after Validate.
func (r *EvaluateRequest) IDs() (domain.InvestorID, domain.DealID) {
	return r.investorID, r.dealID
}

// AmountValue returns the parsed amount or nil when none was given.
func (r *EvaluateRequest) AmountValue() *decimal.Decimal {
	return r.amount
}
