package eligibility

import (
	"context"

	disclosureModels "meridian/internal/disclosure/models"
	investorModels "meridian/internal/investor/models"
	"meridian/pkg/domain"
)

// InvestorReader loads investor profiles. Returns sentinel.ErrNotFound for
// unknown investors.
type InvestorReader interface {
	FindByID(ctx context.Context, investorID domain.InvestorID) (*investorModels.Profile, error)
}

// DealReader loads deal compliance profiles. Returns sentinel.ErrNotFound
// for unknown deals.
type DealReader interface {
	FindByID(ctx context.Context, dealID domain.DealID) (*disclosureModels.DealProfile, error)
}
