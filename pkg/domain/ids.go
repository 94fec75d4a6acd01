// Package domain provides type-safe identifiers to prevent mixing up IDs at compile time.
package domain

import (
	"github.com/google/uuid"

	dErrors "meridian/pkg/domain-errors"
)

// Distinct ID types - compiler prevents passing DealID where InvestorID is expected.
type (
	InvestorID uuid.UUID
	DealID     uuid.UUID
)

// Parse functions - use at trust boundaries (handlers, API inputs).

func ParseInvestorID(s string) (InvestorID, error) {
	id, err := parseUUID(s, "investor ID")
	return InvestorID(id), err
}

func ParseDealID(s string) (DealID, error) {
	id, err := parseUUID(s, "deal ID")
	return DealID(id), err
}

// New functions - generate fresh identifiers at creation time.

func NewInvestorID() InvestorID { return InvestorID(uuid.New()) }
func NewDealID() DealID         { return DealID(uuid.New()) }

// String methods - for logging and debugging.

func (id InvestorID) String() string { return uuid.UUID(id).String() }
func (id DealID) String() string     { return uuid.UUID(id).String() }

// IsNil checks - used for service-layer validation.

func (id InvestorID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id DealID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }

// parseUUID is the shared validation logic. The nil UUID is never a valid
// identifier for an investor or a deal.
func parseUUID(s, label string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" cannot be empty")
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+label+" format")
	}
	if id == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" cannot be nil")
	}
	return id, nil
}
