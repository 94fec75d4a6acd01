// Package store persists deal compliance profiles.
package store

import (
	"context"

	"meridian/internal/disclosure/models"
	"meridian/pkg/domain"
)

// Store is the persistence port for deal compliance profiles.
type Store interface {
	// Create inserts a new profile. ErrConflict if the deal already has one.
	Create(ctx context.Context, deal *models.DealProfile) error
	FindByID(ctx context.Context, dealID domain.DealID) (*models.DealProfile, error)
	// Update applies fn to the current profile and persists the result
	// atomically. fn errors abort the update and are returned unchanged.
	Update(ctx context.Context, dealID domain.DealID, fn func(*models.DealProfile) error) (*models.DealProfile, error)
}
