package service

import (
	"context"

	"meridian/internal/verification"
)

// VerificationResolver is the provider capability the status machine
// consumes. Implemented by verification.Resolver.
type VerificationResolver interface {
	Configured() bool
	Resolve(ctx context.Context, externalID string) verification.Result
	ResolveApplicant(ctx context.Context, applicantID string) verification.Result
}
