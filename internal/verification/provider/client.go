// Package provider talks to the external identity-verification provider.
package provider

import "context"

// Applicant is the provider's record of a verification session.
type Applicant struct {
	ID             string `json:"id"`
	ExternalUserID string `json:"externalUserId"`
}

// ReviewResult carries the reviewer's verdict once a review completes.
type ReviewResult struct {
	ReviewAnswer     string `json:"reviewAnswer"`
	ReviewRejectType string `json:"reviewRejectType,omitempty"`
}

// ApplicantStatus is the provider's raw review state.
type ApplicantStatus struct {
	ReviewStatus string       `json:"reviewStatus"`
	ReviewResult ReviewResult `json:"reviewResult"`
}

// Client is the capability the resolver needs from the provider.
type Client interface {
	// FindApplicantByExternalID returns nil, nil when no applicant exists.
	FindApplicantByExternalID(ctx context.Context, externalID string) (*Applicant, error)
	GetApplicantStatus(ctx context.Context, applicantID string) (*ApplicantStatus, error)
}
