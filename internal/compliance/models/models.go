// Package models holds the compliance status machine's value types.
package models

import (
	"meridian/internal/verification"
	"meridian/pkg/domain"
)

// ChangedByProvider is the history actor recorded for automatic transitions.
const ChangedByProvider = "verification-provider"

// IgnoreReason explains why a verification signal did not change status.
type IgnoreReason string

const (
	IgnoreNotApproved    IgnoreReason = "result_not_approved"
	IgnoreProviderError  IgnoreReason = "provider_error"
	IgnoreManualOverride IgnoreReason = "manual_override"
	IgnoreNotPending     IgnoreReason = "status_not_pending_review"
)

// Outcome reports what ApplyVerification did with a verification result.
type Outcome struct {
	InvestorID domain.InvestorID
	Applied    bool
	Status     domain.ComplianceStatus
	Reason     IgnoreReason
	Result     verification.Result
}

// ReconcileResult summarises one sweep over pending investors.
type ReconcileResult struct {
	Checked int
	Applied int
	Ignored int
	Failed  int
}
