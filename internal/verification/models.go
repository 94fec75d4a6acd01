// Package verification translates the external identity-verification
// provider's review state into an internal status. It never mutates
// investor state; its results are advisory input to the compliance service.
package verification

import "strings"

// Status is the internal verification enumeration.
type Status string

const (
	StatusNotStarted    Status = "not_started"
	StatusPending       Status = "pending"
	StatusApproved      Status = "approved"
	StatusRejected      Status = "rejected"
	StatusRequiresRetry Status = "requires_retry"
	StatusError         Status = "error"
)

func (s Status) String() string { return string(s) }

// Result is the outcome of one resolution. Diagnostic explains error
// results and is safe to log.
type Result struct {
	Status       Status `json:"status"`
	ApplicantID  string `json:"applicant_id,omitempty"`
	ReviewStatus string `json:"review_status,omitempty"`
	ReviewAnswer string `json:"review_answer,omitempty"`
	Diagnostic   string `json:"diagnostic,omitempty"`
}

// Approved reports whether the provider positively confirmed the applicant.
func (r Result) Approved() bool {
	return r.Status == StatusApproved
}

func errorResult(applicantID, diagnostic string) Result {
	return Result{Status: StatusError, ApplicantID: applicantID, Diagnostic: diagnostic}
}

// Provider review states and answers.
const (
	reviewInit      = "init"
	reviewPending   = "pending"
	reviewQueued    = "queued"
	reviewOnHold    = "onhold"
	reviewCompleted = "completed"

	answerGreen = "GREEN"
	answerRed   = "RED"
)

// MapReviewState is the single translation from provider review state to
// Status. Unknown states stay pending so nothing drifts toward approval.
func MapReviewState(reviewStatus, reviewAnswer string) Status {
	switch strings.ToLower(strings.TrimSpace(reviewStatus)) {
	case reviewInit, reviewPending, reviewQueued, reviewOnHold:
		return StatusPending
	case reviewCompleted:
		switch strings.ToUpper(strings.TrimSpace(reviewAnswer)) {
		case answerGreen:
			return StatusApproved
		case answerRed:
			return StatusRejected
		default:
			return StatusRequiresRetry
		}
	default:
		return StatusPending
	}
}
