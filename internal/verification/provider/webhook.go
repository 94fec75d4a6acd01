package provider

import (
	"encoding/json"
	"strings"
)

// WebhookPayload is the subset of a provider callback we act on. The review
// fields are informational only: the status is always re-read from the API.
type WebhookPayload struct {
	ApplicantID    string       `json:"applicantId"`
	ExternalUserID string       `json:"externalUserId"`
	Type           string       `json:"type"`
	ReviewStatus   string       `json:"reviewStatus"`
	ReviewResult   ReviewResult `json:"reviewResult"`
}

// ParseWebhook decodes a verified callback body.
func ParseWebhook(body []byte) (*WebhookPayload, error) {
	var p WebhookPayload
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, NewError(ErrorBadData, "webhook", "failed to parse payload", err)
	}
	p.ApplicantID = strings.TrimSpace(p.ApplicantID)
	p.ExternalUserID = strings.TrimSpace(p.ExternalUserID)
	if p.ApplicantID == "" && p.ExternalUserID == "" {
		return nil, NewError(ErrorBadData, "webhook", "applicantId or externalUserId is required", nil)
	}
	return &p, nil
}
