package models

// VerificationResponse is returned by sync and webhook endpoints.
type VerificationResponse struct {
	Success      bool   `json:"success"`
	InvestorID   string `json:"investor_id"`
	Verification string `json:"verification_status"`
	ApplicantID  string `json:"applicant_id,omitempty"`
	Diagnostic   string `json:"diagnostic,omitempty"`
	Applied      bool   `json:"applied"`
	Ignored      string `json:"ignored_reason,omitempty"`
	Compliance   string `json:"compliance_status"`
}

// ToVerificationResponse maps an outcome to its response body.
func ToVerificationResponse(o Outcome) *VerificationResponse {
	return &VerificationResponse{
		Success:      true,
		InvestorID:   o.InvestorID.String(),
		Verification: o.Result.Status.String(),
		ApplicantID:  o.Result.ApplicantID,
		Diagnostic:   o.Result.Diagnostic,
		Applied:      o.Applied,
		Ignored:      string(o.Reason),
		Compliance:   string(o.Status),
	}
}
