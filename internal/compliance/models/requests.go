package models

import (
	"strings"

	s "meridian/pkg/string"
	"meridian/pkg/validation"
)

// StatusRequest is a reviewer's manual compliance status decision. The
// status value is parsed by the service so an unknown value is reported as
// "invalid status" rather than a generic validation failure.
type StatusRequest struct {
	Status string `json:"status" validate:"required"`
	Notes  string `json:"notes" validate:"max=2000"`
}

func (r *StatusRequest) Normalize() {
	s.TrimStrings(&r.Status, &r.Notes)
	r.Status = strings.ToLower(r.Status)
}

func (r *StatusRequest) Validate() error {
	return validation.Validate(r)
}
