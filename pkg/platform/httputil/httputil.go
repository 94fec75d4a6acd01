// Package httputil writes JSON responses and maps domain error codes onto
// HTTP statuses.
package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "meridian/pkg/domain-errors"
)

// ErrorResponse is the failure envelope shared by every endpoint.
type ErrorResponse struct {
	Success          bool   `json:"success"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

type httpError struct {
	status int
	name   string
}

var internalError = httpError{http.StatusInternalServerError, "internal_error"}

var byCode = map[dErrors.Code]httpError{
	dErrors.CodeNotFound:           {http.StatusNotFound, "not_found"},
	dErrors.CodeBadRequest:         {http.StatusBadRequest, "bad_request"},
	dErrors.CodeInvalidInput:       {http.StatusBadRequest, "bad_request"},
	dErrors.CodeValidation:         {http.StatusBadRequest, "validation_error"},
	dErrors.CodeInvariantViolation: {http.StatusBadRequest, "validation_error"},
	dErrors.CodeConflict:           {http.StatusConflict, "conflict"},
	dErrors.CodeUnauthorized:       {http.StatusUnauthorized, "unauthorized"},
	dErrors.CodeForbidden:          {http.StatusForbidden, "forbidden"},
	dErrors.CodeUnavailable:        {http.StatusServiceUnavailable, "service_unavailable"},
	dErrors.CodeTimeout:            {http.StatusGatewayTimeout, "timeout"},
}

func lookup(code dErrors.Code) httpError {
	if e, ok := byCode[code]; ok {
		return e
	}
	return internalError
}

// WriteJSON writes response with status. Encoding errors are dropped because
// the status line is already on the wire.
func WriteJSON(w http.ResponseWriter, status int, response any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(response)
}

// WriteError renders err as an ErrorResponse. Only domain errors expose their
// message; anything else becomes a bare internal_error.
func WriteError(w http.ResponseWriter, err error) {
	var domainErr *dErrors.Error
	if !errors.As(err, &domainErr) {
		WriteJSON(w, internalError.status, ErrorResponse{Error: internalError.name})
		return
	}
	e := lookup(domainErr.Code)
	WriteJSON(w, e.status, ErrorResponse{Error: e.name, ErrorDescription: domainErr.Message})
}
