package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	dErrors "meridian/pkg/domain-errors"
)

// Validatable requests check their own invariants after decoding.
type Validatable interface {
	Validate() error
}

// Normalizable requests canonicalise fields (trim, upper-case country codes)
// before validation.
type Normalizable interface {
	Normalize()
}

// PrepareRequest normalizes then validates req.
func PrepareRequest(req any) error {
	if n, ok := req.(Normalizable); ok {
		n.Normalize()
	}
	if v, ok := req.(Validatable); ok {
		return v.Validate()
	}
	return nil
}

// DecodeJSON reads a strict JSON body into T: unknown fields and trailing
// data are rejected. On failure the 400 is already written.
func DecodeJSON[T any](w http.ResponseWriter, r *http.Request, logger *slog.Logger, ctx context.Context, requestID string) (*T, bool) {
	req := new(T)
	if err := decodeStrict(r.Body, req); err != nil {
		logger.WarnContext(ctx, "request body rejected", "error", err, "request_id", requestID)
		msg := "invalid request body"
		if errors.Is(err, io.EOF) {
			msg = "request body is required"
		}
		WriteError(w, dErrors.New(dErrors.CodeBadRequest, msg))
		return nil, false
	}
	return req, true
}

// DecodeAndPrepare decodes, normalizes and validates. Uncoded validation
// errors are reported as validation_failed.
//
//	req, ok := httputil.DecodeAndPrepare[models.StatusRequest](w, r, h.logger, ctx, requestID)
//	if !ok {
//		return
//	}
func DecodeAndPrepare[T any](w http.ResponseWriter, r *http.Request, logger *slog.Logger, ctx context.Context, requestID string) (*T, bool) {
	req, ok := DecodeJSON[T](w, r, logger, ctx, requestID)
	if !ok {
		return nil, false
	}
	err := PrepareRequest(req)
	if err == nil {
		return req, true
	}

	logger.WarnContext(ctx, "request failed validation", "error", err, "request_id", requestID)
	var coded *dErrors.Error
	if !errors.As(err, &coded) {
		err = dErrors.New(dErrors.CodeValidation, err.Error())
	}
	WriteError(w, err)
	return nil, false
}

func decodeStrict(body io.Reader, dst any) error {
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("unexpected data after JSON body")
	}
	return nil
}
