package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "investor not found", (&Error{Code: CodeNotFound, Message: "investor not found"}).Error())
	assert.Equal(t, "not_found", (&Error{Code: CodeNotFound}).Error())
	assert.Equal(t, "jurisdiction \"ZZ\" not found", Newf(CodeNotFound, "jurisdiction %q not found", "ZZ").Error())
}

func TestWrapKeepsInnermostCode(t *testing.T) {
	cause := errors.New("connection reset")

	tests := []struct {
		name     string
		err      error
		code     Code
		wantCode Code
	}{
		{"plain error takes the given code", cause, CodeInternal, CodeInternal},
		{"store not found survives internal wrap", New(CodeNotFound, "deal not found"), CodeInternal, CodeNotFound},
		{"conflict survives a second wrap", Wrap(New(CodeConflict, "version conflict"), CodeInternal, "save"), CodeTimeout, CodeConflict},
		{"fmt wrapped domain error is still found", fmt.Errorf("load: %w", New(CodeUnavailable, "provider off")), CodeBadRequest, CodeUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := Wrap(tt.err, tt.code, "evaluate eligibility")
			assert.Equal(t, tt.wantCode, CodeOf(wrapped))
			assert.True(t, HasCode(wrapped, tt.wantCode))
			assert.Equal(t, "evaluate eligibility", wrapped.Error())
			assert.ErrorIs(t, wrapped, tt.err)
		})
	}
}

func TestErrorsIsMatchesByCode(t *testing.T) {
	inner := New(CodeNotFound, "investor not found")
	chain := fmt.Errorf("handler: %w", Wrap(inner, CodeInternal, "service"))

	assert.ErrorIs(t, chain, &Error{Code: CodeNotFound})
	assert.NotErrorIs(t, chain, &Error{Code: CodeForbidden})
	assert.False(t, (&Error{Code: CodeNotFound}).Is(errors.New("not_found")))
}

func TestCodeOfAndHasCodeOnUncodedErrors(t *testing.T) {
	assert.Equal(t, CodeInternal, CodeOf(errors.New("boom")))
	assert.Equal(t, CodeInternal, CodeOf(nil))
	assert.False(t, HasCode(errors.New("boom"), CodeInternal), "an uncoded error carries no code")
	assert.False(t, HasCode(nil, CodeNotFound))
}

func TestErrorsAsExposesCause(t *testing.T) {
	cause := errors.New("pq: deadlock detected")
	err := Wrap(cause, CodeInternal, "update investor")

	var domainErr *Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, CodeInternal, domainErr.Code)
	assert.Same(t, cause, domainErr.Unwrap())
}
