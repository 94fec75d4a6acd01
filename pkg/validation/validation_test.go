package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "meridian/pkg/domain-errors"
)

type sample struct {
	InvestorID string `validate:"required,uuid"`
	Country    string `validate:"required,country"`
	Notes      string `validate:"max=10"`
	Reviewer   string `validate:"notblank"`
}

func TestValidate(t *testing.T) {
	valid := sample{
		InvestorID: "8b7f4c3e-5a55-4c2b-9e4a-0d7c1d4c2f10",
		Country:    "FR",
		Reviewer:   "ops",
	}

	t.Run("valid struct passes", func(t *testing.T) {
		require.NoError(t, Validate(valid))
	})

	cases := []struct {
		name   string
		mutate func(*sample)
		msg    string
	}{
		{"missing required", func(s *sample) { s.InvestorID = "" }, "investor_id is required"},
		{"bad uuid", func(s *sample) { s.InvestorID = "abc" }, "investor_id must be a valid uuid"},
		{"lower-case country", func(s *sample) { s.Country = "fr" }, "country must be an ISO-3166 alpha-2 country code"},
		{"three letter country", func(s *sample) { s.Country = "FRA" }, "country must be an ISO-3166 alpha-2 country code"},
		{"too long", func(s *sample) { s.Notes = "this is far too long" }, "notes must be at most 10"},
		{"blank", func(s *sample) { s.Reviewer = "   " }, "reviewer must not be blank"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := valid
			tc.mutate(&in)
			err := Validate(in)
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
			assert.Equal(t, tc.msg, err.Error())
		})
	}
}
