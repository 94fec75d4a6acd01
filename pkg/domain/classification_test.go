package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "meridian/pkg/domain-errors"
)

func TestParseInvestorType(t *testing.T) {
	t.Run("empty defaults to retail", func(t *testing.T) {
		got, err := ParseInvestorType("  ")
		require.NoError(t, err)
		assert.Equal(t, InvestorRetail, got)
	})

	t.Run("case insensitive", func(t *testing.T) {
		got, err := ParseInvestorType("Professional")
		require.NoError(t, err)
		assert.Equal(t, InvestorProfessional, got)
	})

	t.Run("unknown is a validation error", func(t *testing.T) {
		_, err := ParseInvestorType("angel")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func TestParseComplianceStatus(t *testing.T) {
	for _, st := range ComplianceStatuses {
		got, err := ParseComplianceStatus(string(st))
		require.NoError(t, err)
		assert.Equal(t, st, got)
	}

	for _, bad := range []string{"", "approved!", "PENDING"} {
		_, err := ParseComplianceStatus(bad)
		require.Error(t, err, bad)
		assert.Equal(t, "invalid status", err.Error())
	}
}

func TestComplianceStatusBlocks(t *testing.T) {
	assert.True(t, StatusRejected.Blocks())
	assert.True(t, StatusSuspended.Blocks())
	assert.False(t, StatusApproved.Blocks())
	assert.False(t, StatusPendingReview.Blocks())
	assert.False(t, StatusRequiresDocuments.Blocks())
}
