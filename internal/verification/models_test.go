package verification

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapReviewState(t *testing.T) {
	tests := []struct {
		status   string
		answer   string
		expected Status
	}{
		{"init", "", StatusPending},
		{"pending", "", StatusPending},
		{"queued", "", StatusPending},
		{"onHold", "", StatusPending},
		{"completed", "GREEN", StatusApproved},
		{"completed", "green", StatusApproved},
		{"completed", "RED", StatusRejected},
		{"completed", "", StatusRequiresRetry},
		{"completed", "YELLOW", StatusRequiresRetry},
		{"prechecked", "GREEN", StatusPending},
		{"", "GREEN", StatusPending},
		{"awaitingUser", "", StatusPending},
	}
	for _, tt := range tests {
		t.Run(tt.status+"/"+tt.answer, func(t *testing.T) {
			assert.Equal(t, tt.expected, MapReviewState(tt.status, tt.answer))
		})
	}
}

func TestMapReviewStateNeverApprovesWithoutCompletion(t *testing.T) {
	for _, st := range []string{"init", "pending", "queued", "onHold", "unknown", ""} {
		assert.NotEqual(t, StatusApproved, MapReviewState(st, "GREEN"), st)
	}
}
