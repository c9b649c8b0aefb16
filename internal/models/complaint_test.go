package models

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	for _, s := range []string{"Pending", "In Progress", "Resolved"} {
		status, err := ParseStatus(s)
		require.NoError(t, err)
		assert.Equal(t, s, string(status))
	}

	for _, s := range []string{"", "pending", "InProgress", "Closed", " Resolved"} {
		_, err := ParseStatus(s)
		assert.ErrorIs(t, err, ErrValidation, "status %q should be rejected", s)
	}
}

func TestComplaintStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to ComplaintStatus
		allowed  bool
	}{
		{StatusPending, StatusPending, true},
		{StatusPending, StatusInProgress, true},
		{StatusPending, StatusResolved, true},
		{StatusInProgress, StatusInProgress, true},
		{StatusInProgress, StatusResolved, true},
		{StatusInProgress, StatusPending, false},
		{StatusResolved, StatusResolved, true},
		// permitted: only a return to Pending is forbidden
		{StatusResolved, StatusInProgress, true},
		{StatusResolved, StatusPending, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestComplaint_SetStatus_NeverReturnsToPending(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c := &Complaint{ID: 1, Status: StatusPending, UpdatedAt: now.Add(-time.Hour)}

	sequence := []ComplaintStatus{StatusInProgress, StatusPending, StatusResolved, StatusPending, StatusInProgress, StatusPending}
	for _, next := range sequence {
		err := c.SetStatus(next, now)
		if next == StatusPending {
			assert.ErrorIs(t, err, ErrInvalidState)
		} else {
			assert.NoError(t, err)
		}
		assert.NotEqual(t, StatusPending, c.Status)
	}
	assert.Equal(t, StatusInProgress, c.Status)
	assert.Equal(t, now, c.UpdatedAt)
}

func TestComplaint_Edit(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	earlier := now.Add(-time.Hour)

	t.Run("pending complaint is overwritten", func(t *testing.T) {
		c := &Complaint{Text: "old", Category: "noise", Status: StatusPending, UpdatedAt: earlier}
		require.NoError(t, c.Edit("new", "parking", now))
		assert.Equal(t, "new", c.Text)
		assert.Equal(t, "parking", c.Category)
		assert.Equal(t, now, c.UpdatedAt)
	})

	for _, status := range []ComplaintStatus{StatusInProgress, StatusResolved} {
		t.Run(string(status)+" complaint is left unchanged", func(t *testing.T) {
			c := &Complaint{Text: "old", Category: "noise", Status: status, UpdatedAt: earlier}
			err := c.Edit("new", "parking", now)
			assert.True(t, errors.Is(err, ErrInvalidState))
			assert.Equal(t, "old", c.Text)
			assert.Equal(t, "noise", c.Category)
			assert.Equal(t, earlier, c.UpdatedAt)
		})
	}
}

func TestValidateContent(t *testing.T) {
	assert.NoError(t, ValidateContent("noisy neighbors", "noise"))
	assert.ErrorIs(t, ValidateContent("", "noise"), ErrValidation)
	assert.ErrorIs(t, ValidateContent("text", "   "), ErrValidation)
}

func TestStatsWindowStart(t *testing.T) {
	now := time.Date(2026, 10, 19, 15, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 4, 19, 0, 0, 0, 0, time.UTC), StatsWindowStart(now))
}
