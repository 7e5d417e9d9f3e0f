package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBookingPredicates(t *testing.T) {
	cases := []struct {
		status     BookingStatus
		hasReview  bool
		cancel     bool
		reschedule bool
		review     bool
	}{
		{StatusPending, false, true, true, false},
		{StatusConfirmed, false, true, true, false},
		{StatusUpcoming, false, true, true, false},
		{StatusCompleted, false, false, false, true},
		{StatusCompleted, true, false, false, false},
		{StatusCancelled, false, false, false, false},
	}
	for _, tc := range cases {
		b := &Booking{Status: tc.status, HasReview: tc.hasReview}
		assert.Equal(t, tc.cancel, b.CanCancel(), "canCancel %s", tc.status)
		assert.Equal(t, tc.reschedule, b.CanReschedule(), "canReschedule %s", tc.status)
		assert.Equal(t, tc.review, b.CanReview(), "canReview %s hasReview=%v", tc.status, tc.hasReview)
	}
}

func TestBookingStatusValid(t *testing.T) {
	for _, s := range AllStatuses {
		assert.True(t, s.Valid())
	}
	assert.False(t, BookingStatus("archived").Valid())
	assert.True(t, StatusCompleted.Terminal())
	assert.True(t, StatusCancelled.Terminal())
	assert.False(t, StatusUpcoming.Terminal())
}
