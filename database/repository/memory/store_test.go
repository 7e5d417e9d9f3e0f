package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"appointly/database/repository"
	"appointly/models"
)

func seed(t *testing.T, s *Store) {
	t.Helper()
	_, err := s.Availability().EnsureDefault(context.Background(), models.NewDefaultAvailability("a1", "p1", time.Now()))
	require.NoError(t, err)
}

func TestClaimSlotIsConditional(t *testing.T) {
	s := NewStore()
	seed(t, s)
	ctx := context.Background()

	slot := models.ReservedSlot{Date: "2025-03-10", Time: "9:00 AM", BookingID: "b1"}
	require.NoError(t, s.Availability().ClaimSlot(ctx, "p1", slot))

	slot.BookingID = "b2"
	err := s.Availability().ClaimSlot(ctx, "p1", slot)
	assert.ErrorIs(t, err, repository.ErrSlotTaken)

	err = s.Availability().ClaimSlot(ctx, "p2", slot)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestReleaseSlotMatchesBooking(t *testing.T) {
	s := NewStore()
	seed(t, s)
	ctx := context.Background()
	require.NoError(t, s.Availability().ClaimSlot(ctx, "p1", models.ReservedSlot{Date: "2025-03-10", Time: "9:00 AM", BookingID: "b1"}))

	require.NoError(t, s.Availability().ReleaseSlot(ctx, "p1", "2025-03-10", "9:00 AM", "someone-else"))
	rec, err := s.Availability().GetByProvider(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, rec.IsReserved("2025-03-10", "9:00 AM"))

	require.NoError(t, s.Availability().ReleaseSlot(ctx, "p1", "2025-03-10", "9:00 AM", "b1"))
	rec, err = s.Availability().GetByProvider(ctx, "p1")
	require.NoError(t, err)
	assert.False(t, rec.IsReserved("2025-03-10", "9:00 AM"))

	assert.NoError(t, s.Availability().ReleaseSlot(ctx, "nobody", "2025-03-10", "9:00 AM", ""))
}

func TestTransactionRollsBackOnError(t *testing.T) {
	s := NewStore()
	seed(t, s)
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.Availability().ClaimSlot(ctx, "p1", models.ReservedSlot{Date: "2025-03-10", Time: "9:00 AM", BookingID: "b1"}); err != nil {
			return err
		}
		if err := s.Bookings().Create(ctx, &models.Booking{ID: "b1", ProviderID: "p1", Status: models.StatusPending}); err != nil {
			return err
		}
		if err := s.Catalogue().UpdateRating(ctx, "s1", 4.5, 2); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	rec, err := s.Availability().GetByProvider(ctx, "p1")
	require.NoError(t, err)
	assert.Empty(t, rec.BookedSlots)

	_, err = s.Bookings().GetByID(ctx, "b1")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = s.Catalogue().GetRating(ctx, "s1")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestTransactionKeepsCommittedWrites(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	err := s.WithTransaction(ctx, func(ctx context.Context) error {
		return s.Bookings().Create(ctx, &models.Booking{ID: "b1", Status: models.StatusPending})
	})
	require.NoError(t, err)

	_, err = s.Bookings().GetByID(ctx, "b1")
	assert.NoError(t, err)
}

func TestUpdateConditionalChecksStatusAndVersion(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	require.NoError(t, s.Bookings().Create(ctx, &models.Booking{ID: "b1", Status: models.StatusPending}))

	confirmed := models.StatusConfirmed
	b, err := s.Bookings().UpdateConditional(ctx, "b1", []models.BookingStatus{models.StatusPending}, 0, models.BookingUpdate{Status: &confirmed})
	require.NoError(t, err)
	assert.Equal(t, 1, b.Version)

	_, err = s.Bookings().UpdateConditional(ctx, "b1", []models.BookingStatus{models.StatusPending}, 1, models.BookingUpdate{Status: &confirmed})
	assert.ErrorIs(t, err, repository.ErrConflict)

	_, err = s.Bookings().UpdateConditional(ctx, "b1", []models.BookingStatus{models.StatusConfirmed}, 0, models.BookingUpdate{Status: &confirmed})
	assert.ErrorIs(t, err, repository.ErrConflict)

	_, err = s.Bookings().UpdateConditional(ctx, "missing", []models.BookingStatus{models.StatusPending}, 0, models.BookingUpdate{})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSaveAvailabilityIsVersioned(t *testing.T) {
	s := NewStore()
	seed(t, s)
	ctx := context.Background()

	rec, err := s.Availability().GetByProvider(ctx, "p1")
	require.NoError(t, err)
	rec.AvailableDates = []string{"2025-03-20"}

	saved, err := s.Availability().Save(ctx, rec)
	require.NoError(t, err)
	assert.Equal(t, 1, saved.Version)

	_, err = s.Availability().Save(ctx, rec) // stale version 0
	assert.ErrorIs(t, err, repository.ErrConflict)
}

func TestReviewUniquePerBooking(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	require.NoError(t, s.Reviews().Create(ctx, &models.Review{ID: "r1", BookingID: "b1", ServiceID: "s1", Rating: 5}))
	err := s.Reviews().Create(ctx, &models.Review{ID: "r2", BookingID: "b1", ServiceID: "s1", Rating: 1})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	avg, count, err := s.Reviews().AverageForService(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 5.0, avg)
	assert.Equal(t, 1, count)
}

func TestLiveBookingUniquePerSlot(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	slot := func(id string, status models.BookingStatus) *models.Booking {
		return &models.Booking{ID: id, ProviderID: "p1", Date: "2025-03-10", Time: "10:00 AM", Status: status}
	}

	require.NoError(t, s.Bookings().Create(ctx, slot("b1", models.StatusPending)))
	err := s.Bookings().Create(ctx, slot("b2", models.StatusPending))
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	// Cancelled bookings do not hold the slot.
	require.NoError(t, s.Bookings().Create(ctx, slot("b3", models.StatusCancelled)))

	// Reviving the cancelled one while b1 is live is refused.
	pending := models.StatusPending
	_, err = s.Bookings().UpdateConditional(ctx, "b3", []models.BookingStatus{models.StatusCancelled}, 0, models.BookingUpdate{Status: &pending})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	cancelled := models.StatusCancelled
	_, err = s.Bookings().UpdateConditional(ctx, "b1", []models.BookingStatus{models.StatusPending}, 0, models.BookingUpdate{Status: &cancelled})
	require.NoError(t, err)
	require.NoError(t, s.Bookings().Create(ctx, slot("b4", models.StatusPending)))
}
