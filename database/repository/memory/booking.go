package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"appointly/database/repository"
	bookingRepo "appointly/database/repository/booking"
	"appointly/models"
)

type bookingStore struct{ s *Store }

// Bookings returns the store's BookingRepository.
func (s *Store) Bookings() bookingRepo.BookingRepository {
	return bookingStore{s}
}

func (r bookingStore) Create(ctx context.Context, booking *models.Booking) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.bookings[booking.ID]; ok {
		return fmt.Errorf("booking %s: %w", booking.ID, repository.ErrDuplicate)
	}
	if holder := r.s.liveSlotHolder(booking); holder != "" {
		return fmt.Errorf("%s %s for provider %s held by booking %s: %w", booking.Date, booking.Time, booking.ProviderID, holder, repository.ErrDuplicate)
	}
	r.s.bookings[booking.ID] = cloneBooking(booking)
	r.s.record(ctx, func() { delete(r.s.bookings, booking.ID) })
	return nil
}

func (r bookingStore) GetByID(_ context.Context, id string) (*models.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	b, ok := r.s.bookings[id]
	if !ok {
		return nil, fmt.Errorf("booking %s: %w", id, repository.ErrNotFound)
	}
	return cloneBooking(b), nil
}

func (r bookingStore) UpdateConditional(ctx context.Context, id string, expected []models.BookingStatus, version int, upd models.BookingUpdate) (*models.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, ok := r.s.bookings[id]
	if !ok {
		return nil, fmt.Errorf("booking %s: %w", id, repository.ErrNotFound)
	}
	if cur.Version != version || !containsStatus(expected, cur.Status) {
		return nil, fmt.Errorf("booking %s (version %d): %w", id, version, repository.ErrConflict)
	}

	prev := cloneBooking(cur)
	next := cloneBooking(cur)
	if upd.Status != nil {
		next.Status = *upd.Status
	}
	if upd.CancellationReason != nil {
		next.CancellationReason = *upd.CancellationReason
	}
	if upd.Date != nil {
		next.Date = *upd.Date
	}
	if upd.DisplayDate != nil {
		next.DisplayDate = *upd.DisplayDate
	}
	if upd.Time != nil {
		next.Time = *upd.Time
	}
	if upd.HasReview != nil {
		next.HasReview = *upd.HasReview
	}
	if holder := r.s.liveSlotHolder(next); holder != "" {
		return nil, fmt.Errorf("%s %s for provider %s held by booking %s: %w", next.Date, next.Time, next.ProviderID, holder, repository.ErrDuplicate)
	}
	next.Version++
	next.UpdatedAt = time.Now()
	r.s.bookings[id] = next

	r.s.record(ctx, func() { r.s.bookings[id] = prev })
	return cloneBooking(next), nil
}

func (r bookingStore) List(_ context.Context, filter bookingRepo.ListFilter) ([]models.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := []models.Booking{}
	for _, b := range r.s.bookings {
		if filter.CustomerID != "" && b.CustomerID != filter.CustomerID {
			continue
		}
		if filter.ProviderID != "" && b.ProviderID != filter.ProviderID {
			continue
		}
		if filter.Status != "" && b.Status != filter.Status {
			continue
		}
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (bookingStore) EnsureIndexes() error { return nil }

func containsStatus(set []models.BookingStatus, s models.BookingStatus) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}

// liveSlotHolder returns the id of another live booking on b's provider,
// date and time, matching the partial unique index the mongo driver keeps.
// Callers must hold s.mu.
func (s *Store) liveSlotHolder(b *models.Booking) string {
	if !b.Status.Live() {
		return ""
	}
	for id, other := range s.bookings {
		if id != b.ID && other.Status.Live() &&
			other.ProviderID == b.ProviderID && other.Date == b.Date && other.Time == b.Time {
			return id
		}
	}
	return ""
}
