package memory

import (
	"context"
	"fmt"
	"time"

	availabilityRepo "appointly/database/repository/availability"
	"appointly/database/repository"
	"appointly/models"
)

type availabilityStore struct{ s *Store }

// Availability returns the store's AvailabilityRepository.
func (s *Store) Availability() availabilityRepo.AvailabilityRepository {
	return availabilityStore{s}
}

func (r availabilityStore) GetByProvider(_ context.Context, providerID string) (*models.Availability, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec, ok := r.s.availability[providerID]
	if !ok {
		return nil, fmt.Errorf("availability for provider %s: %w", providerID, repository.ErrNotFound)
	}
	return cloneAvailability(rec), nil
}

// EnsureDefault is not journaled: a default record left behind by an aborted
// transaction is indistinguishable from lazy creation, and other writers may
// already have claimed slots on it.
func (r availabilityStore) EnsureDefault(_ context.Context, rec *models.Availability) (*models.Availability, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if existing, ok := r.s.availability[rec.ProviderID]; ok {
		return cloneAvailability(existing), nil
	}
	r.s.availability[rec.ProviderID] = cloneAvailability(rec)
	return cloneAvailability(rec), nil
}

func (r availabilityStore) Save(ctx context.Context, rec *models.Availability) (*models.Availability, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, ok := r.s.availability[rec.ProviderID]
	if !ok || cur.Version != rec.Version {
		return nil, fmt.Errorf("availability for provider %s (version %d): %w", rec.ProviderID, rec.Version, repository.ErrConflict)
	}
	prev := cloneAvailability(cur)

	next := cloneAvailability(cur)
	updated := cloneAvailability(rec)
	next.WeeklySchedule = updated.WeeklySchedule
	next.AvailableDates = updated.AvailableDates
	next.BlockedDates = updated.BlockedDates
	next.Version++
	next.UpdatedAt = time.Now()
	r.s.availability[rec.ProviderID] = next

	r.s.record(ctx, func() {
		if live, ok := r.s.availability[rec.ProviderID]; ok {
			live.WeeklySchedule = prev.WeeklySchedule
			live.AvailableDates = prev.AvailableDates
			live.BlockedDates = prev.BlockedDates
			live.Version = prev.Version
		}
	})
	return cloneAvailability(next), nil
}

func (r availabilityStore) ClaimSlot(ctx context.Context, providerID string, slot models.ReservedSlot) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec, ok := r.s.availability[providerID]
	if !ok {
		return fmt.Errorf("availability for provider %s: %w", providerID, repository.ErrNotFound)
	}
	if rec.IsReserved(slot.Date, slot.Time) {
		return fmt.Errorf("%s %s for provider %s: %w", slot.Date, slot.Time, providerID, repository.ErrSlotTaken)
	}
	rec.BookedSlots = append(rec.BookedSlots, slot)
	rec.UpdatedAt = time.Now()

	r.s.record(ctx, func() {
		if live, ok := r.s.availability[providerID]; ok {
			live.BookedSlots = removeSlots(live.BookedSlots, slot.Date, slot.Time, slot.BookingID)
		}
	})
	return nil
}

func (r availabilityStore) ReleaseSlot(ctx context.Context, providerID, date, timeLabel, bookingID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec, ok := r.s.availability[providerID]
	if !ok {
		return nil
	}
	var removed []models.ReservedSlot
	for _, s := range rec.BookedSlots {
		if matchesSlot(s, date, timeLabel, bookingID) {
			removed = append(removed, s)
		}
	}
	if len(removed) == 0 {
		return nil
	}
	rec.BookedSlots = removeSlots(rec.BookedSlots, date, timeLabel, bookingID)
	rec.UpdatedAt = time.Now()

	r.s.record(ctx, func() {
		if live, ok := r.s.availability[providerID]; ok {
			live.BookedSlots = append(live.BookedSlots, removed...)
		}
	})
	return nil
}

func (availabilityStore) EnsureIndexes() error { return nil }

func matchesSlot(s models.ReservedSlot, date, timeLabel, bookingID string) bool {
	return s.Date == date && s.Time == timeLabel && (bookingID == "" || s.BookingID == bookingID)
}

func removeSlots(slots []models.ReservedSlot, date, timeLabel, bookingID string) []models.ReservedSlot {
	kept := make([]models.ReservedSlot, 0, len(slots))
	for _, s := range slots {
		if !matchesSlot(s, date, timeLabel, bookingID) {
			kept = append(kept, s)
		}
	}
	return kept
}
