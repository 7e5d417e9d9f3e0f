// Package memory is an in-process storage driver with the same atomicity
// contracts as the Mongo repositories. It backs tests and local runs with
// STORAGE_DRIVER=memory.
package memory

import (
	"context"
	"sync"

	"appointly/models"
)

// Store holds every aggregate behind one mutex. Each repository call is a
// single critical section, which is what makes ClaimSlot and
// UpdateConditional atomic.
type Store struct {
	mu sync.Mutex

	availability    map[string]*models.Availability // keyed by providerID
	bookings        map[string]*models.Booking
	reviews         map[string]*models.Review
	reviewByBooking map[string]string
	ratings         map[string]models.ServiceRating
}

func NewStore() *Store {
	return &Store{
		availability:    make(map[string]*models.Availability),
		bookings:        make(map[string]*models.Booking),
		reviews:         make(map[string]*models.Review),
		reviewByBooking: make(map[string]string),
		ratings:         make(map[string]models.ServiceRating),
	}
}

type journalKey struct{}

// journal collects undo steps for writes made inside WithTransaction.
type journal struct {
	undo []func()
}

// WithTransaction runs fn and, if it fails, reverts every write fn made
// through this store in reverse order.
func (s *Store) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	j := &journal{}
	if err := fn(context.WithValue(ctx, journalKey{}, j)); err != nil {
		s.mu.Lock()
		for i := len(j.undo) - 1; i >= 0; i-- {
			j.undo[i]()
		}
		s.mu.Unlock()
		return err
	}
	return nil
}

// record registers an undo step. Callers must hold s.mu.
func (s *Store) record(ctx context.Context, undo func()) {
	if j, ok := ctx.Value(journalKey{}).(*journal); ok {
		j.undo = append(j.undo, undo)
	}
}

func cloneAvailability(a *models.Availability) *models.Availability {
	c := *a
	c.WeeklySchedule = make(models.WeeklySchedule, len(a.WeeklySchedule))
	for k, v := range a.WeeklySchedule {
		c.WeeklySchedule[k] = v
	}
	c.AvailableDates = append([]string{}, a.AvailableDates...)
	c.BlockedDates = append([]models.BlockedDate{}, a.BlockedDates...)
	c.BookedSlots = append([]models.ReservedSlot{}, a.BookedSlots...)
	return &c
}

func cloneBooking(b *models.Booking) *models.Booking {
	c := *b
	return &c
}
