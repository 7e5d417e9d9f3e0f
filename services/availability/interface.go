package availability

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	availabilityRepo "appointly/database/repository/availability"
	"appointly/models"
)

// AvailabilityService owns the per-provider availability aggregate: the
// provider-only template path and the reservation path used by bookings.
type AvailabilityService interface {
	GetMyAvailability(ctx context.Context, providerID string) (*models.Availability, error)
	UpdateAvailability(ctx context.Context, providerID string, req models.AvailabilityUpdate) (*models.Availability, error)
	GetPublicAvailability(ctx context.Context, providerID string) (*models.Availability, error)

	GetSlots(ctx context.Context, providerID, date string) ([]models.Slot, error)
	IsDateBookable(ctx context.Context, providerID, date string) (bool, error)

	ClaimSlot(ctx context.Context, providerID, date, timeLabel, bookingID string) error
	ReleaseSlot(ctx context.Context, providerID, date, timeLabel, bookingID string) error
	Reservations(ctx context.Context, providerID, date, timeLabel string) ([]models.ReservedSlot, error)
	// InvalidateSlots drops cached slot lists for the given dates, or for
	// every date when none are given.
	InvalidateSlots(ctx context.Context, providerID string, dates ...string)
}

type DefaultAvailabilityService struct {
	Repo   availabilityRepo.AvailabilityRepository
	Cache  SlotCache
	Logger *zap.Logger
	Now    func() time.Time
}

func NewDefaultAvailabilityService(repo availabilityRepo.AvailabilityRepository, cache SlotCache, logger *zap.Logger) *DefaultAvailabilityService {
	if cache == nil {
		cache = NoopSlotCache{}
	}
	return &DefaultAvailabilityService{
		Repo:   repo,
		Cache:  cache,
		Logger: logger,
		Now:    time.Now,
	}
}

func (s *DefaultAvailabilityService) newDefault(providerID string) *models.Availability {
	return models.NewDefaultAvailability(uuid.New().String(), providerID, s.Now())
}
