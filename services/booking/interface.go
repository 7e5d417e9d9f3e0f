package booking

import (
	"context"
	"time"

	"go.uber.org/zap"

	"appointly/database"
	bookingRepo "appointly/database/repository/booking"
	"appointly/models"
	"appointly/services/availability"
	"appointly/services/notification"
)

// BookingService drives a booking through its lifecycle. Every mutating call
// checks existence, then ownership, then the status precondition, and only
// then performs a write conditioned on the status and version it read.
type BookingService interface {
	CreateBooking(ctx context.Context, actor models.Actor, in models.BookingInput) (*models.Booking, error)
	AcceptBooking(ctx context.Context, actor models.Actor, bookingID string) (*models.Booking, error)
	DeclineBooking(ctx context.Context, actor models.Actor, bookingID, reason string) (*models.Booking, error)
	CancelBooking(ctx context.Context, actor models.Actor, bookingID, reason string) (*models.Booking, error)
	RescheduleBooking(ctx context.Context, actor models.Actor, bookingID string, in models.RescheduleInput) (*models.Booking, error)
	CompleteBooking(ctx context.Context, actor models.Actor, bookingID string) (*models.Booking, error)
	// OverrideStatus sets any allowed status, bypassing the transition table.
	// Only admins may call it.
	OverrideStatus(ctx context.Context, actor models.Actor, bookingID string, status models.BookingStatus) (*models.Booking, error)

	// FreeSlot manually releases a reservation. It never frees a slot that a
	// live booking still holds.
	FreeSlot(ctx context.Context, actor models.Actor, providerID, date, timeLabel, bookingID string) error

	GetBooking(ctx context.Context, actor models.Actor, bookingID string) (*models.Booking, error)
	ListMyBookings(ctx context.Context, actor models.Actor, status models.BookingStatus) ([]models.Booking, error)
}

type DefaultBookingService struct {
	Repo         bookingRepo.BookingRepository
	Availability availability.AvailabilityService
	Tx           database.Transactor
	Notifier     notification.Notifier
	Logger       *zap.Logger
	Now          func() time.Time
}

func NewDefaultBookingService(
	repo bookingRepo.BookingRepository,
	availabilitySvc availability.AvailabilityService,
	tx database.Transactor,
	notifier notification.Notifier,
	logger *zap.Logger,
) *DefaultBookingService {
	if notifier == nil {
		notifier = notification.NoopNotifier{}
	}
	return &DefaultBookingService{
		Repo:         repo,
		Availability: availabilitySvc,
		Tx:           tx,
		Notifier:     notifier,
		Logger:       logger,
		Now:          time.Now,
	}
}
