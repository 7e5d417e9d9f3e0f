package booking

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"appointly/models"
	"appointly/utils"
)

// CreateBooking records a Pending booking for the customer. The slot claim
// and the booking insert commit together or not at all.
func (s *DefaultBookingService) CreateBooking(ctx context.Context, actor models.Actor, in models.BookingInput) (*models.Booking, error) {
	if actor.ID == "" {
		return nil, utils.NewUnauthorizedError("authentication required")
	}
	if err := validateInput(&in); err != nil {
		return nil, err
	}
	if in.ProviderID == actor.ID {
		return nil, utils.NewValidationError("cannot book your own services")
	}

	bookable, err := s.Availability.IsDateBookable(ctx, in.ProviderID, in.Date)
	if err != nil {
		return nil, err
	}
	if !bookable {
		return nil, utils.NewPreconditionError("provider is not available on %s", in.Date)
	}

	now := s.Now()
	b := &models.Booking{
		ID:          uuid.New().String(),
		CustomerID:  actor.ID,
		ProviderID:  in.ProviderID,
		ServiceID:   in.ServiceID,
		ServiceName: in.ServiceName,
		Date:        in.Date,
		DisplayDate: in.DisplayDate,
		Time:        in.Time,
		Duration:    in.Duration,
		Location:    in.Location,
		Status:      models.StatusPending,
		Pricing:     in.Pricing,
		Notes:       in.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = s.Tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.Availability.ClaimSlot(ctx, b.ProviderID, b.Date, b.Time, b.ID); err != nil {
			return err
		}
		return s.Repo.Create(ctx, b)
	})
	if err != nil {
		s.Logger.Warn("booking creation rejected",
			zap.String("providerID", b.ProviderID),
			zap.String("date", b.Date),
			zap.String("time", b.Time),
			zap.String("actorID", actor.ID),
			zap.Error(err))
		return nil, translate(err, "create")
	}
	s.Availability.InvalidateSlots(ctx, b.ProviderID, b.Date)

	s.Logger.Info("booking created",
		zap.String("bookingID", b.ID),
		zap.String("providerID", b.ProviderID),
		zap.String("customerID", b.CustomerID),
		zap.String("date", b.Date),
		zap.String("time", b.Time))
	s.publish(ctx, models.EventBookingCreated, b, actor, "")
	return b, nil
}

// validateInput checks required fields and fills defaults in place.
func validateInput(in *models.BookingInput) error {
	in.ProviderID = strings.TrimSpace(in.ProviderID)
	if in.ProviderID == "" {
		return utils.NewValidationError("providerId is required")
	}
	if _, err := models.ParseDate(in.Date); err != nil {
		return utils.NewValidationError("%s", err.Error())
	}
	if err := models.ValidateTimeLabel(in.Time); err != nil {
		return utils.NewValidationError("%s", err.Error())
	}
	if in.Duration < 0 {
		return utils.NewValidationError("duration must be positive")
	}
	if in.Duration == 0 {
		in.Duration = models.DefaultDurationMinutes
	}
	if in.Pricing.Total < 0 {
		return utils.NewValidationError("pricing.total must not be negative")
	}
	if in.DisplayDate == "" {
		in.DisplayDate, _ = models.DisplayDate(in.Date)
	}
	return nil
}
