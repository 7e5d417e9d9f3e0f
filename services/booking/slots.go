package booking

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"appointly/database/repository"
	"appointly/models"
	"appointly/utils"
)

// FreeSlot releases (date, time) on the provider's schedule outside the
// booking lifecycle, e.g. a reservation left by an external system. Only the
// owning provider or an admin may call it. Slots held by a booking that still
// occupies them are refused: those are released by cancelling or declining.
func (s *DefaultBookingService) FreeSlot(ctx context.Context, actor models.Actor, providerID, date, timeLabel, bookingID string) error {
	if actor.ID == "" {
		return utils.NewUnauthorizedError("authentication required")
	}
	owner := actor.Role == models.RoleProvider && actor.ID == providerID
	if !owner && actor.Role != models.RoleAdmin {
		return utils.NewForbiddenError("only the provider or an admin can free a slot")
	}

	held, err := s.Availability.Reservations(ctx, providerID, date, timeLabel)
	if err != nil {
		return err
	}
	for _, slot := range held {
		if slot.BookingID == "" || (bookingID != "" && slot.BookingID != bookingID) {
			continue
		}
		b, err := s.Repo.GetByID(ctx, slot.BookingID)
		if errors.Is(err, repository.ErrNotFound) {
			continue
		}
		if err != nil {
			return translate(err, "load")
		}
		if b.HoldsSlot() && b.ProviderID == providerID && b.Date == date && b.Time == timeLabel {
			return utils.NewPreconditionError("slot is held by booking %s that is %s; cancel or decline the booking instead", b.ID, b.Status)
		}
	}

	if err := s.Availability.ReleaseSlot(ctx, providerID, date, timeLabel, bookingID); err != nil {
		return err
	}
	s.Logger.Info("slot freed manually",
		zap.String("providerID", providerID),
		zap.String("date", date),
		zap.String("time", timeLabel),
		zap.String("actorID", actor.ID))
	return nil
}
