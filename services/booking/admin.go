package booking

import (
	"context"

	"go.uber.org/zap"

	"appointly/models"
	"appointly/utils"
)

// OverrideStatus forces a booking into status. The slot ledger is kept
// consistent: leaving a slot-holding status for Cancelled releases the slot,
// and reviving a Cancelled booking claims it again.
func (s *DefaultBookingService) OverrideStatus(ctx context.Context, actor models.Actor, bookingID string, status models.BookingStatus) (*models.Booking, error) {
	if actor.Role != models.RoleAdmin {
		return nil, utils.NewForbiddenError("only admins can override booking status")
	}
	if !status.Valid() {
		return nil, utils.NewValidationError("invalid status %q", status)
	}

	b, err := s.Repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, translate(err, "update")
	}
	if b.Status == status {
		return b, nil
	}

	var updated *models.Booking
	err = s.Tx.WithTransaction(ctx, func(ctx context.Context) error {
		var err error
		updated, err = s.Repo.UpdateConditional(ctx, b.ID, []models.BookingStatus{b.Status}, b.Version, models.BookingUpdate{Status: &status})
		if err != nil {
			return err
		}
		switch {
		case b.HoldsSlot() && !updated.HoldsSlot():
			return s.Availability.ReleaseSlot(ctx, b.ProviderID, b.Date, b.Time, b.ID)
		case !b.HoldsSlot() && updated.HoldsSlot():
			return s.Availability.ClaimSlot(ctx, b.ProviderID, b.Date, b.Time, b.ID)
		}
		return nil
	})
	if err != nil {
		return nil, translate(err, "update")
	}
	s.Availability.InvalidateSlots(ctx, b.ProviderID, b.Date)

	s.Logger.Warn("booking status overridden",
		zap.String("bookingID", b.ID),
		zap.String("from", string(b.Status)),
		zap.String("to", string(status)),
		zap.String("actorID", actor.ID))
	s.publish(ctx, models.EventStatusOverridden, updated, actor, "")
	return updated, nil
}
