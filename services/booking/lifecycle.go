package booking

import (
	"context"

	"go.uber.org/zap"

	"appointly/models"
	"appointly/utils"
)

func (s *DefaultBookingService) AcceptBooking(ctx context.Context, actor models.Actor, bookingID string) (*models.Booking, error) {
	return s.apply(ctx, actor, bookingID, ActionAccept, models.BookingUpdate{}, nil)
}

func (s *DefaultBookingService) DeclineBooking(ctx context.Context, actor models.Actor, bookingID, reason string) (*models.Booking, error) {
	upd := models.BookingUpdate{CancellationReason: &reason}
	return s.apply(ctx, actor, bookingID, ActionDecline, upd, s.releaseHeldSlot)
}

func (s *DefaultBookingService) CancelBooking(ctx context.Context, actor models.Actor, bookingID, reason string) (*models.Booking, error) {
	upd := models.BookingUpdate{CancellationReason: &reason}
	return s.apply(ctx, actor, bookingID, ActionCancel, upd, s.releaseHeldSlot)
}

// CompleteBooking keeps the reserved slot so the ledger reflects history.
func (s *DefaultBookingService) CompleteBooking(ctx context.Context, actor models.Actor, bookingID string) (*models.Booking, error) {
	return s.apply(ctx, actor, bookingID, ActionComplete, models.BookingUpdate{}, nil)
}

// RescheduleBooking moves the booking to a new date/time without changing its
// status. The new slot is claimed and the old one released in the same
// transaction as the booking write.
func (s *DefaultBookingService) RescheduleBooking(ctx context.Context, actor models.Actor, bookingID string, in models.RescheduleInput) (*models.Booking, error) {
	if _, err := models.ParseDate(in.Date); err != nil {
		return nil, utils.NewValidationError("%s", err.Error())
	}
	if err := models.ValidateTimeLabel(in.Time); err != nil {
		return nil, utils.NewValidationError("%s", err.Error())
	}
	displayDate := in.DisplayDate
	if displayDate == "" {
		displayDate, _ = models.DisplayDate(in.Date)
	}

	upd := models.BookingUpdate{Date: &in.Date, Time: &in.Time, DisplayDate: &displayDate}
	var previous models.Booking

	checkTarget := func(ctx context.Context, b *models.Booking) error {
		if b.Date == in.Date && b.Time == in.Time {
			return utils.NewValidationError("booking is already scheduled for %s %s", in.Date, in.Time)
		}
		bookable, err := s.Availability.IsDateBookable(ctx, b.ProviderID, in.Date)
		if err != nil {
			return err
		}
		if !bookable {
			return utils.NewPreconditionError("provider is not available on %s", in.Date)
		}
		return nil
	}
	moveSlot := func(ctx context.Context, b *models.Booking) error {
		previous = *b
		if err := s.Availability.ClaimSlot(ctx, b.ProviderID, in.Date, in.Time, b.ID); err != nil {
			return err
		}
		return s.Availability.ReleaseSlot(ctx, b.ProviderID, b.Date, b.Time, b.ID)
	}

	updated, err := s.applyChecked(ctx, actor, bookingID, ActionReschedule, upd, checkTarget, moveSlot)
	if err != nil {
		return nil, err
	}
	s.Availability.InvalidateSlots(ctx, updated.ProviderID, previous.Date, updated.Date)
	return updated, nil
}

// apply runs a table transition with no extra precondition.
func (s *DefaultBookingService) apply(
	ctx context.Context,
	actor models.Actor,
	bookingID string,
	action Action,
	upd models.BookingUpdate,
	sideEffect func(ctx context.Context, b *models.Booking) error,
) (*models.Booking, error) {
	return s.applyChecked(ctx, actor, bookingID, action, upd, nil, sideEffect)
}

// applyChecked loads the booking, checks ownership and the status
// precondition, runs check, then writes upd conditioned on the status and
// version read, together with sideEffect, in one transaction.
func (s *DefaultBookingService) applyChecked(
	ctx context.Context,
	actor models.Actor,
	bookingID string,
	action Action,
	upd models.BookingUpdate,
	check func(ctx context.Context, b *models.Booking) error,
	sideEffect func(ctx context.Context, b *models.Booking) error,
) (*models.Booking, error) {
	t := transitions[action]

	b, err := s.Repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, translate(err, string(action))
	}
	if !isParty(b, actor, t.Actor) {
		return nil, utils.NewForbiddenError("only the booking's " + string(t.Actor) + " can " + string(action) + " it")
	}
	if !Allows(action, b.Status) {
		return nil, utils.NewPreconditionError("cannot %s a booking that is %s", action, b.Status)
	}
	if check != nil {
		if err := check(ctx, b); err != nil {
			return nil, err
		}
	}

	if t.To != "" {
		to := t.To
		upd.Status = &to
	}

	var updated *models.Booking
	err = s.Tx.WithTransaction(ctx, func(ctx context.Context) error {
		var err error
		updated, err = s.Repo.UpdateConditional(ctx, b.ID, []models.BookingStatus{b.Status}, b.Version, upd)
		if err != nil {
			return err
		}
		if sideEffect != nil {
			return sideEffect(ctx, b)
		}
		return nil
	})
	if err != nil {
		s.Logger.Warn("booking transition rejected",
			zap.String("bookingID", b.ID),
			zap.String("action", string(action)),
			zap.String("actorID", actor.ID),
			zap.Error(err))
		return nil, translate(err, string(action))
	}

	s.Logger.Info("booking transition",
		zap.String("bookingID", b.ID),
		zap.String("action", string(action)),
		zap.String("from", string(b.Status)),
		zap.String("to", string(updated.Status)),
		zap.String("actorID", actor.ID))

	if sideEffect != nil {
		s.Availability.InvalidateSlots(ctx, b.ProviderID, b.Date)
	}
	s.publish(ctx, eventFor(action), updated, actor, updated.CancellationReason)
	return updated, nil
}

func (s *DefaultBookingService) releaseHeldSlot(ctx context.Context, b *models.Booking) error {
	return s.Availability.ReleaseSlot(ctx, b.ProviderID, b.Date, b.Time, b.ID)
}

func eventFor(action Action) models.BookingEventType {
	switch action {
	case ActionAccept:
		return models.EventBookingAccepted
	case ActionDecline:
		return models.EventBookingDeclined
	case ActionCancel:
		return models.EventBookingCancelled
	case ActionReschedule:
		return models.EventBookingRescheduled
	default:
		return models.EventBookingCompleted
	}
}

// publish hands the event to the notifier. Failures are logged only.
func (s *DefaultBookingService) publish(ctx context.Context, typ models.BookingEventType, b *models.Booking, actor models.Actor, reason string) {
	event := models.BookingEvent{
		Type:       typ,
		BookingID:  b.ID,
		CustomerID: b.CustomerID,
		ProviderID: b.ProviderID,
		Status:     b.Status,
		Date:       b.Date,
		Time:       b.Time,
		Reason:     reason,
		ActorID:    actor.ID,
		OccurredAt: s.Now(),
	}
	if err := s.Notifier.Publish(ctx, event); err != nil {
		s.Logger.Warn("failed to publish booking event",
			zap.String("bookingID", b.ID),
			zap.String("type", string(typ)),
			zap.Error(err))
	}
}
