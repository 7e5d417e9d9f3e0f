package availability

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"appointly/database/repository"
	"appointly/models"
	"appointly/utils"
)

// ClaimSlot reserves (date, time) on the provider for bookingID. The
// reservation is a single conditional write, so of several concurrent claims
// for the same tuple exactly one succeeds and the rest get a conflict.
func (s *DefaultAvailabilityService) ClaimSlot(ctx context.Context, providerID, date, timeLabel, bookingID string) error {
	if err := validateSlot(providerID, date, timeLabel); err != nil {
		return err
	}
	if bookingID == "" {
		return utils.NewValidationError("bookingId is required")
	}

	if _, err := s.Repo.EnsureDefault(ctx, s.newDefault(providerID)); err != nil {
		return storageError("failed to load availability", err)
	}

	slot := models.ReservedSlot{Date: date, Time: timeLabel, BookingID: bookingID}
	if err := s.Repo.ClaimSlot(ctx, providerID, slot); err != nil {
		if errors.Is(err, repository.ErrSlotTaken) {
			return utils.NewConflictError("slot already taken", err)
		}
		return storageError("failed to claim slot", err)
	}

	s.Cache.Invalidate(ctx, providerID, date)
	s.Logger.Info("slot claimed",
		zap.String("providerID", providerID),
		zap.String("date", date),
		zap.String("time", timeLabel),
		zap.String("bookingID", bookingID))
	return nil
}

// ReleaseSlot frees (date, time). Releasing a slot that is not held is a no-op.
func (s *DefaultAvailabilityService) ReleaseSlot(ctx context.Context, providerID, date, timeLabel, bookingID string) error {
	if err := validateSlot(providerID, date, timeLabel); err != nil {
		return err
	}
	if err := s.Repo.ReleaseSlot(ctx, providerID, date, timeLabel, bookingID); err != nil {
		return storageError("failed to release slot", err)
	}

	s.Cache.Invalidate(ctx, providerID, date)
	s.Logger.Info("slot released",
		zap.String("providerID", providerID),
		zap.String("date", date),
		zap.String("time", timeLabel),
		zap.String("bookingID", bookingID))
	return nil
}

// Reservations lists who holds (date, time) on the provider's record.
func (s *DefaultAvailabilityService) Reservations(ctx context.Context, providerID, date, timeLabel string) ([]models.ReservedSlot, error) {
	if err := validateSlot(providerID, date, timeLabel); err != nil {
		return nil, err
	}
	rec, err := s.Repo.GetByProvider(ctx, providerID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, utils.NewInternalError("failed to load availability", err)
	}
	var held []models.ReservedSlot
	for _, slot := range rec.BookedSlots {
		if slot.Date == date && slot.Time == timeLabel {
			held = append(held, slot)
		}
	}
	return held, nil
}

func (s *DefaultAvailabilityService) InvalidateSlots(ctx context.Context, providerID string, dates ...string) {
	s.Cache.Invalidate(ctx, providerID, dates...)
}

// storageError reports a lost concurrent write as a retryable conflict and
// anything else as internal.
func storageError(msg string, err error) error {
	if errors.Is(err, repository.ErrConflict) {
		return utils.NewConflictError("availability was modified concurrently, retry", err)
	}
	return utils.NewInternalError(msg, err)
}

func validateSlot(providerID, date, timeLabel string) error {
	if providerID == "" {
		return utils.NewValidationError("providerId is required")
	}
	if _, err := models.ParseDate(date); err != nil {
		return utils.NewValidationError("%s", err.Error())
	}
	if err := models.ValidateTimeLabel(timeLabel); err != nil {
		return utils.NewValidationError("%s", err.Error())
	}
	return nil
}
