package availability

import (
	"context"
	"errors"
	"sort"

	"go.uber.org/zap"

	"appointly/database/repository"
	"appointly/models"
	"appointly/utils"
)

// GetMyAvailability returns the provider's record, creating the default one
// on first access.
func (s *DefaultAvailabilityService) GetMyAvailability(ctx context.Context, providerID string) (*models.Availability, error) {
	rec, err := s.Repo.EnsureDefault(ctx, s.newDefault(providerID))
	if err != nil {
		return nil, utils.NewInternalError("failed to load availability", err)
	}
	return rec.OwnerView(), nil
}

// UpdateAvailability merges req into the provider's template and exceptions.
// Reserved slots are never touched here.
func (s *DefaultAvailabilityService) UpdateAvailability(ctx context.Context, providerID string, req models.AvailabilityUpdate) (*models.Availability, error) {
	if err := validateUpdate(req); err != nil {
		return nil, err
	}

	rec, err := s.Repo.EnsureDefault(ctx, s.newDefault(providerID))
	if err != nil {
		return nil, utils.NewInternalError("failed to load availability", err)
	}

	if rec.WeeklySchedule == nil {
		rec.WeeklySchedule = models.DefaultWeeklySchedule()
	}
	for day, entry := range req.WeeklySchedule {
		prev := rec.WeeklySchedule[day]
		if entry.Start == "" {
			entry.Start = prev.Start
		}
		if entry.End == "" {
			entry.End = prev.End
		}
		rec.WeeklySchedule[day] = entry
	}
	if req.AvailableDates != nil {
		rec.AvailableDates = models.UniqueDates(*req.AvailableDates)
	}
	if req.BlockedDates != nil {
		rec.BlockedDates = uniqueBlocked(*req.BlockedDates)
	}

	saved, err := s.Repo.Save(ctx, rec)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, utils.NewConflictError("availability was modified concurrently, reload and retry", err)
		}
		return nil, utils.NewInternalError("failed to save availability", err)
	}

	s.Cache.Invalidate(ctx, providerID)
	s.Logger.Info("availability updated",
		zap.String("providerID", providerID),
		zap.Int("availableDates", len(saved.AvailableDates)),
		zap.Int("blockedDates", len(saved.BlockedDates)))
	return saved.OwnerView(), nil
}

// GetPublicAvailability returns the provider's record with reserved slots
// stripped of booking ids. Providers with no record get the default template,
// which is not persisted.
func (s *DefaultAvailabilityService) GetPublicAvailability(ctx context.Context, providerID string) (*models.Availability, error) {
	rec, err := s.load(ctx, providerID)
	if err != nil {
		return nil, err
	}
	return rec.PublicView(), nil
}

func (s *DefaultAvailabilityService) GetSlots(ctx context.Context, providerID, date string) ([]models.Slot, error) {
	if _, err := models.ParseDate(date); err != nil {
		return nil, utils.NewValidationError("%s", err.Error())
	}
	if slots, ok := s.Cache.Get(ctx, providerID, date); ok {
		return slots, nil
	}
	gen, cacheable := s.Cache.Generation(ctx, providerID)

	rec, err := s.load(ctx, providerID)
	if err != nil {
		return nil, err
	}
	slots, err := GenerateSlots(rec, date)
	if err != nil {
		return nil, utils.NewInternalError("failed to generate slots", err)
	}
	if cacheable {
		s.Cache.Set(ctx, providerID, date, gen, slots)
	}
	return slots, nil
}

func (s *DefaultAvailabilityService) IsDateBookable(ctx context.Context, providerID, date string) (bool, error) {
	rec, err := s.load(ctx, providerID)
	if err != nil {
		return false, err
	}
	ok, err := rec.IsDateBookable(date)
	if err != nil {
		return false, utils.NewValidationError("%s", err.Error())
	}
	return ok, nil
}

// load returns the stored record or an unsaved default one.
func (s *DefaultAvailabilityService) load(ctx context.Context, providerID string) (*models.Availability, error) {
	rec, err := s.Repo.GetByProvider(ctx, providerID)
	if errors.Is(err, repository.ErrNotFound) {
		return s.newDefault(providerID), nil
	}
	if err != nil {
		return nil, utils.NewInternalError("failed to load availability", err)
	}
	return rec, nil
}

func validateUpdate(req models.AvailabilityUpdate) error {
	for day, entry := range req.WeeklySchedule {
		if !models.IsWeekdayKey(day) {
			return utils.NewValidationError("unknown weekday %q", day)
		}
		var startH, startM, endH, endM int
		var err error
		if entry.Start != "" {
			if startH, startM, err = models.ParseClock(entry.Start); err != nil {
				return utils.NewValidationError("%s: %s", day, err.Error())
			}
		}
		if entry.End != "" {
			if endH, endM, err = models.ParseClock(entry.End); err != nil {
				return utils.NewValidationError("%s: %s", day, err.Error())
			}
		}
		if entry.Enabled {
			if entry.Start == "" || entry.End == "" {
				return utils.NewValidationError("%s: start and end are required when enabled", day)
			}
			if startH*60+startM >= endH*60+endM {
				return utils.NewValidationError("%s: start must be before end", day)
			}
		}
	}
	if req.AvailableDates != nil {
		for _, d := range *req.AvailableDates {
			if _, err := models.ParseDate(d); err != nil {
				return utils.NewValidationError("availableDates: %s", err.Error())
			}
		}
	}
	if req.BlockedDates != nil {
		for _, b := range *req.BlockedDates {
			if _, err := models.ParseDate(b.Date); err != nil {
				return utils.NewValidationError("blockedDates: %s", err.Error())
			}
		}
	}
	return nil
}

// uniqueBlocked keeps one entry per date, the last one given, sorted by date.
func uniqueBlocked(in []models.BlockedDate) []models.BlockedDate {
	byDate := make(map[string]models.BlockedDate, len(in))
	for _, b := range in {
		byDate[b.Date] = b
	}
	out := make([]models.BlockedDate, 0, len(byDate))
	for _, b := range byDate {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}
