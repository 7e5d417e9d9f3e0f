package booking

import (
	"context"

	bookingRepo "appointly/database/repository/booking"
	"appointly/models"
	"appointly/utils"
)

// GetBooking returns a booking to one of its parties or to an admin.
func (s *DefaultBookingService) GetBooking(ctx context.Context, actor models.Actor, bookingID string) (*models.Booking, error) {
	b, err := s.Repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, translate(err, "load")
	}
	if actor.Role != models.RoleAdmin && actor.ID != b.CustomerID && actor.ID != b.ProviderID {
		return nil, utils.NewForbiddenError("not a party to this booking")
	}
	return b, nil
}

// ListMyBookings lists bookings where the actor is the customer or the
// provider, depending on role, newest first. Admins see every booking.
func (s *DefaultBookingService) ListMyBookings(ctx context.Context, actor models.Actor, status models.BookingStatus) ([]models.Booking, error) {
	if status != "" && !status.Valid() {
		return nil, utils.NewValidationError("invalid status %q", status)
	}

	filter := bookingRepo.ListFilter{Status: status}
	switch actor.Role {
	case models.RoleCustomer:
		filter.CustomerID = actor.ID
	case models.RoleProvider:
		filter.ProviderID = actor.ID
	case models.RoleAdmin:
	default:
		return nil, utils.NewForbiddenError("unknown role")
	}

	bookings, err := s.Repo.List(ctx, filter)
	if err != nil {
		return nil, translate(err, "list")
	}
	return bookings, nil
}
