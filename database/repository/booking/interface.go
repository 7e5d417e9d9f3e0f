// File: database/repository/booking/interface.go
package bookingRepo

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"appointly/models"
)

// ListFilter narrows List; empty fields are ignored.
type ListFilter struct {
	CustomerID string
	ProviderID string
	Status     models.BookingStatus
}

type BookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	// UpdateConditional applies upd only while the stored booking still has
	// one of the expected statuses and the given version. A lost race returns
	// repository.ErrConflict.
	UpdateConditional(ctx context.Context, id string, expected []models.BookingStatus, version int, upd models.BookingUpdate) (*models.Booking, error)
	List(ctx context.Context, filter ListFilter) ([]models.Booking, error)
	EnsureIndexes() error
}

type mongoBookingRepo struct {
	coll *mongo.Collection
}

// NewMongoBookingRepo constructs a MongoDB-backed BookingRepository.
func NewMongoBookingRepo(db *mongo.Database) BookingRepository {
	return &mongoBookingRepo{coll: db.Collection("bookings")}
}
