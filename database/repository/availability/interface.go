// File: database/repository/availability/interface.go
package availabilityRepo

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"appointly/models"
)

// AvailabilityRepository stores one Availability per provider. Template edits
// go through Save; reserved slots are only touched by ClaimSlot/ReleaseSlot.
type AvailabilityRepository interface {
	GetByProvider(ctx context.Context, providerID string) (*models.Availability, error)
	// EnsureDefault inserts rec if the provider has no record yet and returns
	// whichever record is stored afterwards.
	EnsureDefault(ctx context.Context, rec *models.Availability) (*models.Availability, error)
	// Save replaces the template and date exceptions, conditioned on rec.Version.
	Save(ctx context.Context, rec *models.Availability) (*models.Availability, error)
	// ClaimSlot appends slot only if no reservation for the same date/time
	// exists. Returns repository.ErrSlotTaken otherwise.
	ClaimSlot(ctx context.Context, providerID string, slot models.ReservedSlot) error
	// ReleaseSlot removes the reservation for date/time. When bookingID is
	// set only that booking's reservation is removed. Missing slots are a no-op.
	ReleaseSlot(ctx context.Context, providerID, date, timeLabel, bookingID string) error
	EnsureIndexes() error
}

type mongoAvailabilityRepo struct {
	coll *mongo.Collection
}

// NewMongoAvailabilityRepo constructs a MongoDB-backed AvailabilityRepository.
func NewMongoAvailabilityRepo(db *mongo.Database) AvailabilityRepository {
	return &mongoAvailabilityRepo{coll: db.Collection("availabilities")}
}
