// File: database/repository/availability/slots.go
package availabilityRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"appointly/database/repository"
	"appointly/models"
)

func (r *mongoAvailabilityRepo) ClaimSlot(ctx context.Context, providerID string, slot models.ReservedSlot) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// Single conditional write: the document only matches while no element
	// holds the same date/time, so concurrent claims cannot both push.
	filter := bson.M{
		"providerId": providerID,
		"bookedSlots": bson.M{
			"$not": bson.M{
				"$elemMatch": bson.M{"date": slot.Date, "time": slot.Time},
			},
		},
	}
	update := bson.M{
		"$push": bson.M{"bookedSlots": slot},
		"$set":  bson.M{"updatedAt": time.Now()},
	}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return repository.WrapWriteErr("failed to claim slot", err)
	}
	if res.MatchedCount == 1 {
		return nil
	}

	count, err := r.coll.CountDocuments(ctx, bson.M{"providerId": providerID})
	if err != nil {
		return fmt.Errorf("failed to claim slot: %w", err)
	}
	if count == 0 {
		return fmt.Errorf("availability for provider %s: %w", providerID, repository.ErrNotFound)
	}
	return fmt.Errorf("%s %s for provider %s: %w", slot.Date, slot.Time, providerID, repository.ErrSlotTaken)
}

func (r *mongoAvailabilityRepo) ReleaseSlot(ctx context.Context, providerID, date, timeLabel, bookingID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	match := bson.M{"date": date, "time": timeLabel}
	if bookingID != "" {
		match["bookingId"] = bookingID
	}
	update := bson.M{
		"$pull": bson.M{"bookedSlots": match},
		"$set":  bson.M{"updatedAt": time.Now()},
	}

	if _, err := r.coll.UpdateOne(ctx, bson.M{"providerId": providerID}, update); err != nil {
		return repository.WrapWriteErr("failed to release slot", err)
	}
	return nil
}
