// File: database/repository/availability/crud.go
package availabilityRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"appointly/database/repository"
	"appointly/models"
)

func (r *mongoAvailabilityRepo) GetByProvider(ctx context.Context, providerID string) (*models.Availability, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var rec models.Availability
	err := r.coll.FindOne(ctx, bson.M{"providerId": providerID}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("availability for provider %s: %w", providerID, repository.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load availability: %w", err)
	}
	return &rec, nil
}

func (r *mongoAvailabilityRepo) EnsureDefault(ctx context.Context, rec *models.Availability) (*models.Availability, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// Upsert keyed on providerId; the unique index turns a lost insert race
	// into a duplicate key error, after which the winner's record is read back.
	update := bson.M{"$setOnInsert": rec}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var stored models.Availability
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"providerId": rec.ProviderID}, update, opts).Decode(&stored)
	if mongo.IsDuplicateKeyError(err) {
		err = r.coll.FindOne(ctx, bson.M{"providerId": rec.ProviderID}).Decode(&stored)
	}
	if err != nil {
		return nil, repository.WrapWriteErr("failed to ensure availability", err)
	}
	return &stored, nil
}

func (r *mongoAvailabilityRepo) Save(ctx context.Context, rec *models.Availability) (*models.Availability, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"providerId": rec.ProviderID,
		"version":    rec.Version,
	}
	update := bson.M{
		"$set": bson.M{
			"weeklySchedule": rec.WeeklySchedule,
			"availableDates": rec.AvailableDates,
			"blockedDates":   rec.BlockedDates,
			"updatedAt":      time.Now(),
		},
		"$inc": bson.M{"version": 1},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var stored models.Availability
	err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&stored)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("availability for provider %s (version %d): %w", rec.ProviderID, rec.Version, repository.ErrConflict)
	}
	if err != nil {
		return nil, repository.WrapWriteErr("failed to save availability", err)
	}
	return &stored, nil
}
