// File: database/repository/booking/crud.go
package bookingRepo

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

func (r *mongoBookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, booking); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("booking %s: %w", booking.ID, repository.ErrDuplicate)
		}
		return repository.WrapWriteErr("failed to insert booking", err)
	}
	return nil
}

func (r *mongoBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var booking models.Booking
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&booking)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("booking %s: %w", id, repository.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load booking: %w", err)
	}
	return &booking, nil
}

func (r *mongoBookingRepo) UpdateConditional(ctx context.Context, id string, expected []models.BookingStatus, version int, upd models.BookingUpdate) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"id":      id,
		"status":  bson.M{"$in": expected},
		"version": version,
	}
	set := bson.M{"updatedAt": time.Now()}
	if upd.Status != nil {
		set["status"] = *upd.Status
	}
	if upd.CancellationReason != nil {
		set["cancellationReason"] = *upd.CancellationReason
	}
	if upd.Date != nil {
		set["date"] = *upd.Date
	}
	if upd.DisplayDate != nil {
		set["displayDate"] = *upd.DisplayDate
	}
	if upd.Time != nil {
		set["time"] = *upd.Time
	}
	if upd.HasReview != nil {
		set["hasReview"] = *upd.HasReview
	}
	update := bson.M{
		"$set": set,
		"$inc": bson.M{"version": 1},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var booking models.Booking
	err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&booking)
	if errors.Is(err, mongo.ErrNoDocuments) {
		count, cerr := r.coll.CountDocuments(ctx, bson.M{"id": id})
		if cerr != nil {
			return nil, fmt.Errorf("failed to update booking: %w", cerr)
		}
		if count == 0 {
			return nil, fmt.Errorf("booking %s: %w", id, repository.ErrNotFound)
		}
		return nil, fmt.Errorf("booking %s (version %d): %w", id, version, repository.ErrConflict)
	}
	if mongo.IsDuplicateKeyError(err) {
		return nil, fmt.Errorf("booking %s: %w", id, repository.ErrDuplicate)
	}
	if err != nil {
		return nil, repository.WrapWriteErr("failed to update booking", err)
	}
	return &booking, nil
}
