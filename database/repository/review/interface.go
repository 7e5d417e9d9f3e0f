// File: database/repository/review/interface.go
package reviewRepo

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"appointly/models"
)

type ReviewRepository interface {
	// Create inserts a review; a second review for the same booking returns
	// repository.ErrDuplicate.
	Create(ctx context.Context, review *models.Review) error
	ExistsForBooking(ctx context.Context, bookingID string) (bool, error)
	ListByService(ctx context.Context, serviceID string) ([]models.Review, error)
	// AverageForService returns the mean rating and review count for serviceID.
	AverageForService(ctx context.Context, serviceID string) (float64, int, error)
	EnsureIndexes() error
}

type mongoReviewRepo struct {
	coll *mongo.Collection
}

// NewMongoReviewRepo constructs a MongoDB-backed ReviewRepository.
func NewMongoReviewRepo(db *mongo.Database) ReviewRepository {
	return &mongoReviewRepo{coll: db.Collection("reviews")}
}
