// File: database/repository/catalogue/catalogue.go
package catalogueRepo

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

// CatalogueRepository is the narrow write path into the service catalogue.
// Only the aggregate rating is owned here; the rest of a service entry is
// managed elsewhere.
type CatalogueRepository interface {
	UpdateRating(ctx context.Context, serviceID string, rating float64, reviewCount int) error
	GetRating(ctx context.Context, serviceID string) (*models.ServiceRating, error)
}

type mongoCatalogueRepo struct {
	coll *mongo.Collection
}

// NewMongoCatalogueRepo constructs a CatalogueRepository over the services collection.
func NewMongoCatalogueRepo(db *mongo.Database) CatalogueRepository {
	return &mongoCatalogueRepo{coll: db.Collection("services")}
}

func (r *mongoCatalogueRepo) UpdateRating(ctx context.Context, serviceID string, rating float64, reviewCount int) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{
		"$set": bson.M{
			"rating":      rating,
			"reviewCount": reviewCount,
			"updatedAt":   time.Now(),
		},
	}
	opts := options.Update().SetUpsert(true)
	if _, err := r.coll.UpdateOne(ctx, bson.M{"id": serviceID}, update, opts); err != nil {
		return repository.WrapWriteErr("failed to update service rating", err)
	}
	return nil
}

func (r *mongoCatalogueRepo) GetRating(ctx context.Context, serviceID string) (*models.ServiceRating, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var rating models.ServiceRating
	opts := options.FindOne().SetProjection(bson.M{"id": 1, "rating": 1, "reviewCount": 1})
	err := r.coll.FindOne(ctx, bson.M{"id": serviceID}, opts).Decode(&rating)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("service %s: %w", serviceID, repository.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load service rating: %w", err)
	}
	return &rating, nil
}
