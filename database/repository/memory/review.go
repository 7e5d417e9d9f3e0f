package memory

import (
	"context"
	"fmt"
	"sort"

	"appointly/database/repository"
	catalogueRepo "appointly/database/repository/catalogue"
	reviewRepo "appointly/database/repository/review"
	"appointly/models"
)

type reviewStore struct{ s *Store }

// Reviews returns the store's ReviewRepository.
func (s *Store) Reviews() reviewRepo.ReviewRepository {
	return reviewStore{s}
}

func (r reviewStore) Create(ctx context.Context, review *models.Review) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.reviewByBooking[review.BookingID]; ok {
		return fmt.Errorf("review for booking %s: %w", review.BookingID, repository.ErrDuplicate)
	}
	c := *review
	r.s.reviews[review.ID] = &c
	r.s.reviewByBooking[review.BookingID] = review.ID
	r.s.record(ctx, func() {
		delete(r.s.reviews, review.ID)
		delete(r.s.reviewByBooking, review.BookingID)
	})
	return nil
}

func (r reviewStore) ExistsForBooking(_ context.Context, bookingID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	_, ok := r.s.reviewByBooking[bookingID]
	return ok, nil
}

func (r reviewStore) ListByService(_ context.Context, serviceID string) ([]models.Review, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := []models.Review{}
	for _, rv := range r.s.reviews {
		if rv.ServiceID == serviceID {
			out = append(out, *rv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r reviewStore) AverageForService(_ context.Context, serviceID string) (float64, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	sum, count := 0, 0
	for _, rv := range r.s.reviews {
		if rv.ServiceID == serviceID {
			sum += rv.Rating
			count++
		}
	}
	if count == 0 {
		return 0, 0, nil
	}
	return float64(sum) / float64(count), count, nil
}

func (reviewStore) EnsureIndexes() error { return nil }

type catalogueStore struct{ s *Store }

// Catalogue returns the store's CatalogueRepository.
func (s *Store) Catalogue() catalogueRepo.CatalogueRepository {
	return catalogueStore{s}
}

func (r catalogueStore) UpdateRating(ctx context.Context, serviceID string, rating float64, reviewCount int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	prev, existed := r.s.ratings[serviceID]
	r.s.ratings[serviceID] = models.ServiceRating{ServiceID: serviceID, Rating: rating, ReviewCount: reviewCount}
	r.s.record(ctx, func() {
		if existed {
			r.s.ratings[serviceID] = prev
		} else {
			delete(r.s.ratings, serviceID)
		}
	})
	return nil
}

func (r catalogueStore) GetRating(_ context.Context, serviceID string) (*models.ServiceRating, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rating, ok := r.s.ratings[serviceID]
	if !ok {
		return nil, fmt.Errorf("service %s: %w", serviceID, repository.ErrNotFound)
	}
	return &rating, nil
}
