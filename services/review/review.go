package review

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"appointly/database"
	"appointly/database/repository"
	bookingRepo "appointly/database/repository/booking"
	catalogueRepo "appointly/database/repository/catalogue"
	reviewRepo "appointly/database/repository/review"
	"appointly/models"
	"appointly/utils"
)

const (
	MinRating        = 1
	MaxRating        = 5
	MinCommentLength = 10
)

type ReviewService interface {
	SubmitReview(ctx context.Context, actor models.Actor, in models.ReviewInput) (*models.Review, error)
	ListServiceReviews(ctx context.Context, serviceID string) ([]models.Review, error)
}

// DefaultReviewService allows one review per completed booking and keeps the
// reviewed service's aggregate rating current.
type DefaultReviewService struct {
	Reviews   reviewRepo.ReviewRepository
	Bookings  bookingRepo.BookingRepository
	Catalogue catalogueRepo.CatalogueRepository
	Tx        database.Transactor
	Logger    *zap.Logger
	Now       func() time.Time
}

func NewDefaultReviewService(
	reviews reviewRepo.ReviewRepository,
	bookings bookingRepo.BookingRepository,
	catalogue catalogueRepo.CatalogueRepository,
	tx database.Transactor,
	logger *zap.Logger,
) *DefaultReviewService {
	return &DefaultReviewService{
		Reviews:   reviews,
		Bookings:  bookings,
		Catalogue: catalogue,
		Tx:        tx,
		Logger:    logger,
		Now:       time.Now,
	}
}

func (s *DefaultReviewService) SubmitReview(ctx context.Context, actor models.Actor, in models.ReviewInput) (*models.Review, error) {
	in.Comment = strings.TrimSpace(in.Comment)
	if in.BookingID == "" {
		return nil, utils.NewValidationError("bookingId is required")
	}
	if in.Rating < MinRating || in.Rating > MaxRating {
		return nil, utils.NewValidationError("rating must be between %d and %d", MinRating, MaxRating)
	}
	if utf8.RuneCountInString(in.Comment) < MinCommentLength {
		return nil, utils.NewValidationError("comment must be at least %d characters", MinCommentLength)
	}

	b, err := s.Bookings.GetByID(ctx, in.BookingID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, utils.NewNotFoundError("booking not found", err)
	}
	if err != nil {
		return nil, utils.NewInternalError("failed to load booking", err)
	}
	if b.CustomerID != actor.ID {
		return nil, utils.NewForbiddenError("only the booking's customer can review it")
	}
	if b.Status != models.StatusCompleted {
		return nil, utils.NewPreconditionError("only completed bookings can be reviewed")
	}
	if b.HasReview {
		return nil, utils.NewPreconditionError("booking has already been reviewed")
	}
	exists, err := s.Reviews.ExistsForBooking(ctx, b.ID)
	if err != nil {
		return nil, utils.NewInternalError("failed to check existing review", err)
	}
	if exists {
		return nil, utils.NewPreconditionError("booking has already been reviewed")
	}

	review := &models.Review{
		ID:         uuid.New().String(),
		BookingID:  b.ID,
		CustomerID: b.CustomerID,
		ProviderID: b.ProviderID,
		ServiceID:  b.ServiceID,
		Rating:     in.Rating,
		Comment:    in.Comment,
		CreatedAt:  s.Now(),
	}

	err = s.Tx.WithTransaction(ctx, func(ctx context.Context) error {
		reviewed := true
		if _, err := s.Bookings.UpdateConditional(ctx, b.ID, []models.BookingStatus{models.StatusCompleted}, b.Version, models.BookingUpdate{HasReview: &reviewed}); err != nil {
			return err
		}
		if err := s.Reviews.Create(ctx, review); err != nil {
			return err
		}
		return s.refreshRating(ctx, b.ServiceID)
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return nil, utils.NewPreconditionError("booking has already been reviewed")
		case errors.Is(err, repository.ErrConflict):
			return nil, utils.NewConflictError("booking was modified concurrently, reload and retry", err)
		}
		return nil, utils.NewInternalError("failed to submit review", err)
	}

	s.Logger.Info("review submitted",
		zap.String("reviewID", review.ID),
		zap.String("bookingID", b.ID),
		zap.String("serviceID", b.ServiceID),
		zap.Int("rating", review.Rating))
	return review, nil
}

// refreshRating recomputes the service's mean rating, rounded to one decimal.
// Bookings without a service reference have no aggregate to update.
func (s *DefaultReviewService) refreshRating(ctx context.Context, serviceID string) error {
	if serviceID == "" {
		return nil
	}
	avg, count, err := s.Reviews.AverageForService(ctx, serviceID)
	if err != nil {
		return err
	}
	return s.Catalogue.UpdateRating(ctx, serviceID, utils.RoundTo(avg, 1), count)
}

func (s *DefaultReviewService) ListServiceReviews(ctx context.Context, serviceID string) ([]models.Review, error) {
	if serviceID == "" {
		return nil, utils.NewValidationError("serviceId is required")
	}
	reviews, err := s.Reviews.ListByService(ctx, serviceID)
	if err != nil {
		return nil, utils.NewInternalError("failed to list reviews", err)
	}
	return reviews, nil
}
