package reviews

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidInput is returned when the review payload is invalid.
var ErrInvalidInput = errors.New("invalid input")

// Service orchestrates review operations.
type Service struct {
	Store Store
	Now   func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Input is the payload for creating a review.
type Input struct {
	Rating  int      `json:"rating"`
	Title   string   `json:"title"`
	Comment string   `json:"comment"`
	Images  []string `json:"images"`
}

// AddReview stores a new review after checking the one-review-per-user
// rule. The rating must be between 1 and 5.
func (s *Service) AddReview(ctx context.Context, userID, productID string, in Input) (Review, error) {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(productID) == "" {
		return Review{}, fmt.Errorf("user and product are required: %w", ErrInvalidInput)
	}
	if in.Rating < 1 || in.Rating > 5 {
		return Review{}, fmt.Errorf("rating must be between 1 and 5: %w", ErrInvalidInput)
	}
	ok, err := s.CanUserReview(ctx, userID, productID)
	if err != nil {
		return Review{}, err
	}
	if !ok {
		return Review{}, ErrDuplicate
	}
	rev := Review{
		ID:        uuid.NewString(),
		ProductID: productID,
		UserID:    userID,
		Rating:    in.Rating,
		Title:     strings.TrimSpace(in.Title),
		Comment:   strings.TrimSpace(in.Comment),
		Images:    in.Images,
		CreatedAt: s.now(),
	}
	return s.Store.Insert(ctx, rev)
}

// ProductReviews lists reviews for a product in the requested order.
func (s *Service) ProductReviews(ctx context.Context, productID string, order SortOrder) ([]Review, error) {
	revs, err := s.Store.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return Sorted(revs, order), nil
}

// ProductRating aggregates the rating summary for a product.
func (s *Service) ProductRating(ctx context.Context, productID string) (RatingSummary, error) {
	revs, err := s.Store.ListByProduct(ctx, productID)
	if err != nil {
		return RatingSummary{}, err
	}
	ratings := make([]int, 0, len(revs))
	for _, r := range revs {
		ratings = append(ratings, r.Rating)
	}
	return Aggregate(ratings), nil
}

// MarkHelpful increments the helpful counter for a review.
func (s *Service) MarkHelpful(ctx context.Context, reviewID string) (Review, error) {
	if strings.TrimSpace(reviewID) == "" {
		return Review{}, fmt.Errorf("review id is required: %w", ErrInvalidInput)
	}
	return s.Store.IncrementHelpful(ctx, reviewID)
}

// CanUserReview reports whether the user has not yet reviewed the product.
func (s *Service) CanUserReview(ctx context.Context, userID, productID string) (bool, error) {
	exists, err := s.Store.HasUserReview(ctx, userID, productID)
	if err != nil {
		return false, err
	}
	return !exists, nil
}
