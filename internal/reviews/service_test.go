package reviews

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	reviews []Review
}

func (f *fakeStore) Insert(_ context.Context, rev Review) (Review, error) {
	for _, existing := range f.reviews {
		if existing.UserID == rev.UserID && existing.ProductID == rev.ProductID {
			return Review{}, ErrDuplicate
		}
	}
	f.reviews = append(f.reviews, rev)
	return rev, nil
}

func (f *fakeStore) ListByProduct(_ context.Context, productID string) ([]Review, error) {
	out := make([]Review, 0)
	for _, r := range f.reviews {
		if r.ProductID == productID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeStore) HasUserReview(_ context.Context, userID, productID string) (bool, error) {
	for _, r := range f.reviews {
		if r.UserID == userID && r.ProductID == productID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) IncrementHelpful(_ context.Context, reviewID string) (Review, error) {
	for i := range f.reviews {
		if f.reviews[i].ID == reviewID {
			f.reviews[i].HelpfulCount++
			return f.reviews[i], nil
		}
	}
	return Review{}, ErrReviewNotFound
}

func newService(store *fakeStore) *Service {
	return &Service{Store: store, Now: func() time.Time {
		return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	}}
}

func TestAddReviewAndSummary(t *testing.T) {
	store := &fakeStore{}
	svc := newService(store)
	ctx := context.Background()

	ratings := []struct {
		user   string
		rating int
	}{
		{"u1", 5}, {"u2", 5}, {"u3", 4}, {"u4", 3}, {"u5", 5},
	}
	for _, r := range ratings {
		_, err := svc.AddReview(ctx, r.user, "p1", Input{Rating: r.rating})
		require.NoError(t, err)
	}

	summary, err := svc.ProductRating(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, 5, summary.TotalReviews)
	require.Equal(t, 4.4, summary.AverageRating)
	require.Equal(t, 3, summary.Distribution[5])
	require.Equal(t, 1, summary.Distribution[4])
	require.Equal(t, 1, summary.Distribution[3])
	require.Equal(t, 0, summary.Distribution[2])
	require.Equal(t, 0, summary.Distribution[1])
}

func TestAddReviewOncePerUser(t *testing.T) {
	store := &fakeStore{}
	svc := newService(store)
	ctx := context.Background()

	_, err := svc.AddReview(ctx, "u1", "p1", Input{Rating: 4})
	require.NoError(t, err)

	can, err := svc.CanUserReview(ctx, "u1", "p1")
	require.NoError(t, err)
	require.False(t, can)

	_, err = svc.AddReview(ctx, "u1", "p1", Input{Rating: 5})
	require.ErrorIs(t, err, ErrDuplicate)

	can, err = svc.CanUserReview(ctx, "u1", "p2")
	require.NoError(t, err)
	require.True(t, can)
}

func TestAddReviewValidatesRating(t *testing.T) {
	svc := newService(&fakeStore{})
	ctx := context.Background()

	_, err := svc.AddReview(ctx, "u1", "p1", Input{Rating: 0})
	require.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.AddReview(ctx, "u1", "p1", Input{Rating: 6})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestMarkHelpful(t *testing.T) {
	store := &fakeStore{}
	svc := newService(store)
	ctx := context.Background()

	rev, err := svc.AddReview(ctx, "u1", "p1", Input{Rating: 5, Comment: "great"})
	require.NoError(t, err)

	updated, err := svc.MarkHelpful(ctx, rev.ID)
	require.NoError(t, err)
	require.Equal(t, 1, updated.HelpfulCount)

	updated, err = svc.MarkHelpful(ctx, rev.ID)
	require.NoError(t, err)
	require.Equal(t, 2, updated.HelpfulCount)

	_, err = svc.MarkHelpful(ctx, "missing")
	require.ErrorIs(t, err, ErrReviewNotFound)
}

func TestProductReviewsSorted(t *testing.T) {
	store := &fakeStore{}
	svc := &Service{Store: store}
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	for i, rating := range []int{3, 5, 1} {
		ts := base.Add(time.Duration(i) * time.Hour)
		svc.Now = func() time.Time { return ts }
		_, err := svc.AddReview(ctx, string(rune('a'+i)), "p1", Input{Rating: rating})
		require.NoError(t, err)
	}

	highest, err := svc.ProductReviews(ctx, "p1", SortHighest)
	require.NoError(t, err)
	require.Equal(t, 5, highest[0].Rating)

	newest, err := svc.ProductReviews(ctx, "p1", SortNewest)
	require.NoError(t, err)
	require.Equal(t, 1, newest[0].Rating)
}
