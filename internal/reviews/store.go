package reviews

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrDuplicate indicates the user already reviewed this product.
var ErrDuplicate = errors.New("review already exists")

// ErrReviewNotFound indicates the review id does not exist.
var ErrReviewNotFound = errors.New("review not found")

// Store persists reviews.
type Store interface {
	Insert(ctx context.Context, rev Review) (Review, error)
	ListByProduct(ctx context.Context, productID string) ([]Review, error)
	HasUserReview(ctx context.Context, userID, productID string) (bool, error)
	IncrementHelpful(ctx context.Context, reviewID string) (Review, error)
}

// PGStore backs the review store with Postgres.
type PGStore struct {
	Pool *pgxpool.Pool
}

func (s *PGStore) Insert(ctx context.Context, rev Review) (Review, error) {
	row := s.Pool.QueryRow(ctx, `
		INSERT INTO reviews (id, product_id, user_id, rating, title, comment, images)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, product_id, user_id, rating, title, comment, images, helpful_count, created_at`,
		rev.ID, rev.ProductID, rev.UserID, rev.Rating, rev.Title, rev.Comment, rev.Images,
	)
	out, err := scanReview(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Review{}, ErrDuplicate
		}
		return Review{}, err
	}
	return out, nil
}

func (s *PGStore) ListByProduct(ctx context.Context, productID string) ([]Review, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT id, product_id, user_id, rating, title, comment, images, helpful_count, created_at
		FROM reviews
		WHERE product_id = $1
		ORDER BY created_at DESC`,
		productID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Review, 0)
	for rows.Next() {
		rev, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rev)
	}
	return out, rows.Err()
}

func (s *PGStore) HasUserReview(ctx context.Context, userID, productID string) (bool, error) {
	var exists bool
	err := s.Pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM reviews WHERE user_id = $1 AND product_id = $2)`,
		userID, productID,
	).Scan(&exists)
	return exists, err
}

func (s *PGStore) IncrementHelpful(ctx context.Context, reviewID string) (Review, error) {
	row := s.Pool.QueryRow(ctx, `
		UPDATE reviews
		SET helpful_count = helpful_count + 1
		WHERE id = $1
		RETURNING id, product_id, user_id, rating, title, comment, images, helpful_count, created_at`,
		reviewID,
	)
	out, err := scanReview(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Review{}, ErrReviewNotFound
		}
		return Review{}, err
	}
	return out, nil
}

func scanReview(row pgx.Row) (Review, error) {
	var rev Review
	err := row.Scan(
		&rev.ID, &rev.ProductID, &rev.UserID, &rev.Rating,
		&rev.Title, &rev.Comment, &rev.Images, &rev.HelpfulCount, &rev.CreatedAt,
	)
	return rev, err
}
