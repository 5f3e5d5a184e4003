package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/voltmart/backend-volt/internal/payment"
	"github.com/voltmart/backend-volt/internal/pricing"
)

// ErrOrderNotFound indicates the order id does not exist.
var ErrOrderNotFound = errors.New("order not found")

// Order is the immutable record produced by a successful checkout. The
// pricing summary is captured at order time so later catalogue or
// coupon changes cannot alter it.
type Order struct {
	ID        string             `json:"id"`
	UserID    string             `json:"userId"`
	CartID    string             `json:"cartId"`
	Items     []pricing.LineItem `json:"items"`
	Summary   pricing.Summary    `json:"summary"`
	Currency  string             `json:"currency"`
	Payment   payment.Method     `json:"paymentMethod"`
	CreatedAt time.Time          `json:"createdAt"`
}

// OrderStore persists order snapshots in Redis.
type OrderStore struct {
	R   *redis.Client
	TTL time.Duration
}

func (s *OrderStore) ttl() time.Duration {
	if s.TTL <= 0 {
		return 30 * 24 * time.Hour
	}
	return s.TTL
}

func orderKey(id string) string { return "order:" + id }

func (s *OrderStore) Save(ctx context.Context, o Order) error {
	data, err := json.Marshal(o)
	if err != nil {
		return err
	}
	return s.R.Set(ctx, orderKey(o.ID), data, s.ttl()).Err()
}

func (s *OrderStore) Get(ctx context.Context, id string) (Order, error) {
	data, err := s.R.Get(ctx, orderKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Order{}, ErrOrderNotFound
		}
		return Order{}, err
	}
	var o Order
	if err := json.Unmarshal(data, &o); err != nil {
		return Order{}, err
	}
	return o, nil
}
