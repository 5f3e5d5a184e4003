package cart

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/voltmart/backend-volt/internal/pricing"
)

// ErrNotFound indicates the requested cart does not exist or has expired.
var ErrNotFound = errors.New("cart not found")

// Snapshot is the persisted form of a cart. The whole document is stored
// as a single JSON value so reads and writes stay atomic per cart.
type Snapshot struct {
	ID        string       `json:"id"`
	Cart      pricing.Cart `json:"cart"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// Store persists cart snapshots in Redis with a sliding TTL.
type Store struct {
	R   *redis.Client
	TTL time.Duration
}

func (s *Store) ttl() time.Duration {
	if s.TTL <= 0 {
		return 7 * 24 * time.Hour
	}
	return s.TTL
}

func cartKey(id string) string { return "cart:" + id }

// Save writes the snapshot and refreshes its expiry.
func (s *Store) Save(ctx context.Context, snap Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return s.R.Set(ctx, cartKey(snap.ID), data, s.ttl()).Err()
}

// Load fetches a snapshot and touches its expiry so active carts stay alive.
func (s *Store) Load(ctx context.Context, id string) (Snapshot, error) {
	data, err := s.R.Get(ctx, cartKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Snapshot{}, ErrNotFound
		}
		return Snapshot{}, err
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, err
	}
	_ = s.R.Expire(ctx, cartKey(id), s.ttl()).Err()
	return snap, nil
}

// Delete removes the snapshot. Deleting a missing cart is not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	return s.R.Del(ctx, cartKey(id)).Err()
}
