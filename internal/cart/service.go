package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/voltmart/backend-volt/internal/coupon"
	"github.com/voltmart/backend-volt/internal/lock"
	"github.com/voltmart/backend-volt/internal/pricing"
)

// ErrInvalidInput is returned when the provided payload is invalid.
var ErrInvalidInput = errors.New("invalid input")

// Service encapsulates cart domain operations. Every mutation runs under
// a per-cart Redis lock so concurrent writers cannot interleave their
// load-modify-save cycles.
type Service struct {
	Store   *Store
	Locker  *lock.Locker
	Coupons *coupon.Table
	Pricing pricing.Config
	LockTTL time.Duration
	Now     func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) lockTTL() time.Duration {
	if s.LockTTL <= 0 {
		return 10 * time.Second
	}
	return s.LockTTL
}

// Create provisions an empty cart and returns its snapshot.
func (s *Service) Create(ctx context.Context) (Snapshot, error) {
	now := s.now()
	snap := Snapshot{
		ID:        uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Store.Save(ctx, snap); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// Get loads a cart snapshot.
func (s *Service) Get(ctx context.Context, id string) (Snapshot, error) {
	if strings.TrimSpace(id) == "" {
		return Snapshot{}, ErrInvalidInput
	}
	return s.Store.Load(ctx, id)
}

// AddItem adds one unit of the product, merging into an existing line for
// the same product. New lines always start at quantity one.
func (s *Service) AddItem(ctx context.Context, id string, item pricing.LineItem) (Snapshot, error) {
	if strings.TrimSpace(item.ProductID) == "" {
		return Snapshot{}, fmt.Errorf("productId is required: %w", ErrInvalidInput)
	}
	if item.UnitPrice.IsNegative() {
		return Snapshot{}, fmt.Errorf("unitPrice must not be negative: %w", ErrInvalidInput)
	}
	if item.OriginalUnitPrice.Valid && item.OriginalUnitPrice.Decimal.IsNegative() {
		return Snapshot{}, fmt.Errorf("originalUnitPrice must not be negative: %w", ErrInvalidInput)
	}
	return s.mutate(ctx, id, func(c *pricing.Cart) error {
		c.AddItem(item)
		return nil
	})
}

// UpdateQuantity sets the quantity for a product line. Quantities below
// one remove the line.
func (s *Service) UpdateQuantity(ctx context.Context, id, productID string, qty int) (Snapshot, error) {
	if strings.TrimSpace(productID) == "" {
		return Snapshot{}, fmt.Errorf("productId is required: %w", ErrInvalidInput)
	}
	return s.mutate(ctx, id, func(c *pricing.Cart) error {
		c.UpdateQuantity(productID, qty)
		return nil
	})
}

// RemoveItem drops a product line. Removing an absent line is a no-op.
func (s *Service) RemoveItem(ctx context.Context, id, productID string) (Snapshot, error) {
	return s.mutate(ctx, id, func(c *pricing.Cart) error {
		c.RemoveItem(productID)
		return nil
	})
}

// Clear empties the cart and drops any applied coupon.
func (s *Service) Clear(ctx context.Context, id string) (Snapshot, error) {
	return s.mutate(ctx, id, func(c *pricing.Cart) error {
		c.Clear()
		return nil
	})
}

// ApplyCoupon resolves a coupon code against the cart's current subtotal
// and stores the resulting percentage. Applying a second coupon replaces
// the first. The stored percentage does not change when items change
// afterwards.
func (s *Service) ApplyCoupon(ctx context.Context, id, code string) (Snapshot, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return Snapshot{}, fmt.Errorf("coupon code is required: %w", ErrInvalidInput)
	}
	if s.Coupons == nil {
		return Snapshot{}, errors.New("cart: coupon table not configured")
	}
	return s.mutate(ctx, id, func(c *pricing.Cart) error {
		percent, err := s.Coupons.Resolve(code, c.Subtotal())
		if err != nil {
			return err
		}
		c.ApplyCoupon(strings.ToUpper(code), percent)
		return nil
	})
}

// RemoveCoupon detaches the applied coupon, leaving items untouched.
func (s *Service) RemoveCoupon(ctx context.Context, id string) (Snapshot, error) {
	return s.mutate(ctx, id, func(c *pricing.Cart) error {
		c.RemoveCoupon()
		return nil
	})
}

func (s *Service) mutate(ctx context.Context, id string, fn func(*pricing.Cart) error) (Snapshot, error) {
	if strings.TrimSpace(id) == "" {
		return Snapshot{}, ErrInvalidInput
	}
	var out Snapshot
	err := s.Locker.WithLock(ctx, "lock:cart:"+id, s.lockTTL(), func(ctx context.Context) error {
		snap, err := s.Store.Load(ctx, id)
		if err != nil {
			return err
		}
		if err := fn(&snap.Cart); err != nil {
			return err
		}
		snap.UpdatedAt = s.now()
		if err := s.Store.Save(ctx, snap); err != nil {
			return err
		}
		out = snap
		return nil
	})
	if err != nil {
		return Snapshot{}, err
	}
	return out, nil
}
