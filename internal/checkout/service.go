package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	validator "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/voltmart/backend-volt/internal/cart"
	"github.com/voltmart/backend-volt/internal/payment"
	"github.com/voltmart/backend-volt/internal/queue"
)

// ErrEmptyCart rejects checkout attempts on carts without items.
var ErrEmptyCart = errors.New("cart is empty")

// ErrInvalidInput is returned for malformed checkout payloads.
var ErrInvalidInput = errors.New("invalid input")

// Input is the checkout request payload.
type Input struct {
	CartID  string          `json:"cartId" validate:"required"`
	Payment payment.Details `json:"payment"`
}

// Service turns carts into orders.
type Service struct {
	Carts    *cart.Service
	Orders   *OrderStore
	Queue    queue.Enqueuer
	Validate *validator.Validate
	Logger   zerolog.Logger
	Currency string
	Now      func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// PlaceOrder validates payment details, freezes the cart's pricing
// summary into an order, clears the cart and queues a confirmation.
// The order total always equals the total the cart showed last.
func (s *Service) PlaceOrder(ctx context.Context, userID string, in Input) (Order, error) {
	if s.Validate != nil {
		if err := s.Validate.Struct(in); err != nil {
			return Order{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	}
	if err := payment.Validate(in.Payment); err != nil {
		return Order{}, err
	}

	snap, err := s.Carts.Get(ctx, in.CartID)
	if err != nil {
		return Order{}, err
	}
	if len(snap.Cart.Items) == 0 {
		return Order{}, ErrEmptyCart
	}

	order := Order{
		ID:        uuid.NewString(),
		UserID:    userID,
		CartID:    snap.ID,
		Items:     snap.Cart.Items,
		Summary:   snap.Cart.Summarize(s.Carts.Pricing),
		Currency:  s.Currency,
		Payment:   in.Payment.Method,
		CreatedAt: s.now(),
	}
	if err := s.Orders.Save(ctx, order); err != nil {
		return Order{}, err
	}
	if _, err := s.Carts.Clear(ctx, snap.ID); err != nil {
		s.Logger.Warn().Err(err).Str("cart_id", snap.ID).Msg("clear cart after checkout")
	}

	if s.Queue != nil {
		payload := queue.OrderConfirmationPayload{
			OrderID:  order.ID,
			UserID:   order.UserID,
			Total:    order.Summary.Total.String(),
			Currency: order.Currency,
		}
		if err := s.Queue.EnqueueOrderConfirmation(ctx, payload); err != nil {
			s.Logger.Warn().Err(err).Str("order_id", order.ID).Msg("enqueue order confirmation")
		}
	}
	return order, nil
}

// GetOrder loads an order owned by the given user.
func (s *Service) GetOrder(ctx context.Context, userID, orderID string) (Order, error) {
	order, err := s.Orders.Get(ctx, orderID)
	if err != nil {
		return Order{}, err
	}
	if order.UserID != userID {
		return Order{}, ErrOrderNotFound
	}
	return order, nil
}
