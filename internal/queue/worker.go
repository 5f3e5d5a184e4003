package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// Notifier delivers order confirmations to customers.
type Notifier interface {
	NotifyOrderConfirmed(ctx context.Context, p OrderConfirmationPayload) error
}

// LogNotifier writes confirmations to the log. Stands in for a mail or
// push provider in environments without one.
type LogNotifier struct {
	Logger zerolog.Logger
}

func (n LogNotifier) NotifyOrderConfirmed(_ context.Context, p OrderConfirmationPayload) error {
	n.Logger.Info().
		Str("order_id", p.OrderID).
		Str("user_id", p.UserID).
		Str("total", p.Total).
		Str("currency", p.Currency).
		Msg("order confirmed")
	return nil
}

// NewMux registers the task handlers for the worker process.
func NewMux(notifier Notifier) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskOrderConfirmation, func(ctx context.Context, task *asynq.Task) error {
		var payload OrderConfirmationPayload
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			return fmt.Errorf("decode %s payload: %w", TaskOrderConfirmation, err)
		}
		return notifier.NotifyOrderConfirmed(ctx, payload)
	})
	return mux
}
