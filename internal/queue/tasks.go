package queue

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

// TaskOrderConfirmation is the task type for post-checkout confirmations.
const TaskOrderConfirmation = "order:confirmation"

// OrderConfirmationPayload is the task payload queued when checkout
// accepts an order.
type OrderConfirmationPayload struct {
	OrderID  string `json:"orderId"`
	UserID   string `json:"userId"`
	Total    string `json:"total"`
	Currency string `json:"currency"`
}

// NewOrderConfirmationTask serialises the payload into an asynq task.
func NewOrderConfirmationTask(p OrderConfirmationPayload) (*asynq.Task, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderConfirmation, data,
		asynq.MaxRetry(5),
		asynq.Timeout(30*time.Second),
	), nil
}
