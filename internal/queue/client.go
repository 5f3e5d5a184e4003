package queue

import (
	"context"

	"github.com/hibiken/asynq"
)

// Enqueuer is the subset of queue operations checkout depends on.
type Enqueuer interface {
	EnqueueOrderConfirmation(ctx context.Context, p OrderConfirmationPayload) error
}

// Client enqueues background tasks through asynq.
type Client struct {
	A *asynq.Client
}

// NewClient builds a queue client from a Redis connection string.
func NewClient(redisURL string) (*Client, error) {
	opt, err := asynq.ParseRedisURI(redisURL)
	if err != nil {
		return nil, err
	}
	return &Client{A: asynq.NewClient(opt)}, nil
}

// EnqueueOrderConfirmation queues an order confirmation for delivery.
func (c *Client) EnqueueOrderConfirmation(ctx context.Context, p OrderConfirmationPayload) error {
	task, err := NewOrderConfirmationTask(p)
	if err != nil {
		return err
	}
	_, err = c.A.EnqueueContext(ctx, task)
	return err
}

// Close releases the underlying asynq client.
func (c *Client) Close() error {
	return c.A.Close()
}
