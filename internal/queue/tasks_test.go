package queue

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestNewOrderConfirmationTask(t *testing.T) {
	payload := OrderConfirmationPayload{
		OrderID:  "ord-1",
		UserID:   "user-1",
		Total:    "1005",
		Currency: "AED",
	}
	task, err := NewOrderConfirmationTask(payload)
	require.NoError(t, err)
	require.Equal(t, TaskOrderConfirmation, task.Type())

	var decoded OrderConfirmationPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &decoded))
	require.Equal(t, payload, decoded)
}

func TestLogNotifier(t *testing.T) {
	n := LogNotifier{Logger: zerolog.Nop()}
	err := n.NotifyOrderConfirmed(context.Background(), OrderConfirmationPayload{OrderID: "ord-1"})
	require.NoError(t, err)
}
