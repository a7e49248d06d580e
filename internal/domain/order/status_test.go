package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		from    Status
		to      Status
		allowed bool
	}{
		{StatusPending, StatusAwaitingShipment, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusAwaitingReceipt, false},
		{StatusPending, StatusCompleted, false},
		{StatusAwaitingShipment, StatusAwaitingReceipt, true},
		{StatusAwaitingShipment, StatusCancelled, false},
		{StatusAwaitingShipment, StatusPending, false},
		{StatusAwaitingReceipt, StatusCompleted, true},
		{StatusAwaitingReceipt, StatusCancelled, false},
		{StatusCompleted, StatusPending, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCancelled, StatusPending, false},
		{StatusCancelled, StatusAwaitingShipment, false},
		{StatusPending, StatusPending, false},
	}

	for _, tt := range tests {
		t.Run(tt.from.String()+"->"+tt.to.String(), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestParseStatus(t *testing.T) {
	for _, valid := range []int{-1, 0, 1, 2, 3} {
		s, err := ParseStatus(valid)
		require.NoError(t, err)
		assert.Equal(t, Status(valid), s)
	}

	for _, invalid := range []int{-2, 4, 100} {
		_, err := ParseStatus(invalid)
		assert.Error(t, err, "status %d", invalid)
	}
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "pending", StatusPending.String())
	assert.Equal(t, "awaiting_shipment", StatusAwaitingShipment.String())
	assert.Equal(t, "awaiting_receipt", StatusAwaitingReceipt.String())
	assert.Equal(t, "completed", StatusCompleted.String())
	assert.Equal(t, "cancelled", StatusCancelled.String())
}
