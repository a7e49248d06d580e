package order

import "fmt"

// Status is the order lifecycle state, stored as a small integer. The values
// match what the SPA already displays, cancelled included.
type Status int8

const (
	StatusCancelled        Status = -1
	StatusPending          Status = 0
	StatusAwaitingShipment Status = 1
	StatusAwaitingReceipt  Status = 2
	StatusCompleted        Status = 3
)

// transitions is the full edge set of the lifecycle. Completed and cancelled
// are terminal; cancelled is reachable only from pending, so a cancelled
// order can never resurface in the active pipeline.
var transitions = map[Status][]Status{
	StatusPending:          {StatusAwaitingShipment, StatusCancelled},
	StatusAwaitingShipment: {StatusAwaitingReceipt},
	StatusAwaitingReceipt:  {StatusCompleted},
}

// ParseStatus validates a raw integer from the wire.
func ParseStatus(v int) (Status, error) {
	s := Status(v)
	switch s {
	case StatusCancelled, StatusPending, StatusAwaitingShipment,
		StatusAwaitingReceipt, StatusCompleted:
		return s, nil
	}
	return 0, fmt.Errorf("unknown order status %d", v)
}

// CanTransitionTo reports whether next is a legal transition from s.
func (s Status) CanTransitionTo(next Status) bool {
	for _, t := range transitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

func (s Status) String() string {
	switch s {
	case StatusCancelled:
		return "cancelled"
	case StatusPending:
		return "pending"
	case StatusAwaitingShipment:
		return "awaiting_shipment"
	case StatusAwaitingReceipt:
		return "awaiting_receipt"
	case StatusCompleted:
		return "completed"
	}
	return fmt.Sprintf("status(%d)", int8(s))
}

// InvalidTransitionError indicates a requested transition outside the edge set.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot transition order from %s to %s", e.From, e.To)
}
