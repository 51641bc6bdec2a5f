package order

import (
	"fmt"
	"strings"

	"github.com/shopfront/backend/internal/domain/shared"
)

// Status is the fulfilment stage of an order
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusConfirmed  Status = "CONFIRMED"
	StatusProcessing Status = "PROCESSING"
	StatusShipped    Status = "SHIPPED"
	StatusDelivered  Status = "DELIVERED"
	StatusCancelled  Status = "CANCELLED"
)

// progression lists the fulfilment stages in order. CANCELLED sits outside it.
var progression = []Status{
	StatusPending,
	StatusConfirmed,
	StatusProcessing,
	StatusShipped,
	StatusDelivered,
}

// AllStatuses returns every status, fulfilment stages first
func AllStatuses() []Status {
	return append(append([]Status{}, progression...), StatusCancelled)
}

// IsValid checks if the status is a known Status
func (s Status) IsValid() bool {
	return s == StatusCancelled || s.rank() >= 0
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// IsTerminal reports whether no further transition is possible
func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// CanTransitionTo reports whether the order may move from s to target.
// Progression is forward only but may skip stages. Any non-terminal
// status may be cancelled.
func (s Status) CanTransitionTo(target Status) bool {
	if s.IsTerminal() || !target.IsValid() || s == target {
		return false
	}
	if target == StatusCancelled {
		return true
	}
	return target.rank() > s.rank()
}

// rank returns the position in the fulfilment progression, -1 if absent
func (s Status) rank() int {
	for i, p := range progression {
		if p == s {
			return i
		}
	}
	return -1
}

// ParseStatus parses a case-insensitive status name
func ParseStatus(s string) (Status, error) {
	status := Status(strings.ToUpper(strings.TrimSpace(s)))
	if !status.IsValid() {
		return "", shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Unknown order status: %s", s))
	}
	return status, nil
}
