// Package order defines the order status lifecycle shared by the dashboard,
// the sidebar badge and the status update endpoint.
package order

import (
	"errors"
	"fmt"
	"strings"
)

// Status is the closed set of order states
type Status string

const (
	StatusNew       Status = "new"
	StatusConfirmed Status = "confirmed"
	StatusPacked    Status = "packed"
	StatusReady     Status = "ready"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

var (
	ErrUnknownStatus     = errors.New("unknown order status")
	ErrInvalidTransition = errors.New("invalid order status transition")
)

// fulfilment order of the non-cancelled states
var rank = map[Status]int{
	StatusNew:       0,
	StatusConfirmed: 1,
	StatusPacked:    2,
	StatusReady:     3,
	StatusDelivered: 4,
}

// Statuses lists every status in display order
func Statuses() []Status {
	return []Status{StatusNew, StatusConfirmed, StatusPacked, StatusReady, StatusDelivered, StatusCancelled}
}

// ParseStatus converts user input into a Status
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
	}
	return st, nil
}

// Valid reports whether s is one of the known statuses
func (s Status) Valid() bool {
	if s == StatusCancelled {
		return true
	}
	_, ok := rank[s]
	return ok
}

// IsTerminal reports whether no further transitions are expected
func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// IsPending is the one definition of a pending order: accepted work the
// merchant still has to prepare before handing it off.
func (s Status) IsPending() bool {
	switch s {
	case StatusNew, StatusConfirmed, StatusPacked:
		return true
	}
	return false
}

// PendingStatuses returns the statuses matched by IsPending
func PendingStatuses() []Status {
	return []Status{StatusNew, StatusConfirmed, StatusPacked}
}

// Policy decides which status changes a merchant may trigger
type Policy struct {
	strict bool
}

// StrictPolicy allows forward moves (skips included) and cancellation of any
// non-terminal order
func StrictPolicy() Policy { return Policy{strict: true} }

// PermissivePolicy allows any status to be set to any other status
func PermissivePolicy() Policy { return Policy{} }

// NewPolicy picks the strict or permissive policy
func NewPolicy(strict bool) Policy { return Policy{strict: strict} }

// Strict reports whether the policy guards transitions
func (p Policy) Strict() bool { return p.strict }

// CanTransition returns ErrInvalidTransition when from -> to is not allowed
func (p Policy) CanTransition(from, to Status) error {
	if !to.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, to)
	}
	if !p.strict {
		return nil
	}

	switch {
	case from == to:
		return fmt.Errorf("%w: order is already %s", ErrInvalidTransition, from)
	case from.IsTerminal():
		return fmt.Errorf("%w: order is already %s", ErrInvalidTransition, from)
	case to == StatusCancelled:
		return nil
	case rank[to] < rank[from]:
		return fmt.Errorf("%w: cannot move from %s back to %s", ErrInvalidTransition, from, to)
	}
	return nil
}

// NextStatuses lists the statuses reachable from s under p
func (p Policy) NextStatuses(s Status) []Status {
	var next []Status
	for _, candidate := range Statuses() {
		if p.CanTransition(s, candidate) == nil && candidate != s {
			next = append(next, candidate)
		}
	}
	return next
}
