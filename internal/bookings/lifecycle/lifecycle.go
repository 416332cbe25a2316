// Package lifecycle implements the booking state machine. The approval
// axis moves pending -> approved|denied exactly once; under approved, the
// collected and returned flags each flip to true at most once, in that
// order. A returned booking is immutable.
package lifecycle

import (
	"fmt"
	"time"

	bookingserrors "fleetbook/internal/bookings/errors"
	"fleetbook/pkg/model"
)

// Decide applies an admin verdict to a pending booking and stamps the
// decision time. Any decision on a non-pending booking fails, including
// repeating the decision already taken.
func Decide(b *model.Booking, decision model.Decision, now time.Time) error {
	if b == nil {
		return fmt.Errorf("booking is nil")
	}
	if b.Status != model.StatusPending {
		return bookingserrors.ErrAlreadyDecided
	}

	switch decision {
	case model.DecisionApprove:
		b.Status = model.StatusApproved
	case model.DecisionDeny:
		b.Status = model.StatusDenied
	default:
		return fmt.Errorf("unknown decision: %s", decision)
	}

	t := now
	b.DecidedAt = &t
	return nil
}

// MarkCollected records vehicle pickup. Requires an approved booking that
// has not been collected yet.
func MarkCollected(b *model.Booking, now time.Time) error {
	if b == nil {
		return fmt.Errorf("booking is nil")
	}
	if b.Status != model.StatusApproved || b.Returned || b.Collected {
		return bookingserrors.ErrInvalidTransition
	}

	b.Collected = true
	t := now
	b.CollectedAt = &t
	return nil
}

// MarkReturned records vehicle return. Requires a collected booking; once
// applied the booking belongs to history and no further transition is
// permitted.
func MarkReturned(b *model.Booking, now time.Time) error {
	if b == nil {
		return fmt.Errorf("booking is nil")
	}
	if b.Status != model.StatusApproved || !b.Collected || b.Returned {
		return bookingserrors.ErrInvalidTransition
	}

	b.Returned = true
	t := now
	b.ReturnedAt = &t
	return nil
}
