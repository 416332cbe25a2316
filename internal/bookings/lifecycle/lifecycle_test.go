package lifecycle

import (
	"errors"
	"testing"
	"time"

	bookingserrors "fleetbook/internal/bookings/errors"
	"fleetbook/pkg/model"
)

func TestDecide(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name     string
		booking  *model.Booking
		decision model.Decision
		wantErr  error
		want     model.Status
	}{
		{
			name:     "approve pending",
			booking:  &model.Booking{Status: model.StatusPending},
			decision: model.DecisionApprove,
			want:     model.StatusApproved,
		},
		{
			name:     "deny pending",
			booking:  &model.Booking{Status: model.StatusPending},
			decision: model.DecisionDeny,
			want:     model.StatusDenied,
		},
		{
			name:     "re-approving an approved booking fails",
			booking:  &model.Booking{Status: model.StatusApproved},
			decision: model.DecisionApprove,
			wantErr:  bookingserrors.ErrAlreadyDecided,
		},
		{
			name:     "deciding a denied booking fails",
			booking:  &model.Booking{Status: model.StatusDenied},
			decision: model.DecisionApprove,
			wantErr:  bookingserrors.ErrAlreadyDecided,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Decide(tt.booking, tt.decision, now)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Decide() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Decide(): %v", err)
			}
			if tt.booking.Status != tt.want {
				t.Errorf("status = %s, want %s", tt.booking.Status, tt.want)
			}
			if tt.booking.DecidedAt == nil {
				t.Errorf("expected decided_at to be stamped")
			}
		})
	}
}

func TestDecideUnknownDecision(t *testing.T) {
	b := &model.Booking{Status: model.StatusPending}
	if err := Decide(b, model.Decision("maybe"), time.Now()); err == nil {
		t.Fatalf("expected unknown decision to fail")
	}
	if b.Status != model.StatusPending {
		t.Errorf("status should not change on failed decision, got %s", b.Status)
	}
}

func TestMarkCollected(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name    string
		booking *model.Booking
		wantErr bool
	}{
		{
			name:    "approved and not collected",
			booking: &model.Booking{Status: model.StatusApproved},
		},
		{
			name:    "pending booking cannot be collected",
			booking: &model.Booking{Status: model.StatusPending},
			wantErr: true,
		},
		{
			name:    "denied booking cannot be collected",
			booking: &model.Booking{Status: model.StatusDenied},
			wantErr: true,
		},
		{
			name:    "already collected",
			booking: &model.Booking{Status: model.StatusApproved, Collected: true},
			wantErr: true,
		},
		{
			name:    "returned booking is immutable",
			booking: &model.Booking{Status: model.StatusApproved, Collected: true, Returned: true},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := MarkCollected(tt.booking, now)
			if tt.wantErr {
				if !errors.Is(err, bookingserrors.ErrInvalidTransition) {
					t.Fatalf("MarkCollected() error = %v, want ErrInvalidTransition", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("MarkCollected(): %v", err)
			}
			if !tt.booking.Collected || tt.booking.CollectedAt == nil {
				t.Errorf("expected collected flag and timestamp to be set")
			}
		})
	}
}

func TestMarkReturned(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name    string
		booking *model.Booking
		wantErr bool
	}{
		{
			name:    "collected booking returns",
			booking: &model.Booking{Status: model.StatusApproved, Collected: true},
		},
		{
			name:    "return before collection fails",
			booking: &model.Booking{Status: model.StatusApproved},
			wantErr: true,
		},
		{
			name:    "pending booking cannot be returned",
			booking: &model.Booking{Status: model.StatusPending},
			wantErr: true,
		},
		{
			name:    "already returned",
			booking: &model.Booking{Status: model.StatusApproved, Collected: true, Returned: true},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := MarkReturned(tt.booking, now)
			if tt.wantErr {
				if !errors.Is(err, bookingserrors.ErrInvalidTransition) {
					t.Fatalf("MarkReturned() error = %v, want ErrInvalidTransition", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("MarkReturned(): %v", err)
			}
			if !tt.booking.Returned || tt.booking.ReturnedAt == nil {
				t.Errorf("expected returned flag and timestamp to be set")
			}
		})
	}
}

func TestFullLifecycle(t *testing.T) {
	now := time.Now()
	b := &model.Booking{Status: model.StatusPending}

	if err := Decide(b, model.DecisionApprove, now); err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if err := MarkCollected(b, now); err != nil {
		t.Fatalf("MarkCollected: %v", err)
	}
	if err := MarkReturned(b, now); err != nil {
		t.Fatalf("MarkReturned: %v", err)
	}

	// History is immutable.
	if err := Decide(b, model.DecisionDeny, now); !errors.Is(err, bookingserrors.ErrAlreadyDecided) {
		t.Errorf("expected decision on returned booking to fail with ErrAlreadyDecided, got %v", err)
	}
	if err := MarkCollected(b, now); !errors.Is(err, bookingserrors.ErrInvalidTransition) {
		t.Errorf("expected collect on returned booking to fail, got %v", err)
	}
	if err := MarkReturned(b, now); !errors.Is(err, bookingserrors.ErrInvalidTransition) {
		t.Errorf("expected second return to fail, got %v", err)
	}
}
