package model

import "time"

// Status is the approval axis of a booking (persisted as a string).
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusDenied   Status = "denied"
)

// Booking reserves one vehicle for one requesting user over a half-open
// window [start_time, end_time). The collected/returned flags are only
// meaningful while the status is approved.
type Booking struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	VehicleID string    `json:"vehicle_id" bson:"vehicle_id" validate:"required,mongodb"`
	Username  string    `json:"username" bson:"username" validate:"required,min=3,max=50"`
	StartTime time.Time `json:"start_time" bson:"start_time" validate:"required"`
	EndTime   time.Time `json:"end_time" bson:"end_time" validate:"required,gtfield=StartTime"`
	Status    Status    `json:"status" bson:"status" validate:"required,oneof=pending approved denied"`
	Collected bool      `json:"collected" bson:"collected"`
	Returned  bool      `json:"returned" bson:"returned"`

	DecidedAt   *time.Time `json:"decided_at,omitempty" bson:"decided_at,omitempty"`
	CollectedAt *time.Time `json:"collected_at,omitempty" bson:"collected_at,omitempty"`
	ReturnedAt  *time.Time `json:"returned_at,omitempty" bson:"returned_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// BookingRequest is the creation payload. The window always travels with
// the request; the server never trusts previously selected state.
type BookingRequest struct {
	VehicleID string    `json:"vehicle_id" validate:"required,mongodb"`
	StartTime time.Time `json:"start_time" validate:"required"`
	EndTime   time.Time `json:"end_time" validate:"required,gtfield=StartTime"`
}

// Decision is an admin's verdict on a pending booking.
type Decision string

const (
	DecisionApprove Decision = "approved"
	DecisionDeny    Decision = "denied"
)

type DecisionRequest struct {
	Decision Decision `json:"decision" validate:"required,oneof=approved denied"`
}
