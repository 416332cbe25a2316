package model

import "time"

// Vehicle is a fleet unit. Disabled vehicles (active=false) are kept for
// booking history but never offered for new windows.
type Vehicle struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name      string    `json:"name" bson:"name" validate:"required,min=2,max=80"`
	Active    bool      `json:"active" bson:"active"`
	CreatedAt time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

type VehicleUpdate struct {
	Name   string `json:"name,omitempty" validate:"omitempty,min=2,max=80"`
	Active *bool  `json:"active,omitempty"`
}
