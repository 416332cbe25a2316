package model

import "time"

// FleetLock is an advisory lock serializing the read-check-write section of
// booking creation for a single vehicle across processes. Locks self-expire
// via a TTL index on expires_at.
type FleetLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
