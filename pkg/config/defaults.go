package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "fleetbook"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort = "8080"

	DefaultJWTSecret = "fleetbook-dev-secret"
	DefaultTokenTTL  = 12 * time.Hour

	DefaultRateLimitRequests = 30
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	// Grace period for booking windows that start slightly in the past,
	// tolerating clock drift and form submission latency.
	DefaultPastStartSkew = 5 * time.Minute

	// Advisory vehicle locks self-expire so a crashed request cannot
	// wedge a vehicle.
	DefaultLockTTL = 10 * time.Second

	DefaultPaginationLimit = 100

	// Seed admin for fresh databases. An empty password skips seeding.
	DefaultAdminUsername = "admin"
	DefaultAdminPassword = ""

	DefaultLogLevel = "info"
)
