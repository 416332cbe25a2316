// Package mongo prepares the database for the fleet service: collections
// with document validators, the indexes the booking queries rely on, and
// an optional seed admin. Running it repeatedly is safe.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"fleetbook/internal/migrations/mongo/validators"
	"fleetbook/pkg/auth"
	"fleetbook/pkg/config"
	"fleetbook/pkg/model"
)

const (
	vehiclesCollection  = "Vehicles"
	bookingsCollection  = "Bookings"
	usersCollection     = "Users"
	fleetLockCollection = "Fleet_locks"
)

type Migrator struct {
	cfg *config.Config
	db  *mongo.Database
}

func NewMigrator(cfg *config.Config) *Migrator {
	return &Migrator{
		cfg: cfg,
		db:  cfg.Client.Mongo.Database(cfg.MongoDatabaseName),
	}
}

func (m *Migrator) Run(ctx context.Context) error {
	steps := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"create collections", m.createCollections},
		{"create indexes", m.createIndexes},
		{"seed admin", m.seedAdmin},
	}

	for _, step := range steps {
		start := time.Now()
		if err := step.fn(ctx); err != nil {
			return fmt.Errorf("migration step %q failed: %w", step.name, err)
		}
		m.cfg.Log.Info("Migration step completed", "step", step.name, "duration", time.Since(start))
	}

	return nil
}

func (m *Migrator) createCollections(ctx context.Context) error {
	schemas := map[string]bson.M{
		vehiclesCollection:  validators.VehicleSchema(),
		bookingsCollection:  validators.BookingSchema(),
		usersCollection:     validators.UserSchema(),
		fleetLockCollection: nil,
	}

	for name, schema := range schemas {
		opts := options.CreateCollection()
		if schema != nil {
			opts = opts.SetValidator(schema).SetValidationLevel("strict")
		}

		err := m.db.CreateCollection(ctx, name, opts)
		if err != nil {
			var cmdErr mongo.CommandError
			if errors.As(err, &cmdErr) && cmdErr.HasErrorCodeWithMessage(48, "already exists") {
				if schema != nil {
					// Re-apply the validator so schema changes reach
					// existing deployments.
					if err := m.db.RunCommand(ctx, bson.D{
						{Key: "collMod", Value: name},
						{Key: "validator", Value: schema},
						{Key: "validationLevel", Value: "strict"},
					}).Err(); err != nil {
						return fmt.Errorf("failed to update validator for %s: %w", name, err)
					}
				}
				continue
			}
			return fmt.Errorf("failed to create collection %s: %w", name, err)
		}
	}

	return nil
}

func (m *Migrator) createIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		bookingsCollection: {
			{
				// Serves the per-vehicle conflict query on the hot path.
				Keys: bson.D{
					{Key: "vehicle_id", Value: 1},
					{Key: "start_time", Value: 1},
					{Key: "end_time", Value: 1},
				},
				Options: options.Index().SetName("vehicle_window"),
			},
			{
				Keys: bson.D{
					{Key: "status", Value: 1},
					{Key: "returned", Value: 1},
				},
				Options: options.Index().SetName("status_returned"),
			},
			{
				Keys:    bson.D{{Key: "username", Value: 1}},
				Options: options.Index().SetName("username"),
			},
		},
		vehiclesCollection: {
			{
				Keys:    bson.D{{Key: "name", Value: 1}},
				Options: options.Index().SetName("name_unique").SetUnique(true),
			},
		},
		usersCollection: {
			{
				Keys:    bson.D{{Key: "username", Value: 1}},
				Options: options.Index().SetName("username_unique").SetUnique(true),
			},
		},
		fleetLockCollection: {
			{
				Keys:    bson.D{{Key: "expires_at", Value: 1}},
				Options: options.Index().SetName("expires_at_ttl").SetExpireAfterSeconds(0),
			},
		},
	}

	for collection, models := range indexes {
		if _, err := m.db.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes for %s: %w", collection, err)
		}
	}

	return nil
}

func (m *Migrator) seedAdmin(ctx context.Context) error {
	if m.cfg.AdminPassword == "" {
		m.cfg.Log.Info("Admin seed skipped, no admin password configured")
		return nil
	}

	users := m.db.Collection(usersCollection)
	count, err := users.CountDocuments(ctx, bson.M{"username": m.cfg.AdminUsername})
	if err != nil {
		return fmt.Errorf("failed to check for existing admin: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword(m.cfg.AdminPassword)
	if err != nil {
		return err
	}

	admin := model.User{
		Username:     m.cfg.AdminUsername,
		PasswordHash: hash,
		IsAdmin:      true,
		CreatedAt:    time.Now().UTC().Truncate(time.Millisecond),
	}
	if _, err := users.InsertOne(ctx, admin); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil
		}
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	m.cfg.Log.Info("Seeded admin user", "username", m.cfg.AdminUsername)
	return nil
}
