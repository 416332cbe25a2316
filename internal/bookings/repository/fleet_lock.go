package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	bookingserrors "fleetbook/internal/bookings/errors"
	"fleetbook/pkg/config"
	"fleetbook/pkg/model"
)

const (
	LockCollectionName = "Fleet_locks"
)

// FleetLockRepository provides per-vehicle advisory locks backed by a
// TTL collection. Create fails on a duplicate key while another request
// holds the lock; the TTL index reaps locks left by crashed processes.
type FleetLockRepository interface {
	Create(ctx context.Context, lockID string) error
	Delete(ctx context.Context, lockID string) error
}

type mongoFleetLockRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoFleetLockRepository(cfg *config.Config) FleetLockRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoFleetLockRepository{
		cfg:        cfg,
		collection: db.Collection(LockCollectionName),
	}
}

func (r *mongoFleetLockRepository) Create(ctx context.Context, lockID string) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC()
	lock := model.FleetLock{
		ID:        lockID,
		ExpiresAt: now.Add(r.cfg.LockTTL),
		CreatedAt: now,
	}

	if _, err := r.collection.InsertOne(ctx, lock); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %s", bookingserrors.ErrLockHeld, lockID)
		}
		return fmt.Errorf("failed to acquire lock %s: %w", lockID, err)
	}

	return nil
}

func (r *mongoFleetLockRepository) Delete(ctx context.Context, lockID string) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if _, err := r.collection.DeleteOne(ctx, bson.M{"_id": lockID}); err != nil {
		return fmt.Errorf("failed to release lock %s: %w", lockID, err)
	}

	return nil
}
