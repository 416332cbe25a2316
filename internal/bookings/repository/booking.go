package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	bookingserrors "fleetbook/internal/bookings/errors"
	"fleetbook/pkg/config"
	mongotx "fleetbook/pkg/db/mongo"
	"fleetbook/pkg/model"
)

const (
	CollectionName = "Bookings"
)

type mongoBookingRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	FindByID(ctx context.Context, id string) (*model.Booking, error)
	UpdateLifecycle(ctx context.Context, id string, booking *model.Booking) error

	// FindBlocking returns the bookings that reserve a vehicle for any part
	// of the window: approved and not yet returned, strictly overlapping.
	FindBlocking(ctx context.Context, start, end time.Time) ([]*model.Booking, error)

	// FindConflicting returns bookings on one vehicle that forbid creating
	// a new booking over the window: blocking bookings plus pending
	// requests still awaiting a decision.
	FindConflicting(ctx context.Context, vehicleID string, start, end time.Time) ([]*model.Booking, error)

	FindByStatus(ctx context.Context, status model.Status, limit int, offset int64) ([]*model.Booking, error)
	CountByStatus(ctx context.Context, status model.Status) (int64, error)
	FindActive(ctx context.Context, limit int, offset int64) ([]*model.Booking, error)
	CountActive(ctx context.Context) (int64, error)
	FindHistory(ctx context.Context, limit int, offset int64) ([]*model.Booking, error)
	CountHistory(ctx context.Context) (int64, error)
	FindByUsername(ctx context.Context, username string, limit int, offset int64) ([]*model.Booking, error)
	CountByUsername(ctx context.Context, username string) (int64, error)
	CountByVehicle(ctx context.Context, vehicleID string) (int64, error)

	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

func NewMongoBookingRepository(cfg *config.Config) BookingRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBookingRepository{
		cfg:        cfg,
		db:         db,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

// withTimeout wraps the context with a timeout unless already inside a
// transaction; a SessionContext cannot be wrapped without breaking
// transaction semantics.
func (r *mongoBookingRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	if deadline, hasDeadline := ctx.Deadline(); hasDeadline {
		if remaining := time.Until(deadline); remaining < timeout {
			return context.WithTimeout(ctx, remaining)
		}
	}

	return context.WithTimeout(ctx, timeout)
}

func (r *mongoBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	booking.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, booking)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		booking.ID = oid.Hex()
	}
	return nil
}

func (r *mongoBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	var booking model.Booking
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}

	return &booking, nil
}

func (r *mongoBookingRepository) UpdateLifecycle(ctx context.Context, id string, booking *model.Booking) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	update := bson.M{
		"$set": bson.M{
			"status":       booking.Status,
			"collected":    booking.Collected,
			"returned":     booking.Returned,
			"decided_at":   booking.DecidedAt,
			"collected_at": booking.CollectedAt,
			"returned_at":  booking.ReturnedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("failed to update booking: %w", err)
	}
	if result.MatchedCount == 0 {
		return bookingserrors.ErrNotFound
	}

	return nil
}

func (r *mongoBookingRepository) FindBlocking(ctx context.Context, start, end time.Time) ([]*model.Booking, error) {
	filter := bson.M{
		"status":     model.StatusApproved,
		"returned":   false,
		"start_time": bson.M{"$lt": end},
		"end_time":   bson.M{"$gt": start},
	}
	return r.find(ctx, filter, 0, 0)
}

func (r *mongoBookingRepository) FindConflicting(ctx context.Context, vehicleID string, start, end time.Time) ([]*model.Booking, error) {
	filter := bson.M{
		"vehicle_id": vehicleID,
		"start_time": bson.M{"$lt": end},
		"end_time":   bson.M{"$gt": start},
		"$or": []bson.M{
			{"status": model.StatusApproved, "returned": false},
			{"status": model.StatusPending},
		},
	}
	return r.find(ctx, filter, 0, 0)
}

func (r *mongoBookingRepository) FindByStatus(ctx context.Context, status model.Status, limit int, offset int64) ([]*model.Booking, error) {
	return r.find(ctx, bson.M{"status": status}, limit, offset)
}

func (r *mongoBookingRepository) CountByStatus(ctx context.Context, status model.Status) (int64, error) {
	return r.count(ctx, bson.M{"status": status})
}

func (r *mongoBookingRepository) FindActive(ctx context.Context, limit int, offset int64) ([]*model.Booking, error) {
	return r.find(ctx, bson.M{"status": model.StatusApproved, "returned": false}, limit, offset)
}

func (r *mongoBookingRepository) CountActive(ctx context.Context) (int64, error) {
	return r.count(ctx, bson.M{"status": model.StatusApproved, "returned": false})
}

func (r *mongoBookingRepository) FindHistory(ctx context.Context, limit int, offset int64) ([]*model.Booking, error) {
	return r.find(ctx, bson.M{"returned": true}, limit, offset)
}

func (r *mongoBookingRepository) CountHistory(ctx context.Context) (int64, error) {
	return r.count(ctx, bson.M{"returned": true})
}

func (r *mongoBookingRepository) FindByUsername(ctx context.Context, username string, limit int, offset int64) ([]*model.Booking, error) {
	return r.find(ctx, bson.M{"username": username}, limit, offset)
}

func (r *mongoBookingRepository) CountByUsername(ctx context.Context, username string) (int64, error) {
	return r.count(ctx, bson.M{"username": username})
}

func (r *mongoBookingRepository) CountByVehicle(ctx context.Context, vehicleID string) (int64, error) {
	return r.count(ctx, bson.M{"vehicle_id": vehicleID})
}

func (r *mongoBookingRepository) find(ctx context.Context, filter bson.M, limit int, offset int64) ([]*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "start_time", Value: 1}})
	if limit > 0 {
		opts = opts.SetLimit(int64(limit)).SetSkip(offset)
	}

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*model.Booking
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}

	return bookings, nil
}

func (r *mongoBookingRepository) count(ctx context.Context, filter bson.M) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}
	return count, nil
}

func (r *mongoBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
