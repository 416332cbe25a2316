package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingserrors "fleetbook/internal/bookings/errors"
	"fleetbook/internal/bookings/events"
	"fleetbook/internal/bookings/lifecycle"
	"fleetbook/internal/bookings/repository"
	"fleetbook/internal/bookings/validator"
	vehicleserrors "fleetbook/internal/vehicles/errors"
	"fleetbook/pkg/config"
	apperrors "fleetbook/pkg/errors"
	"fleetbook/pkg/model"
)

// VehicleSource is the slice of the vehicle catalog the booking flow
// needs. The vehicles repository satisfies it.
type VehicleSource interface {
	FindByID(ctx context.Context, id string) (*model.Vehicle, error)
	FindActive(ctx context.Context) ([]*model.Vehicle, error)
}

type BookingService interface {
	ListAvailable(ctx context.Context, start, end time.Time) ([]*model.Vehicle, error)
	Create(ctx context.Context, username string, req *model.BookingRequest) (*model.Booking, error)
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	Decide(ctx context.Context, id string, decision model.Decision) (*model.Booking, error)
	MarkCollected(ctx context.Context, id string) (*model.Booking, error)
	MarkReturned(ctx context.Context, id string) (*model.Booking, error)
	ListPending(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error)
	ListActive(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error)
	ListHistory(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error)
	ListForUser(ctx context.Context, username string, limit int, offset int64) ([]*model.Booking, int64, error)
}

type bookingService struct {
	cfg       *config.Config
	repo      repository.BookingRepository
	locks     repository.FleetLockRepository
	vehicles  VehicleSource
	validator *validator.BookingValidator
	publisher events.Publisher
}

func NewBookingService(
	cfg *config.Config,
	repo repository.BookingRepository,
	locks repository.FleetLockRepository,
	vehicles VehicleSource,
	publisher events.Publisher,
) BookingService {
	return &bookingService{
		cfg:       cfg,
		repo:      repo,
		locks:     locks,
		vehicles:  vehicles,
		validator: validator.NewBookingValidator(),
		publisher: publisher,
	}
}

func (s *bookingService) ListAvailable(ctx context.Context, start, end time.Time) ([]*model.Vehicle, error) {
	if err := s.validateWindow(start, end); err != nil {
		return nil, err
	}

	vehicles, err := s.vehicles.FindActive(ctx)
	if err != nil {
		return nil, apperrors.Internal("Failed to list vehicles", err)
	}

	blocking, err := s.repo.FindBlocking(ctx, start, end)
	if err != nil {
		return nil, apperrors.Internal("Failed to query bookings", err)
	}

	return AvailableVehicles(vehicles, blocking, start, end), nil
}

func (s *bookingService) Create(ctx context.Context, username string, req *model.BookingRequest) (*model.Booking, error) {
	if err := s.validator.ValidateRequest(req); err != nil {
		return nil, apperrors.Validation("Invalid booking request", map[string]any{"errors": err.Error()})
	}
	if err := s.validateWindow(req.StartTime, req.EndTime); err != nil {
		return nil, err
	}

	vehicle, err := s.findVehicle(ctx, req.VehicleID)
	if err != nil {
		return nil, err
	}
	if !vehicle.Active {
		return nil, apperrors.VehicleUnavailable(vehicle.ID)
	}

	// Serialize the check-then-insert section per vehicle. Contention
	// means another request is booking this vehicle right now, which is
	// indistinguishable from a conflict for the caller.
	lockID := lockIDForVehicle(vehicle.ID)
	if err := s.locks.Create(ctx, lockID); err != nil {
		if errors.Is(err, bookingserrors.ErrLockHeld) {
			return nil, apperrors.VehicleUnavailable(vehicle.ID)
		}
		return nil, apperrors.Internal("Failed to acquire vehicle lock", err)
	}
	defer func() {
		if err := s.locks.Delete(context.WithoutCancel(ctx), lockID); err != nil {
			s.cfg.Log.Warn("Failed to release vehicle lock", "lock_id", lockID, "error", err)
		}
	}()

	booking := &model.Booking{
		VehicleID: vehicle.ID,
		Username:  username,
		StartTime: req.StartTime.UTC(),
		EndTime:   req.EndTime.UTC(),
		Status:    model.StatusPending,
	}

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx context.Context) error {
		conflicting, err := s.repo.FindConflicting(sessCtx, vehicle.ID, booking.StartTime, booking.EndTime)
		if err != nil {
			return apperrors.Internal("Failed to check booking conflicts", err)
		}
		if len(conflicting) > 0 {
			return apperrors.VehicleUnavailable(vehicle.ID)
		}
		if err := s.repo.Create(sessCtx, booking); err != nil {
			return apperrors.Internal("Failed to create booking", err)
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.AsAppError(err)
	}

	s.publisher.Publish(ctx, events.TypeBookingCreated, booking)
	return booking, nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapLookupError(err, id)
	}
	return booking, nil
}

func (s *bookingService) Decide(ctx context.Context, id string, decision model.Decision) (*model.Booking, error) {
	var booking *model.Booking

	err := s.repo.ExecuteTransaction(ctx, func(sessCtx context.Context) error {
		var err error
		booking, err = s.repo.FindByID(sessCtx, id)
		if err != nil {
			return s.mapLookupError(err, id)
		}

		if err := lifecycle.Decide(booking, decision, time.Now().UTC()); err != nil {
			return s.mapTransitionError(err, booking)
		}

		// Approving must not double-book the vehicle. Another approved
		// booking can slip in between listing pendings and deciding.
		if booking.Status == model.StatusApproved {
			conflicting, err := s.repo.FindConflicting(sessCtx, booking.VehicleID, booking.StartTime, booking.EndTime)
			if err != nil {
				return apperrors.Internal("Failed to check booking conflicts", err)
			}
			for _, c := range conflicting {
				if c.ID != booking.ID && c.Status == model.StatusApproved {
					return apperrors.VehicleUnavailable(booking.VehicleID)
				}
			}
		}

		return s.update(sessCtx, booking)
	})
	if err != nil {
		return nil, apperrors.AsAppError(err)
	}

	eventType := events.TypeBookingApproved
	if booking.Status == model.StatusDenied {
		eventType = events.TypeBookingDenied
	}
	s.publisher.Publish(ctx, eventType, booking)
	return booking, nil
}

func (s *bookingService) MarkCollected(ctx context.Context, id string) (*model.Booking, error) {
	booking, err := s.transition(ctx, id, lifecycle.MarkCollected)
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(ctx, events.TypeBookingCollected, booking)
	return booking, nil
}

func (s *bookingService) MarkReturned(ctx context.Context, id string) (*model.Booking, error) {
	booking, err := s.transition(ctx, id, lifecycle.MarkReturned)
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(ctx, events.TypeBookingReturned, booking)
	return booking, nil
}

func (s *bookingService) ListPending(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error) {
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	bookings, err := s.repo.FindByStatus(ctx, model.StatusPending, limit, offset)
	if err != nil {
		return nil, 0, apperrors.Internal("Failed to list pending bookings", err)
	}
	total, err := s.repo.CountByStatus(ctx, model.StatusPending)
	if err != nil {
		return nil, 0, apperrors.Internal("Failed to count pending bookings", err)
	}
	return bookings, total, nil
}

func (s *bookingService) ListActive(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error) {
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	bookings, err := s.repo.FindActive(ctx, limit, offset)
	if err != nil {
		return nil, 0, apperrors.Internal("Failed to list active bookings", err)
	}
	total, err := s.repo.CountActive(ctx)
	if err != nil {
		return nil, 0, apperrors.Internal("Failed to count active bookings", err)
	}
	return bookings, total, nil
}

func (s *bookingService) ListHistory(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error) {
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	bookings, err := s.repo.FindHistory(ctx, limit, offset)
	if err != nil {
		return nil, 0, apperrors.Internal("Failed to list booking history", err)
	}
	total, err := s.repo.CountHistory(ctx)
	if err != nil {
		return nil, 0, apperrors.Internal("Failed to count booking history", err)
	}
	return bookings, total, nil
}

func (s *bookingService) ListForUser(ctx context.Context, username string, limit int, offset int64) ([]*model.Booking, int64, error) {
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	bookings, err := s.repo.FindByUsername(ctx, username, limit, offset)
	if err != nil {
		return nil, 0, apperrors.Internal("Failed to list user bookings", err)
	}
	total, err := s.repo.CountByUsername(ctx, username)
	if err != nil {
		return nil, 0, apperrors.Internal("Failed to count user bookings", err)
	}
	return bookings, total, nil
}

func (s *bookingService) transition(ctx context.Context, id string, apply func(*model.Booking, time.Time) error) (*model.Booking, error) {
	var booking *model.Booking

	err := s.repo.ExecuteTransaction(ctx, func(sessCtx context.Context) error {
		var err error
		booking, err = s.repo.FindByID(sessCtx, id)
		if err != nil {
			return s.mapLookupError(err, id)
		}
		if err := apply(booking, time.Now().UTC()); err != nil {
			return s.mapTransitionError(err, booking)
		}
		return s.update(sessCtx, booking)
	})
	if err != nil {
		return nil, apperrors.AsAppError(err)
	}
	return booking, nil
}

func (s *bookingService) update(ctx context.Context, booking *model.Booking) error {
	if err := s.repo.UpdateLifecycle(ctx, booking.ID, booking); err != nil {
		return apperrors.Internal("Failed to update booking", err)
	}
	return nil
}

func (s *bookingService) validateWindow(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return apperrors.InvalidWindow("start_time and end_time are required")
	}
	if !start.Before(end) {
		return apperrors.InvalidWindow("start_time must be before end_time")
	}
	if start.Before(time.Now().Add(-s.cfg.PastStartSkew)) {
		return apperrors.InvalidWindow("start_time must not be in the past")
	}
	return nil
}

func (s *bookingService) findVehicle(ctx context.Context, id string) (*model.Vehicle, error) {
	vehicle, err := s.vehicles.FindByID(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, vehicleserrors.ErrNotFound):
			return nil, apperrors.NotFoundWithID("vehicle", id)
		case errors.Is(err, vehicleserrors.ErrInvalidID):
			return nil, apperrors.InvalidInput(err.Error())
		default:
			return nil, apperrors.Internal("Failed to find vehicle", err)
		}
	}
	return vehicle, nil
}

func (s *bookingService) mapLookupError(err error, id string) error {
	switch {
	case errors.Is(err, bookingserrors.ErrNotFound):
		return apperrors.NotFoundWithID("booking", id)
	case errors.Is(err, bookingserrors.ErrInvalidID):
		return apperrors.InvalidInput(fmt.Sprintf("invalid booking ID: %s", id))
	default:
		return apperrors.Internal("Failed to find booking", err)
	}
}

func (s *bookingService) mapTransitionError(err error, booking *model.Booking) error {
	switch {
	case errors.Is(err, bookingserrors.ErrAlreadyDecided):
		return apperrors.AlreadyDecided(booking.ID)
	case errors.Is(err, bookingserrors.ErrInvalidTransition):
		return apperrors.InvalidTransition(transitionMessage(booking))
	default:
		return apperrors.Internal("Failed to apply booking transition", err)
	}
}

func transitionMessage(b *model.Booking) string {
	switch {
	case b.Returned:
		return "booking has already been returned"
	case b.Status != model.StatusApproved:
		return fmt.Sprintf("booking is %s, only approved bookings can be collected or returned", b.Status)
	case b.Collected:
		return "vehicle has already been collected"
	default:
		return "vehicle must be collected before it can be returned"
	}
}

func lockIDForVehicle(vehicleID string) string {
	return "vehicle_lock_" + vehicleID
}
