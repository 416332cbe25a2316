package service

import (
	"context"
	"errors"
	"fmt"

	vehicleserrors "fleetbook/internal/vehicles/errors"
	"fleetbook/internal/vehicles/repository"
	"fleetbook/internal/vehicles/validator"
	"fleetbook/pkg/config"
	apperrors "fleetbook/pkg/errors"
	"fleetbook/pkg/model"
	"fleetbook/pkg/sanitizer"
)

// BookingCounter reports how many bookings reference a vehicle. The
// bookings repository satisfies it; a vehicle with any booking, past or
// present, is disabled instead of deleted to keep history intact.
type BookingCounter interface {
	CountByVehicle(ctx context.Context, vehicleID string) (int64, error)
}

type VehicleService interface {
	Create(ctx context.Context, vehicle *model.Vehicle) (*model.Vehicle, error)
	GetByID(ctx context.Context, id string) (*model.Vehicle, error)
	List(ctx context.Context, limit int, offset int64) ([]*model.Vehicle, int64, error)
	Update(ctx context.Context, id string, update *model.VehicleUpdate) (*model.Vehicle, error)
	SetActive(ctx context.Context, id string, active bool) (*model.Vehicle, error)
	Delete(ctx context.Context, id string) error
}

type vehicleService struct {
	cfg       *config.Config
	repo      repository.VehicleRepository
	bookings  BookingCounter
	validator *validator.VehicleValidator
}

func NewVehicleService(cfg *config.Config, repo repository.VehicleRepository, bookings BookingCounter) VehicleService {
	return &vehicleService{
		cfg:       cfg,
		repo:      repo,
		bookings:  bookings,
		validator: validator.NewVehicleValidator(),
	}
}

func (s *vehicleService) Create(ctx context.Context, vehicle *model.Vehicle) (*model.Vehicle, error) {
	vehicle.Name = sanitizer.SanitizeName(vehicle.Name)
	vehicle.Active = true

	if err := s.validator.ValidateVehicle(vehicle); err != nil {
		return nil, apperrors.Validation("Invalid vehicle", map[string]any{"errors": err.Error()})
	}

	if err := s.repo.Create(ctx, vehicle); err != nil {
		if errors.Is(err, vehicleserrors.ErrDuplicateName) {
			return nil, apperrors.Conflict(fmt.Sprintf("vehicle %q already exists", vehicle.Name))
		}
		return nil, apperrors.Internal("Failed to create vehicle", err)
	}

	return vehicle, nil
}

func (s *vehicleService) GetByID(ctx context.Context, id string) (*model.Vehicle, error) {
	vehicle, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapLookupError(err, id)
	}
	return vehicle, nil
}

func (s *vehicleService) List(ctx context.Context, limit int, offset int64) ([]*model.Vehicle, int64, error) {
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	vehicles, err := s.repo.FindAll(ctx, limit, offset)
	if err != nil {
		return nil, 0, apperrors.Internal("Failed to list vehicles", err)
	}
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, 0, apperrors.Internal("Failed to count vehicles", err)
	}
	return vehicles, total, nil
}

func (s *vehicleService) Update(ctx context.Context, id string, update *model.VehicleUpdate) (*model.Vehicle, error) {
	if update.Name != "" {
		update.Name = sanitizer.SanitizeName(update.Name)
	}
	if err := s.validator.ValidateUpdate(update); err != nil {
		return nil, apperrors.Validation("Invalid vehicle update", map[string]any{"errors": err.Error()})
	}

	if err := s.repo.Update(ctx, id, update); err != nil {
		if errors.Is(err, vehicleserrors.ErrDuplicateName) {
			return nil, apperrors.Conflict(fmt.Sprintf("vehicle %q already exists", update.Name))
		}
		return nil, s.mapLookupError(err, id)
	}

	return s.GetByID(ctx, id)
}

func (s *vehicleService) SetActive(ctx context.Context, id string, active bool) (*model.Vehicle, error) {
	return s.Update(ctx, id, &model.VehicleUpdate{Active: &active})
}

func (s *vehicleService) Delete(ctx context.Context, id string) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}

	count, err := s.bookings.CountByVehicle(ctx, id)
	if err != nil {
		return apperrors.Internal("Failed to count vehicle bookings", err)
	}
	if count > 0 {
		return apperrors.Conflict("vehicle has bookings, disable it instead of deleting").
			WithDetails(map[string]any{"vehicle_id": id, "booking_count": count})
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return s.mapLookupError(err, id)
	}
	return nil
}

func (s *vehicleService) mapLookupError(err error, id string) error {
	switch {
	case errors.Is(err, vehicleserrors.ErrNotFound):
		return apperrors.NotFoundWithID("vehicle", id)
	case errors.Is(err, vehicleserrors.ErrInvalidID):
		return apperrors.InvalidInput(fmt.Sprintf("invalid vehicle ID: %s", id))
	default:
		return apperrors.Internal("Failed to find vehicle", err)
	}
}
