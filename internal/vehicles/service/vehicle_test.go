package service

import (
	"context"
	"io"
	"testing"

	vehicleserrors "fleetbook/internal/vehicles/errors"
	"fleetbook/pkg/config"
	apperrors "fleetbook/pkg/errors"
	"fleetbook/pkg/logger"
	"fleetbook/pkg/model"
)

const testVehicleID = "65a000000000000000000001"

func testConfig() *config.Config {
	return &config.Config{
		Log: logger.New(logger.Config{Output: io.Discard}),
	}
}

type mockVehicleRepository struct {
	createFn     func(ctx context.Context, v *model.Vehicle) error
	findByIDFn   func(ctx context.Context, id string) (*model.Vehicle, error)
	findAllFn    func(ctx context.Context, limit int, offset int64) ([]*model.Vehicle, error)
	countFn      func(ctx context.Context) (int64, error)
	findActiveFn func(ctx context.Context) ([]*model.Vehicle, error)
	updateFn     func(ctx context.Context, id string, update *model.VehicleUpdate) error
	deleteFn     func(ctx context.Context, id string) error
}

func (m *mockVehicleRepository) Create(ctx context.Context, v *model.Vehicle) error {
	if m.createFn != nil {
		return m.createFn(ctx, v)
	}
	v.ID = testVehicleID
	return nil
}

func (m *mockVehicleRepository) FindByID(ctx context.Context, id string) (*model.Vehicle, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return &model.Vehicle{ID: id, Name: "Van 1", Active: true}, nil
}

func (m *mockVehicleRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Vehicle, error) {
	if m.findAllFn != nil {
		return m.findAllFn(ctx, limit, offset)
	}
	return nil, nil
}

func (m *mockVehicleRepository) Count(ctx context.Context) (int64, error) {
	if m.countFn != nil {
		return m.countFn(ctx)
	}
	return 0, nil
}

func (m *mockVehicleRepository) FindActive(ctx context.Context) ([]*model.Vehicle, error) {
	if m.findActiveFn != nil {
		return m.findActiveFn(ctx)
	}
	return nil, nil
}

func (m *mockVehicleRepository) Update(ctx context.Context, id string, update *model.VehicleUpdate) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, update)
	}
	return nil
}

func (m *mockVehicleRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

type mockBookingCounter struct {
	count int64
	err   error
}

func (m *mockBookingCounter) CountByVehicle(ctx context.Context, vehicleID string) (int64, error) {
	return m.count, m.err
}

func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %s, got nil", code)
	}
	appErr := apperrors.AsAppError(err)
	if appErr.Code != code {
		t.Fatalf("error code = %s, want %s (err: %v)", appErr.Code, code, err)
	}
}

func TestCreateVehicle(t *testing.T) {
	svc := NewVehicleService(testConfig(), &mockVehicleRepository{}, &mockBookingCounter{})

	vehicle, err := svc.Create(context.Background(), &model.Vehicle{Name: "  Van\t 1  "})
	if err != nil {
		t.Fatalf("Create(): %v", err)
	}

	if vehicle.Name != "Van 1" {
		t.Errorf("name = %q, want sanitized %q", vehicle.Name, "Van 1")
	}
	if !vehicle.Active {
		t.Errorf("new vehicles must start active")
	}
}

func TestCreateVehicleValidation(t *testing.T) {
	tests := []struct {
		name        string
		vehicleName string
	}{
		{"empty name", ""},
		{"whitespace only", "   "},
		{"single character", "V"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewVehicleService(testConfig(), &mockVehicleRepository{}, &mockBookingCounter{})
			_, err := svc.Create(context.Background(), &model.Vehicle{Name: tt.vehicleName})
			assertAppErrorCode(t, err, apperrors.CodeValidation)
		})
	}
}

func TestCreateVehicleDuplicateName(t *testing.T) {
	repo := &mockVehicleRepository{
		createFn: func(ctx context.Context, v *model.Vehicle) error {
			return vehicleserrors.ErrDuplicateName
		},
	}
	svc := NewVehicleService(testConfig(), repo, &mockBookingCounter{})

	_, err := svc.Create(context.Background(), &model.Vehicle{Name: "Van 1"})
	assertAppErrorCode(t, err, apperrors.CodeConflict)
}

func TestSetActive(t *testing.T) {
	var captured *model.VehicleUpdate
	repo := &mockVehicleRepository{
		updateFn: func(ctx context.Context, id string, update *model.VehicleUpdate) error {
			captured = update
			return nil
		},
	}
	svc := NewVehicleService(testConfig(), repo, &mockBookingCounter{})

	if _, err := svc.SetActive(context.Background(), testVehicleID, false); err != nil {
		t.Fatalf("SetActive(): %v", err)
	}
	if captured == nil || captured.Active == nil || *captured.Active {
		t.Errorf("expected update disabling the vehicle, got %+v", captured)
	}
}

func TestDeleteVehicle(t *testing.T) {
	tests := []struct {
		name     string
		bookings int64
		wantCode string
	}{
		{"no bookings", 0, ""},
		{"referenced by bookings", 3, apperrors.CodeConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewVehicleService(testConfig(), &mockVehicleRepository{}, &mockBookingCounter{count: tt.bookings})

			err := svc.Delete(context.Background(), testVehicleID)
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("Delete(): %v", err)
				}
				return
			}
			assertAppErrorCode(t, err, tt.wantCode)
		})
	}
}

func TestDeleteVehicleNotFound(t *testing.T) {
	repo := &mockVehicleRepository{
		findByIDFn: func(ctx context.Context, id string) (*model.Vehicle, error) {
			return nil, vehicleserrors.ErrNotFound
		},
	}
	svc := NewVehicleService(testConfig(), repo, &mockBookingCounter{})

	err := svc.Delete(context.Background(), testVehicleID)
	assertAppErrorCode(t, err, apperrors.CodeNotFound)
}
