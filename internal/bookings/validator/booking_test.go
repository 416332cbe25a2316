package validator

import (
	"testing"
	"time"

	"fleetbook/pkg/model"
)

func TestValidateRequest(t *testing.T) {
	start := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		req     *model.BookingRequest
		wantErr bool
	}{
		{
			name: "valid request",
			req: &model.BookingRequest{
				VehicleID: "65a000000000000000000001",
				StartTime: start,
				EndTime:   start.Add(2 * time.Hour),
			},
		},
		{
			name: "missing vehicle",
			req: &model.BookingRequest{
				StartTime: start,
				EndTime:   start.Add(2 * time.Hour),
			},
			wantErr: true,
		},
		{
			name: "malformed vehicle ID",
			req: &model.BookingRequest{
				VehicleID: "van-one",
				StartTime: start,
				EndTime:   start.Add(2 * time.Hour),
			},
			wantErr: true,
		},
		{
			name: "end before start",
			req: &model.BookingRequest{
				VehicleID: "65a000000000000000000001",
				StartTime: start,
				EndTime:   start.Add(-time.Hour),
			},
			wantErr: true,
		},
		{
			name: "missing times",
			req: &model.BookingRequest{
				VehicleID: "65a000000000000000000001",
			},
			wantErr: true,
		},
	}

	v := NewBookingValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateRequest(tt.req)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateRequest() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				if _, ok := err.(ValidationErrors); !ok {
					t.Errorf("expected ValidationErrors, got %T", err)
				}
			}
		})
	}
}

func TestValidateDecision(t *testing.T) {
	v := NewBookingValidator()

	if err := v.ValidateDecision(&model.DecisionRequest{Decision: model.DecisionApprove}); err != nil {
		t.Fatalf("ValidateDecision(approved): %v", err)
	}
	if err := v.ValidateDecision(&model.DecisionRequest{Decision: "maybe"}); err == nil {
		t.Fatalf("expected unknown decision to fail validation")
	}
	if err := v.ValidateDecision(&model.DecisionRequest{}); err == nil {
		t.Fatalf("expected empty decision to fail validation")
	}
}
