package validator

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"fleetbook/pkg/model"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return "validation failed"
	}
	messages := make([]string, len(v))
	for i, e := range v {
		messages[i] = fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return strings.Join(messages, "; ")
}

type VehicleValidator struct {
	validate *validator.Validate
}

func NewVehicleValidator() *VehicleValidator {
	return &VehicleValidator{
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (v *VehicleValidator) ValidateVehicle(vehicle *model.Vehicle) error {
	if err := v.validate.Struct(vehicle); err != nil {
		return toValidationErrors(err)
	}
	return nil
}

func (v *VehicleValidator) ValidateUpdate(update *model.VehicleUpdate) error {
	if err := v.validate.Struct(update); err != nil {
		return toValidationErrors(err)
	}
	return nil
}

func toValidationErrors(err error) error {
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	errs := make(ValidationErrors, 0, len(validationErrs))
	for _, fieldErr := range validationErrs {
		errs = append(errs, ValidationError{
			Field:   fieldErr.Field(),
			Message: messageForTag(fieldErr),
		})
	}
	return errs
}

func messageForTag(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return "is required"
	case "mongodb":
		return "must be a valid ID"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fieldErr.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fieldErr.Param())
	default:
		return fmt.Sprintf("failed %s validation", fieldErr.Tag())
	}
}
