package usecase

import (
	"errors"
	"fmt"

	"studio-booking/internal/data/entity"
	"studio-booking/pkg/utils"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrNotFound           = errors.New("not found")
	ErrStorage            = errors.New("storage unavailable")
	ErrAlreadyExists      = errors.New("already exists")
	ErrAlreadyVerified    = errors.New("email already verified")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidOTP         = errors.New("invalid or expired OTP")
	ErrBookingConflict    = errors.New("booking conflicts with an existing booking")
	ErrEmailDelivery      = errors.New("email delivery failed")
)

// ConflictError lists the bookings a write collided with
type ConflictError struct {
	Conflicts []*entity.Booking
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s (%d overlapping)", ErrBookingConflict.Error(), len(e.Conflicts))
}

func (e *ConflictError) Unwrap() error {
	return ErrBookingConflict
}

// FieldErrors maps json field names to validation messages
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	return ErrValidation.Error() + ": " + utils.FormatValidationErrors(e)
}

func (e FieldErrors) Unwrap() error {
	return ErrValidation
}

// validate runs the struct tags on req and returns FieldErrors when any fail
func validate(req any) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return FieldErrors(errs)
	}
	return nil
}

func validationError(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}

func storageError(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, ErrStorage, err)
}
