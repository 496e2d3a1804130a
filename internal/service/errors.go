package service

import (
	"errors"
	"fmt"

	"inventory-api/pkg/validator"

	"gorm.io/gorm"
)

// Sentinel errors; handlers map them to HTTP status codes
var (
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("already exists")
	ErrValidation         = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrAlreadyProcessed   = errors.New("already processed")
	ErrForbidden          = errors.New("forbidden")
)

// notFound turns gorm's record-not-found into ErrNotFound naming the entity
func notFound(err error, entity string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %w", entity, ErrNotFound)
	}
	return err
}

// validate runs the struct's validate tags and wraps failures in ErrValidation
func validate(dto interface{}) error {
	if err := validator.Struct(dto); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
