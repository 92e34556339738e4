package service

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrConflict           = errors.New("conflict")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email is already registered")
)

// validationError is a rule violation the caller can fix by resubmitting
type validationError struct {
	message string
}

func (e validationError) Error() string { return e.message }

func newValidationError(format string, args ...interface{}) error {
	return validationError{message: fmt.Sprintf(format, args...)}
}

// IsValidation distinguishes bad input from infrastructure failures
func IsValidation(err error) bool {
	var v validationError
	return errors.As(err, &v)
}
