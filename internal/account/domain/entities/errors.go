package entities

import (
	"errors"
	"fmt"
)

// Ошибки домена учетных записей.
var (
	ErrAccountNotFound  = errors.New("account not found")
	ErrAccountExists    = errors.New("account with this name already exists")
	ErrEmptyAccountID   = errors.New("account ID cannot be empty")
	ErrEmptyName        = errors.New("name cannot be empty")
	ErrInvalidUsername  = errors.New("invalid username")
	ErrPasswordTooShort = errors.New("password is too short")
	ErrPasswordTooLong  = errors.New("password is too long")
	ErrPasswordTooWeak  = errors.New("password must contain at least one letter and one digit")
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrInvalidEmail     = errors.New("invalid email")
)

// Поля, на которые ссылается ValidationError.
const (
	FieldName            = "name"
	FieldPassword        = "password"
	FieldPasswordConfirm = "password_confirm"
	FieldEmail           = "email"
)

// ValidationError описывает нарушение правила для конкретного поля.
type ValidationError struct {
	Field  string
	Reason string
	Err    error
}

// NewValidationError создает ошибку валидации поля, причина берется из err.
func NewValidationError(field string, err error) *ValidationError {
	return &ValidationError{Field: field, Reason: err.Error(), Err: err}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
