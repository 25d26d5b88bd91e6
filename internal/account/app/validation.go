package app

import (
	"regexp"

	"github.com/go-playground/validator/v10"

	"accountkeeper/internal/account/domain/entities"
	"accountkeeper/internal/account/domain/services"
)

// Имя: 3-32 символа, начинается с буквы, далее буквы, цифры, '_', '.', '-'.
var usernameRegex = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_.-]{2,31}$`)

var (
	letterRegex = regexp.MustCompile(`[a-zA-Z]`)
	digitRegex  = regexp.MustCompile(`\d`)
)

var validate = validator.New()

func validateUsername(name string) error {
	if name == "" {
		return entities.NewValidationError(entities.FieldName, entities.ErrEmptyName)
	}
	if !usernameRegex.MatchString(name) {
		return entities.NewValidationError(entities.FieldName, entities.ErrInvalidUsername)
	}
	return nil
}

func validatePassword(password string) error {
	switch {
	case len(password) < services.MinPasswordLength:
		return entities.NewValidationError(entities.FieldPassword, entities.ErrPasswordTooShort)
	case len(password) > services.MaxPasswordLength:
		return entities.NewValidationError(entities.FieldPassword, entities.ErrPasswordTooLong)
	case !letterRegex.MatchString(password) || !digitRegex.MatchString(password):
		return entities.NewValidationError(entities.FieldPassword, entities.ErrPasswordTooWeak)
	}
	return nil
}

func validatePasswordConfirm(password, confirm string) error {
	if password != confirm {
		return entities.NewValidationError(entities.FieldPasswordConfirm, entities.ErrPasswordMismatch)
	}
	return nil
}

// Пустой адрес валиден: это означает отсутствие адреса.
func validateEmail(email string) error {
	if email == "" {
		return nil
	}
	if err := validate.Var(email, "email"); err != nil {
		return entities.NewValidationError(entities.FieldEmail, entities.ErrInvalidEmail)
	}
	return nil
}

// GetValidateUsernameFunc экспортирует validateUsername для тестирования.
func GetValidateUsernameFunc() func(string) error {
	return validateUsername
}

// GetValidatePasswordFunc экспортирует validatePassword для тестирования.
func GetValidatePasswordFunc() func(string) error {
	return validatePassword
}

// GetValidateEmailFunc экспортирует validateEmail для тестирования.
func GetValidateEmailFunc() func(string) error {
	return validateEmail
}
