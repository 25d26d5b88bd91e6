package services

import (
	"errors"
)

// Ошибки, связанные с паролями.
var (
	ErrHashingFailed    = errors.New("failed to hash password")
	ErrInvalidPassword  = errors.New("invalid password")
	ErrGenerationFailed = errors.New("failed to generate password")
)

// Ограничения длины пароля. bcrypt учитывает только первые 72 байта.
const (
	MinPasswordLength = 8
	MaxPasswordLength = 72
)
