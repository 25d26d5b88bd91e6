// Package dto содержит объекты передачи данных HTTP API учетных записей.
package dto

import (
	"time"

	"accountkeeper/internal/account/domain/entities"
)

// RegisterRequest содержит данные для регистрации.
type RegisterRequest struct {
	Name            string `json:"name"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
	Email           string `json:"email"`
}

// LoginRequest содержит данные для входа.
type LoginRequest struct {
	Name     string `json:"name" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ResetPasswordRequest содержит имя учетной записи для сброса пароля.
type ResetPasswordRequest struct {
	Name string `json:"name" validate:"required"`
}

// ChangePasswordRequest содержит данные для смены пароля.
type ChangePasswordRequest struct {
	CurrentPassword    string `json:"current_password"`
	NewPassword        string `json:"new_password"`
	NewPasswordConfirm string `json:"new_password_confirm"`
}

// AccountResponse - публичное представление учетной записи, без хэша пароля.
type AccountResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// LoginResponse возвращается после успешного входа.
type LoginResponse struct {
	Name  string   `json:"name"`
	Roles []string `json:"roles"`
}

// StatusResponse - ответ без данных.
type StatusResponse struct {
	Status string `json:"status"`
}

// ErrorResponse описывает ошибку. Field заполняется для ошибок валидации.
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// NewAccountResponse строит ответ по учетной записи.
func NewAccountResponse(account *entities.Account) AccountResponse {
	return AccountResponse{
		ID:        account.ID,
		Name:      account.Name,
		Email:     account.Email,
		CreatedAt: account.CreatedAt,
	}
}

// NewLoginResponse строит ответ по результату аутентификации.
func NewLoginResponse(principal *entities.Principal) LoginResponse {
	roles := make([]string, 0, len(principal.Roles))
	for _, role := range principal.Roles {
		roles = append(roles, string(role))
	}
	return LoginResponse{Name: principal.Name, Roles: roles}
}
