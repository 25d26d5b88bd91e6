// Package entities содержит сущности домена учетных записей.
package entities

import (
	"time"
)

// Role - роль авторизации. Иерархии ролей нет.
type Role string

// RoleUser - единственная роль, выдаваемая при аутентификации.
const RoleUser Role = "USER"

// Account представляет учетную запись пользователя.
// PasswordHash всегда содержит результат одностороннего хэширования, никогда не открытый пароль.
// Пустой Email означает, что адрес не указан.
type Account struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"password_hash"`
	Email        string    `json:"email,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// HasEmail сообщает, указан ли адрес электронной почты.
func (a *Account) HasEmail() bool {
	return a.Email != ""
}

// Principal - результат аутентификации: имя, хэш пароля для внешней проверки и роли.
type Principal struct {
	Name         string
	PasswordHash string
	Roles        []Role
}

// NewPrincipal создает Principal с фиксированной ролью USER.
func NewPrincipal(account *Account) *Principal {
	return &Principal{
		Name:         account.Name,
		PasswordHash: account.PasswordHash,
		Roles:        []Role{RoleUser},
	}
}
