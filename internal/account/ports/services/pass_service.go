// Package services определяет порты внешних сервисов менеджера учетных записей.
package services

import "context"

// PasswordService определяет одностороннее хэширование паролей.
type PasswordService interface {
	Hash(ctx context.Context, password string) (string, error)

	Verify(ctx context.Context, password, hash string) (bool, error)
}

// PasswordGenerator генерирует случайные пароли, удовлетворяющие правилам сложности.
type PasswordGenerator interface {
	Generate(ctx context.Context) (string, error)
}
