package services

import (
	"context"

	"accountkeeper/internal/account/domain/entities"
)

// Notifier доставляет владельцу учетной записи новый пароль по внешнему каналу.
type Notifier interface {
	SendNewPassword(ctx context.Context, plaintextPassword string, account *entities.Account) error
}
