// Package api определяет основной порт менеджера учетных записей.
package api

import (
	"context"

	"accountkeeper/internal/account/domain/entities"
	"accountkeeper/internal/account/ports/services"
)

// AccountManager определяет операции жизненного цикла учетных записей.
type AccountManager interface {
	Authenticate(ctx context.Context, session services.SessionContext, name string) (*entities.Principal, error)
	Register(ctx context.Context, name, password, passwordConfirm, email string) (*entities.Account, error)
	ChangePassword(ctx context.Context, session services.SessionContext, currentPassword, newPassword, newPasswordConfirm string) error
	ResetPassword(ctx context.Context, name string) error
	DeleteAccount(ctx context.Context, id string) error
	CurrentAccount(ctx context.Context, session services.SessionContext) (*entities.Account, error)
}
