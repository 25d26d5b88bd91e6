// Package repositories определяет порты хранения учетных записей.
package repositories

import (
	"context"

	"accountkeeper/internal/account/domain/entities"
)

// AccountRepository определяет операции хранилища учетных записей.
// Уникальность имени обеспечивается хранилищем: нарушение возвращается как entities.ErrAccountExists.
type AccountRepository interface {
	FindByName(ctx context.Context, name string) (*entities.Account, error)

	FindByID(ctx context.Context, id string) (*entities.Account, error)

	// Save создает учетную запись без ID или обновляет существующую атомарно.
	Save(ctx context.Context, account *entities.Account) (*entities.Account, error)

	DeleteByID(ctx context.Context, id string) error
}
