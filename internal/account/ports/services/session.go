package services

import (
	"context"

	"accountkeeper/internal/account/domain/entities"
)

// Session хранит состояние текущего вызывающего.
// Get возвращает nil без ошибки, если значения по ключу нет.
type Session interface {
	Get(ctx context.Context, key string) (*entities.Account, error)
	Set(ctx context.Context, key string, account *entities.Account) error
}

// SessionContext дает доступ к сессии вызывающего. Передается явно в операции, которым она нужна.
// Без create и без существующей сессии возвращается domain/services.ErrNoSession.
type SessionContext interface {
	CurrentSession(ctx context.Context, create bool) (Session, error)
}

// RequestSession - SessionContext, привязанный к идентификатору сессии запроса.
// ID пуст, пока сессия не создана.
type RequestSession interface {
	SessionContext
	ID() string
}

// SessionStore выдает контексты сессий по идентификатору и уничтожает сессии.
type SessionStore interface {
	Context(sessionID string) RequestSession
	Destroy(ctx context.Context, sessionID string) error
}
