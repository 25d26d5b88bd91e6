// Package session хранит сессии вызывающих в Redis.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"accountkeeper/internal/account/domain/entities"
	"accountkeeper/internal/account/domain/services"
	svc "accountkeeper/internal/account/ports/services"
	"accountkeeper/pkg/logger"
)

const (
	keyPrefix      = "session:"
	fieldCreatedAt = "created_at"

	// DefaultTTL - время жизни сессии без обращений.
	DefaultTTL = 30 * time.Minute
)

const (
	errCtxCheckSession   = "error checking session"
	errCtxCreateSession  = "error creating session"
	errCtxReadSession    = "error reading session value"
	errCtxWriteSession   = "error writing session value"
	errCtxDestroySession = "error destroying session"
	errCtxDecodeAccount  = "error decoding session account"
	errCtxEncodeAccount  = "error encoding session account"
)

// RedisStore выдает сессии, хранящиеся в хэшах Redis "session:<id>".
// Каждое обращение продлевает время жизни сессии.
type RedisStore struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewRedisStore создает хранилище сессий. Неположительный ttl заменяется на DefaultTTL.
func NewRedisStore(client redis.Cmdable, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{client: client, ttl: ttl}
}

// Context возвращает контекст сессии для идентификатора из запроса.
// Пустой или устаревший идентификатор допустим: сессия будет создана при необходимости.
func (s *RedisStore) Context(sessionID string) svc.RequestSession {
	return &requestSession{store: s, id: sessionID}
}

// Destroy удаляет сессию. Отсутствие сессии ошибкой не считается.
func (s *RedisStore) Destroy(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.client.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("%s: %w", errCtxDestroySession, err)
	}
	logger.Log(ctx).Debug(ctx, "session destroyed", zap.String("sessionID", sessionID))
	return nil
}

// TTL возвращает время жизни сессий.
func (s *RedisStore) TTL() time.Duration {
	return s.ttl
}

func sessionKey(id string) string {
	return keyPrefix + id
}

type requestSession struct {
	store *RedisStore

	mu sync.Mutex
	id string
}

func (r *requestSession) ID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.id
}

// CurrentSession возвращает существующую сессию или создает новую при create.
// Устаревший идентификатор не переиспользуется: новая сессия всегда получает новый идентификатор.
func (r *requestSession) CurrentSession(ctx context.Context, create bool) (svc.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.id != "" {
		key := sessionKey(r.id)
		alive, err := r.store.client.Expire(ctx, key, r.store.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", errCtxCheckSession, err)
		}
		if alive {
			return &redisSession{client: r.store.client, key: key, ttl: r.store.ttl}, nil
		}
	}

	if !create {
		return nil, services.ErrNoSession
	}

	id := uuid.NewString()
	key := sessionKey(id)
	_, err := r.store.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, fieldCreatedAt, time.Now().UTC().Format(time.RFC3339Nano))
		pipe.Expire(ctx, key, r.store.ttl)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxCreateSession, err)
	}

	r.id = id
	logger.Log(ctx).Debug(ctx, "session created", zap.String("sessionID", id))
	return &redisSession{client: r.store.client, key: key, ttl: r.store.ttl}, nil
}

type redisSession struct {
	client redis.Cmdable
	key    string
	ttl    time.Duration
}

func (s *redisSession) Get(ctx context.Context, key string) (*entities.Account, error) {
	raw, err := s.client.HGet(ctx, s.key, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", errCtxReadSession, err)
	}

	var account entities.Account
	if err := json.Unmarshal(raw, &account); err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxDecodeAccount, err)
	}
	return &account, nil
}

func (s *redisSession) Set(ctx context.Context, key string, account *entities.Account) error {
	raw, err := json.Marshal(account)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtxEncodeAccount, err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, s.key, key, raw)
		pipe.Expire(ctx, s.key, s.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("%s: %w", errCtxWriteSession, err)
	}
	return nil
}
