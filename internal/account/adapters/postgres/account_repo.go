// Package postgres реализует хранилище учетных записей на PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"accountkeeper/internal/account/domain/entities"
	"accountkeeper/internal/account/ports/repositories"
	"accountkeeper/pkg/logger"
)

// PgxPoolInterface - подмножество pgxpool.Pool, используемое репозиторием.
type PgxPoolInterface interface {
	QueryRow(ctx context.Context, query string, args ...any) pgx.Row
	Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

const (
	accountColumns = `id, name, password_hash, COALESCE(email, ''), created_at, updated_at`

	queryFindByName = `
        SELECT ` + accountColumns + `
        FROM accounts
        WHERE name = $1
    `
	queryFindByID = `
        SELECT ` + accountColumns + `
        FROM accounts
        WHERE id = $1
    `
	queryInsert = `
        INSERT INTO accounts (name, password_hash, email)
        VALUES ($1, $2, NULLIF($3, ''))
        RETURNING ` + accountColumns
	queryUpdate = `
        UPDATE accounts
        SET name = $2, password_hash = $3, email = NULLIF($4, ''), updated_at = NOW()
        WHERE id = $1
        RETURNING ` + accountColumns
	queryDelete = `
        DELETE FROM accounts
        WHERE id = $1
    `
)

const (
	errCtxQueryByName   = "error querying account by name"
	errCtxQueryByID     = "error querying account by id"
	errCtxBeginTx       = "error starting transaction"
	errCtxCommitTx      = "error committing transaction"
	errCtxInsertAccount = "error inserting account"
	errCtxUpdateAccount = "error updating account"
	errCtxDeleteAccount = "error deleting account"
)

// AccountRepository реализует repositories.AccountRepository для PostgreSQL.
type AccountRepository struct {
	pool PgxPoolInterface
}

// NewAccountRepository создает новый репозиторий учетных записей.
func NewAccountRepository(pool PgxPoolInterface) repositories.AccountRepository {
	return &AccountRepository{pool: pool}
}

// FindByName находит учетную запись по имени.
func (r *AccountRepository) FindByName(ctx context.Context, name string) (*entities.Account, error) {
	log := logger.Log(ctx).With(zap.String("repository", "account"), zap.String("method", "FindByName"))

	account, err := scanAccount(r.pool.QueryRow(ctx, queryFindByName, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "account not found", zap.String("name", name))
			return nil, entities.ErrAccountNotFound
		}
		log.Error(ctx, "error finding account by name", zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxQueryByName, err)
	}

	return account, nil
}

// FindByID находит учетную запись по идентификатору.
// Некорректный UUID трактуется как отсутствующая запись.
func (r *AccountRepository) FindByID(ctx context.Context, id string) (*entities.Account, error) {
	log := logger.Log(ctx).With(zap.String("repository", "account"), zap.String("method", "FindByID"))

	if id == "" {
		return nil, entities.ErrEmptyAccountID
	}

	account, err := scanAccount(r.pool.QueryRow(ctx, queryFindByID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isPgError(err, pgerrcode.InvalidTextRepresentation) {
			log.Debug(ctx, "account not found", zap.String("id", id))
			return nil, entities.ErrAccountNotFound
		}
		log.Error(ctx, "error finding account by id", zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxQueryByID, err)
	}

	return account, nil
}

// Save создает учетную запись (пустой ID) или обновляет существующую в одной транзакции.
// Нарушение уникальности имени возвращается как entities.ErrAccountExists.
func (r *AccountRepository) Save(ctx context.Context, account *entities.Account) (*entities.Account, error) {
	log := logger.Log(ctx).With(zap.String("repository", "account"), zap.String("method", "Save"))

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		log.Error(ctx, "error starting transaction", zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxBeginTx, err)
	}

	saved, err := r.saveTx(ctx, tx, account)
	if err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			log.Warn(ctx, "error rolling back transaction", zap.Error(rbErr))
		}
		log.Error(ctx, "error saving account", zap.Error(err))
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		log.Error(ctx, "error committing transaction", zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxCommitTx, err)
	}

	return saved, nil
}

func (r *AccountRepository) saveTx(ctx context.Context, tx pgx.Tx, account *entities.Account) (*entities.Account, error) {
	if account.ID == "" {
		saved, err := scanAccount(tx.QueryRow(ctx, queryInsert, account.Name, account.PasswordHash, account.Email))
		if err != nil {
			if isPgError(err, pgerrcode.UniqueViolation) {
				return nil, fmt.Errorf("%s: %w", errCtxInsertAccount, entities.ErrAccountExists)
			}
			return nil, fmt.Errorf("%s: %w", errCtxInsertAccount, err)
		}
		return saved, nil
	}

	saved, err := scanAccount(tx.QueryRow(ctx, queryUpdate, account.ID, account.Name, account.PasswordHash, account.Email))
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return nil, fmt.Errorf("%s: %w", errCtxUpdateAccount, entities.ErrAccountNotFound)
		case isPgError(err, pgerrcode.UniqueViolation):
			return nil, fmt.Errorf("%s: %w", errCtxUpdateAccount, entities.ErrAccountExists)
		}
		return nil, fmt.Errorf("%s: %w", errCtxUpdateAccount, err)
	}
	return saved, nil
}

// DeleteByID удаляет учетную запись по идентификатору.
func (r *AccountRepository) DeleteByID(ctx context.Context, id string) error {
	log := logger.Log(ctx).With(zap.String("repository", "account"), zap.String("method", "DeleteByID"))

	if id == "" {
		return entities.ErrEmptyAccountID
	}

	result, err := r.pool.Exec(ctx, queryDelete, id)
	if err != nil {
		if isPgError(err, pgerrcode.InvalidTextRepresentation) {
			log.Debug(ctx, "malformed account id for deletion", zap.String("id", id))
			return entities.ErrAccountNotFound
		}
		log.Error(ctx, "error deleting account", zap.Error(err))
		return fmt.Errorf("%s: %w", errCtxDeleteAccount, err)
	}

	if result.RowsAffected() == 0 {
		log.Debug(ctx, "account not found for deletion", zap.String("id", id))
		return entities.ErrAccountNotFound
	}

	return nil
}

func scanAccount(row pgx.Row) (*entities.Account, error) {
	var account entities.Account
	err := row.Scan(
		&account.ID,
		&account.Name,
		&account.PasswordHash,
		&account.Email,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func isPgError(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}
