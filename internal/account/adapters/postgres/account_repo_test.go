package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"accountkeeper/internal/account/adapters/postgres"
	"accountkeeper/internal/account/domain/entities"
	"accountkeeper/pkg/logger"
)

var accountColumns = []string{"id", "name", "password_hash", "email", "created_at", "updated_at"}

func testContext(t *testing.T) context.Context {
	t.Helper()
	testLogger, err := logger.NewLogger(logger.Development, "debug")
	require.NoError(t, err)
	return logger.NewContext(context.Background(), testLogger)
}

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func TestAccountRepository_FindByName(t *testing.T) {
	ctx := testContext(t)
	now := time.Now().UTC().Truncate(time.Microsecond)

	t.Run("Успешный поиск по имени", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery("SELECT .+ FROM accounts WHERE name = \\$1").
			WithArgs("alice").
			WillReturnRows(pgxmock.NewRows(accountColumns).
				AddRow("id-1", "alice", "hash", "alice@example.com", now, now))

		repo := postgres.NewAccountRepository(mock)
		account, err := repo.FindByName(ctx, "alice")

		require.NoError(t, err)
		assert.Equal(t, "id-1", account.ID)
		assert.Equal(t, "alice", account.Name)
		assert.Equal(t, "hash", account.PasswordHash)
		assert.Equal(t, "alice@example.com", account.Email)
		assert.Equal(t, now, account.CreatedAt)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Учетная запись не найдена", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery("SELECT .+ FROM accounts WHERE name = \\$1").
			WithArgs("ghost").
			WillReturnRows(pgxmock.NewRows(accountColumns))

		repo := postgres.NewAccountRepository(mock)
		account, err := repo.FindByName(ctx, "ghost")

		assert.Nil(t, account)
		assert.ErrorIs(t, err, entities.ErrAccountNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Ошибка базы данных", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery("SELECT .+ FROM accounts WHERE name = \\$1").
			WithArgs("alice").
			WillReturnError(errors.New("connection reset"))

		repo := postgres.NewAccountRepository(mock)
		account, err := repo.FindByName(ctx, "alice")

		assert.Nil(t, account)
		require.Error(t, err)
		assert.NotErrorIs(t, err, entities.ErrAccountNotFound)
		assert.Contains(t, err.Error(), "error querying account by name")
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAccountRepository_FindByID(t *testing.T) {
	ctx := testContext(t)
	now := time.Now().UTC().Truncate(time.Microsecond)

	t.Run("Успешный поиск по идентификатору без email", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery("SELECT .+ FROM accounts WHERE id = \\$1").
			WithArgs("id-1").
			WillReturnRows(pgxmock.NewRows(accountColumns).
				AddRow("id-1", "alice", "hash", "", now, now))

		repo := postgres.NewAccountRepository(mock)
		account, err := repo.FindByID(ctx, "id-1")

		require.NoError(t, err)
		assert.Equal(t, "alice", account.Name)
		assert.False(t, account.HasEmail())
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Пустой идентификатор", func(t *testing.T) {
		mock := newMock(t)

		repo := postgres.NewAccountRepository(mock)
		account, err := repo.FindByID(ctx, "")

		assert.Nil(t, account)
		assert.ErrorIs(t, err, entities.ErrEmptyAccountID)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Некорректный UUID трактуется как отсутствие записи", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery("SELECT .+ FROM accounts WHERE id = \\$1").
			WithArgs("not-a-uuid").
			WillReturnError(&pgconn.PgError{Code: pgerrcode.InvalidTextRepresentation})

		repo := postgres.NewAccountRepository(mock)
		account, err := repo.FindByID(ctx, "not-a-uuid")

		assert.Nil(t, account)
		assert.ErrorIs(t, err, entities.ErrAccountNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAccountRepository_Save(t *testing.T) {
	ctx := testContext(t)
	now := time.Now().UTC().Truncate(time.Microsecond)

	t.Run("Создание новой учетной записи", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO accounts .+").
			WithArgs("alice", "hash", "alice@example.com").
			WillReturnRows(pgxmock.NewRows(accountColumns).
				AddRow("generated-uuid", "alice", "hash", "alice@example.com", now, now))
		mock.ExpectCommit()

		repo := postgres.NewAccountRepository(mock)
		saved, err := repo.Save(ctx, &entities.Account{Name: "alice", PasswordHash: "hash", Email: "alice@example.com"})

		require.NoError(t, err)
		assert.Equal(t, "generated-uuid", saved.ID)
		assert.Equal(t, "alice", saved.Name)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Дублирующееся имя", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO accounts .+").
			WithArgs("alice", "hash", "").
			WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "accounts_name_key"})
		mock.ExpectRollback()

		repo := postgres.NewAccountRepository(mock)
		saved, err := repo.Save(ctx, &entities.Account{Name: "alice", PasswordHash: "hash"})

		assert.Nil(t, saved)
		assert.ErrorIs(t, err, entities.ErrAccountExists)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Обновление существующей учетной записи", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectBegin()
		mock.ExpectQuery("UPDATE accounts SET .+ WHERE id = \\$1").
			WithArgs("id-1", "alice", "new-hash", "").
			WillReturnRows(pgxmock.NewRows(accountColumns).
				AddRow("id-1", "alice", "new-hash", "", now, now))
		mock.ExpectCommit()

		repo := postgres.NewAccountRepository(mock)
		saved, err := repo.Save(ctx, &entities.Account{ID: "id-1", Name: "alice", PasswordHash: "new-hash"})

		require.NoError(t, err)
		assert.Equal(t, "new-hash", saved.PasswordHash)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Обновление удаленной учетной записи", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectBegin()
		mock.ExpectQuery("UPDATE accounts SET .+ WHERE id = \\$1").
			WithArgs("id-1", "alice", "new-hash", "").
			WillReturnRows(pgxmock.NewRows(accountColumns))
		mock.ExpectRollback()

		repo := postgres.NewAccountRepository(mock)
		saved, err := repo.Save(ctx, &entities.Account{ID: "id-1", Name: "alice", PasswordHash: "new-hash"})

		assert.Nil(t, saved)
		assert.ErrorIs(t, err, entities.ErrAccountNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Ошибка начала транзакции", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectBegin().WillReturnError(errors.New("pool exhausted"))

		repo := postgres.NewAccountRepository(mock)
		saved, err := repo.Save(ctx, &entities.Account{Name: "alice", PasswordHash: "hash"})

		assert.Nil(t, saved)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "error starting transaction")
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Ошибка фиксации транзакции", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO accounts .+").
			WithArgs("alice", "hash", "").
			WillReturnRows(pgxmock.NewRows(accountColumns).
				AddRow("generated-uuid", "alice", "hash", "", now, now))
		mock.ExpectCommit().WillReturnError(errors.New("serialization failure"))

		repo := postgres.NewAccountRepository(mock)
		saved, err := repo.Save(ctx, &entities.Account{Name: "alice", PasswordHash: "hash"})

		assert.Nil(t, saved)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "error committing transaction")
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAccountRepository_DeleteByID(t *testing.T) {
	ctx := testContext(t)

	t.Run("Успешное удаление", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectExec("DELETE FROM accounts WHERE id = \\$1").
			WithArgs("id-1").
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		repo := postgres.NewAccountRepository(mock)
		require.NoError(t, repo.DeleteByID(ctx, "id-1"))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Запись уже удалена", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectExec("DELETE FROM accounts WHERE id = \\$1").
			WithArgs("id-1").
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		repo := postgres.NewAccountRepository(mock)
		err := repo.DeleteByID(ctx, "id-1")

		assert.ErrorIs(t, err, entities.ErrAccountNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Пустой идентификатор", func(t *testing.T) {
		mock := newMock(t)

		repo := postgres.NewAccountRepository(mock)
		err := repo.DeleteByID(ctx, "")

		assert.ErrorIs(t, err, entities.ErrEmptyAccountID)
	})

	t.Run("Ошибка базы данных", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectExec("DELETE FROM accounts WHERE id = \\$1").
			WithArgs("id-1").
			WillReturnError(errors.New("connection reset"))

		repo := postgres.NewAccountRepository(mock)
		err := repo.DeleteByID(ctx, "id-1")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "error deleting account")
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
