// Package app реализует менеджер учетных записей: регистрацию, аутентификацию,
// смену и сброс пароля, удаление.
package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"accountkeeper/internal/account/domain/entities"
	"accountkeeper/internal/account/domain/services"
	"accountkeeper/internal/account/ports/api"
	"accountkeeper/internal/account/ports/repositories"
	svc "accountkeeper/internal/account/ports/services"
	"accountkeeper/pkg/logger"
)

const (
	methodAuthenticate   = "Authenticate"
	methodRegister       = "Register"
	methodChangePassword = "ChangePassword"
	methodResetPassword  = "ResetPassword"
	methodDeleteAccount  = "DeleteAccount"
	methodCurrentAccount = "CurrentAccount"

	msgAuthenticating        = "loading account for authentication"
	msgAccountNotFound       = "account not found"
	msgSessionAssociated     = "session associated with account"
	msgStartRegistration     = "starting account registration"
	msgRegistrationRejected  = "registration rejected by validation"
	msgAccountRegistered     = "account registered successfully"
	msgChangingPassword      = "changing password"
	msgNoActiveSession       = "no active session"
	msgPasswordChangeInvalid = "password change rejected by validation"
	msgWrongCurrentPassword  = "current password does not match"
	msgPasswordChanged       = "password changed successfully"
	msgResettingPassword     = "resetting password"
	msgPasswordReset         = "password reset and notification delivered"
	msgDeletingAccount       = "deleting account"
	msgAccountDeleted        = "account deleted successfully"

	msgErrFindingAccount    = "failed to find account"
	msgErrOpeningSession    = "failed to open session"
	msgErrStoringSession    = "failed to store account in session"
	msgErrReadingSession    = "failed to read account from session"
	msgErrHashPassword      = "failed to hash password"
	msgErrVerifyPassword    = "failed to verify password"
	msgErrSavingAccount     = "failed to save account"
	msgErrGeneratePassword  = "failed to generate password"
	msgErrNotify            = "failed to deliver new password, password stays changed"
	msgErrDeletingAccount   = "failed to delete account"
	msgErrLookupForDeletion = "account lookup before deletion failed"

	errCtxValidatingName     = "validating name"
	errCtxValidatingPassword = "validating password"
	errCtxValidatingConfirm  = "validating password confirmation"
	errCtxValidatingEmail    = "validating email"
	errCtxFindingAccount     = "finding account"
	errCtxOpeningSession     = "opening session"
	errCtxStoringSession     = "storing session"
	errCtxReadingSession     = "reading session"
	errCtxHashingPassword    = "hashing password"
	errCtxVerifyingPassword  = "verifying current password"
	errCtxCreatingAccount    = "creating account"
	errCtxSavingAccount      = "saving account"
	errCtxGeneratingPassword = "generating password"
	errCtxNotifying          = "sending new password"
	errCtxDeletingAccount    = "deleting account"
)

// AccountManagerImpl реализует интерфейс api.AccountManager.
type AccountManagerImpl struct {
	accountRepo repositories.AccountRepository
	passwordSvc svc.PasswordService
	generator   svc.PasswordGenerator
	notifier    svc.Notifier
}

// NewAccountManager создает новый менеджер учетных записей.
func NewAccountManager(
	accountRepo repositories.AccountRepository,
	passwordSvc svc.PasswordService,
	generator svc.PasswordGenerator,
	notifier svc.Notifier,
) api.AccountManager {
	return &AccountManagerImpl{
		accountRepo: accountRepo,
		passwordSvc: passwordSvc,
		generator:   generator,
		notifier:    notifier,
	}
}

// Authenticate загружает учетную запись по имени и связывает с ней сессию вызывающего.
// Пароль здесь не проверяется: вызывающий сверяет его с Principal.PasswordHash сам.
func (m *AccountManagerImpl) Authenticate(ctx context.Context, session svc.SessionContext, name string) (*entities.Principal, error) {
	log := logger.Log(ctx).With(zap.String("method", methodAuthenticate), zap.String("name", name))
	log.Debug(ctx, msgAuthenticating)

	if name == "" {
		return nil, fmt.Errorf("%s: %w", errCtxValidatingName,
			entities.NewValidationError(entities.FieldName, entities.ErrEmptyName))
	}

	account, err := m.findByName(ctx, log, name)
	if err != nil {
		return nil, err
	}

	current, err := session.CurrentSession(ctx, true)
	if err != nil {
		log.Error(ctx, msgErrOpeningSession, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxOpeningSession, err)
	}
	if err := current.Set(ctx, services.SessionAccountKey, account); err != nil {
		log.Error(ctx, msgErrStoringSession, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxStoringSession, err)
	}

	log.Info(ctx, msgSessionAssociated, zap.String("accountID", account.ID))
	return entities.NewPrincipal(account), nil
}

// Register проверяет данные и создает новую учетную запись.
// Ошибки хранилища, включая конфликт имени, журналируются и возвращаются как ErrRegistrationFailed.
func (m *AccountManagerImpl) Register(ctx context.Context, name, password, passwordConfirm, email string) (*entities.Account, error) {
	log := logger.Log(ctx).With(zap.String("method", methodRegister), zap.String("name", name))
	log.Debug(ctx, msgStartRegistration)

	if err := validateUsername(name); err != nil {
		log.Debug(ctx, msgRegistrationRejected, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxValidatingName, err)
	}
	if err := validatePassword(password); err != nil {
		log.Debug(ctx, msgRegistrationRejected, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxValidatingPassword, err)
	}
	if err := validatePasswordConfirm(password, passwordConfirm); err != nil {
		log.Debug(ctx, msgRegistrationRejected, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxValidatingConfirm, err)
	}
	if err := validateEmail(email); err != nil {
		log.Debug(ctx, msgRegistrationRejected, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxValidatingEmail, err)
	}

	hash, err := m.passwordSvc.Hash(ctx, password)
	if err != nil {
		log.Error(ctx, msgErrHashPassword, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxHashingPassword, services.ErrRegistrationFailed)
	}

	created, err := m.accountRepo.Save(ctx, &entities.Account{
		Name:         name,
		PasswordHash: hash,
		Email:        email,
	})
	if err != nil {
		log.Error(ctx, msgErrSavingAccount, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxCreatingAccount, services.ErrRegistrationFailed)
	}

	log.Info(ctx, msgAccountRegistered, zap.String("accountID", created.ID))
	return created, nil
}

// ChangePassword меняет пароль учетной записи, связанной с сессией вызывающего.
// Отсутствие сессии проверяется до любой валидации нового пароля.
func (m *AccountManagerImpl) ChangePassword(
	ctx context.Context,
	session svc.SessionContext,
	currentPassword, newPassword, newPasswordConfirm string,
) error {
	log := logger.Log(ctx).With(zap.String("method", methodChangePassword))
	log.Debug(ctx, msgChangingPassword)

	current, account, err := m.sessionAccount(ctx, log, session)
	if err != nil {
		return err
	}
	log = log.With(zap.String("accountID", account.ID))

	if err := validatePasswordConfirm(newPassword, newPasswordConfirm); err != nil {
		log.Debug(ctx, msgPasswordChangeInvalid, zap.Error(err))
		return fmt.Errorf("%s: %w", errCtxValidatingConfirm, err)
	}
	if err := validatePassword(newPassword); err != nil {
		log.Debug(ctx, msgPasswordChangeInvalid, zap.Error(err))
		return fmt.Errorf("%s: %w", errCtxValidatingPassword, err)
	}

	valid, err := m.passwordSvc.Verify(ctx, currentPassword, account.PasswordHash)
	if err != nil && !errors.Is(err, services.ErrInvalidPassword) {
		log.Error(ctx, msgErrVerifyPassword, zap.Error(err))
		return fmt.Errorf("%s: %w", errCtxVerifyingPassword, err)
	}
	if !valid {
		log.Debug(ctx, msgWrongCurrentPassword)
		return fmt.Errorf("%s: %w", errCtxVerifyingPassword, services.ErrIncorrectCurrentPassword)
	}

	saved, err := m.replacePassword(ctx, log, account, newPassword)
	if err != nil {
		return err
	}

	if err := current.Set(ctx, services.SessionAccountKey, saved); err != nil {
		log.Error(ctx, msgErrStoringSession, zap.Error(err))
		return fmt.Errorf("%s: %w", errCtxStoringSession, err)
	}

	log.Info(ctx, msgPasswordChanged)
	return nil
}

// ResetPassword заменяет пароль учетной записи случайным и отправляет его через Notifier.
// Если доставка не удалась, пароль остается измененным: возвращается ошибка с ErrNotifyFailed.
func (m *AccountManagerImpl) ResetPassword(ctx context.Context, name string) error {
	log := logger.Log(ctx).With(zap.String("method", methodResetPassword), zap.String("name", name))
	log.Debug(ctx, msgResettingPassword)

	account, err := m.findByName(ctx, log, name)
	if err != nil {
		return err
	}
	log = log.With(zap.String("accountID", account.ID))

	plaintext, err := m.generator.Generate(ctx)
	if err != nil {
		log.Error(ctx, msgErrGeneratePassword, zap.Error(err))
		return fmt.Errorf("%s: %w", errCtxGeneratingPassword, services.ErrPasswordUpdateFailed)
	}

	saved, err := m.replacePassword(ctx, log, account, plaintext)
	if err != nil {
		return err
	}

	if err := m.notifier.SendNewPassword(ctx, plaintext, saved); err != nil {
		log.Error(ctx, msgErrNotify, zap.Error(err))
		return fmt.Errorf("%s: %w", errCtxNotifying, services.ErrNotifyFailed)
	}

	log.Info(ctx, msgPasswordReset)
	return nil
}

// DeleteAccount удаляет учетную запись по идентификатору.
// Любая ошибка хранилища журналируется и возвращается как ErrDeletionFailed.
func (m *AccountManagerImpl) DeleteAccount(ctx context.Context, id string) error {
	log := logger.Log(ctx).With(zap.String("method", methodDeleteAccount), zap.String("accountID", id))
	log.Debug(ctx, msgDeletingAccount)

	if _, err := m.accountRepo.FindByID(ctx, id); err != nil {
		log.Error(ctx, msgErrLookupForDeletion, zap.Error(err))
		return fmt.Errorf("%s: %w", errCtxDeletingAccount, services.ErrDeletionFailed)
	}

	if err := m.accountRepo.DeleteByID(ctx, id); err != nil {
		log.Error(ctx, msgErrDeletingAccount, zap.Error(err))
		return fmt.Errorf("%s: %w", errCtxDeletingAccount, services.ErrDeletionFailed)
	}

	log.Info(ctx, msgAccountDeleted)
	return nil
}

// CurrentAccount возвращает учетную запись, связанную с сессией вызывающего.
func (m *AccountManagerImpl) CurrentAccount(ctx context.Context, session svc.SessionContext) (*entities.Account, error) {
	log := logger.Log(ctx).With(zap.String("method", methodCurrentAccount))

	_, account, err := m.sessionAccount(ctx, log, session)
	if err != nil {
		return nil, err
	}
	return account, nil
}

func (m *AccountManagerImpl) findByName(ctx context.Context, log *logger.Logger, name string) (*entities.Account, error) {
	account, err := m.accountRepo.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, entities.ErrAccountNotFound) {
			log.Debug(ctx, msgAccountNotFound)
		} else {
			log.Error(ctx, msgErrFindingAccount, zap.Error(err))
		}
		return nil, fmt.Errorf("%s: %w", errCtxFindingAccount, err)
	}
	return account, nil
}

func (m *AccountManagerImpl) sessionAccount(
	ctx context.Context,
	log *logger.Logger,
	session svc.SessionContext,
) (svc.Session, *entities.Account, error) {
	if session == nil {
		log.Debug(ctx, msgNoActiveSession)
		return nil, nil, fmt.Errorf("%s: %w", errCtxOpeningSession, services.ErrSessionExpired)
	}

	current, err := session.CurrentSession(ctx, false)
	if err != nil {
		if errors.Is(err, services.ErrNoSession) {
			log.Debug(ctx, msgNoActiveSession)
			return nil, nil, fmt.Errorf("%s: %w", errCtxOpeningSession, services.ErrSessionExpired)
		}
		log.Error(ctx, msgErrOpeningSession, zap.Error(err))
		return nil, nil, fmt.Errorf("%s: %w", errCtxOpeningSession, err)
	}

	account, err := current.Get(ctx, services.SessionAccountKey)
	if err != nil {
		log.Error(ctx, msgErrReadingSession, zap.Error(err))
		return nil, nil, fmt.Errorf("%s: %w", errCtxReadingSession, err)
	}
	if account == nil {
		log.Debug(ctx, msgNoActiveSession)
		return nil, nil, fmt.Errorf("%s: %w", errCtxReadingSession, services.ErrSessionExpired)
	}

	return current, account, nil
}

// replacePassword хэширует пароль и сохраняет учетную запись с новым хэшем.
// Исходная запись не изменяется.
func (m *AccountManagerImpl) replacePassword(
	ctx context.Context,
	log *logger.Logger,
	account *entities.Account,
	plaintext string,
) (*entities.Account, error) {
	hash, err := m.passwordSvc.Hash(ctx, plaintext)
	if err != nil {
		log.Error(ctx, msgErrHashPassword, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxHashingPassword, services.ErrPasswordUpdateFailed)
	}

	updated := *account
	updated.PasswordHash = hash

	saved, err := m.accountRepo.Save(ctx, &updated)
	if err != nil {
		log.Error(ctx, msgErrSavingAccount, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxSavingAccount, services.ErrPasswordUpdateFailed)
	}
	return saved, nil
}
