// Package http содержит HTTP API сервиса учетных записей.
package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"accountkeeper/internal/account/adapters/http/dto"
	"accountkeeper/internal/account/adapters/http/middleware"
	"accountkeeper/internal/account/domain/entities"
	"accountkeeper/internal/account/ports/api"
	svc "accountkeeper/internal/account/ports/services"
	"accountkeeper/pkg/logger"
)

// Константы для логирования.
const (
	LogHandlerRegister       = "account handler: register"
	LogHandlerLogin          = "account handler: login"
	LogHandlerLogout         = "account handler: logout"
	LogHandlerResetPassword  = "account handler: reset password"
	LogHandlerChangePassword = "account handler: change password"
	LogHandlerDeleteAccount  = "account handler: delete account"
	LogHandlerGetAccount     = "account handler: get account"

	ErrorFailedToServeRequest = "failed to serve request"
)

// Handler содержит HTTP обработчики операций с учетными записями.
type Handler struct {
	manager     api.AccountManager
	passwordSvc svc.PasswordService
	sessions    svc.SessionStore
	cookie      middleware.CookieConfig
}

// NewHandler создает обработчик. passwordSvc проверяет пароль при входе
// по хэшу, который возвращает AccountManager.Authenticate.
func NewHandler(
	manager api.AccountManager,
	passwordSvc svc.PasswordService,
	sessions svc.SessionStore,
	cookie middleware.CookieConfig,
) *Handler {
	return &Handler{
		manager:     manager,
		passwordSvc: passwordSvc,
		sessions:    sessions,
		cookie:      cookie,
	}
}

// Register обрабатывает регистрацию новой учетной записи.
func (h *Handler) Register(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerRegister)

	var req dto.RegisterRequest
	if err := ctx.Bind().JSON(&req); err != nil {
		log.Debug(requestCtx, msgInvalidRequest, zap.Error(err))
		return sendBindError(ctx, err)
	}

	account, err := h.manager.Register(requestCtx, req.Name, req.Password, req.PasswordConfirm, req.Email)
	if err != nil {
		log.Debug(requestCtx, ErrorFailedToServeRequest, zap.Error(err))
		return sendError(ctx, err)
	}

	return sendJSON(ctx, http.StatusCreated, dto.NewAccountResponse(account))
}

// Login связывает новую сессию с учетной записью и проверяет пароль.
// Cookie с идентификатором новой сессии выдается только после успешной проверки,
// прежняя сессия вызывающего уничтожается.
// Неизвестное имя и неверный пароль дают одинаковый ответ 401.
func (h *Handler) Login(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerLogin)

	var req dto.LoginRequest
	if err := ctx.Bind().JSON(&req); err != nil {
		log.Debug(requestCtx, msgInvalidRequest, zap.Error(err))
		return sendBindError(ctx, err)
	}

	loginSession := h.sessions.Context("")
	principal, err := h.manager.Authenticate(requestCtx, loginSession, req.Name)
	if err != nil {
		h.discardSession(requestCtx, loginSession.ID())
		if errors.Is(err, entities.ErrAccountNotFound) {
			return sendJSON(ctx, http.StatusUnauthorized, dto.ErrorResponse{Error: msgInvalidCredentials})
		}
		log.Debug(requestCtx, ErrorFailedToServeRequest, zap.Error(err))
		return sendError(ctx, err)
	}

	valid, err := h.passwordSvc.Verify(requestCtx, req.Password, principal.PasswordHash)
	if err != nil || !valid {
		h.discardSession(requestCtx, loginSession.ID())
		return sendJSON(ctx, http.StatusUnauthorized, dto.ErrorResponse{Error: msgInvalidCredentials})
	}

	if previous := middleware.Session(ctx); previous != nil && previous.ID() != loginSession.ID() {
		h.discardSession(requestCtx, previous.ID())
	}
	middleware.SetSessionCookie(ctx, h.cookie, loginSession.ID())

	return sendJSON(ctx, http.StatusOK, dto.NewLoginResponse(principal))
}

// discardSession удаляет сессию, идентификатор которой не будет выдан клиенту.
func (h *Handler) discardSession(ctx context.Context, sessionID string) {
	if err := h.sessions.Destroy(ctx, sessionID); err != nil {
		logger.Log(ctx).Warn(ctx, "failed to destroy session", zap.Error(err))
	}
}

// Logout уничтожает сессию вызывающего.
func (h *Handler) Logout(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerLogout)

	if err := h.sessions.Destroy(requestCtx, middleware.Session(ctx).ID()); err != nil {
		log.Error(requestCtx, ErrorFailedToServeRequest, zap.Error(err))
		return sendError(ctx, err)
	}
	middleware.ClearSessionCookie(ctx, h.cookie)

	return sendJSON(ctx, http.StatusOK, dto.StatusResponse{Status: "logged out"})
}

// ResetPassword заменяет пароль случайным и отправляет его владельцу.
func (h *Handler) ResetPassword(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerResetPassword)

	var req dto.ResetPasswordRequest
	if err := ctx.Bind().JSON(&req); err != nil {
		log.Debug(requestCtx, msgInvalidRequest, zap.Error(err))
		return sendBindError(ctx, err)
	}

	if err := h.manager.ResetPassword(requestCtx, req.Name); err != nil {
		log.Debug(requestCtx, ErrorFailedToServeRequest, zap.Error(err))
		return sendError(ctx, err)
	}

	return sendJSON(ctx, http.StatusOK, dto.StatusResponse{Status: "new password sent"})
}

// ChangePassword меняет пароль учетной записи текущей сессии.
func (h *Handler) ChangePassword(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerChangePassword)

	var req dto.ChangePasswordRequest
	if err := ctx.Bind().JSON(&req); err != nil {
		log.Debug(requestCtx, msgInvalidRequest, zap.Error(err))
		return sendBindError(ctx, err)
	}

	err := h.manager.ChangePassword(requestCtx, middleware.Session(ctx),
		req.CurrentPassword, req.NewPassword, req.NewPasswordConfirm)
	if err != nil {
		log.Debug(requestCtx, ErrorFailedToServeRequest, zap.Error(err))
		return sendError(ctx, err)
	}

	return sendJSON(ctx, http.StatusOK, dto.StatusResponse{Status: "password changed"})
}

// DeleteAccount удаляет учетную запись по идентификатору из пути.
func (h *Handler) DeleteAccount(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerDeleteAccount)

	if err := h.manager.DeleteAccount(requestCtx, ctx.Params("id")); err != nil {
		log.Debug(requestCtx, ErrorFailedToServeRequest, zap.Error(err))
		return sendError(ctx, err)
	}

	return ctx.SendStatus(http.StatusNoContent)
}

// GetAccount возвращает учетную запись текущей сессии.
func (h *Handler) GetAccount(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx)
	log.Debug(requestCtx, LogHandlerGetAccount)

	account, err := h.manager.CurrentAccount(requestCtx, middleware.Session(ctx))
	if err != nil {
		log.Debug(requestCtx, ErrorFailedToServeRequest, zap.Error(err))
		return sendError(ctx, err)
	}

	return sendJSON(ctx, http.StatusOK, dto.NewAccountResponse(account))
}
