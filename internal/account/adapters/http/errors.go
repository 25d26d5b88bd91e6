package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"accountkeeper/internal/account/adapters/http/dto"
	"accountkeeper/internal/account/domain/entities"
	"accountkeeper/internal/account/domain/services"
)

const (
	msgInvalidRequest     = "invalid request"
	msgInvalidCredentials = "invalid name or password"
	msgInternalError      = "internal server error"
)

// Сопоставление ошибок домена с HTTP статусами. Порядок важен: проверяется первое совпадение.
var errorStatuses = []struct {
	err    error
	status int
}{
	{entities.ErrAccountNotFound, http.StatusNotFound},
	{services.ErrSessionExpired, http.StatusUnauthorized},
	{services.ErrIncorrectCurrentPassword, http.StatusForbidden},
	{services.ErrRegistrationFailed, http.StatusUnprocessableEntity},
	{services.ErrDeletionFailed, http.StatusBadRequest},
	{services.ErrNotifyFailed, http.StatusBadGateway},
	{services.ErrPasswordUpdateFailed, http.StatusInternalServerError},
}

// errorResponse переводит ошибку домена в статус и безопасное для клиента сообщение.
func errorResponse(err error) (int, dto.ErrorResponse) {
	var vErr *entities.ValidationError
	if errors.As(err, &vErr) {
		return http.StatusBadRequest, dto.ErrorResponse{Error: vErr.Reason, Field: vErr.Field}
	}

	for _, candidate := range errorStatuses {
		if errors.Is(err, candidate.err) {
			return candidate.status, dto.ErrorResponse{Error: candidate.err.Error()}
		}
	}

	return http.StatusInternalServerError, dto.ErrorResponse{Error: msgInternalError}
}

// bindErrorResponse описывает ошибку разбора или проверки тела запроса.
func bindErrorResponse(err error) dto.ErrorResponse {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		field := fieldErrs[0].Field()
		return dto.ErrorResponse{Error: fmt.Sprintf("%s is %s", field, fieldErrs[0].Tag()), Field: field}
	}
	return dto.ErrorResponse{Error: msgInvalidRequest}
}

func sendBindError(ctx fiber.Ctx, err error) error {
	return sendJSON(ctx, http.StatusBadRequest, bindErrorResponse(err))
}

func sendError(ctx fiber.Ctx, err error) error {
	status, body := errorResponse(err)
	return sendJSON(ctx, status, body)
}

func sendJSON(ctx fiber.Ctx, status int, body any) error {
	if err := ctx.Status(status).JSON(body); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}
