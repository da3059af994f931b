package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/facturation-ci/internal/application/dto"
	"github.com/jhoicas/facturation-ci/internal/application/task"
	"github.com/jhoicas/facturation-ci/internal/domain"
	"github.com/jhoicas/facturation-ci/internal/domain/certification"
)

// requestError error de entrada detectado en el handler (cuerpo, query, validación).
type requestError struct {
	code string
	msg  string
}

func (e *requestError) Error() string { return e.msg }

func badRequest(code, msg string) error { return &requestError{code: code, msg: msg} }

// errorStatus código HTTP y código de error de la API para err.
func errorStatus(err error) (int, string) {
	var re *requestError
	if errors.As(err, &re) {
		return fiber.StatusBadRequest, re.code
	}

	switch certification.KindOf(err) {
	case certification.KindValidation:
		return fiber.StatusUnprocessableEntity, "FNE_VALIDATION"
	case certification.KindReconciliation:
		return fiber.StatusUnprocessableEntity, "FNE_RECONCILIATION"
	case certification.KindAlreadyCertified:
		return fiber.StatusConflict, "ALREADY_CERTIFIED"
	case certification.KindCommunication:
		return fiber.StatusBadGateway, "FNE_COMMUNICATION"
	case certification.KindAPI:
		return fiber.StatusBadGateway, "FNE_API"
	case certification.KindUnexpectedResponse:
		return fiber.StatusBadGateway, "FNE_UNEXPECTED_RESPONSE"
	case certification.KindUnrecorded:
		return fiber.StatusInternalServerError, "FNE_UNRECORDED"
	}

	switch {
	case errors.Is(err, task.ErrInFlight):
		return fiber.StatusConflict, "TASK_IN_FLIGHT"
	case errors.Is(err, task.ErrClosed):
		return fiber.StatusServiceUnavailable, "SHUTTING_DOWN"
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, "VALIDATION"
	case errors.Is(err, domain.ErrDuplicate):
		return fiber.StatusConflict, "DUPLICATE"
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, domain.ErrOrderLocked):
		return fiber.StatusConflict, "ORDER_LOCKED"
	case errors.Is(err, domain.ErrOrderNotCompleted):
		return fiber.StatusConflict, "ORDER_NOT_COMPLETED"
	case errors.Is(err, domain.ErrAlreadyInvoiced):
		return fiber.StatusConflict, "ALREADY_INVOICED"
	case errors.Is(err, domain.ErrCompanyNotSet):
		return fiber.StatusUnprocessableEntity, "COMPANY_NOT_SET"
	case errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict, "CONFLICT"
	case errors.Is(err, context.DeadlineExceeded):
		return fiber.StatusGatewayTimeout, "TIMEOUT"
	}
	return fiber.StatusInternalServerError, "INTERNAL"
}

func errorBody(err error) dto.ErrorResponse {
	_, code := errorStatus(err)
	return dto.ErrorResponse{Code: code, Message: err.Error()}
}

// writeError responde con el estado y el cuerpo de error correspondientes a err.
func writeError(c *fiber.Ctx, err error) error {
	status, code := errorStatus(err)
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: err.Error()})
}
