package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/pcmejia/inventario-obras/internal/application/dto"
	"github.com/pcmejia/inventario-obras/internal/domain"
)

// respondError traduce un error de dominio a su código HTTP y cuerpo estándar.
func respondError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	code := "INTERNAL"

	switch {
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrReasonRequired):
		status, code = fiber.StatusBadRequest, "INVALID_INPUT"
	case errors.Is(err, domain.ErrUnauthorized):
		status, code = fiber.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, domain.ErrForbidden):
		status, code = fiber.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		status, code = fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrDuplicate):
		status, code = fiber.StatusConflict, "CONFLICT"
	case errors.Is(err, domain.ErrUnavailable):
		status, code = fiber.StatusServiceUnavailable, "UPSTREAM_UNAVAILABLE"
	}

	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: err.Error()})
}

// isDomainError reporta si el error corresponde a un sentinel de dominio
// con mapeo HTTP propio.
func isDomainError(err error) bool {
	for _, sentinel := range []error{
		domain.ErrInvalidInput,
		domain.ErrReasonRequired,
		domain.ErrUnauthorized,
		domain.ErrForbidden,
		domain.ErrNotFound,
		domain.ErrUserNotFound,
		domain.ErrConflict,
		domain.ErrDuplicate,
		domain.ErrUnavailable,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
