package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/internal/domain"
)

// localError guarda el error original para que RequestLogger lo registre en los 5xx.
const localError = "error"

// respondError es el único punto donde un error de dominio se convierte en respuesta HTTP.
// El cuerpo nunca lleva texto del motor de BD: sólo código simbólico, mensaje y timestamp.
func respondError(c *fiber.Ctx, err error) error {
	status, body := classify(err)
	if status >= fiber.StatusInternalServerError {
		c.Locals(localError, err)
	}
	return c.Status(status).JSON(body)
}

func classify(err error) (int, dto.ErrorResponse) {
	var verr *domain.ValidationError
	var cerr *domain.ConstraintError
	var ferr *fiber.Error
	switch {
	case errors.As(err, &verr):
		return fiber.StatusBadRequest, dto.NewError("VALIDATION", verr.Error())
	case errors.As(err, &cerr):
		if cerr.Code == domain.CodeForeignKeyViolation || cerr.Code == domain.CodeConstraintViolation {
			return fiber.StatusBadRequest, dto.NewError(cerr.Code, "referencia o restricción de datos inválida")
		}
		return fiber.StatusConflict, dto.NewError(cerr.Code, "el recurso ya existe")
	case errors.Is(err, domain.ErrInvalidStateTransition):
		return fiber.StatusBadRequest, dto.NewError("INVALID_STATE_TRANSITION", err.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, dto.NewError("VALIDATION", err.Error())
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return fiber.StatusNotFound, dto.NewError("NOT_FOUND", err.Error())
	case errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict, dto.NewError("CONFLICT", "operación concurrente, reintente")
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, dto.NewError("UNAUTHORIZED", "no autorizado")
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, dto.NewError("FORBIDDEN", "acceso denegado")
	case errors.As(err, &ferr):
		return ferr.Code, dto.NewError("HTTP_ERROR", ferr.Message)
	default:
		return fiber.StatusInternalServerError, dto.NewError("INTERNAL", "error interno del servidor")
	}
}

// ErrorHandler para fiber.Config: rutas inexistentes, pánicos recuperados y errores no manejados.
func ErrorHandler(c *fiber.Ctx, err error) error {
	return respondError(c, err)
}
