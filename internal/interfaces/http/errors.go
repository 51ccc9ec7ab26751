package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Licencia-api/internal/application/dto"
	"github.com/jhoicas/Licencia-api/internal/domain"
)

// genericInternalMessage texto de los 500 en rutas públicas; el detalle solo va al log.
const genericInternalMessage = "error interno, intente más tarde"

type errorMapping struct {
	target error
	status int
	code   string
}

// Orden importante: ErrSelfDelete y ErrPackageNotAllowed antes que los genéricos.
var errorMappings = []errorMapping{
	{domain.ErrSelfDelete, fiber.StatusUnprocessableEntity, "CANNOT_DELETE_SELF"},
	{domain.ErrPackageNotAllowed, fiber.StatusUnprocessableEntity, "PACKAGE_NOT_ALLOWED"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
	{domain.ErrExternalService, fiber.StatusBadGateway, "PAYMENT_PROVIDER"},
	{domain.ErrIntegrity, fiber.StatusBadRequest, "INTEGRITY"},
}

// mapError traduce un error de dominio a status + código. Lo no reconocido es INTERNAL.
func mapError(err error) (int, string) {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return m.status, m.code
		}
	}
	return fiber.StatusInternalServerError, "INTERNAL"
}

// writeError respuesta de error para rutas de administración (incluye el detalle).
func writeError(c *fiber.Ctx, err error) error {
	status, code := mapError(err)
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: err.Error()})
}

// writePublicError igual que writeError pero oculta el detalle de los 500.
func writePublicError(c *fiber.Ctx, err error) error {
	status, code := mapError(err)
	msg := err.Error()
	if status == fiber.StatusInternalServerError {
		msg = genericInternalMessage
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

func fiberErrorBody(fe *fiber.Error) dto.ErrorResponse {
	switch {
	case fe.Code == fiber.StatusNotFound:
		return dto.ErrorResponse{Code: "NOT_FOUND", Message: fe.Message}
	case fe.Code == fiber.StatusMethodNotAllowed:
		return dto.ErrorResponse{Code: "METHOD_NOT_ALLOWED", Message: fe.Message}
	case fe.Code >= fiber.StatusInternalServerError:
		return dto.ErrorResponse{Code: "INTERNAL", Message: genericInternalMessage}
	default:
		return dto.ErrorResponse{Code: "BAD_REQUEST", Message: fe.Message}
	}
}
