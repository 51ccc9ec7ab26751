package http

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Licencia-api/internal/application/dto"
	"github.com/jhoicas/Licencia-api/internal/domain/entity"
)

// LocalAdmin clave de Fiber Locals con el *entity.Admin autenticado.
const LocalAdmin = "admin"

// adminAuthenticator lo implementa *auth.AuthUseCase.
type adminAuthenticator interface {
	Authenticate(ctx context.Context, token string) (*entity.Admin, error)
}

// AuthMiddleware valida el Bearer Token JWT, recarga el admin y lo deja en c.Locals.
func AuthMiddleware(authn adminAuthenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		admin, err := authn.Authenticate(c.UserContext(), tokenString)
		if err != nil {
			status, _ := mapError(err)
			if status != fiber.StatusUnauthorized {
				return writePublicError(c, err)
			}
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		c.Locals(LocalAdmin, admin)
		return c.Next()
	}
}

// CurrentAdmin devuelve el admin autenticado (después de AuthMiddleware) o nil.
func CurrentAdmin(c *fiber.Ctx) *entity.Admin {
	a, _ := c.Locals(LocalAdmin).(*entity.Admin)
	return a
}
