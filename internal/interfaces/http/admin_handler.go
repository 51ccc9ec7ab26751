package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Licencia-api/internal/application/dto"
	"github.com/jhoicas/Licencia-api/internal/application/usecase"
)

// AdminHandler gestión de administradores (solo super-admin).
type AdminHandler struct {
	uc *usecase.AdminUseCase
}

// NewAdminHandler construye el handler.
func NewAdminHandler(uc *usecase.AdminUseCase) *AdminHandler {
	return &AdminHandler{uc: uc}
}

// List godoc
// @Summary      Listar administradores
// @Tags         admins
// @Produce      json
// @Security     Bearer
// @Success      200  {array}  dto.AdminResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/admins [get]
func (h *AdminHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), CurrentAdmin(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener administrador
// @Tags         admins
// @Produce      json
// @Security     Bearer
// @Param        id   path  string  true  "ID del administrador"
// @Success      200  {object}  dto.AdminResponse
// @Router       /api/admins/{id} [get]
func (h *AdminHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), CurrentAdmin(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear administrador
// @Tags         admins
// @Accept       json
// @Produce      json
// @Security     Bearer
// @Param        body  body  dto.CreateAdminRequest  true  "Datos del administrador"
// @Success      201   {object}  dto.AdminResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/admins [post]
func (h *AdminHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateAdminRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), CurrentAdmin(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Actualizar administrador
// @Tags         admins
// @Accept       json
// @Produce      json
// @Security     Bearer
// @Param        id    path  string                  true  "ID del administrador"
// @Param        body  body  dto.UpdateAdminRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.AdminResponse
// @Router       /api/admins/{id} [put]
func (h *AdminHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateAdminRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), CurrentAdmin(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar administrador
// @Tags         admins
// @Security     Bearer
// @Param        id   path  string  true  "ID del administrador"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/admins/{id} [delete]
func (h *AdminHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), CurrentAdmin(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
