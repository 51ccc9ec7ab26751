package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Licencia-api/internal/application/dto"
	"github.com/jhoicas/Licencia-api/internal/application/subscription"
)

// SubscriptionHandler asignación de paquetes e historial del libro.
type SubscriptionHandler struct {
	svc *subscription.Service
}

// NewSubscriptionHandler construye el handler.
func NewSubscriptionHandler(svc *subscription.Service) *SubscriptionHandler {
	return &SubscriptionHandler{svc: svc}
}

// Assign godoc
// @Summary      Asignar paquete a una empresa
// @Tags         subscriptions
// @Accept       json
// @Produce      json
// @Security     Bearer
// @Param        id    path  string                    true  "ID de la empresa"
// @Param        body  body  dto.AssignPackageRequest  true  "Paquete"
// @Success      201   {object}  dto.AssignPackageResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/companies/{id}/assign [post]
func (h *SubscriptionHandler) Assign(c *fiber.Ctx) error {
	var in dto.AssignPackageRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.svc.AssignPackage(c.UserContext(), CurrentAdmin(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// History godoc
// @Summary      Historial de compras de la empresa
// @Tags         subscriptions
// @Produce      json
// @Security     Bearer
// @Param        id   path  string  true  "ID de la empresa"
// @Success      200  {array}  dto.PurchaseHistoryItem
// @Router       /api/companies/{id}/history [get]
func (h *SubscriptionHandler) History(c *fiber.Ctx) error {
	out, err := h.svc.History(c.UserContext(), CurrentAdmin(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// RecentActivities godoc
// @Summary      Actividad reciente del libro
// @Tags         subscriptions
// @Produce      json
// @Security     Bearer
// @Success      200  {array}  dto.ActivityItem
// @Router       /api/activities [get]
func (h *SubscriptionHandler) RecentActivities(c *fiber.Ctx) error {
	out, err := h.svc.RecentActivities(c.UserContext(), CurrentAdmin(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// EntryEvents godoc
// @Summary      Eventos de una entrada del libro
// @Tags         subscriptions
// @Produce      json
// @Security     Bearer
// @Param        id   path  string  true  "ID de la entrada"
// @Success      200  {array}  dto.LedgerEventResponse
// @Router       /api/ledger/{id}/events [get]
func (h *SubscriptionHandler) EntryEvents(c *fiber.Ctx) error {
	out, err := h.svc.EntryEvents(c.UserContext(), CurrentAdmin(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
