package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Licencia-api/internal/application/dto"
	"github.com/jhoicas/Licencia-api/internal/application/usecase"
)

// LicenceHandler endpoint público que consultan las instalaciones de los clientes.
type LicenceHandler struct {
	uc *usecase.LicenceUseCase
}

// NewLicenceHandler construye el handler.
func NewLicenceHandler(uc *usecase.LicenceUseCase) *LicenceHandler {
	return &LicenceHandler{uc: uc}
}

var licenceHTTPStatus = map[string]int{
	dto.LicenceValid:     fiber.StatusOK,
	dto.LicenceNoPackage: fiber.StatusPaymentRequired,
	dto.LicenceExpired:   fiber.StatusPaymentRequired,
	dto.LicenceNotFound:  fiber.StatusNotFound,
	dto.LicenceMalformed: fiber.StatusBadRequest,
}

// CheckByQuery godoc
// @Summary      Verificar licencia (ruta histórica)
// @Tags         licence
// @Produce      json
// @Param        companyId  query  string  true  "Identificador público de 5 dígitos"
// @Success      200  {object}  dto.LicenceCheckResponse
// @Failure      400  {object}  dto.LicenceCheckResponse
// @Failure      402  {object}  dto.LicenceCheckResponse
// @Failure      404  {object}  dto.LicenceCheckResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/licence/checked-licance [get]
func (h *LicenceHandler) CheckByQuery(c *fiber.Ctx) error {
	return h.check(c, c.Query("companyId"))
}

// CheckByPath godoc
// @Summary      Verificar licencia
// @Tags         licence
// @Produce      json
// @Param        publicId  path  string  true  "Identificador público de 5 dígitos"
// @Success      200  {object}  dto.LicenceCheckResponse
// @Failure      402  {object}  dto.LicenceCheckResponse
// @Failure      404  {object}  dto.LicenceCheckResponse
// @Router       /api/licence/{publicId} [get]
func (h *LicenceHandler) CheckByPath(c *fiber.Ctx) error {
	return h.check(c, c.Params("publicId"))
}

func (h *LicenceHandler) check(c *fiber.Ctx, raw string) error {
	out, err := h.uc.Check(c.UserContext(), raw)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: genericInternalMessage})
	}
	status, ok := licenceHTTPStatus[out.Status]
	if !ok {
		status = fiber.StatusInternalServerError
	}
	return c.Status(status).JSON(out)
}
