package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Licencia-api/internal/application/dto"
	"github.com/jhoicas/Licencia-api/internal/application/payment"
	"github.com/jhoicas/Licencia-api/internal/domain"
)

// PaymentHandler rutas públicas del checkout y la notificación de PayTR.
type PaymentHandler struct {
	bridge *payment.Bridge
}

// NewPaymentHandler construye el handler.
func NewPaymentHandler(bridge *payment.Bridge) *PaymentHandler {
	return &PaymentHandler{bridge: bridge}
}

// Checkout godoc
// @Summary      Datos de la página de pago
// @Tags         payment
// @Produce      json
// @Param        publicId  path  int  true  "Identificador público de la empresa"
// @Success      200  {object}  dto.CheckoutResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/payment/checkout/{publicId} [get]
func (h *PaymentHandler) Checkout(c *fiber.Ctx) error {
	publicID, err := strconv.Atoi(c.Params("publicId"))
	if err != nil {
		return writePublicError(c, domain.ErrNotFound)
	}
	out, err := h.bridge.Checkout(c.UserContext(), publicID)
	if err != nil {
		return writePublicError(c, err)
	}
	return c.JSON(out)
}

// Process godoc
// @Summary      Iniciar un pago
// @Tags         payment
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ProcessPaymentRequest  true  "Empresa, paquete y comprador"
// @Success      201   {object}  dto.ProcessPaymentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/payment/process [post]
func (h *PaymentHandler) Process(c *fiber.Ctx) error {
	var in dto.ProcessPaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.bridge.Initiate(c.UserContext(), in, c.IP())
	if err != nil {
		return writePublicError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Callback godoc
// @Summary      Notificación server-to-server de PayTR
// @Tags         payment
// @Accept       x-www-form-urlencoded
// @Produce      plain
// @Success      200  {string}  string  "OK"
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/payment/callback [post]
func (h *PaymentHandler) Callback(c *fiber.Ctx) error {
	var in dto.PaymentCallbackRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := h.bridge.HandleCallback(c.UserContext(), in); err != nil {
		return writePublicError(c, err)
	}
	return c.SendString("OK")
}

// Success godoc
// @Summary      Resultado de la orden (retorno exitoso)
// @Tags         payment
// @Produce      json
// @Param        token  query  string  true  "Token de la orden"
// @Success      200  {object}  dto.PaymentResultResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /payment/success [get]
func (h *PaymentHandler) Success(c *fiber.Ctx) error {
	return h.result(c)
}

// Fail godoc
// @Summary      Resultado de la orden (retorno fallido)
// @Tags         payment
// @Produce      json
// @Param        token  query  string  true  "Token de la orden"
// @Success      200  {object}  dto.PaymentResultResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /payment/fail [get]
func (h *PaymentHandler) Fail(c *fiber.Ctx) error {
	return h.result(c)
}

// result el estado sale del libro: el retorno del navegador no decide nada.
func (h *PaymentHandler) result(c *fiber.Ctx) error {
	out, err := h.bridge.Result(c.UserContext(), c.Query("token"))
	if err != nil {
		return writePublicError(c, err)
	}
	return c.JSON(out)
}
