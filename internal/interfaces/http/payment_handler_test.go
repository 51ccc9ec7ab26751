package http_test

import (
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Licencia-api/internal/application/dto"
	"github.com/jhoicas/Licencia-api/internal/infrastructure/paytr"
)

func processRequest() dto.ProcessPaymentRequest {
	return dto.ProcessPaymentRequest{
		PublicID:     12345,
		PackageID:    "p-30",
		CustomerName: "Ayşe Yılmaz",
		Email:        "ayse@example.com",
		Phone:        "5551112233",
		Address:      "Kadıköy, İstanbul",
	}
}

func (e *testEnv) callback(t *testing.T, token, status, amount, hash string) *http.Response {
	t.Helper()
	form := url.Values{}
	form.Set("merchant_oid", token)
	form.Set("status", status)
	form.Set("total_amount", amount)
	form.Set("hash", hash)
	form.Set("currency", "TL")
	return e.do(t, http.MethodPost, "/api/payment/callback", "", fiber.MIMEApplicationForm, strings.NewReader(form.Encode()))
}

func TestPayment_FlujoCompletoExtiendeLicencia(t *testing.T) {
	env := newTestEnv(t)
	env.putCompany(12345, superID, nil)

	resp := env.do(t, http.MethodGet, "/api/payment/checkout/12345", "", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	checkout := decode[dto.CheckoutResponse](t, resp)
	require.Len(t, checkout.Packages, 1)

	resp = env.doJSON(t, http.MethodPost, "/api/payment/process", "", processRequest())
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	started := decode[dto.ProcessPaymentResponse](t, resp)
	assert.Equal(t, paytr.IframeBaseURL+"ifr-"+started.OrderToken, started.IframeURL)

	resp = env.do(t, http.MethodGet, "/payment/success?token="+started.OrderToken, "", "", nil)
	assert.Equal(t, "pending", decode[dto.PaymentResultResponse](t, resp).Status)

	hash := env.paytr.CallbackHash(started.OrderToken, "success", "10000")
	resp = env.callback(t, started.OrderToken, "success", "10000", hash)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "OK", string(body))

	resp = env.do(t, http.MethodGet, "/payment/success?token="+started.OrderToken, "", "", nil)
	result := decode[dto.PaymentResultResponse](t, resp)
	assert.Equal(t, "success", result.Status)
	assert.Equal(t, 12345, result.CompanyPublicID)

	resp = env.do(t, http.MethodGet, "/api/licence/12345", "", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Reintento del proveedor: se acepta sin volver a extender.
	resp = env.callback(t, started.OrderToken, "success", "10000", hash)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, env.store.Entries("c-12345"), 1)
}

func TestPayment_CallbackConFirmaInvalida(t *testing.T) {
	env := newTestEnv(t)
	env.putCompany(12345, superID, nil)
	started := decode[dto.ProcessPaymentResponse](t, env.doJSON(t, http.MethodPost, "/api/payment/process", "", processRequest()))

	resp := env.callback(t, started.OrderToken, "success", "10000", "firma-falsa")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INTEGRITY", decode[dto.ErrorResponse](t, resp).Code)
	assert.True(t, env.store.Entries("c-12345")[0].IsPending())
}

func TestPayment_ProveedorRechazaDevuelve502(t *testing.T) {
	env := newTestEnv(t)
	env.putCompany(12345, superID, nil)
	env.payFail = true

	resp := env.doJSON(t, http.MethodPost, "/api/payment/process", "", processRequest())
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "PAYMENT_PROVIDER", body.Code)
	assert.NotContains(t, body.Message, "merchant_key")
	assert.Empty(t, env.store.Entries("c-12345"))
}

func TestPayment_DatosDelCompradorInvalidos(t *testing.T) {
	env := newTestEnv(t)
	env.putCompany(12345, superID, nil)
	in := processRequest()
	in.Email = "no-es-email"

	resp := env.doJSON(t, http.MethodPost, "/api/payment/process", "", in)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", decode[dto.ErrorResponse](t, resp).Code)
}

func TestPayment_ResultadoDeTokenDesconocido(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodGet, "/payment/fail?token=LICNOEXISTE", "", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPayment_CheckoutDeEmpresaInexistente(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodGet, "/api/payment/checkout/99999", "", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
