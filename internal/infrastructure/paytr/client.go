package paytr

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jhoicas/Licencia-api/internal/application/payment"
	"github.com/jhoicas/Licencia-api/pkg/config"
)

// IframeBaseURL prefijo del iframe de pago; se completa con el token devuelto por get-token.
const IframeBaseURL = "https://www.paytr.com/odeme/guvenli/"

var _ payment.Gateway = (*Client)(nil)

// Client implementa payment.Gateway contra la API iframe de PayTR.
type Client struct {
	cfg        config.PayTRConfig
	httpClient *http.Client
}

// NewClient construye el cliente con un timeout de red corto; el checkout espera la respuesta.
func NewClient(cfg config.PayTRConfig) *Client {
	return &Client{cfg: cfg, httpClient: &http.Client{Timeout: 20 * time.Second}}
}

// WithHTTPClient reemplaza el cliente HTTP (tests con httptest).
func (c *Client) WithHTTPClient(h *http.Client) *Client {
	c.httpClient = h
	return c
}

// ── get-token ─────────────────────────────────────────────────────────────────

type tokenResponse struct {
	Status string `json:"status"`
	Token  string `json:"token"`
	Reason string `json:"reason"`
}

// CreateSession pide el token del iframe. Una respuesta distinta de "success" es error.
func (c *Client) CreateSession(ctx context.Context, req payment.SessionRequest) (*payment.Session, error) {
	basket, err := encodeBasket(req.Basket)
	if err != nil {
		return nil, err
	}
	amount := req.Amount.Shift(2).Round(0).String() // kuruş
	currency := req.Currency
	if currency == "" {
		currency = c.cfg.Currency
	}
	testMode := boolFlag(c.cfg.TestMode)
	const noInstallment, maxInstallment = "0", "0"

	token := c.sign(c.cfg.MerchantID, req.ClientIP, req.OrderToken, req.Email, amount,
		basket, noInstallment, maxInstallment, currency, testMode, c.cfg.MerchantSalt)

	form := url.Values{}
	form.Set("merchant_id", c.cfg.MerchantID)
	form.Set("user_ip", req.ClientIP)
	form.Set("merchant_oid", req.OrderToken)
	form.Set("email", req.Email)
	form.Set("payment_amount", amount)
	form.Set("currency", currency)
	form.Set("user_basket", basket)
	form.Set("no_installment", noInstallment)
	form.Set("max_installment", maxInstallment)
	form.Set("user_name", req.CustomerName)
	form.Set("user_address", req.Address)
	form.Set("user_phone", req.Phone)
	form.Set("merchant_ok_url", c.cfg.OkURL+"?token="+url.QueryEscape(req.OrderToken))
	form.Set("merchant_fail_url", c.cfg.FailURL+"?token="+url.QueryEscape(req.OrderToken))
	form.Set("test_mode", testMode)
	form.Set("debug_on", testMode)
	form.Set("timeout_limit", fmt.Sprint(c.cfg.TimeoutLimit))
	form.Set("lang", c.cfg.Lang)
	form.Set("paytr_token", token)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.APIURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("paytr: armar request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("paytr: get-token: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return nil, fmt.Errorf("paytr: leer respuesta: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("paytr: HTTP %d", resp.StatusCode)
	}
	var out tokenResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("paytr: respuesta inválida: %w", err)
	}
	if out.Status != "success" || out.Token == "" {
		return nil, fmt.Errorf("paytr: get-token rechazado: %s", out.Reason)
	}
	return &payment.Session{IframeToken: out.Token, IframeURL: IframeBaseURL + out.Token}, nil
}

// ── callback ──────────────────────────────────────────────────────────────────

// VerifyCallback compara el hash recibido con base64(HMAC-SHA256(key, oid+salt+status+total)).
func (c *Client) VerifyCallback(orderToken, status, totalAmount, hash string) bool {
	expected := c.sign(orderToken, c.cfg.MerchantSalt, status, totalAmount)
	return hmac.Equal([]byte(expected), []byte(hash))
}

// CallbackHash firma de una notificación; la usan los tests y las herramientas de soporte.
func (c *Client) CallbackHash(orderToken, status, totalAmount string) string {
	return c.sign(orderToken, c.cfg.MerchantSalt, status, totalAmount)
}

func (c *Client) sign(parts ...string) string {
	mac := hmac.New(sha256.New, []byte(c.cfg.MerchantKey))
	for _, p := range parts {
		mac.Write([]byte(p))
	}
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// encodeBasket user_basket: base64 de un JSON [[nombre, precio, cantidad], ...].
func encodeBasket(items []payment.BasketItem) (string, error) {
	rows := make([][]any, 0, len(items))
	for _, it := range items {
		rows = append(rows, []any{it.Name, it.Price.StringFixed(2), it.Quantity})
	}
	raw, err := json.Marshal(rows)
	if err != nil {
		return "", fmt.Errorf("paytr: basket: %w", err)
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

func boolFlag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
