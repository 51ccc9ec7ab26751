package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CheckoutCompany datos públicos de la empresa en la página de pago.
type CheckoutCompany struct {
	PublicID      int        `json:"public_id"`
	Name          string     `json:"name"`
	ExpiresAt     *time.Time `json:"expires_at"`
	LicenceStatus string     `json:"licence_status"`
}

// CheckoutResponse empresa + paquetes comprables ordenados por precio.
type CheckoutResponse struct {
	Company  CheckoutCompany   `json:"company"`
	Packages []PackageResponse `json:"packages"`
	Currency string            `json:"currency"`
}

// ProcessPaymentRequest inicio de un pago (formulario o JSON).
type ProcessPaymentRequest struct {
	PublicID     int    `json:"public_id" form:"public_id"`
	PackageID    string `json:"package_id" form:"package_id"`
	CustomerName string `json:"customer_name" form:"customer_name"`
	Email        string `json:"email" form:"email"`
	Phone        string `json:"phone" form:"phone"`
	Address      string `json:"address" form:"address"`
}

// ProcessPaymentResponse token del iframe de PayTR y token de correlación.
type ProcessPaymentResponse struct {
	OrderToken  string          `json:"order_token"`
	IframeToken string          `json:"iframe_token"`
	IframeURL   string          `json:"iframe_url"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
}

// PaymentCallbackRequest notificación servidor a servidor de PayTR (form-urlencoded).
type PaymentCallbackRequest struct {
	MerchantOID      string `form:"merchant_oid"`
	Status           string `form:"status"`
	TotalAmount      string `form:"total_amount"`
	Hash             string `form:"hash"`
	FailedReasonCode string `form:"failed_reason_code"`
	FailedReasonMsg  string `form:"failed_reason_msg"`
	TestMode         string `form:"test_mode"`
	PaymentType      string `form:"payment_type"`
	Currency         string `form:"currency"`
	PaymentAmount    string `form:"payment_amount"`
}

// PaymentResultResponse estado de una orden para las páginas de éxito/fallo.
type PaymentResultResponse struct {
	OrderToken      string     `json:"order_token"`
	Status          string     `json:"status"`
	CompanyPublicID int        `json:"company_public_id"`
	CompanyName     string     `json:"company_name"`
	PackageCaption  string     `json:"package_caption"`
	ExpiresAt       *time.Time `json:"expires_at"`
}
