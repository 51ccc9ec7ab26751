package payment

import (
	"context"

	"github.com/shopspring/decimal"
)

// BasketItem línea del carrito que exige el proveedor.
type BasketItem struct {
	Name     string
	Price    decimal.Decimal
	Quantity int
}

// SessionRequest datos para abrir un checkout alojado.
type SessionRequest struct {
	OrderToken   string
	Email        string
	Amount       decimal.Decimal
	Currency     string
	ClientIP     string
	CustomerName string
	Address      string
	Phone        string
	Basket       []BasketItem
}

// Session checkout abierto en el proveedor.
type Session struct {
	IframeToken string
	IframeURL   string
}

// Gateway puerto hacia el proveedor de pagos (PayTR).
type Gateway interface {
	// CreateSession solicita el token del iframe. Cualquier error significa que no hay sesión.
	CreateSession(ctx context.Context, req SessionRequest) (*Session, error)
	// VerifyCallback valida la firma de una notificación con comparación en tiempo constante.
	VerifyCallback(orderToken, status, totalAmount, hash string) bool
}
