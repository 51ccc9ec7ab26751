package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentOrder registro de correlación token → {empresa, paquete, entrada del libro}.
// El token es opaco: la única forma de resolverlo es buscar este registro.
type PaymentOrder struct {
	Token         string
	CompanyID     string
	PackageID     string
	LedgerEntryID string
	Amount        decimal.Decimal
	Currency      string
	CustomerName  string
	Email         string
	Phone         string
	Address       string
	ClientIP      string
	CreatedAt     time.Time
}
