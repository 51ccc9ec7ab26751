package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Origen de una entrada del libro de suscripciones.
const (
	LedgerSourceAdmin   = "admin"
	LedgerSourcePayment = "payment"
)

// Tipos de evento (una fila inmutable por transición).
const (
	LedgerEventCreated          = "created"
	LedgerEventAssigned         = "assigned"
	LedgerEventPaymentSucceeded = "payment_succeeded"
	LedgerEventPaymentFailed    = "payment_failed"
	LedgerEventCallbackReplayed = "callback_replayed"
)

// LedgerEntry registro de una asignación o compra de paquete.
// Outcome: nil = pendiente, true = éxito, false = fallo. Los estados terminales no cambian.
type LedgerEntry struct {
	ID          string
	CompanyID   string
	PackageID   string
	Source      string
	Outcome     *bool
	Amount      decimal.Decimal
	Description string
	CreatedAt   time.Time
	ResolvedAt  *time.Time
}

// IsPending indica si la entrada sigue esperando resultado.
func (e *LedgerEntry) IsPending() bool { return e.Outcome == nil }

// Succeeded indica si la entrada terminó en éxito.
func (e *LedgerEntry) Succeeded() bool { return e.Outcome != nil && *e.Outcome }

// Status representación textual del estado.
func (e *LedgerEntry) Status() string {
	switch {
	case e.Outcome == nil:
		return "pending"
	case *e.Outcome:
		return "success"
	default:
		return "failure"
	}
}

// LedgerEvent transición registrada sobre una entrada.
type LedgerEvent struct {
	ID                string
	LedgerEntryID     string
	Kind              string
	ActorAdminID      *string
	PreviousExpiresAt *time.Time
	NewExpiresAt      *time.Time
	Detail            string
	CreatedAt         time.Time
}

// PurchaseRecord fila del historial de compras de una empresa.
type PurchaseRecord struct {
	Entry             LedgerEntry
	PackageCaption    string
	PackagePrice      decimal.Decimal
	DurationMonths    int
	DurationExtraDays *int
	PackageIsDeleted  bool
}

// Activity actividad reciente (entrada del libro con datos de empresa y paquete).
type Activity struct {
	Entry           LedgerEntry
	CompanyName     string
	CompanyPublicID int
	PackageCaption  string
}
