package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AssignPackageRequest asignación manual de un paquete a una empresa.
type AssignPackageRequest struct {
	PackageID string `json:"package_id" validate:"required"`
}

// AssignPackageResponse resultado de la asignación.
type AssignPackageResponse struct {
	LedgerEntryID     string     `json:"ledger_entry_id"`
	CompanyID         string     `json:"company_id"`
	PackageID         string     `json:"package_id"`
	PreviousExpiresAt *time.Time `json:"previous_expires_at"`
	NewExpiresAt      time.Time  `json:"new_expires_at"`
	Extended          bool       `json:"extended"`
}

// PurchaseHistoryItem fila del historial de compras de una empresa.
type PurchaseHistoryItem struct {
	LedgerEntryID  string          `json:"ledger_entry_id"`
	PackageID      string          `json:"package_id"`
	PackageCaption string          `json:"package_caption"`
	PackagePrice   decimal.Decimal `json:"package_price"`
	Amount         decimal.Decimal `json:"amount"`
	DurationText   string          `json:"duration_text"`
	Source         string          `json:"source"`
	AssignmentType string          `json:"assignment_type"`
	Status         string          `json:"status"`
	Description    string          `json:"description"`
	CreatedAt      time.Time       `json:"created_at"`
	ResolvedAt     *time.Time      `json:"resolved_at"`
}

// ActivityItem actividad reciente.
type ActivityItem struct {
	LedgerEntryID   string          `json:"ledger_entry_id"`
	CompanyID       string          `json:"company_id"`
	CompanyName     string          `json:"company_name"`
	CompanyPublicID int             `json:"company_public_id"`
	PackageCaption  string          `json:"package_caption"`
	Source          string          `json:"source"`
	Status          string          `json:"status"`
	Amount          decimal.Decimal `json:"amount"`
	CreatedAt       time.Time       `json:"created_at"`
}

// LedgerEventResponse transición registrada sobre una entrada.
type LedgerEventResponse struct {
	ID                string     `json:"id"`
	Kind              string     `json:"kind"`
	ActorAdminID      *string    `json:"actor_admin_id"`
	PreviousExpiresAt *time.Time `json:"previous_expires_at"`
	NewExpiresAt      *time.Time `json:"new_expires_at"`
	Detail            string     `json:"detail"`
	CreatedAt         time.Time  `json:"created_at"`
}
