package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreatePackageRequest entrada para crear un paquete.
type CreatePackageRequest struct {
	Caption           string          `json:"caption" validate:"required,min=1,max=200"`
	DurationMonths    int             `json:"duration_months" validate:"min=0"`
	DurationExtraDays *int            `json:"duration_extra_days" validate:"omitempty,min=0"`
	Price             decimal.Decimal `json:"price"`
	Description       string          `json:"description"`
}

// UpdatePackageRequest entrada para actualizar un paquete (campos opcionales).
type UpdatePackageRequest struct {
	Caption           *string          `json:"caption"`
	DurationMonths    *int             `json:"duration_months"`
	DurationExtraDays *int             `json:"duration_extra_days"`
	ClearExtraDays    bool             `json:"clear_extra_days"`
	Price             *decimal.Decimal `json:"price"`
	Description       *string          `json:"description"`
}

// PackageResponse salida de un paquete.
type PackageResponse struct {
	ID                string          `json:"id"`
	Caption           string          `json:"caption"`
	DurationMonths    int             `json:"duration_months"`
	DurationExtraDays *int            `json:"duration_extra_days"`
	DurationText      string          `json:"duration_text"`
	Price             decimal.Decimal `json:"price"`
	Description       string          `json:"description"`
	IsDeleted         bool            `json:"is_deleted"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// PackageStatsResponse resumen del catálogo.
type PackageStatsResponse struct {
	Count          int             `json:"count"`
	CatalogueValue decimal.Decimal `json:"catalogue_value"`
	Revenue        decimal.Decimal `json:"revenue"`
}
