package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Package oferta de suscripción: duración en meses + días extra opcionales y precio.
// Un paquete borrado (IsDeleted) sale del catálogo pero el historial conserva la referencia.
type Package struct {
	ID                string
	Caption           string
	DurationMonths    int
	DurationExtraDays *int
	Price             decimal.Decimal
	Description       string
	IsDeleted         bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// ExtraDays devuelve los días extra o 0.
func (p *Package) ExtraDays() int {
	if p.DurationExtraDays == nil {
		return 0
	}
	return *p.DurationExtraDays
}

// PackageStats resumen del catálogo.
type PackageStats struct {
	Count          int
	CatalogueValue decimal.Decimal
	Revenue        decimal.Decimal
}
