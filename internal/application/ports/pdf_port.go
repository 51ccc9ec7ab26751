package ports

import (
	"context"
	"time"

	"github.com/jhoicas/Licencia-api/internal/application/dto"
)

// LicenceStatement datos del comprobante de licencia de una empresa.
type LicenceStatement struct {
	Company     dto.CompanyResponse
	History     []dto.PurchaseHistoryItem
	CheckURL    string
	GeneratedAt time.Time
}

// StatementRenderer genera el PDF del comprobante de licencia.
type StatementRenderer interface {
	RenderStatement(ctx context.Context, st *LicenceStatement) ([]byte, error)
}
