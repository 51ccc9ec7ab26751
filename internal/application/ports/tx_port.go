package ports

import (
	"context"

	"github.com/jhoicas/Licencia-api/internal/domain/repository"
)

// Stores repositorios atados a una misma transacción.
type Stores struct {
	Companies repository.CompanyRepository
	Packages  repository.PackageRepository
	Ledger    repository.LedgerRepository
	Orders    repository.PaymentOrderRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace rollback. Los conflictos de serialización y deadlocks
// se devuelven envueltos en domain.ErrConflict.
type TxRunner interface {
	Run(ctx context.Context, fn func(s Stores) error) error
}
