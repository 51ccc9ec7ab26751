// Package subscription implementa el libro de suscripciones: asignación manual
// de paquetes, extensión de vencimientos y consultas de historial.
package subscription

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/Licencia-api/internal/application/ports"
	"github.com/jhoicas/Licencia-api/internal/domain"
	"github.com/jhoicas/Licencia-api/internal/domain/entity"
	"github.com/jhoicas/Licencia-api/internal/domain/licence"
	"github.com/jhoicas/Licencia-api/pkg/clock"
)

// maxConflictRetries reintentos ante ErrConflict antes de devolverlo al llamador.
const maxConflictRetries = 3

// Extension resultado de aplicar un paquete a una empresa.
type Extension struct {
	CompanyID       string
	CompanyPublicID int
	Previous        *time.Time
	New             time.Time
	Extended        bool
}

// Extender aplica un paquete sobre el vencimiento de una empresa. Es el único
// camino de escritura de companies.expires_at, compartido por la asignación
// manual y el callback de pago.
type Extender struct {
	eval  licence.Evaluator
	clock clock.Clock
}

// NewExtender construye el extensor.
func NewExtender(eval licence.Evaluator, clk clock.Clock) *Extender {
	return &Extender{eval: eval, clock: clk}
}

// Extend debe llamarse dentro de una transacción: bloquea la fila de la empresa
// antes de leer el vencimiento actual.
func (x *Extender) Extend(ctx context.Context, s ports.Stores, companyID string, pkg *entity.Package) (*Extension, error) {
	company, err := s.Companies.GetForUpdate(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, fmt.Errorf("%w: empresa %s", domain.ErrNotFound, companyID)
	}
	now := x.clock.Now()
	newExp := x.eval.Apply(company.ExpiresAt, licence.DurationOf(pkg), now)
	if err := s.Companies.UpdateExpiry(ctx, companyID, newExp); err != nil {
		return nil, err
	}
	return &Extension{
		CompanyID:       companyID,
		CompanyPublicID: company.PublicID,
		Previous:        company.ExpiresAt,
		New:             newExp,
		Extended:        licence.IsExtension(company.ExpiresAt, now),
	}, nil
}

// RunWithRetry ejecuta fn en una transacción y la reintenta si la base reporta conflicto.
func RunWithRetry(ctx context.Context, tx ports.TxRunner, fn func(s ports.Stores) error) error {
	var err error
	for attempt := 0; attempt <= maxConflictRetries; attempt++ {
		err = tx.Run(ctx, fn)
		if !errors.Is(err, domain.ErrConflict) || ctx.Err() != nil {
			return err
		}
	}
	return err
}
