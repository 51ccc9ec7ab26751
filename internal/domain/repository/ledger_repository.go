package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Licencia-api/internal/domain/entity"
)

// LedgerRepository puerto del libro de suscripciones (entradas + eventos).
type LedgerRepository interface {
	Create(ctx context.Context, entry *entity.LedgerEntry) error
	GetByID(ctx context.Context, id string) (*entity.LedgerEntry, error)
	// MarkOutcome resuelve una entrada pendiente. Devuelve false si ya estaba resuelta.
	MarkOutcome(ctx context.Context, id string, success bool, resolvedAt time.Time) (bool, error)
	AddEvent(ctx context.Context, event *entity.LedgerEvent) error
	ListEvents(ctx context.Context, entryID string) ([]*entity.LedgerEvent, error)
	ListByCompany(ctx context.Context, companyID string) ([]*entity.PurchaseRecord, error)
	// ListRecent últimas entradas; ownerAdminID vacío = todas las empresas.
	ListRecent(ctx context.Context, ownerAdminID string, limit int) ([]*entity.Activity, error)
}
