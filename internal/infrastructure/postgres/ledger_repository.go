package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Licencia-api/internal/domain/entity"
	"github.com/jhoicas/Licencia-api/internal/domain/repository"
)

var _ repository.LedgerRepository = (*LedgerRepo)(nil)

const entryColumns = `e.id, e.company_id, e.package_id, e.source, e.outcome, e.amount, e.description, e.created_at, e.resolved_at`

// LedgerRepo libro de suscripciones sobre PostgreSQL. Las entradas y eventos solo se insertan;
// lo único que cambia es el resultado de una entrada pendiente.
type LedgerRepo struct {
	q Querier
}

// NewLedgerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLedgerRepository(q Querier) *LedgerRepo {
	return &LedgerRepo{q: q}
}

// Create inserta una entrada.
func (r *LedgerRepo) Create(ctx context.Context, e *entity.LedgerEntry) error {
	query := `
		INSERT INTO ledger_entries (id, company_id, package_id, source, outcome, amount, description, created_at, resolved_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		e.ID, e.CompanyID, e.PackageID, e.Source, e.Outcome, e.Amount, e.Description, e.CreatedAt, e.ResolvedAt,
	)
	if err != nil {
		return fmt.Errorf("insert ledger entry: %w", err)
	}
	return nil
}

// GetByID obtiene una entrada.
func (r *LedgerRepo) GetByID(ctx context.Context, id string) (*entity.LedgerEntry, error) {
	var e entity.LedgerEntry
	err := r.q.QueryRow(ctx, `SELECT `+entryColumns+` FROM ledger_entries e WHERE e.id = $1`, id).Scan(entryDest(&e)...)
	if err != nil {
		if isNoRows(err) || isInvalidID(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get ledger entry: %w", err)
	}
	return &e, nil
}

// MarkOutcome resuelve la entrada solo si sigue pendiente.
func (r *LedgerRepo) MarkOutcome(ctx context.Context, id string, success bool, resolvedAt time.Time) (bool, error) {
	tag, err := r.q.Exec(ctx,
		`UPDATE ledger_entries SET outcome = $2, resolved_at = $3 WHERE id = $1 AND outcome IS NULL`,
		id, success, resolvedAt,
	)
	if err != nil {
		return false, fmt.Errorf("mark ledger outcome: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// AddEvent agrega un evento a la entrada.
func (r *LedgerRepo) AddEvent(ctx context.Context, ev *entity.LedgerEvent) error {
	query := `
		INSERT INTO ledger_events (id, ledger_entry_id, kind, actor_admin_id, previous_expires_at, new_expires_at, detail, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		ev.ID, ev.LedgerEntryID, ev.Kind, ev.ActorAdminID, ev.PreviousExpiresAt, ev.NewExpiresAt, ev.Detail, ev.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert ledger event: %w", err)
	}
	return nil
}

// ListEvents eventos de una entrada en orden de registro.
func (r *LedgerRepo) ListEvents(ctx context.Context, entryID string) ([]*entity.LedgerEvent, error) {
	query := `
		SELECT id, ledger_entry_id, kind, actor_admin_id, previous_expires_at, new_expires_at, detail, created_at
		FROM ledger_events WHERE ledger_entry_id = $1
		ORDER BY created_at, seq`
	rows, err := r.q.Query(ctx, query, entryID)
	if err != nil {
		if isInvalidID(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list ledger events: %w", err)
	}
	defer rows.Close()
	var list []*entity.LedgerEvent
	for rows.Next() {
		var ev entity.LedgerEvent
		if err := rows.Scan(
			&ev.ID, &ev.LedgerEntryID, &ev.Kind, &ev.ActorAdminID,
			&ev.PreviousExpiresAt, &ev.NewExpiresAt, &ev.Detail, &ev.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan ledger event: %w", err)
		}
		list = append(list, &ev)
	}
	return list, rows.Err()
}

// ListByCompany historial de la empresa con los datos del paquete, más reciente primero.
func (r *LedgerRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.PurchaseRecord, error) {
	query := `
		SELECT ` + entryColumns + `,
			p.caption, p.price, p.duration_months, p.duration_extra_days, p.is_deleted
		FROM ledger_entries e
		JOIN packages p ON p.id = e.package_id
		WHERE e.company_id = $1
		ORDER BY e.created_at DESC, e.seq DESC`
	rows, err := r.q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list company ledger: %w", err)
	}
	defer rows.Close()
	var list []*entity.PurchaseRecord
	for rows.Next() {
		var rec entity.PurchaseRecord
		dest := append(entryDest(&rec.Entry),
			&rec.PackageCaption, &rec.PackagePrice, &rec.DurationMonths, &rec.DurationExtraDays, &rec.PackageIsDeleted,
		)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan purchase record: %w", err)
		}
		list = append(list, &rec)
	}
	return list, rows.Err()
}

// ListRecent últimas entradas con empresa y paquete. ownerAdminID vacío = todas las empresas.
func (r *LedgerRepo) ListRecent(ctx context.Context, ownerAdminID string, limit int) ([]*entity.Activity, error) {
	query := `
		SELECT ` + entryColumns + `, c.name, c.public_id, p.caption
		FROM ledger_entries e
		JOIN companies c ON c.id = e.company_id
		JOIN packages p ON p.id = e.package_id
		WHERE ($1 = '' OR c.owner_admin_id::text = $1)
		ORDER BY e.created_at DESC, e.seq DESC
		LIMIT $2`
	rows, err := r.q.Query(ctx, query, ownerAdminID, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent activity: %w", err)
	}
	defer rows.Close()
	var list []*entity.Activity
	for rows.Next() {
		var a entity.Activity
		dest := append(entryDest(&a.Entry), &a.CompanyName, &a.CompanyPublicID, &a.PackageCaption)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}

func entryDest(e *entity.LedgerEntry) []any {
	return []any{
		&e.ID, &e.CompanyID, &e.PackageID, &e.Source, &e.Outcome, &e.Amount, &e.Description, &e.CreatedAt, &e.ResolvedAt,
	}
}
