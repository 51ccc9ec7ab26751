package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Licencia-api/internal/domain"
	"github.com/jhoicas/Licencia-api/internal/domain/entity"
	"github.com/jhoicas/Licencia-api/internal/domain/repository"
)

var _ repository.PackageRepository = (*PackageRepo)(nil)

const packageColumns = `id, caption, duration_months, duration_extra_days, price, description, is_deleted, created_at, updated_at`

// PackageRepo catálogo de paquetes sobre PostgreSQL (usable con pool o tx).
type PackageRepo struct {
	q Querier
}

// NewPackageRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPackageRepository(q Querier) *PackageRepo {
	return &PackageRepo{q: q}
}

// Create persiste un paquete nuevo.
func (r *PackageRepo) Create(ctx context.Context, p *entity.Package) error {
	query := `
		INSERT INTO packages (` + packageColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.Caption, p.DurationMonths, p.DurationExtraDays, p.Price,
		p.Description, p.IsDeleted, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert package: %w", err)
	}
	return nil
}

// GetByID obtiene un paquete, incluso si está borrado.
func (r *PackageRepo) GetByID(ctx context.Context, id string) (*entity.Package, error) {
	p, err := scanPackage(r.q.QueryRow(ctx, `SELECT `+packageColumns+` FROM packages WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) || isInvalidID(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get package: %w", err)
	}
	return p, nil
}

// Update actualiza un paquete vigente.
func (r *PackageRepo) Update(ctx context.Context, p *entity.Package) error {
	query := `
		UPDATE packages
		SET caption = $2, duration_months = $3, duration_extra_days = $4, price = $5, description = $6, updated_at = $7
		WHERE id = $1 AND NOT is_deleted`
	tag, err := r.q.Exec(ctx, query,
		p.ID, p.Caption, p.DurationMonths, p.DurationExtraDays, p.Price, p.Description, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update package: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: paquete", domain.ErrNotFound)
	}
	return nil
}

// SoftDelete marca el paquete como borrado; el historial sigue apuntando a él.
func (r *PackageRepo) SoftDelete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `UPDATE packages SET is_deleted = TRUE, updated_at = now() WHERE id = $1 AND NOT is_deleted`, id)
	if err != nil {
		return fmt.Errorf("delete package: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: paquete", domain.ErrNotFound)
	}
	return nil
}

// List paquetes no borrados, más recientes primero.
func (r *PackageRepo) List(ctx context.Context) ([]*entity.Package, error) {
	rows, err := r.q.Query(ctx, `SELECT `+packageColumns+` FROM packages WHERE NOT is_deleted ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list packages: %w", err)
	}
	defer rows.Close()
	var list []*entity.Package
	for rows.Next() {
		p, err := scanPackage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan package: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// Stats cantidad y valor del catálogo vigente más lo recaudado por pagos exitosos.
func (r *PackageRepo) Stats(ctx context.Context) (*entity.PackageStats, error) {
	query := `
		SELECT
			(SELECT count(*) FROM packages WHERE NOT is_deleted),
			(SELECT COALESCE(sum(price), 0) FROM packages WHERE NOT is_deleted),
			(SELECT COALESCE(sum(amount), 0) FROM ledger_entries WHERE source = 'payment' AND outcome)`
	var s entity.PackageStats
	if err := r.q.QueryRow(ctx, query).Scan(&s.Count, &s.CatalogueValue, &s.Revenue); err != nil {
		return nil, fmt.Errorf("package stats: %w", err)
	}
	return &s, nil
}

func scanPackage(row pgx.Row) (*entity.Package, error) {
	var p entity.Package
	err := row.Scan(
		&p.ID, &p.Caption, &p.DurationMonths, &p.DurationExtraDays, &p.Price,
		&p.Description, &p.IsDeleted, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
