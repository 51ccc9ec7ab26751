package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Licencia-api/internal/domain"
	"github.com/jhoicas/Licencia-api/internal/domain/entity"
	"github.com/jhoicas/Licencia-api/internal/domain/repository"
)

// Asegura que CompanyRepo implementa repository.CompanyRepository.
var _ repository.CompanyRepository = (*CompanyRepo)(nil)

const companyColumns = `
	c.id, c.public_id, c.name, c.contact_name, c.phone, c.notes, c.owner_admin_id,
	c.expires_at, c.created_at, c.updated_at,
	ARRAY(SELECT cp.package_id::text FROM company_packages cp WHERE cp.company_id = c.id ORDER BY cp.package_id)`

// CompanyRepo implementación del puerto CompanyRepository sobre PostgreSQL (usable con pool o tx).
type CompanyRepo struct {
	q Querier
}

// NewCompanyRepository construye el adaptador de persistencia para empresas. Pasar pool o tx (Querier).
func NewCompanyRepository(q Querier) *CompanyRepo {
	return &CompanyRepo{q: q}
}

// Create persiste una nueva empresa. Los paquetes habilitados se guardan con SetAllowedPackages.
func (r *CompanyRepo) Create(ctx context.Context, c *entity.Company) error {
	query := `
		INSERT INTO companies (id, public_id, name, contact_name, phone, notes, owner_admin_id, expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.PublicID, c.Name, c.ContactName, c.Phone, c.Notes,
		c.OwnerAdminID, c.ExpiresAt, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: public_id %d", domain.ErrDuplicate, c.PublicID)
		}
		return fmt.Errorf("insert company: %w", err)
	}
	return nil
}

// GetByID obtiene una empresa por ID.
func (r *CompanyRepo) GetByID(ctx context.Context, id string) (*entity.Company, error) {
	return r.getOne(ctx, `SELECT`+companyColumns+` FROM companies c WHERE c.id = $1`, id)
}

// GetByPublicID obtiene una empresa por su identificador público de 5 dígitos.
func (r *CompanyRepo) GetByPublicID(ctx context.Context, publicID int) (*entity.Company, error) {
	return r.getOne(ctx, `SELECT`+companyColumns+` FROM companies c WHERE c.public_id = $1`, publicID)
}

// GetForUpdate obtiene la empresa bloqueando la fila hasta el fin de la transacción.
func (r *CompanyRepo) GetForUpdate(ctx context.Context, id string) (*entity.Company, error) {
	return r.getOne(ctx, `SELECT`+companyColumns+` FROM companies c WHERE c.id = $1 FOR UPDATE OF c`, id)
}

func (r *CompanyRepo) getOne(ctx context.Context, query string, arg any) (*entity.Company, error) {
	c, err := scanCompany(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if isNoRows(err) || isInvalidID(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get company: %w", err)
	}
	return c, nil
}

// Update actualiza los datos editables de la empresa (no el vencimiento).
func (r *CompanyRepo) Update(ctx context.Context, c *entity.Company) error {
	query := `
		UPDATE companies SET name = $2, contact_name = $3, phone = $4, notes = $5, updated_at = $6
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, c.ID, c.Name, c.ContactName, c.Phone, c.Notes, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update company: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: empresa", domain.ErrNotFound)
	}
	return nil
}

// UpdateExpiry fija el nuevo vencimiento de la licencia.
func (r *CompanyRepo) UpdateExpiry(ctx context.Context, id string, expiresAt time.Time) error {
	tag, err := r.q.Exec(ctx, `UPDATE companies SET expires_at = $2, updated_at = now() WHERE id = $1`, id, expiresAt)
	if err != nil {
		return fmt.Errorf("update company expiry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: empresa", domain.ErrNotFound)
	}
	return nil
}

// List lista empresas, más recientes primero. ownerAdminID vacío = todas.
func (r *CompanyRepo) List(ctx context.Context, ownerAdminID string, limit, offset int) ([]*entity.Company, error) {
	query := `SELECT` + companyColumns + `
		FROM companies c
		WHERE ($1 = '' OR c.owner_admin_id::text = $1)
		ORDER BY c.created_at DESC, c.public_id
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, ownerAdminID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	defer rows.Close()
	var list []*entity.Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// Stats cuenta empresas por estado de licencia respecto de now.
func (r *CompanyRepo) Stats(ctx context.Context, ownerAdminID string, now time.Time) (*entity.CompanyStats, error) {
	query := `
		SELECT count(*),
			count(*) FILTER (WHERE expires_at >= $2),
			count(*) FILTER (WHERE expires_at < $2),
			count(*) FILTER (WHERE expires_at IS NULL)
		FROM companies
		WHERE ($1 = '' OR owner_admin_id::text = $1)`
	var s entity.CompanyStats
	if err := r.q.QueryRow(ctx, query, ownerAdminID, now).Scan(&s.Total, &s.Active, &s.Expired, &s.NoPackage); err != nil {
		return nil, fmt.Errorf("company stats: %w", err)
	}
	return &s, nil
}

// SetAllowedPackages reemplaza el conjunto de paquetes habilitados de la empresa.
func (r *CompanyRepo) SetAllowedPackages(ctx context.Context, companyID string, packageIDs []string) error {
	return pgx.BeginFunc(ctx, r.q, func(tx pgx.Tx) error {
		return replaceAllowedPackages(ctx, tx, companyID, packageIDs)
	})
}

func replaceAllowedPackages(ctx context.Context, tx pgx.Tx, companyID string, packageIDs []string) error {
	if _, err := tx.Exec(ctx, `DELETE FROM company_packages WHERE company_id = $1`, companyID); err != nil {
		return fmt.Errorf("clear company packages: %w", err)
	}
	if len(packageIDs) == 0 {
		return nil
	}
	query := `
		INSERT INTO company_packages (company_id, package_id)
		SELECT $1, unnest($2::uuid[])
		ON CONFLICT DO NOTHING`
	if _, err := tx.Exec(ctx, query, companyID, packageIDs); err != nil {
		if isFKViolation(err) || isInvalidID(err) {
			return fmt.Errorf("%w: paquete inexistente", domain.ErrInvalidInput)
		}
		return fmt.Errorf("insert company packages: %w", err)
	}
	return nil
}

// Delete elimina la empresa; el libro, los eventos y las órdenes se borran en cascada.
func (r *CompanyRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM companies WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete company: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: empresa", domain.ErrNotFound)
	}
	return nil
}

func scanCompany(row pgx.Row) (*entity.Company, error) {
	var c entity.Company
	err := row.Scan(
		&c.ID, &c.PublicID, &c.Name, &c.ContactName, &c.Phone, &c.Notes, &c.OwnerAdminID,
		&c.ExpiresAt, &c.CreatedAt, &c.UpdatedAt, &c.AllowedPackageIDs,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
