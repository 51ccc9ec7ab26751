package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Licencia-api/internal/domain"
	"github.com/jhoicas/Licencia-api/internal/domain/entity"
	"github.com/jhoicas/Licencia-api/internal/domain/repository"
)

var _ repository.AdminRepository = (*AdminRepo)(nil)

const adminColumns = `
	a.id, a.name, a.phone, a.password_hash, a.is_super_admin, a.created_at, a.updated_at,
	ARRAY(SELECT ap.permission FROM admin_permissions ap WHERE ap.admin_id = a.id ORDER BY ap.permission)`

// AdminRepo administradores y sus permisos sobre PostgreSQL.
type AdminRepo struct {
	q Querier
}

// NewAdminRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAdminRepository(q Querier) *AdminRepo {
	return &AdminRepo{q: q}
}

// Create persiste el admin con sus permisos. Teléfono repetido => domain.ErrDuplicate.
func (r *AdminRepo) Create(ctx context.Context, a *entity.Admin) error {
	return pgx.BeginFunc(ctx, r.q, func(tx pgx.Tx) error {
		query := `
			INSERT INTO admins (id, name, phone, password_hash, is_super_admin, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`
		_, err := tx.Exec(ctx, query, a.ID, a.Name, a.Phone, a.PasswordHash, a.IsSuperAdmin, a.CreatedAt, a.UpdatedAt)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: teléfono ya registrado", domain.ErrDuplicate)
			}
			return fmt.Errorf("insert admin: %w", err)
		}
		return replacePermissions(ctx, tx, a.ID, a.Permissions)
	})
}

// GetByID obtiene un admin por ID.
func (r *AdminRepo) GetByID(ctx context.Context, id string) (*entity.Admin, error) {
	return r.getOne(ctx, `SELECT`+adminColumns+` FROM admins a WHERE a.id = $1`, id)
}

// GetByPhone obtiene un admin por teléfono (usuario de login).
func (r *AdminRepo) GetByPhone(ctx context.Context, phone string) (*entity.Admin, error) {
	return r.getOne(ctx, `SELECT`+adminColumns+` FROM admins a WHERE a.phone = $1`, phone)
}

func (r *AdminRepo) getOne(ctx context.Context, query, arg string) (*entity.Admin, error) {
	a, err := scanAdmin(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if isNoRows(err) || isInvalidID(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get admin: %w", err)
	}
	return a, nil
}

// Update actualiza datos, hash y rol, y reemplaza los permisos.
func (r *AdminRepo) Update(ctx context.Context, a *entity.Admin) error {
	return pgx.BeginFunc(ctx, r.q, func(tx pgx.Tx) error {
		query := `
			UPDATE admins SET name = $2, phone = $3, password_hash = $4, is_super_admin = $5, updated_at = $6
			WHERE id = $1`
		tag, err := tx.Exec(ctx, query, a.ID, a.Name, a.Phone, a.PasswordHash, a.IsSuperAdmin, a.UpdatedAt)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: teléfono ya registrado", domain.ErrDuplicate)
			}
			return fmt.Errorf("update admin: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: administrador", domain.ErrNotFound)
		}
		return replacePermissions(ctx, tx, a.ID, a.Permissions)
	})
}

func replacePermissions(ctx context.Context, tx pgx.Tx, adminID string, perms []string) error {
	if _, err := tx.Exec(ctx, `DELETE FROM admin_permissions WHERE admin_id = $1`, adminID); err != nil {
		return fmt.Errorf("clear admin permissions: %w", err)
	}
	if len(perms) == 0 {
		return nil
	}
	query := `
		INSERT INTO admin_permissions (admin_id, permission)
		SELECT $1, unnest($2::text[])
		ON CONFLICT DO NOTHING`
	if _, err := tx.Exec(ctx, query, adminID, perms); err != nil {
		return fmt.Errorf("insert admin permissions: %w", err)
	}
	return nil
}

// UpdatePassword reemplaza el hash del password.
func (r *AdminRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	tag, err := r.q.Exec(ctx, `UPDATE admins SET password_hash = $2, updated_at = now() WHERE id = $1`, id, passwordHash)
	if err != nil {
		return fmt.Errorf("update admin password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: administrador", domain.ErrNotFound)
	}
	return nil
}

// Delete elimina el admin. Si todavía posee empresas la FK lo impide y se devuelve ErrConflict.
func (r *AdminRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM admins WHERE id = $1`, id)
	if err != nil {
		if isFKViolation(err) {
			return fmt.Errorf("%w: el administrador todavía posee empresas", domain.ErrConflict)
		}
		return fmt.Errorf("delete admin: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: administrador", domain.ErrNotFound)
	}
	return nil
}

// List todos los administradores con su cantidad de empresas, por nombre.
func (r *AdminRepo) List(ctx context.Context) ([]*entity.AdminSummary, error) {
	query := `SELECT` + adminColumns + `,
			(SELECT count(*) FROM companies c WHERE c.owner_admin_id = a.id)
		FROM admins a
		ORDER BY a.name, a.id`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list admins: %w", err)
	}
	defer rows.Close()
	list := []*entity.AdminSummary{}
	for rows.Next() {
		var s entity.AdminSummary
		dest := append(adminDest(&s.Admin), &s.CompanyCount)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan admin: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// Count cantidad total de administradores.
func (r *AdminRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM admins`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count admins: %w", err)
	}
	return n, nil
}

func adminDest(a *entity.Admin) []any {
	return []any{
		&a.ID, &a.Name, &a.Phone, &a.PasswordHash, &a.IsSuperAdmin, &a.CreatedAt, &a.UpdatedAt, &a.Permissions,
	}
}

func scanAdmin(row pgx.Row) (*entity.Admin, error) {
	var a entity.Admin
	if err := row.Scan(adminDest(&a)...); err != nil {
		return nil, err
	}
	return &a, nil
}
