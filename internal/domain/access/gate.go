// Package access implementa la compuerta de autorización de dos niveles:
// super-admin (sin restricciones) y admin acotado (permisos + propiedad de la empresa).
// Toda verificación falla cerrada.
package access

import (
	"fmt"

	"github.com/jhoicas/Licencia-api/internal/domain"
	"github.com/jhoicas/Licencia-api/internal/domain/entity"
)

// RequirePermission exige el permiso al admin.
func RequirePermission(admin *entity.Admin, perm string) error {
	if admin == nil {
		return domain.ErrUnauthorized
	}
	if !admin.HasPermission(perm) {
		return fmt.Errorf("%w: falta el permiso %s", domain.ErrForbidden, perm)
	}
	return nil
}

// CanViewCompany un admin acotado solo ve las empresas que posee.
func CanViewCompany(admin *entity.Admin, company *entity.Company) error {
	if admin == nil {
		return domain.ErrUnauthorized
	}
	if admin.IsSuperAdmin || company.OwnerAdminID == admin.ID {
		return nil
	}
	return fmt.Errorf("%w: la empresa pertenece a otro administrador", domain.ErrForbidden)
}

// CanMutateCompany exige permiso y propiedad (salvo super-admin).
func CanMutateCompany(admin *entity.Admin, perm string, company *entity.Company) error {
	if err := RequirePermission(admin, perm); err != nil {
		return err
	}
	return CanViewCompany(admin, company)
}

// RequireSuperAdmin gestión de administradores.
func RequireSuperAdmin(admin *entity.Admin) error {
	if admin == nil {
		return domain.ErrUnauthorized
	}
	if !admin.IsSuperAdmin {
		return fmt.Errorf("%w: requiere super-admin", domain.ErrForbidden)
	}
	return nil
}

// CanDeleteAdmin la auto-eliminación se rechaza antes que cualquier otra regla.
func CanDeleteAdmin(admin *entity.Admin, targetID string) error {
	if admin == nil {
		return domain.ErrUnauthorized
	}
	if admin.ID == targetID {
		return domain.ErrSelfDelete
	}
	return RequireSuperAdmin(admin)
}

// OwnerScope filtro de propiedad para listados: vacío = sin filtro.
func OwnerScope(admin *entity.Admin) string {
	if admin == nil || admin.IsSuperAdmin {
		return ""
	}
	return admin.ID
}
