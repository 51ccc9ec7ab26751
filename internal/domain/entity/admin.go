package entity

import "time"

// Permisos (tokens de capacidad) de un administrador acotado.
const (
	PermAddCompany    = "add_company"
	PermEditCompany   = "edit_company"
	PermDeleteCompany = "delete_company"
	PermAssignPackage = "assign_package"
	PermAddPackage    = "add_package"
	PermEditPackage   = "edit_package"
	PermDeletePackage = "delete_package"
)

// AllPermissions lista de permisos válidos.
var AllPermissions = []string{
	PermAddCompany, PermEditCompany, PermDeleteCompany,
	PermAssignPackage,
	PermAddPackage, PermEditPackage, PermDeletePackage,
}

// IsValidPermission informa si p es un permiso conocido.
func IsValidPermission(p string) bool {
	for _, v := range AllPermissions {
		if v == p {
			return true
		}
	}
	return false
}

// Admin operador del back office. Un super-admin tiene implícitamente todos los permisos.
type Admin struct {
	ID           string
	Name         string
	Phone        string
	PasswordHash string // bcrypt
	IsSuperAdmin bool
	Permissions  []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasPermission informa si el admin tiene el permiso (super-admin siempre).
func (a *Admin) HasPermission(p string) bool {
	if a.IsSuperAdmin {
		return true
	}
	for _, v := range a.Permissions {
		if v == p {
			return true
		}
	}
	return false
}

// AdminSummary admin con la cantidad de empresas que posee.
type AdminSummary struct {
	Admin        Admin
	CompanyCount int
}
