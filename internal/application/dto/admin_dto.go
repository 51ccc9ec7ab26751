package dto

import "time"

// CreateAdminRequest entrada para crear un administrador (password en texto, se hashea en use case).
type CreateAdminRequest struct {
	Name         string   `json:"name" validate:"required,min=1,max=200"`
	Phone        string   `json:"phone" validate:"required"`
	Password     string   `json:"password" validate:"required,min=8"`
	IsSuperAdmin bool     `json:"is_super_admin"`
	Permissions  []string `json:"permissions"`
}

// UpdateAdminRequest entrada para actualizar un administrador (campos opcionales).
type UpdateAdminRequest struct {
	Name         *string   `json:"name"`
	Phone        *string   `json:"phone"`
	Password     *string   `json:"password"`
	IsSuperAdmin *bool     `json:"is_super_admin"`
	Permissions  *[]string `json:"permissions"`
}

// AdminResponse salida de un administrador (sin password).
type AdminResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone"`
	IsSuperAdmin bool      `json:"is_super_admin"`
	Permissions  []string  `json:"permissions"`
	CompanyCount int       `json:"company_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// LoginRequest entrada para login (teléfono + password).
type LoginRequest struct {
	Phone    string `json:"phone" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse salida con token JWT.
type LoginResponse struct {
	Token string        `json:"token"`
	Admin AdminResponse `json:"admin"`
}

// ChangePasswordRequest cambio de password del admin autenticado.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}
