package dto

import "time"

// CreateCompanyRequest entrada para crear una empresa. El public_id lo genera el sistema.
type CreateCompanyRequest struct {
	Name              string   `json:"name" validate:"required,min=1,max=200"`
	ContactName       string   `json:"contact_name"`
	Phone             string   `json:"phone"`
	Notes             string   `json:"notes"`
	AllowedPackageIDs []string `json:"allowed_package_ids"`
}

// UpdateCompanyRequest entrada para actualizar una empresa (campos opcionales).
type UpdateCompanyRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=200"`
	ContactName *string `json:"contact_name"`
	Phone       *string `json:"phone"`
	Notes       *string `json:"notes"`
}

// CompanyResponse salida de una empresa.
type CompanyResponse struct {
	ID                string     `json:"id"`
	PublicID          int        `json:"public_id"`
	Name              string     `json:"name"`
	ContactName       string     `json:"contact_name"`
	Phone             string     `json:"phone"`
	Notes             string     `json:"notes"`
	OwnerAdminID      string     `json:"owner_admin_id"`
	ExpiresAt         *time.Time `json:"expires_at"`
	LicenceStatus     string     `json:"licence_status"`
	AllowedPackageIDs []string   `json:"allowed_package_ids"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// CompanyListResponse lista paginada de empresas.
type CompanyListResponse struct {
	Items []CompanyResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// CompanyStatsResponse conteo por estado de licencia.
type CompanyStatsResponse struct {
	Total     int `json:"total"`
	Active    int `json:"active"`
	Expired   int `json:"expired"`
	NoPackage int `json:"no_package"`
}

// AllowedPackagesRequest reemplaza el conjunto de paquetes habilitados (vacío = todos).
type AllowedPackagesRequest struct {
	PackageIDs []string `json:"package_ids"`
}

// AllowedPackagesResponse paquetes habilitados de una empresa.
type AllowedPackagesResponse struct {
	CompanyID    string            `json:"company_id"`
	Unrestricted bool              `json:"unrestricted"`
	Packages     []PackageResponse `json:"packages"`
}
