package entity

import "time"

// Rango del identificador público de 5 dígitos que citan los clientes.
const (
	PublicIDMin = 10000
	PublicIDMax = 99999
)

// Company representa un tenant/cliente cuya licencia se controla.
// ExpiresAt es la única fuente de verdad de la validez: nil = nunca compró un paquete.
type Company struct {
	ID           string
	PublicID     int
	Name         string
	ContactName  string
	Phone        string
	Notes        string
	OwnerAdminID string
	ExpiresAt    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
	// AllowedPackageIDs paquetes que la empresa puede comprar o recibir; vacío = sin restricción.
	AllowedPackageIDs []string
}

// AllowsPackage indica si el paquete está habilitado para la empresa.
func (c *Company) AllowsPackage(packageID string) bool {
	if len(c.AllowedPackageIDs) == 0 {
		return true
	}
	for _, id := range c.AllowedPackageIDs {
		if id == packageID {
			return true
		}
	}
	return false
}

// CompanyStats conteo de empresas por estado de licencia.
type CompanyStats struct {
	Total     int
	Active    int
	Expired   int
	NoPackage int
}
