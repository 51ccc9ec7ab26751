package usecase

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jhoicas/Licencia-api/internal/application/dto"
	"github.com/jhoicas/Licencia-api/internal/domain/entity"
	"github.com/jhoicas/Licencia-api/internal/domain/licence"
)

// Paginación por defecto de los listados.
const (
	defaultLimit = 20
	maxLimit     = 100
)

// normalizeName recorta y pasa a mayúsculas con reglas turcas (i → İ, ı → I).
// cases.Caser guarda estado, por eso se crea uno por llamada.
func normalizeName(s string) string {
	return cases.Upper(language.Turkish).String(strings.TrimSpace(s))
}

func pageBounds(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// ToCompanyResponse convierte la entidad calculando el estado de licencia en now.
func ToCompanyResponse(c *entity.Company, now time.Time) *dto.CompanyResponse {
	if c == nil {
		return nil
	}
	allowed := c.AllowedPackageIDs
	if allowed == nil {
		allowed = []string{}
	}
	return &dto.CompanyResponse{
		ID:                c.ID,
		PublicID:          c.PublicID,
		Name:              c.Name,
		ContactName:       c.ContactName,
		Phone:             c.Phone,
		Notes:             c.Notes,
		OwnerAdminID:      c.OwnerAdminID,
		ExpiresAt:         c.ExpiresAt,
		LicenceStatus:     string(licence.Classify(c.ExpiresAt, now)),
		AllowedPackageIDs: allowed,
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
	}
}

// ToPackageResponse convierte un paquete incluyendo la duración legible.
func ToPackageResponse(p *entity.Package) dto.PackageResponse {
	return dto.PackageResponse{
		ID:                p.ID,
		Caption:           p.Caption,
		DurationMonths:    p.DurationMonths,
		DurationExtraDays: p.DurationExtraDays,
		DurationText:      licence.DurationOf(p).String(),
		Price:             p.Price,
		Description:       p.Description,
		IsDeleted:         p.IsDeleted,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

// ToAdminResponse convierte un admin (nunca expone el hash).
func ToAdminResponse(a *entity.Admin, companyCount int) dto.AdminResponse {
	perms := a.Permissions
	if a.IsSuperAdmin {
		perms = entity.AllPermissions
	}
	out := make([]string, len(perms))
	copy(out, perms)
	return dto.AdminResponse{
		ID:           a.ID,
		Name:         a.Name,
		Phone:        a.Phone,
		IsSuperAdmin: a.IsSuperAdmin,
		Permissions:  out,
		CompanyCount: companyCount,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}
