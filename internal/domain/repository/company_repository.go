package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Licencia-api/internal/domain/entity"
)

// CompanyRepository define el puerto de persistencia para Company (DIP).
// La implementación vive en infrastructure. GetX devuelve (nil, nil) si no existe.
type CompanyRepository interface {
	// Create inserta la empresa; devuelve domain.ErrDuplicate si el public_id ya está tomado.
	Create(ctx context.Context, company *entity.Company) error
	GetByID(ctx context.Context, id string) (*entity.Company, error)
	GetByPublicID(ctx context.Context, publicID int) (*entity.Company, error)
	// GetForUpdate obtiene la empresa y bloquea la fila (SELECT ... FOR UPDATE). Solo dentro de tx.
	GetForUpdate(ctx context.Context, id string) (*entity.Company, error)
	Update(ctx context.Context, company *entity.Company) error
	UpdateExpiry(ctx context.Context, id string, expiresAt time.Time) error
	// List lista empresas; ownerAdminID vacío = todas.
	List(ctx context.Context, ownerAdminID string, limit, offset int) ([]*entity.Company, error)
	Stats(ctx context.Context, ownerAdminID string, now time.Time) (*entity.CompanyStats, error)
	SetAllowedPackages(ctx context.Context, companyID string, packageIDs []string) error
	Delete(ctx context.Context, id string) error
}
