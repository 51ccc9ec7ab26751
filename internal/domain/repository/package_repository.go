package repository

import (
	"context"

	"github.com/jhoicas/Licencia-api/internal/domain/entity"
)

// PackageRepository puerto de persistencia del catálogo de paquetes.
type PackageRepository interface {
	Create(ctx context.Context, pkg *entity.Package) error
	// GetByID devuelve también paquetes borrados (el historial los referencia).
	GetByID(ctx context.Context, id string) (*entity.Package, error)
	Update(ctx context.Context, pkg *entity.Package) error
	SoftDelete(ctx context.Context, id string) error
	// List paquetes no borrados, más recientes primero.
	List(ctx context.Context) ([]*entity.Package, error)
	Stats(ctx context.Context) (*entity.PackageStats, error)
}
