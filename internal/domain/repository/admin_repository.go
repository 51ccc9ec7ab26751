package repository

import (
	"context"

	"github.com/jhoicas/Licencia-api/internal/domain/entity"
)

// AdminRepository define el puerto de persistencia para Admin (DIP).
type AdminRepository interface {
	// Create devuelve domain.ErrDuplicate si el teléfono ya está registrado.
	Create(ctx context.Context, admin *entity.Admin) error
	GetByID(ctx context.Context, id string) (*entity.Admin, error)
	GetByPhone(ctx context.Context, phone string) (*entity.Admin, error)
	// Update actualiza datos y reemplaza el conjunto de permisos.
	Update(ctx context.Context, admin *entity.Admin) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	// Delete devuelve domain.ErrConflict si el admin todavía posee empresas.
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*entity.AdminSummary, error)
	Count(ctx context.Context) (int, error)
}
