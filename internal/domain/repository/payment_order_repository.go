package repository

import (
	"context"

	"github.com/jhoicas/Licencia-api/internal/domain/entity"
)

// PaymentOrderRepository puerto de los registros de correlación de pagos.
type PaymentOrderRepository interface {
	Create(ctx context.Context, order *entity.PaymentOrder) error
	GetByToken(ctx context.Context, token string) (*entity.PaymentOrder, error)
	// GetByTokenForUpdate bloquea la orden mientras se procesa el callback.
	GetByTokenForUpdate(ctx context.Context, token string) (*entity.PaymentOrder, error)
}
