package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Licencia-api/internal/domain/entity"
	"github.com/jhoicas/Licencia-api/internal/domain/repository"
)

var _ repository.PaymentOrderRepository = (*PaymentOrderRepo)(nil)

const orderColumns = `token, company_id, package_id, ledger_entry_id, amount, currency,
	customer_name, email, phone, address, client_ip, created_at`

// PaymentOrderRepo registros de correlación de pagos sobre PostgreSQL.
type PaymentOrderRepo struct {
	q Querier
}

// NewPaymentOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPaymentOrderRepository(q Querier) *PaymentOrderRepo {
	return &PaymentOrderRepo{q: q}
}

// Create persiste la orden.
func (r *PaymentOrderRepo) Create(ctx context.Context, o *entity.PaymentOrder) error {
	query := `
		INSERT INTO payment_orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		o.Token, o.CompanyID, o.PackageID, o.LedgerEntryID, o.Amount, o.Currency,
		o.CustomerName, o.Email, o.Phone, o.Address, o.ClientIP, o.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert payment order: %w", err)
	}
	return nil
}

// GetByToken busca la orden por su token opaco.
func (r *PaymentOrderRepo) GetByToken(ctx context.Context, token string) (*entity.PaymentOrder, error) {
	return r.get(ctx, `SELECT `+orderColumns+` FROM payment_orders WHERE token = $1`, token)
}

// GetByTokenForUpdate igual que GetByToken pero bloquea la fila hasta el fin de la tx.
func (r *PaymentOrderRepo) GetByTokenForUpdate(ctx context.Context, token string) (*entity.PaymentOrder, error) {
	return r.get(ctx, `SELECT `+orderColumns+` FROM payment_orders WHERE token = $1 FOR UPDATE`, token)
}

func (r *PaymentOrderRepo) get(ctx context.Context, query, token string) (*entity.PaymentOrder, error) {
	var o entity.PaymentOrder
	err := r.q.QueryRow(ctx, query, token).Scan(
		&o.Token, &o.CompanyID, &o.PackageID, &o.LedgerEntryID, &o.Amount, &o.Currency,
		&o.CustomerName, &o.Email, &o.Phone, &o.Address, &o.ClientIP, &o.CreatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get payment order: %w", err)
	}
	return &o, nil
}
