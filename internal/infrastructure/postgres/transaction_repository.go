package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/smartwms/internal/domain/entity"
	"github.com/jhoicas/smartwms/internal/domain/repository"
)

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

// TransactionRepo lectura del historial de transacciones.
type TransactionRepo struct {
	q Querier
}

// NewTransactionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransactionRepository(q Querier) *TransactionRepo {
	return &TransactionRepo{q: q}
}

// List devuelve todas las transacciones, más recientes primero.
func (r *TransactionRepo) List(ctx context.Context) ([]*entity.Transaction, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, product_id, product_name, type, quantity, serials, partner, date, notes
		FROM transactions ORDER BY date DESC`)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []*entity.Transaction
	for rows.Next() {
		var t entity.Transaction
		var typ string
		if err := rows.Scan(&t.ID, &t.ProductID, &t.ProductName, &typ, &t.Quantity,
			&t.Serials, &t.Partner, &t.Date, &t.Notes); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		t.Type = entity.TransactionType(typ)
		out = append(out, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return out, nil
}
