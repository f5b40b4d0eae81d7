package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/smartwms/internal/domain/entity"
	"github.com/jhoicas/smartwms/internal/domain/repository"
)

var _ repository.MovementLogRepository = (*MovementLogRepo)(nil)

// MovementLogRepo historial append-only de traslados.
type MovementLogRepo struct {
	q Querier
}

// NewMovementLogRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementLogRepository(q Querier) *MovementLogRepo {
	return &MovementLogRepo{q: q}
}

// Append inserta el registro; asigna ID si viene vacío.
func (r *MovementLogRepo) Append(ctx context.Context, e *entity.MovementLog) (*entity.MovementLog, error) {
	out := *e
	if out.ID == "" {
		out.ID = uuid.New().String()
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO movement_logs (id, product_id, product_name, sku, from_location, to_location, date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		out.ID, out.ProductID, out.ProductName, out.SKU, out.FromLocation, out.ToLocation, out.Date,
	)
	if err != nil {
		return nil, fmt.Errorf("insert movement log: %w", err)
	}
	return &out, nil
}

// List más recientes primero.
func (r *MovementLogRepo) List(ctx context.Context) ([]*entity.MovementLog, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, product_id, product_name, sku, from_location, to_location, date
		FROM movement_logs ORDER BY date DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list movement logs: %w", err)
	}
	defer rows.Close()

	var out []*entity.MovementLog
	for rows.Next() {
		var m entity.MovementLog
		if err := rows.Scan(&m.ID, &m.ProductID, &m.ProductName, &m.SKU,
			&m.FromLocation, &m.ToLocation, &m.Date); err != nil {
			return nil, fmt.Errorf("scan movement log: %w", err)
		}
		out = append(out, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list movement logs: %w", err)
	}
	return out, nil
}
