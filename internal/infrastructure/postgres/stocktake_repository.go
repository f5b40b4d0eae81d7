package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/smartwms/internal/domain"
	"github.com/jhoicas/smartwms/internal/domain/entity"
	"github.com/jhoicas/smartwms/internal/domain/repository"
)

var _ repository.StocktakeRepository = (*StocktakeRepo)(nil)

// StocktakeRepo sesiones finalizadas: cabecera + líneas escritas en una sola transacción.
type StocktakeRepo struct {
	q  Querier
	tx *TxRunner
}

// NewStocktakeRepository construye el adaptador sobre el pool.
func NewStocktakeRepository(q Querier, tx *TxRunner) *StocktakeRepo {
	return &StocktakeRepo{q: q, tx: tx}
}

// Create inserta la sesión y sus líneas. ID duplicado → domain.ErrConflict.
func (r *StocktakeRepo) Create(ctx context.Context, s *entity.StocktakeSession) (*entity.StocktakeSession, error) {
	out := *s
	out.Items = append([]entity.StocktakeItem(nil), s.Items...)
	if out.ID == "" {
		out.ID = uuid.New().String()
	}

	err := r.tx.Run(ctx, func(q Querier) error {
		_, err := q.Exec(ctx, `
			INSERT INTO stocktake_sessions (id, date, status, notes, total_difference)
			VALUES ($1, $2, $3, $4, $5)`,
			out.ID, out.Date, out.Status, out.Notes, out.TotalDifference,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return domain.ErrConflict
			}
			return fmt.Errorf("insert stocktake session: %w", err)
		}
		for i, it := range out.Items {
			_, err := q.Exec(ctx, `
				INSERT INTO stocktake_items
				    (session_id, line, product_id, product_name, sku, system_quantity, actual_quantity, difference, notes)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
				out.ID, i, it.ProductID, it.ProductName, it.SKU,
				it.SystemQuantity, it.ActualQuantity, it.Difference, it.Notes,
			)
			if err != nil {
				return fmt.Errorf("insert stocktake item %s: %w", it.ProductID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// List sesiones más recientes primero, con sus líneas en orden original.
func (r *StocktakeRepo) List(ctx context.Context) ([]*entity.StocktakeSession, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, date, status, notes, total_difference
		FROM stocktake_sessions ORDER BY date DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list stocktake sessions: %w", err)
	}
	var out []*entity.StocktakeSession
	byID := make(map[string]*entity.StocktakeSession)
	for rows.Next() {
		var s entity.StocktakeSession
		if err := rows.Scan(&s.ID, &s.Date, &s.Status, &s.Notes, &s.TotalDifference); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan stocktake session: %w", err)
		}
		s.Items = []entity.StocktakeItem{}
		out = append(out, &s)
		byID[s.ID] = &s
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list stocktake sessions: %w", err)
	}
	if len(out) == 0 {
		return out, nil
	}

	items, err := r.q.Query(ctx, `
		SELECT session_id, product_id, product_name, sku, system_quantity, actual_quantity, difference, notes
		FROM stocktake_items ORDER BY session_id, line`)
	if err != nil {
		return nil, fmt.Errorf("list stocktake items: %w", err)
	}
	defer items.Close()
	for items.Next() {
		var sessionID string
		var it entity.StocktakeItem
		if err := items.Scan(&sessionID, &it.ProductID, &it.ProductName, &it.SKU,
			&it.SystemQuantity, &it.ActualQuantity, &it.Difference, &it.Notes); err != nil {
			return nil, fmt.Errorf("scan stocktake item: %w", err)
		}
		if s, ok := byID[sessionID]; ok {
			s.Items = append(s.Items, it)
		}
	}
	if err := items.Err(); err != nil {
		return nil, fmt.Errorf("list stocktake items: %w", err)
	}
	return out, nil
}
