package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/smartwms/internal/domain"
	"github.com/jhoicas/smartwms/internal/domain/entity"
	"github.com/jhoicas/smartwms/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, name, sku, category, brand, quantity, min_stock, price, location, serials, last_updated`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(&p.ID, &p.Name, &p.SKU, &p.Category, &p.Brand, &p.Quantity, &p.MinStock,
		&p.Price, &p.Location, &p.Serials, &p.LastUpdated)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// List devuelve el catálogo completo ordenado por nombre (orden estable para el clasificador).
func (r *ProductRepo) List(ctx context.Context) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx, `SELECT `+productColumns+` FROM products ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var out []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return out, nil
}

// Update reemplaza el registro completo y devuelve el persistido.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) (*entity.Product, error) {
	query := `
		UPDATE products
		SET name = $2, sku = $3, category = $4, brand = $5, quantity = $6, min_stock = $7,
		    price = $8, location = $9, serials = $10, last_updated = $11
		WHERE id = $1
		RETURNING ` + productColumns
	out, err := scanProduct(r.q.QueryRow(ctx, query,
		p.ID, p.Name, p.SKU, p.Category, p.Brand, p.Quantity, p.MinStock,
		p.Price, p.Location, nonNil(p.Serials), p.LastUpdated,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		if isUniqueViolation(err) {
			return nil, domain.ErrConflict
		}
		return nil, fmt.Errorf("update product: %w", err)
	}
	return out, nil
}
