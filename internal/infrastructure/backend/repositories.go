package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/jhoicas/smartwms/internal/domain/entity"
	"github.com/jhoicas/smartwms/internal/domain/repository"
)

var (
	_ repository.ProductRepository     = (*ProductRepository)(nil)
	_ repository.TransactionRepository = (*TransactionRepository)(nil)
	_ repository.MovementLogRepository = (*MovementLogRepository)(nil)
	_ repository.StocktakeRepository   = (*StocktakeRepository)(nil)
)

// ProductRepository /products.
type ProductRepository struct{ c *Client }

// NewProductRepository construye el repositorio.
func NewProductRepository(c *Client) *ProductRepository { return &ProductRepository{c: c} }

// List GET /products.
func (r *ProductRepository) List(ctx context.Context) ([]*entity.Product, error) {
	var ws []productWire
	if err := r.c.do(ctx, http.MethodGet, "/products", nil, &ws); err != nil {
		return nil, err
	}
	out := make([]*entity.Product, 0, len(ws))
	for _, w := range ws {
		out = append(out, w.toEntity())
	}
	return out, nil
}

// Update PUT /products/{id} con el registro completo.
func (r *ProductRepository) Update(ctx context.Context, p *entity.Product) (*entity.Product, error) {
	var w productWire
	if err := r.c.do(ctx, http.MethodPut, "/products/"+url.PathEscape(p.ID), productToWire(p), &w); err != nil {
		return nil, err
	}
	return w.toEntity(), nil
}

// TransactionRepository /transactions.
type TransactionRepository struct{ c *Client }

// NewTransactionRepository construye el repositorio.
func NewTransactionRepository(c *Client) *TransactionRepository {
	return &TransactionRepository{c: c}
}

// List GET /transactions.
func (r *TransactionRepository) List(ctx context.Context) ([]*entity.Transaction, error) {
	var ws []transactionWire
	if err := r.c.do(ctx, http.MethodGet, "/transactions", nil, &ws); err != nil {
		return nil, err
	}
	out := make([]*entity.Transaction, 0, len(ws))
	for _, w := range ws {
		out = append(out, w.toEntity())
	}
	return out, nil
}

// MovementLogRepository /movements.
type MovementLogRepository struct{ c *Client }

// NewMovementLogRepository construye el repositorio.
func NewMovementLogRepository(c *Client) *MovementLogRepository {
	return &MovementLogRepository{c: c}
}

// Append POST /movements.
func (r *MovementLogRepository) Append(ctx context.Context, e *entity.MovementLog) (*entity.MovementLog, error) {
	var w movementWire
	if err := r.c.do(ctx, http.MethodPost, "/movements", movementToWire(e), &w); err != nil {
		return nil, err
	}
	return w.toEntity(), nil
}

// List GET /movements. El backend ya los devuelve del más reciente al más antiguo.
func (r *MovementLogRepository) List(ctx context.Context) ([]*entity.MovementLog, error) {
	var ws []movementWire
	if err := r.c.do(ctx, http.MethodGet, "/movements", nil, &ws); err != nil {
		return nil, err
	}
	out := make([]*entity.MovementLog, 0, len(ws))
	for _, w := range ws {
		out = append(out, w.toEntity())
	}
	return out, nil
}

// StocktakeRepository /stocktakes.
type StocktakeRepository struct{ c *Client }

// NewStocktakeRepository construye el repositorio.
func NewStocktakeRepository(c *Client) *StocktakeRepository { return &StocktakeRepository{c: c} }

// Create POST /stocktakes.
func (r *StocktakeRepository) Create(ctx context.Context, s *entity.StocktakeSession) (*entity.StocktakeSession, error) {
	var w stocktakeWire
	if err := r.c.do(ctx, http.MethodPost, "/stocktakes", stocktakeToWire(s), &w); err != nil {
		return nil, err
	}
	return w.toEntity(), nil
}

// List GET /stocktakes.
func (r *StocktakeRepository) List(ctx context.Context) ([]*entity.StocktakeSession, error) {
	var ws []stocktakeWire
	if err := r.c.do(ctx, http.MethodGet, "/stocktakes", nil, &ws); err != nil {
		return nil, err
	}
	out := make([]*entity.StocktakeSession, 0, len(ws))
	for _, w := range ws {
		out = append(out, w.toEntity())
	}
	return out, nil
}
