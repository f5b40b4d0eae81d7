package repository

import (
	"context"

	"github.com/jhoicas/smartwms/internal/domain/entity"
)

// ProductRepository puerto del catálogo de productos (propiedad del sistema externo).
type ProductRepository interface {
	List(ctx context.Context) ([]*entity.Product, error)
	// Update recibe el registro completo (incluida la nueva Location) y devuelve el persistido.
	Update(ctx context.Context, product *entity.Product) (*entity.Product, error)
}
