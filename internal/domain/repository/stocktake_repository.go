package repository

import (
	"context"

	"github.com/jhoicas/smartwms/internal/domain/entity"
)

// StocktakeRepository puerto de persistencia de sesiones finalizadas.
type StocktakeRepository interface {
	Create(ctx context.Context, session *entity.StocktakeSession) (*entity.StocktakeSession, error)
	List(ctx context.Context) ([]*entity.StocktakeSession, error)
}
