package repository

import (
	"context"

	"github.com/jhoicas/smartwms/internal/domain/entity"
)

// MovementLogRepository puerto append-only del historial de traslados.
type MovementLogRepository interface {
	Append(ctx context.Context, entry *entity.MovementLog) (*entity.MovementLog, error)
	List(ctx context.Context) ([]*entity.MovementLog, error)
}
