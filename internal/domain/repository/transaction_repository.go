package repository

import (
	"context"

	"github.com/jhoicas/smartwms/internal/domain/entity"
)

// TransactionRepository puerto de solo lectura sobre el historial de transacciones.
type TransactionRepository interface {
	List(ctx context.Context) ([]*entity.Transaction, error)
}
