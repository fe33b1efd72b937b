package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// TransferRepository persiste el registro de auditoría y el paso de la saga de cada traslado.
type TransferRepository interface {
	// Create guarda la intención; devuelve domain.ErrDuplicate si el número ya existe.
	Create(ctx context.Context, transfer *entity.StockTransfer) error
	GetByNumber(ctx context.Context, transferNumber string) (*entity.StockTransfer, error)
	// UpdateProgress actualiza Status, IDs de asientos y UpdatedAt.
	UpdateProgress(ctx context.Context, transfer *entity.StockTransfer) error
	ListIncomplete(ctx context.Context) ([]*entity.StockTransfer, error)
}
