package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// LocationRepository puerto de lectura de sedes.
type LocationRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Location, error)
	List(ctx context.Context) ([]*entity.Location, error)
}
