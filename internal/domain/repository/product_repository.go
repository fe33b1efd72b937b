package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// ProductRepository puerto de lectura del catálogo de productos.
type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// GetByIDs devuelve los productos encontrados; los IDs desconocidos se omiten.
	GetByIDs(ctx context.Context, ids []string) ([]*entity.Product, error)
}
