package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// LedgerFilter restringe la lectura de una fuente. Campos vacíos = sin filtro.
type LedgerFilter struct {
	Location  string
	ProductID string
}

// LedgerRepository puerto sobre las cuatro colecciones append-only del libro de inventario.
// El motor solo escribe despachos y recepciones (traslados).
type LedgerRepository interface {
	ListEntries(ctx context.Context, kind entity.EntryKind, filter LedgerFilter) ([]*entity.LedgerEntry, error)
	GetEntry(ctx context.Context, kind entity.EntryKind, id string) (*entity.LedgerEntry, error)
	// CreateEntry persiste el asiento con su ID; devuelve domain.ErrDuplicate si ya existe.
	CreateEntry(ctx context.Context, entry *entity.LedgerEntry) error
}
