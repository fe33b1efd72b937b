package firestore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/document"
)

var _ repository.LedgerRepository = (*LedgerRepo)(nil)

// LedgerRepo lee y escribe las cuatro colecciones del libro.
type LedgerRepo struct {
	client      *firestore.Client
	collections map[entity.EntryKind]string
}

func (r *LedgerRepo) col(kind entity.EntryKind) (*firestore.CollectionRef, error) {
	if r.client == nil {
		return nil, errors.New("firestore client is nil")
	}
	name, ok := r.collections[kind]
	if !ok || name == "" {
		return nil, fmt.Errorf("%w: colección no configurada para %s", domain.ErrInvalidInput, kind)
	}
	return r.client.Collection(name), nil
}

// ListEntries implementa repository.LedgerRepository.
// La sede se filtra en la consulta; el producto en memoria, porque las líneas son un arreglo de mapas.
func (r *LedgerRepo) ListEntries(ctx context.Context, kind entity.EntryKind, filter repository.LedgerFilter) ([]*entity.LedgerEntry, error) {
	col, err := r.col(kind)
	if err != nil {
		return nil, err
	}
	q := col.Query
	if filter.Location != "" {
		q = q.Where("location", "==", filter.Location)
	}

	it := q.Documents(ctx)
	defer it.Stop()

	var out []*entity.LedgerEntry
	for {
		snap, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("listar %s: %w", kind, err)
		}
		var doc document.Entry
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("decodificar %s/%s: %w", kind, snap.Ref.ID, err)
		}
		if filter.ProductID != "" && !doc.HasProduct(filter.ProductID) {
			continue
		}
		out = append(out, doc.ToEntry(snap.Ref.ID, kind))
	}
	return out, nil
}

// GetEntry implementa repository.LedgerRepository; nil si no existe.
func (r *LedgerRepo) GetEntry(ctx context.Context, kind entity.EntryKind, id string) (*entity.LedgerEntry, error) {
	col, err := r.col(kind)
	if err != nil {
		return nil, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, nil
	}
	snap, err := col.Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("leer %s/%s: %w", kind, id, err)
	}
	var doc document.Entry
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("decodificar %s/%s: %w", kind, id, err)
	}
	return doc.ToEntry(snap.Ref.ID, kind), nil
}

// CreateEntry implementa repository.LedgerRepository con Create: falla si el documento ya existe.
func (r *LedgerRepo) CreateEntry(ctx context.Context, e *entity.LedgerEntry) error {
	col, err := r.col(e.Kind)
	if err != nil {
		return err
	}
	if strings.TrimSpace(e.ID) == "" {
		return domain.ErrInvalidInput
	}
	if _, err := col.Doc(e.ID).Create(ctx, document.FromEntry(e)); err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("crear %s/%s: %w", e.Kind, e.ID, err)
	}
	return nil
}
