// Package memory implementa los puertos del motor en memoria: backend de desarrollo y fixture de tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var (
	_ repository.LedgerRepository   = (*Store)(nil)
	_ repository.ProductRepository  = (*Store)(nil)
	_ repository.TransferRepository = (*Store)(nil)
	_ inventory.TxRunner            = (*Store)(nil)
)

// Store guarda catálogo, sedes, las cuatro colecciones del libro y los traslados.
// Las escrituras son independientes entre sí, igual que en un almacén de documentos sin transacciones.
type Store struct {
	mu        sync.RWMutex
	txMu      sync.Mutex
	entries   map[entity.EntryKind][]*entity.LedgerEntry
	products  map[string]*entity.Product
	locations map[string]*entity.Location
	transfers map[string]*entity.StockTransfer
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		entries:   make(map[entity.EntryKind][]*entity.LedgerEntry),
		products:  make(map[string]*entity.Product),
		locations: make(map[string]*entity.Location),
		transfers: make(map[string]*entity.StockTransfer),
	}
}

// PutProduct registra o reemplaza un producto del catálogo.
func (s *Store) PutProduct(p *entity.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *p
	s.products[p.ID] = &cp
}

// PutLocation registra o reemplaza una sede.
func (s *Store) PutLocation(l *entity.Location) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *l
	s.locations[l.ID] = &cp
}

// SetDispatchStatus cambia el estado de un despacho, como lo hacen las pantallas de salida.
func (s *Store) SetDispatchStatus(id string, status entity.DispatchStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.entries[entity.EntryKindDispatch] {
		if e.ID == id {
			e.Status = status
			return nil
		}
	}
	return domain.ErrNotFound
}

// ListEntries implementa repository.LedgerRepository en orden de inserción.
func (s *Store) ListEntries(ctx context.Context, kind entity.EntryKind, filter repository.LedgerFilter) ([]*entity.LedgerEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*entity.LedgerEntry
	for _, e := range s.entries[kind] {
		if filter.Location != "" && e.Location != filter.Location {
			continue
		}
		if filter.ProductID != "" && !hasProduct(e, filter.ProductID) {
			continue
		}
		out = append(out, cloneEntry(e))
	}
	return out, nil
}

// GetEntry implementa repository.LedgerRepository; nil si no existe.
func (s *Store) GetEntry(ctx context.Context, kind entity.EntryKind, id string) (*entity.LedgerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.entries[kind] {
		if e.ID == id {
			return cloneEntry(e), nil
		}
	}
	return nil, nil
}

// CreateEntry implementa repository.LedgerRepository.
func (s *Store) CreateEntry(ctx context.Context, entry *entity.LedgerEntry) error {
	if !entry.Kind.Valid() || strings.TrimSpace(entry.ID) == "" {
		return domain.ErrInvalidInput
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.entries[entry.Kind] {
		if e.ID == entry.ID {
			return domain.ErrDuplicate
		}
	}
	s.entries[entry.Kind] = append(s.entries[entry.Kind], cloneEntry(entry))
	return nil
}

// GetByID implementa repository.ProductRepository. Las sedes se leen con Locations().
func (s *Store) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

// GetByIDs implementa repository.ProductRepository.
func (s *Store) GetByIDs(ctx context.Context, ids []string) ([]*entity.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*entity.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := s.products[id]; ok {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

// Create implementa repository.TransferRepository.
func (s *Store) Create(ctx context.Context, t *entity.StockTransfer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.transfers[t.TransferNumber]; ok {
		return domain.ErrDuplicate
	}
	s.transfers[t.TransferNumber] = cloneTransfer(t)
	return nil
}

// GetByNumber implementa repository.TransferRepository; nil si no existe.
func (s *Store) GetByNumber(ctx context.Context, transferNumber string) (*entity.StockTransfer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.transfers[transferNumber]
	if !ok {
		return nil, nil
	}
	return cloneTransfer(t), nil
}

// UpdateProgress implementa repository.TransferRepository.
func (s *Store) UpdateProgress(ctx context.Context, t *entity.StockTransfer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.transfers[t.TransferNumber]
	if !ok {
		return domain.ErrNotFound
	}
	cur.Status = t.Status
	cur.OutboundEntryID = t.OutboundEntryID
	cur.InboundEntryID = t.InboundEntryID
	cur.UpdatedAt = t.UpdatedAt
	return nil
}

// ListIncomplete implementa repository.TransferRepository, ordenado por creación.
func (s *Store) ListIncomplete(ctx context.Context) ([]*entity.StockTransfer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*entity.StockTransfer
	for _, t := range s.transfers {
		if !t.Status.Complete() {
			out = append(out, cloneTransfer(t))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].TransferNumber < out[j].TransferNumber
	})
	return out, nil
}

// Run implementa inventory.TxRunner: serializa las confirmaciones del proceso, sin rollback.
func (s *Store) Run(ctx context.Context, lockKey string, fn func(
	ctx context.Context,
	ledger repository.LedgerRepository,
	transfers repository.TransferRepository,
) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	return fn(ctx, s, s)
}

// Locations devuelve el puerto de sedes del almacén.
func (s *Store) Locations() repository.LocationRepository {
	return locationRepo{s}
}

type locationRepo struct{ s *Store }

func (r locationRepo) GetByID(ctx context.Context, id string) (*entity.Location, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	l, ok := r.s.locations[id]
	if !ok {
		return nil, nil
	}
	cp := *l
	return &cp, nil
}

func (r locationRepo) List(ctx context.Context) ([]*entity.Location, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.Location, 0, len(r.s.locations))
	for _, l := range r.s.locations {
		cp := *l
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func hasProduct(e *entity.LedgerEntry, productID string) bool {
	for _, l := range e.Lines {
		if l.ProductID == productID {
			return true
		}
	}
	return false
}

func cloneEntry(e *entity.LedgerEntry) *entity.LedgerEntry {
	cp := *e
	cp.Lines = make([]entity.ProductLine, len(e.Lines))
	for i, l := range e.Lines {
		if s, ok := l.Stock.(entity.Serialized); ok {
			l.Stock = entity.Serialized{Serials: append([]string(nil), s.Serials...)}
		}
		cp.Lines[i] = l
	}
	return &cp
}

func cloneTransfer(t *entity.StockTransfer) *entity.StockTransfer {
	cp := *t
	cp.Lines = make([]entity.TransferLine, len(t.Lines))
	for i, l := range t.Lines {
		if s, ok := l.Stock.(entity.Serialized); ok {
			l.Stock = entity.Serialized{Serials: append([]string(nil), s.Serials...)}
		}
		cp.Lines[i] = l
	}
	return &cp
}
