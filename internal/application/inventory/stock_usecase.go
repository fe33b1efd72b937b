package inventory

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	domaininv "github.com/jhoicas/stock-ledger/internal/domain/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// StockUseCase reconstruye la disponibilidad reproduciendo las cuatro fuentes del libro en cada llamada.
// No guarda estado: es seguro invocarlo desde varios lectores a la vez.
type StockUseCase struct {
	ledger   repository.LedgerRepository
	products repository.ProductRepository
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(ledger repository.LedgerRepository, products repository.ProductRepository) *StockUseCase {
	return &StockUseCase{ledger: ledger, products: products}
}

// StockFilter restringe el listado de disponibles (para selectores de la UI).
type StockFilter struct {
	Location  string
	ProductID string
}

// ComputeAvailableStock devuelve una instantánea de todas las unidades disponibles.
func (uc *StockUseCase) ComputeAvailableStock(ctx context.Context) ([]entity.AvailableStockItem, error) {
	av, err := uc.availabilityFrom(ctx, uc.ledger)
	if err != nil {
		return nil, err
	}
	return av.Items(), nil
}

// ListAvailable igual que ComputeAvailableStock pero filtrado por sede y/o producto.
// La reproducción siempre es completa: el filtro se aplica sobre el resultado.
func (uc *StockUseCase) ListAvailable(ctx context.Context, filter StockFilter) ([]entity.AvailableStockItem, error) {
	items, err := uc.ComputeAvailableStock(ctx)
	if err != nil {
		return nil, err
	}
	out := items[:0]
	for _, it := range items {
		if filter.Location != "" && it.Location != filter.Location {
			continue
		}
		if filter.ProductID != "" && it.ProductID != filter.ProductID {
			continue
		}
		out = append(out, it)
	}
	return out, nil
}

// Summary agrupa la disponibilidad por (producto, sede).
func (uc *StockUseCase) Summary(ctx context.Context, location string) ([]dto.StockSummaryDTO, error) {
	items, err := uc.ListAvailable(ctx, StockFilter{Location: location})
	if err != nil {
		return nil, err
	}
	type key struct{ product, location string }
	idx := make(map[key]int)
	var out []dto.StockSummaryDTO
	for _, it := range items {
		k := key{it.ProductID, it.Location}
		i, ok := idx[k]
		if !ok {
			out = append(out, dto.StockSummaryDTO{
				ProductID:  it.ProductID,
				Location:   it.Location,
				Serialized: it.IsSerialized(),
				Quantity:   decimal.Zero,
			})
			i = len(out) - 1
			idx[k] = i
		}
		out[i].Quantity = out[i].Quantity.Add(it.Quantity)
		if it.IsSerialized() {
			out[i].SerialNumbers = append(out[i].SerialNumbers, it.SerialNumber)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].ProductID != out[j].ProductID {
			return out[i].ProductID < out[j].ProductID
		}
		return out[i].Location < out[j].Location
	})
	return out, nil
}

// availabilityFrom reproduce el libro leyendo de ledger (puede estar atado a una transacción).
func (uc *StockUseCase) availabilityFrom(ctx context.Context, ledger repository.LedgerRepository) (*domaininv.Availability, error) {
	src, err := loadSources(ctx, ledger)
	if err != nil {
		return nil, err
	}
	catalog, err := uc.catalogFor(ctx, productIDs(src))
	if err != nil {
		return nil, err
	}
	return domaininv.Aggregate(src, catalog), nil
}

func (uc *StockUseCase) catalogFor(ctx context.Context, ids []string) (domaininv.Catalog, error) {
	if len(ids) == 0 {
		return domaininv.Catalog{}, nil
	}
	products, err := uc.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("stock: leer catálogo: %w", err)
	}
	return domaininv.NewCatalog(products), nil
}

// loadSources lee las cuatro colecciones en paralelo y espera a que terminen todas.
func loadSources(ctx context.Context, ledger repository.LedgerRepository) (domaininv.Sources, error) {
	var src domaininv.Sources
	targets := map[entity.EntryKind]*[]*entity.LedgerEntry{
		entity.EntryKindReceipt:  &src.Receipts,
		entity.EntryKindPurchase: &src.Purchases,
		entity.EntryKindDispatch: &src.Dispatches,
		entity.EntryKindSale:     &src.Sales,
	}
	g, gctx := errgroup.WithContext(ctx)
	for _, kind := range entity.EntryKinds {
		kind, dst := kind, targets[kind]
		g.Go(func() error {
			entries, err := ledger.ListEntries(gctx, kind, repository.LedgerFilter{})
			if err != nil {
				return fmt.Errorf("stock: leer %s: %w", kind, err)
			}
			*dst = entries
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return domaininv.Sources{}, err
	}
	return src, nil
}

func productIDs(src domaininv.Sources) []string {
	seen := make(map[string]struct{})
	var ids []string
	for _, entries := range [][]*entity.LedgerEntry{src.Receipts, src.Purchases, src.Dispatches, src.Sales} {
		for _, e := range entries {
			if e == nil {
				continue
			}
			for _, l := range e.Lines {
				if _, ok := seen[l.ProductID]; !ok && l.ProductID != "" {
					seen[l.ProductID] = struct{}{}
					ids = append(ids, l.ProductID)
				}
			}
		}
	}
	sort.Strings(ids)
	return ids
}
