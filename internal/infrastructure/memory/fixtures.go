package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/document"
)

// Fixtures datos iniciales del backend en memoria. Los asientos usan la forma de documento de las
// colecciones, indexados por ID.
type Fixtures struct {
	Locations []struct {
		ID      string `json:"id"`
		Name    string `json:"name"`
		Address string `json:"address"`
	} `json:"locations"`
	Products []struct {
		ID              string           `json:"id"`
		Name            string           `json:"name"`
		Type            string           `json:"type"`
		HasSerialNumber bool             `json:"hasSerialNumber"`
		MRP             decimal.Decimal  `json:"mrp"`
		DealerPrice     *decimal.Decimal `json:"dealerPrice"`
		TaxApplicable   bool             `json:"taxApplicable"`
		UnitOfCount     string           `json:"unitOfCount"`
	} `json:"products"`
	Receipts   map[string]document.Entry `json:"receipts"`
	Purchases  map[string]document.Entry `json:"purchases"`
	Dispatches map[string]document.Entry `json:"dispatches"`
	Sales      map[string]document.Entry `json:"sales"`
}

// LoadFixtures lee fixtures JSON y los carga en el almacén.
func (s *Store) LoadFixtures(ctx context.Context, r io.Reader) error {
	var f Fixtures
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return fmt.Errorf("fixtures: decodificar: %w", err)
	}
	now := time.Now().UTC()
	for _, l := range f.Locations {
		s.PutLocation(&entity.Location{ID: l.ID, Name: l.Name, Address: l.Address, CreatedAt: now, UpdatedAt: now})
	}
	for _, p := range f.Products {
		unit := p.UnitOfCount
		if unit == "" {
			unit = entity.UnitOfCountPiece
		}
		s.PutProduct(&entity.Product{
			ID:              p.ID,
			Name:            p.Name,
			Type:            p.Type,
			HasSerialNumber: p.HasSerialNumber,
			MRP:             p.MRP,
			DealerPrice:     p.DealerPrice,
			TaxApplicable:   p.TaxApplicable,
			UnitOfCount:     unit,
			CreatedAt:       now,
			UpdatedAt:       now,
		})
	}
	sources := map[entity.EntryKind]map[string]document.Entry{
		entity.EntryKindReceipt:  f.Receipts,
		entity.EntryKindPurchase: f.Purchases,
		entity.EntryKindDispatch: f.Dispatches,
		entity.EntryKindSale:     f.Sales,
	}
	for _, kind := range entity.EntryKinds {
		for id, doc := range sources[kind] {
			if err := s.CreateEntry(ctx, doc.ToEntry(id, kind)); err != nil {
				return fmt.Errorf("fixtures: %s %s: %w", kind, id, err)
			}
		}
	}
	return nil
}
