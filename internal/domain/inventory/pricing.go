package inventory

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// Pricing precios originales con los que el stock entró a una sede.
// Source vacío significa "precio desconocido": los precios quedan en cero y no es un error.
type Pricing struct {
	DealerPrice decimal.Decimal
	ListPrice   decimal.Decimal
	Source      entity.EntryKind
}

// Known indica si se encontró un asiento de entrada que respalde el precio.
func (p Pricing) Known() bool { return p.Source != "" }

// ResolveOriginalPricing busca el precio original en las recepciones de la sede y, si no hay
// coincidencia, en las compras. Con seriales elige la línea más reciente cuyo listado los intersecta;
// sin seriales (granel) promedia ponderadamente todas las líneas del producto en la sede.
func ResolveOriginalPricing(receipts, purchases []*entity.LedgerEntry, productID string, serials []string, location string) Pricing {
	want := make(map[string]struct{}, len(serials))
	for _, s := range serials {
		if s = strings.TrimSpace(s); s != "" {
			want[s] = struct{}{}
		}
	}
	sources := []struct {
		kind    entity.EntryKind
		entries []*entity.LedgerEntry
	}{
		{entity.EntryKindReceipt, receipts},
		{entity.EntryKindPurchase, purchases},
	}
	for _, src := range sources {
		var (
			p  Pricing
			ok bool
		)
		if len(want) > 0 {
			p, ok = latestBySerial(src.entries, productID, want, location)
		} else {
			p, ok = weightedByLocation(src.entries, productID, location)
		}
		if ok {
			p.Source = src.kind
			return p
		}
	}
	return Pricing{DealerPrice: decimal.Zero, ListPrice: decimal.Zero}
}

func latestBySerial(entries []*entity.LedgerEntry, productID string, want map[string]struct{}, location string) (Pricing, bool) {
	var (
		best  *entity.LedgerEntry
		found entity.ProductLine
	)
	for _, e := range entries {
		if e == nil || e.Location != location {
			continue
		}
		for _, line := range e.Lines {
			if line.ProductID != productID || !intersects(line.Serials(), want) {
				continue
			}
			if best == nil || e.Date.After(best.Date) || (e.Date.Equal(best.Date) && e.ID > best.ID) {
				best, found = e, line
			}
		}
	}
	if best == nil {
		return Pricing{}, false
	}
	return Pricing{DealerPrice: found.DealerPrice, ListPrice: found.MRP}, true
}

func weightedByLocation(entries []*entity.LedgerEntry, productID, location string) (Pricing, bool) {
	var (
		qty, dealer, mrp decimal.Decimal
		last             *entity.ProductLine
	)
	for _, e := range entries {
		if e == nil || e.Location != location {
			continue
		}
		for i := range e.Lines {
			line := e.Lines[i]
			if line.ProductID != productID {
				continue
			}
			in := line.Quantity()
			dealer = WeightedAverageCost(qty, dealer, in, line.DealerPrice)
			mrp = WeightedAverageCost(qty, mrp, in, line.MRP)
			qty = qty.Add(in)
			last = &line
		}
	}
	if last == nil {
		return Pricing{}, false
	}
	if qty.LessThanOrEqual(decimal.Zero) {
		return Pricing{DealerPrice: last.DealerPrice, ListPrice: last.MRP}, true
	}
	return Pricing{DealerPrice: dealer.Round(2), ListPrice: mrp.Round(2)}, true
}

func intersects(serials []string, want map[string]struct{}) bool {
	for _, s := range serials {
		if _, ok := want[strings.TrimSpace(s)]; ok {
			return true
		}
	}
	return false
}
