package inventory_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/inventory"
)

func pricedLine(line entity.ProductLine, dealer, mrp int64) entity.ProductLine {
	line.DealerPrice = decimal.NewFromInt(dealer)
	line.MRP = decimal.NewFromInt(mrp)
	return line
}

func TestResolveOriginalPricing_RecepcionPrimero(t *testing.T) {
	receipts := []*entity.LedgerEntry{
		entry("r1", entity.EntryKindReceipt, "HO", day, pricedLine(serialLine("P1", "S1", "S2"), 1000, 1200)),
	}
	purchases := []*entity.LedgerEntry{
		entry("p1", entity.EntryKindPurchase, "HO", day, pricedLine(serialLine("P1", "S1"), 900, 1100)),
	}
	p := inventory.ResolveOriginalPricing(receipts, purchases, "P1", []string{"S1"}, "HO")

	assert.True(t, p.Known())
	assert.Equal(t, entity.EntryKindReceipt, p.Source)
	assert.True(t, p.DealerPrice.Equal(decimal.NewFromInt(1000)))
	assert.True(t, p.ListPrice.Equal(decimal.NewFromInt(1200)))
}

// Serial presente solo en compras: devuelve el precio de la compra, no cero.
func TestResolveOriginalPricing_FallbackACompra(t *testing.T) {
	receipts := []*entity.LedgerEntry{
		entry("r1", entity.EntryKindReceipt, "HO", day, pricedLine(serialLine("P1", "S1"), 1000, 1200)),
	}
	purchases := []*entity.LedgerEntry{
		entry("p1", entity.EntryKindPurchase, "HO", day, pricedLine(serialLine("P1", "S7"), 850, 990)),
	}
	p := inventory.ResolveOriginalPricing(receipts, purchases, "P1", []string{"S7"}, "HO")

	assert.Equal(t, entity.EntryKindPurchase, p.Source)
	assert.True(t, p.DealerPrice.Equal(decimal.NewFromInt(850)))
	assert.True(t, p.ListPrice.Equal(decimal.NewFromInt(990)))
}

func TestResolveOriginalPricing_DesconocidoEsCero(t *testing.T) {
	receipts := []*entity.LedgerEntry{
		entry("r1", entity.EntryKindReceipt, "BR1", day, pricedLine(serialLine("P1", "S1"), 1000, 1200)),
	}
	p := inventory.ResolveOriginalPricing(receipts, nil, "P1", []string{"S1"}, "HO")

	assert.False(t, p.Known(), "otra sede no cuenta")
	assert.True(t, p.DealerPrice.IsZero())
	assert.True(t, p.ListPrice.IsZero())
}

func TestResolveOriginalPricing_SerialEligeEntradaMasReciente(t *testing.T) {
	receipts := []*entity.LedgerEntry{
		entry("r1", entity.EntryKindReceipt, "HO", day, pricedLine(serialLine("P1", "S1"), 1000, 1200)),
		entry("r2", entity.EntryKindReceipt, "HO", day.Add(24*time.Hour), pricedLine(serialLine("P1", "S1"), 1100, 1300)),
	}
	p := inventory.ResolveOriginalPricing(receipts, nil, "P1", []string{"S1"}, "HO")
	assert.True(t, p.DealerPrice.Equal(decimal.NewFromInt(1100)))
}

func TestResolveOriginalPricing_GranelPromedioPonderado(t *testing.T) {
	receipts := []*entity.LedgerEntry{
		entry("r1", entity.EntryKindReceipt, "HO", day, pricedLine(bulkLine("B1", 10), 100, 150)),
		entry("r2", entity.EntryKindReceipt, "HO", day, pricedLine(bulkLine("B1", 30), 200, 250)),
	}
	p := inventory.ResolveOriginalPricing(receipts, nil, "B1", nil, "HO")

	assert.True(t, p.DealerPrice.Equal(decimal.NewFromInt(175)), "((10*100)+(30*200))/40 = 175, got %s", p.DealerPrice)
	assert.True(t, p.ListPrice.Equal(decimal.NewFromInt(225)))
}

func TestWeightedAverageCost(t *testing.T) {
	got := inventory.WeightedAverageCost(decimal.NewFromInt(10), decimal.NewFromInt(100), decimal.NewFromInt(5), decimal.NewFromInt(130))
	assert.True(t, got.Equal(decimal.NewFromInt(110)))
	assert.True(t, inventory.WeightedAverageCost(decimal.Zero, decimal.Zero, decimal.Zero, decimal.NewFromInt(5)).IsZero())
}
