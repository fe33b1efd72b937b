package inventory_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/inventory"
)

var day = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func serialLine(productID string, serials ...string) entity.ProductLine {
	return entity.ProductLine{ProductID: productID, Stock: entity.Serialized{Serials: serials}}
}

func bulkLine(productID string, qty int64) entity.ProductLine {
	return entity.ProductLine{ProductID: productID, Stock: entity.Bulk{Quantity: decimal.NewFromInt(qty)}}
}

func entry(id string, kind entity.EntryKind, location string, at time.Time, lines ...entity.ProductLine) *entity.LedgerEntry {
	return &entity.LedgerEntry{ID: id, Kind: kind, Location: location, Date: at, Lines: lines}
}

func testCatalog() inventory.Catalog {
	return inventory.NewCatalog([]*entity.Product{
		{ID: "P1", Name: "Audífono RIC", HasSerialNumber: true},
		{ID: "B1", Name: "Pila 312", HasSerialNumber: false},
	})
}

func TestAggregate_EntradasSerializadasYGranel(t *testing.T) {
	src := inventory.Sources{
		Receipts: []*entity.LedgerEntry{
			entry("r1", entity.EntryKindReceipt, "HO", day, serialLine("P1", "S1", "S2"), bulkLine("B1", 10)),
		},
		Purchases: []*entity.LedgerEntry{
			entry("p1", entity.EntryKindPurchase, "BR1", day, serialLine("P1", "S3"), bulkLine("B1", 4)),
		},
	}
	av := inventory.Aggregate(src, testCatalog())

	assert.Equal(t, []string{"S1", "S2"}, av.SerialsAt("P1", "HO"))
	assert.Equal(t, []string{"S3"}, av.SerialsAt("P1", "BR1"))
	assert.True(t, av.BulkQuantity("B1", "HO").Equal(decimal.NewFromInt(10)))
	assert.True(t, av.BulkQuantity("B1", "BR1").Equal(decimal.NewFromInt(4)))
	assert.True(t, av.Total("P1").Equal(decimal.NewFromInt(3)))
}

// Un despacho pendiente reserva el serial igual que uno despachado.
func TestAggregate_DespachoPendienteReservaSerial(t *testing.T) {
	pending := entry("d1", entity.EntryKindDispatch, "HO", day, serialLine("P1", "S1"))
	pending.Status = entity.DispatchStatusPending
	done := entry("d2", entity.EntryKindDispatch, "HO", day, serialLine("P1", "S2"))
	done.Status = entity.DispatchStatusDispatched

	src := inventory.Sources{
		Receipts:   []*entity.LedgerEntry{entry("r1", entity.EntryKindReceipt, "HO", day, serialLine("P1", "S1", "S2", "S3"))},
		Dispatches: []*entity.LedgerEntry{pending, done},
	}
	av := inventory.Aggregate(src, testCatalog())

	assert.Equal(t, []string{"S3"}, av.SerialsAt("P1", "HO"))
	assert.False(t, av.HasSerial("P1", "HO", "S1"), "pending debe excluir el serial")
}

func TestAggregate_VentaConsumeSerial(t *testing.T) {
	src := inventory.Sources{
		Receipts: []*entity.LedgerEntry{entry("r1", entity.EntryKindReceipt, "HO", day, serialLine("P1", "S1", "S2"))},
		Sales:    []*entity.LedgerEntry{entry("v1", entity.EntryKindSale, "HO", day, serialLine("P1", "S2"))},
	}
	av := inventory.Aggregate(src, testCatalog())
	assert.Equal(t, []string{"S1"}, av.SerialsAt("P1", "HO"))
}

func TestAggregate_SerialSoloEnSalidasSeIgnora(t *testing.T) {
	src := inventory.Sources{
		Dispatches: []*entity.LedgerEntry{entry("d1", entity.EntryKindDispatch, "HO", day, serialLine("P1", "GHOST"))},
		Sales:      []*entity.LedgerEntry{entry("v1", entity.EntryKindSale, "HO", day, serialLine("P1", "GHOST2"))},
	}
	av := inventory.Aggregate(src, testCatalog())
	assert.Empty(t, av.Items())
}

func TestAggregate_GranelConPisoEnCero(t *testing.T) {
	src := inventory.Sources{
		Receipts:   []*entity.LedgerEntry{entry("r1", entity.EntryKindReceipt, "HO", day, bulkLine("B1", 5))},
		Dispatches: []*entity.LedgerEntry{entry("d1", entity.EntryKindDispatch, "HO", day, bulkLine("B1", 8))},
	}
	av := inventory.Aggregate(src, testCatalog())

	assert.True(t, av.BulkQuantity("B1", "HO").IsZero())
	assert.Empty(t, av.Items(), "no se emiten ítems con cantidad cero")
}

// Ida y vuelta HO -> BR1 -> HO: el serial vuelve a estar disponible solo en HO.
func TestAggregate_TrasladoIdaYVuelta(t *testing.T) {
	src := inventory.Sources{
		Receipts: []*entity.LedgerEntry{
			entry("r1", entity.EntryKindReceipt, "HO", day, serialLine("P1", "S1")),
			entry("r2", entity.EntryKindReceipt, "BR1", day.Add(time.Hour), serialLine("P1", "S1")),
			entry("r3", entity.EntryKindReceipt, "HO", day.Add(2*time.Hour), serialLine("P1", "S1")),
		},
		Dispatches: []*entity.LedgerEntry{
			entry("d1", entity.EntryKindDispatch, "HO", day.Add(time.Hour), serialLine("P1", "S1")),
			entry("d2", entity.EntryKindDispatch, "BR1", day.Add(2*time.Hour), serialLine("P1", "S1")),
		},
	}
	av := inventory.Aggregate(src, testCatalog())

	assert.Equal(t, []string{"S1"}, av.SerialsAt("P1", "HO"))
	assert.Empty(t, av.SerialsAt("P1", "BR1"))
}

// Con datos inconsistentes el serial aparece una sola vez, en la sede de entrada más reciente.
func TestAggregate_SerialUnicoEntreSedes(t *testing.T) {
	src := inventory.Sources{
		Receipts: []*entity.LedgerEntry{
			entry("r1", entity.EntryKindReceipt, "HO", day, serialLine("P1", "S1")),
			entry("r2", entity.EntryKindReceipt, "BR1", day.Add(time.Hour), serialLine("P1", "S1")),
		},
	}
	av := inventory.Aggregate(src, testCatalog())

	seen := map[string]int{}
	for _, it := range av.Items() {
		if it.IsSerialized() {
			seen[it.SerialNumber]++
		}
	}
	assert.Equal(t, 1, seen["S1"])
	assert.True(t, av.HasSerial("P1", "BR1", "S1"))
}

// El resultado no depende del orden de lectura de los asientos.
func TestAggregate_OrdenIndiferente(t *testing.T) {
	receipts := []*entity.LedgerEntry{
		entry("r1", entity.EntryKindReceipt, "HO", day, serialLine("P1", "S1", "S2"), bulkLine("B1", 7)),
		entry("r2", entity.EntryKindReceipt, "BR1", day, serialLine("P1", "S9"), bulkLine("B1", 3)),
	}
	dispatches := []*entity.LedgerEntry{
		entry("d1", entity.EntryKindDispatch, "HO", day, serialLine("P1", "S2"), bulkLine("B1", 2)),
		entry("d2", entity.EntryKindDispatch, "BR1", day, bulkLine("B1", 1)),
	}
	a := inventory.Aggregate(inventory.Sources{Receipts: receipts, Dispatches: dispatches}, testCatalog())
	b := inventory.Aggregate(inventory.Sources{
		Receipts:   []*entity.LedgerEntry{receipts[1], receipts[0]},
		Dispatches: []*entity.LedgerEntry{dispatches[1], dispatches[0]},
	}, testCatalog())

	require.Equal(t, a.Items(), b.Items())
}

// Producto serializado cuya línea de entrada no trae seriales: no suma disponibilidad.
func TestAggregate_SerializadoSinSerialesNoSuma(t *testing.T) {
	src := inventory.Sources{
		Receipts: []*entity.LedgerEntry{entry("r1", entity.EntryKindReceipt, "HO", day, bulkLine("P1", 3))},
	}
	av := inventory.Aggregate(src, testCatalog())
	assert.Empty(t, av.Items())
}
