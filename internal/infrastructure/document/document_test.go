package document_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/inventory"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/document"
)

func TestToLines_ClasificaPorForma(t *testing.T) {
	raw := `[
		{"productId": "P1", "serialNumbers": ["S1", "S2"], "dealerPrice": 1000, "mrp": 1200},
		{"productId": "P1", "serialNumber": "S3"},
		{"productId": "B1", "quantity": 12.5},
		{"productId": "P1", "serialNumbers": []},
		{"productId": "B2"},
		{"productId": "B3", "serialNumbers": [], "quantity": 10}
	]`
	var lines []document.Line
	require.NoError(t, json.Unmarshal([]byte(raw), &lines))

	got := document.ToLines(lines)
	require.Len(t, got, 6)
	assert.Equal(t, []string{"S1", "S2"}, got[0].Serials())
	assert.True(t, got[0].DealerPrice.Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, []string{"S3"}, got[1].Serials(), "venta: serial único")
	assert.True(t, got[2].Quantity().Equal(decimal.RequireFromString("12.5")))
	_, isBulk := got[3].Stock.(entity.Bulk)
	assert.True(t, isBulk, "lista vacía sin cantidad es granel en cero")
	assert.True(t, got[3].Quantity().IsZero())
	_, isBulk = got[4].Stock.(entity.Bulk)
	assert.True(t, isBulk)
	assert.True(t, got[4].DealerPrice.IsZero())
	_, isBulk = got[5].Stock.(entity.Bulk)
	assert.True(t, isBulk, "lista vacía con cantidad es granel")
	assert.True(t, got[5].Quantity().Equal(decimal.NewFromInt(10)))
}

func TestToLines_GranelConListaVaciaCuentaEnDisponibilidad(t *testing.T) {
	decode := func(raw string) document.Entry {
		var doc document.Entry
		require.NoError(t, json.Unmarshal([]byte(raw), &doc))
		return doc
	}
	receipt := decode(`{"location": "HO", "products": [{"productId": "BAT", "serialNumbers": [], "quantity": 10}]}`)
	dispatch := decode(`{"location": "HO", "status": "dispatched", "products": [{"productId": "BAT", "serialNumbers": [], "quantity": 4}]}`)

	src := inventory.Sources{
		Receipts:   []*entity.LedgerEntry{receipt.ToEntry("r1", entity.EntryKindReceipt)},
		Dispatches: []*entity.LedgerEntry{dispatch.ToEntry("d1", entity.EntryKindDispatch)},
	}
	catalog := inventory.NewCatalog([]*entity.Product{{ID: "BAT", Name: "Pila 675", HasSerialNumber: false}})

	av := inventory.Aggregate(src, catalog)
	assert.True(t, av.BulkQuantity("BAT", "HO").Equal(decimal.NewFromInt(6)), "got %s", av.BulkQuantity("BAT", "HO"))
}

func TestFromEntry_VentaUnSerialPorLinea(t *testing.T) {
	e := &entity.LedgerEntry{
		ID:       "v1",
		Kind:     entity.EntryKindSale,
		Location: "HO",
		Lines:    []entity.ProductLine{{ProductID: "P1", Stock: entity.Serialized{Serials: []string{"S1", "S2"}}}},
	}
	doc := document.FromEntry(e)
	require.Len(t, doc.Products, 2)
	assert.Equal(t, "S1", doc.Products[0].SerialNumber)
	assert.Nil(t, doc.Products[0].SerialNumbers)
	assert.Empty(t, doc.Status)

	back := doc.ToEntry("v1", entity.EntryKindSale)
	assert.Equal(t, []string{"S2"}, back.Lines[1].Serials())
}

func TestEntry_DespachoSinEstadoEsPendiente(t *testing.T) {
	doc := document.Entry{Location: "HO", Products: []document.Line{{ProductID: "P1", SerialNumbers: []string{"S1"}}}}
	e := doc.ToEntry("d1", entity.EntryKindDispatch)
	assert.Equal(t, entity.DispatchStatusPending, e.Status)

	e.Status = entity.DispatchStatusDispatched
	assert.Equal(t, "dispatched", document.FromEntry(e).Status)
}

func TestTransfer_FormaDeAuditoria(t *testing.T) {
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	tr := &entity.StockTransfer{
		ID:             "id-1",
		TransferNumber: "TR-20240301-ABCDEF",
		FromLocation:   "HO",
		ToLocation:     "Branch1",
		Date:           now,
		Reason:         "reposicion",
		Status:         entity.TransferStatusCommitted,
		Lines: []entity.TransferLine{
			{ProductID: "P1", Name: "Audífono", Stock: entity.Serialized{Serials: []string{"S1"}}},
			{ProductID: "B1", Name: "Pilas", Stock: entity.Bulk{Quantity: decimal.NewFromInt(4)}},
		},
	}
	doc := document.FromTransfer(tr)
	b, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"serialNumbers":["S1"],"quantity":1`)
	assert.Contains(t, string(b), `"serialNumbers":[],"quantity":4`)

	back := doc.ToTransfer("id-1")
	assert.Equal(t, []string{"S1"}, back.Lines[0].Serials())
	assert.True(t, back.Lines[1].Quantity().Equal(decimal.NewFromInt(4)))
	assert.Equal(t, entity.TransferStatusCommitted, back.Status)
}
