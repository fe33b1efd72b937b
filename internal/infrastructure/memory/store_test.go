package memory_test

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
)

const fixturesJSON = `{
  "locations": [{"id": "HO", "name": "Casa matriz"}, {"id": "Branch1", "name": "Sucursal 1"}],
  "products": [
    {"id": "P1", "name": "Audífono X", "hasSerialNumber": true, "mrp": "1500", "dealerPrice": "1000"},
    {"id": "B1", "name": "Pilas 312", "mrp": 30, "unitOfCount": "pair"}
  ],
  "receipts": {
    "R1": {"location": "HO", "date": "2024-03-01T00:00:00Z", "products": [
      {"productId": "P1", "serialNumbers": ["S1", "S2"], "dealerPrice": 1000, "mrp": 1500},
      {"productId": "B1", "quantity": 10, "dealerPrice": 20, "mrp": 30}
    ]}
  },
  "dispatches": {
    "D1": {"location": "HO", "date": "2024-03-02T00:00:00Z", "products": [{"productId": "P1", "serialNumbers": ["S1"]}]}
  },
  "sales": {
    "V1": {"location": "HO", "date": "2024-03-03T00:00:00Z", "products": [{"productId": "P1", "serialNumber": "S2"}]}
  }
}`

func loaded(t *testing.T) *memory.Store {
	t.Helper()
	s := memory.NewStore()
	require.NoError(t, s.LoadFixtures(context.Background(), strings.NewReader(fixturesJSON)))
	return s
}

// ─── LoadFixtures ────────────────────────────────────────────────────────────

func TestLoadFixtures_CatalogoYSedes(t *testing.T) {
	s := loaded(t)
	ctx := context.Background()

	p, err := s.GetByID(ctx, "B1")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, entity.UnitOfCountPair, p.UnitOfCount)
	assert.Nil(t, p.DealerPrice)

	p1, err := s.GetByID(ctx, "P1")
	require.NoError(t, err)
	require.NotNil(t, p1.DealerPrice)
	assert.True(t, p1.DealerPrice.Equal(decimal.NewFromInt(1000)))

	locs, err := s.Locations().List(ctx)
	require.NoError(t, err)
	require.Len(t, locs, 2)
	assert.Equal(t, "Branch1", locs[0].ID)
}

func TestLoadFixtures_AsientosPorTipo(t *testing.T) {
	s := loaded(t)
	ctx := context.Background()

	d, err := s.GetEntry(ctx, entity.EntryKindDispatch, "D1")
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, entity.DispatchStatusPending, d.Status, "despacho sin estado queda pendiente")

	v, err := s.GetEntry(ctx, entity.EntryKindSale, "V1")
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, []string{"S2"}, v.Lines[0].Stock.(entity.Serialized).Serials)
}

func TestLoadFixtures_JSONInvalido(t *testing.T) {
	err := memory.NewStore().LoadFixtures(context.Background(), strings.NewReader("{"))
	assert.Error(t, err)
}

// ─── LedgerRepository ────────────────────────────────────────────────────────

func TestStore_FiltroPorProducto(t *testing.T) {
	s := loaded(t)
	entries, err := s.ListEntries(context.Background(), entity.EntryKindReceipt, repository.LedgerFilter{Location: "HO", ProductID: "B1"})
	require.NoError(t, err)
	require.Len(t, entries, 1)

	entries, err = s.ListEntries(context.Background(), entity.EntryKindReceipt, repository.LedgerFilter{Location: "Branch1"})
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestStore_CrearDuplicadoEsErrDuplicate(t *testing.T) {
	s := loaded(t)
	err := s.CreateEntry(context.Background(), &entity.LedgerEntry{ID: "R1", Kind: entity.EntryKindReceipt, Location: "HO"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	err = s.CreateEntry(context.Background(), &entity.LedgerEntry{Kind: entity.EntryKindReceipt, Location: "HO"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestStore_LecturaNoComparteSeriales(t *testing.T) {
	s := loaded(t)
	ctx := context.Background()
	e, err := s.GetEntry(ctx, entity.EntryKindReceipt, "R1")
	require.NoError(t, err)
	e.Lines[0].Stock.(entity.Serialized).Serials[0] = "MUTADO"

	again, err := s.GetEntry(ctx, entity.EntryKindReceipt, "R1")
	require.NoError(t, err)
	assert.Equal(t, "S1", again.Lines[0].Stock.(entity.Serialized).Serials[0])
}

func TestStore_SetDispatchStatus(t *testing.T) {
	s := loaded(t)
	require.NoError(t, s.SetDispatchStatus("D1", entity.DispatchStatusDispatched))
	d, err := s.GetEntry(context.Background(), entity.EntryKindDispatch, "D1")
	require.NoError(t, err)
	assert.Equal(t, entity.DispatchStatusDispatched, d.Status)

	assert.ErrorIs(t, s.SetDispatchStatus("NOPE", entity.DispatchStatusDispatched), domain.ErrNotFound)
}

// ─── TransferRepository ──────────────────────────────────────────────────────

func TestStore_TrasladosIncompletos(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, s.Create(ctx, &entity.StockTransfer{TransferNumber: "TR-2", Status: entity.TransferStatusSourceWritten}))
	require.NoError(t, s.Create(ctx, &entity.StockTransfer{TransferNumber: "TR-1", Status: entity.TransferStatusCommitted}))
	assert.ErrorIs(t, s.Create(ctx, &entity.StockTransfer{TransferNumber: "TR-2"}), domain.ErrDuplicate)

	pending, err := s.ListIncomplete(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "TR-2", pending[0].TransferNumber)

	missing, err := s.GetByNumber(ctx, "TR-9")
	require.NoError(t, err)
	assert.Nil(t, missing)
	assert.ErrorIs(t, s.UpdateProgress(ctx, &entity.StockTransfer{TransferNumber: "TR-9"}), domain.ErrNotFound)
}
