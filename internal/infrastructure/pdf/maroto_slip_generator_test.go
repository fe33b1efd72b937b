package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

func sampleSlip() inventory.TransferSlip {
	return inventory.TransferSlip{
		Transfer: &entity.StockTransfer{
			TransferNumber: "TR-20261015-0001",
			FromLocation:   "HO",
			ToLocation:     "BR1",
			Date:           time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC),
			Reason:         "reposicion",
			Status:         entity.TransferStatusCommitted,
		},
		From: &entity.Location{ID: "HO", Name: "Casa matriz"},
		To:   &entity.Location{ID: "BR1"},
		Lines: []inventory.SlipLine{
			{
				ProductID: "P1", ProductName: "Audífono X",
				Serials:     []string{"S1", "S2", "S3", "S4", "S5"},
				Quantity:    decimal.NewFromInt(5),
				DealerPrice: decimal.NewFromInt(1000), ListPrice: decimal.NewFromInt(1500),
			},
			{
				ProductID:   "B1",
				Quantity:    decimal.NewFromInt(4),
				DealerPrice: decimal.NewFromInt(175), ListPrice: decimal.NewFromInt(250),
			},
		},
	}
}

// ─── GenerateTransferSlip ────────────────────────────────────────────────────

func TestGenerateTransferSlip_ProducePDF(t *testing.T) {
	out, err := NewMarotoSlipGenerator("Inventario").GenerateTransferSlip(context.Background(), sampleSlip())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "debe ser un PDF")
}

func TestGenerateTransferSlip_SinTrasladoFalla(t *testing.T) {
	_, err := NewMarotoSlipGenerator("").GenerateTransferSlip(context.Background(), inventory.TransferSlip{})
	assert.Error(t, err)
}

// ─── helpers ─────────────────────────────────────────────────────────────────

func TestSlipTotals(t *testing.T) {
	units, value := slipTotals(sampleSlip().Lines)
	assert.True(t, units.Equal(decimal.NewFromInt(9)))
	assert.True(t, value.Equal(decimal.NewFromInt(5700)))
}

func TestChunkSerials(t *testing.T) {
	assert.Equal(t, []string{"S1, S2", "S3"}, chunkSerials([]string{"S1", "S2", "S3"}, 2))
	assert.Nil(t, chunkSerials(nil, 2))
}

func TestFormatters(t *testing.T) {
	assert.Equal(t, "1.000.000", formatMoney("1000000"))
	assert.Equal(t, "-25.000", formatMoney("-25000"))
	assert.Equal(t, "950", formatMoney("950"))
	assert.Equal(t, "4", formatQuantity(decimal.NewFromInt(4)))
	assert.Equal(t, "2.50", formatQuantity(decimal.RequireFromString("2.5")))
}
