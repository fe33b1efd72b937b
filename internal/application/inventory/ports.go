package inventory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// TxRunner ejecuta la confirmación de un traslado pasando repositorios atados a la misma unidad de trabajo.
// lockKey (la sede de origen) serializa confirmaciones concurrentes donde el almacenamiento lo permite.
// En PostgreSQL todo corre en una transacción; en almacenes sin transacciones cada escritura es independiente
// y la saga persistida permite retomar.
type TxRunner interface {
	Run(ctx context.Context, lockKey string, fn func(
		ctx context.Context,
		ledger repository.LedgerRepository,
		transfers repository.TransferRepository,
	) error) error
}

// TransferSlipGenerator genera la guía de traslado (PDF) de un traslado confirmado.
type TransferSlipGenerator interface {
	GenerateTransferSlip(ctx context.Context, slip TransferSlip) ([]byte, error)
}

// TransferSlip datos que necesita la guía de traslado.
type TransferSlip struct {
	Transfer *entity.StockTransfer
	From     *entity.Location
	To       *entity.Location
	Lines    []SlipLine
}

// SlipLine línea de la guía con el precio recuperado del libro.
type SlipLine struct {
	ProductID   string
	ProductName string
	Serials     []string
	Quantity    decimal.Decimal
	DealerPrice decimal.Decimal
	ListPrice   decimal.Decimal
}
