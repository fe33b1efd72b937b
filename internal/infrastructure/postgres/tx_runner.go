package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, toma un advisory lock de transacción sobre lockKey (la sede de origen),
// ejecuta fn con repos atados a la tx y hace Commit o Rollback. El lock se libera al terminar la tx,
// de modo que dos procesos no confirman traslados de la misma sede a la vez.
func (r *TxRunner) Run(ctx context.Context, lockKey string, fn func(
	ctx context.Context,
	ledger repository.LedgerRepository,
	transfers repository.TransferRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, "stock-transfer:"+lockKey); err != nil {
		return fmt.Errorf("advisory lock: %w", err)
	}

	if err := fn(ctx, NewLedgerRepository(tx), NewTransferRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
