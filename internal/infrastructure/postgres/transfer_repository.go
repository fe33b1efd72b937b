package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/document"
)

var _ repository.TransferRepository = (*TransferRepo)(nil)

// TransferRepo registro de auditoría y paso de saga de los traslados (tabla stock_transfers).
type TransferRepo struct {
	q Querier
}

// NewTransferRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransferRepository(q Querier) *TransferRepo {
	return &TransferRepo{q: q}
}

const transferColumns = `id, transfer_number, from_location, to_location, date, reason, note, lines, status,
	COALESCE(outbound_entry_id, ''), COALESCE(inbound_entry_id, ''), created_by, created_at, updated_at`

// Create implementa repository.TransferRepository.
func (r *TransferRepo) Create(ctx context.Context, t *entity.StockTransfer) error {
	lines, err := json.Marshal(document.FromTransfer(t).Lines)
	if err != nil {
		return fmt.Errorf("encode transfer lines: %w", err)
	}
	query := `
		INSERT INTO stock_transfers (id, transfer_number, from_location, to_location, date, reason, note, lines, status,
			outbound_entry_id, inbound_entry_id, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NULLIF($10, ''), NULLIF($11, ''), $12, $13, $14)`
	_, err = r.q.Exec(ctx, query,
		t.ID, t.TransferNumber, t.FromLocation, t.ToLocation, t.Date, t.Reason, t.Note, lines, string(t.Status),
		t.OutboundEntryID, t.InboundEntryID, t.CreatedBy, t.CreatedAt, t.UpdatedAt,
	)
	return mapInsertErr("insert stock transfer", err)
}

// GetByNumber implementa repository.TransferRepository; nil si no existe.
func (r *TransferRepo) GetByNumber(ctx context.Context, transferNumber string) (*entity.StockTransfer, error) {
	query := `SELECT ` + transferColumns + ` FROM stock_transfers WHERE transfer_number = $1`
	t, err := scanTransfer(r.q.QueryRow(ctx, query, transferNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return t, nil
}

// UpdateProgress implementa repository.TransferRepository.
func (r *TransferRepo) UpdateProgress(ctx context.Context, t *entity.StockTransfer) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE stock_transfers
		SET status = $2, outbound_entry_id = NULLIF($3, ''), inbound_entry_id = NULLIF($4, ''), updated_at = $5
		WHERE transfer_number = $1`,
		t.TransferNumber, string(t.Status), t.OutboundEntryID, t.InboundEntryID, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update stock transfer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListIncomplete implementa repository.TransferRepository.
func (r *TransferRepo) ListIncomplete(ctx context.Context) ([]*entity.StockTransfer, error) {
	query := `SELECT ` + transferColumns + ` FROM stock_transfers WHERE status <> $1 ORDER BY created_at, transfer_number`
	rows, err := r.q.Query(ctx, query, string(entity.TransferStatusCommitted))
	if err != nil {
		return nil, fmt.Errorf("list incomplete transfers: %w", err)
	}
	defer rows.Close()
	var out []*entity.StockTransfer
	for rows.Next() {
		t, err := scanTransfer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func scanTransfer(row pgx.Row) (*entity.StockTransfer, error) {
	var (
		id    string
		doc   document.Transfer
		lines []byte
	)
	err := row.Scan(&id, &doc.TransferNumber, &doc.FromLocation, &doc.ToLocation, &doc.Date, &doc.Reason, &doc.Note,
		&lines, &doc.Status, &doc.OutboundEntryID, &doc.InboundEntryID, &doc.CreatedBy, &doc.CreatedAt, &doc.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan stock transfer: %w", err)
	}
	if err := json.Unmarshal(lines, &doc.Lines); err != nil {
		return nil, fmt.Errorf("decode transfer lines: %w", err)
	}
	return doc.ToTransfer(id), nil
}
