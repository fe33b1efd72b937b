package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/document"
)

var _ repository.LedgerRepository = (*LedgerRepo)(nil)

// LedgerRepo implementación del libro sobre la tabla ledger_entries (usable con pool o tx).
// Las líneas viven en la columna JSONB products con la forma de documento de las colecciones.
type LedgerRepo struct {
	q Querier
}

// NewLedgerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLedgerRepository(q Querier) *LedgerRepo {
	return &LedgerRepo{q: q}
}

const ledgerColumns = `id, location, date, status, note, transfer_ref, products, created_at, created_by`

// ledgerListQuery arma el SELECT filtrado. El filtro por producto usa contención JSONB (índice GIN).
func ledgerListQuery(kind entity.EntryKind, filter repository.LedgerFilter) (string, []any) {
	query := `SELECT ` + ledgerColumns + ` FROM ledger_entries WHERE kind = $1`
	args := []any{string(kind)}
	if filter.Location != "" {
		args = append(args, filter.Location)
		query += fmt.Sprintf(" AND location = $%d", len(args))
	}
	if filter.ProductID != "" {
		args = append(args, filter.ProductID)
		query += fmt.Sprintf(" AND products @> jsonb_build_array(jsonb_build_object('productId', $%d::text))", len(args))
	}
	return query + " ORDER BY date, id", args
}

// ListEntries implementa repository.LedgerRepository.
func (r *LedgerRepo) ListEntries(ctx context.Context, kind entity.EntryKind, filter repository.LedgerFilter) ([]*entity.LedgerEntry, error) {
	if !kind.Valid() {
		return nil, domain.ErrInvalidInput
	}
	query, args := ledgerListQuery(kind, filter)
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list ledger entries: %w", err)
	}
	defer rows.Close()

	var out []*entity.LedgerEntry
	for rows.Next() {
		e, err := scanEntry(rows, kind)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list ledger entries: %w", err)
	}
	return out, nil
}

// GetEntry implementa repository.LedgerRepository; nil si no existe.
func (r *LedgerRepo) GetEntry(ctx context.Context, kind entity.EntryKind, id string) (*entity.LedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + ` FROM ledger_entries WHERE kind = $1 AND id = $2`
	e, err := scanEntry(r.q.QueryRow(ctx, query, string(kind), id), kind)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return e, nil
}

// CreateEntry implementa repository.LedgerRepository.
func (r *LedgerRepo) CreateEntry(ctx context.Context, e *entity.LedgerEntry) error {
	if !e.Kind.Valid() || e.ID == "" {
		return domain.ErrInvalidInput
	}
	doc := document.FromEntry(e)
	products, err := json.Marshal(doc.Products)
	if err != nil {
		return fmt.Errorf("encode products: %w", err)
	}
	var status, transferRef *string
	if doc.Status != "" {
		status = &doc.Status
	}
	if doc.TransferRef != "" {
		transferRef = &doc.TransferRef
	}
	createdAt := e.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	query := `
		INSERT INTO ledger_entries (kind, id, location, date, status, note, transfer_ref, products, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err = r.q.Exec(ctx, query,
		string(e.Kind), e.ID, e.Location, e.Date, status, e.Note, transferRef, products, createdAt, e.CreatedBy,
	)
	return mapInsertErr("insert ledger entry", err)
}

func scanEntry(row pgx.Row, kind entity.EntryKind) (*entity.LedgerEntry, error) {
	var (
		id, createdBy       string
		doc                 document.Entry
		status, transferRef *string
		products            []byte
	)
	err := row.Scan(&id, &doc.Location, &doc.Date, &status, &doc.Note, &transferRef, &products, &doc.CreatedAt, &createdBy)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan ledger entry: %w", err)
	}
	if status != nil {
		doc.Status = *status
	}
	if transferRef != nil {
		doc.TransferRef = *transferRef
	}
	doc.CreatedBy = createdBy
	if err := json.Unmarshal(products, &doc.Products); err != nil {
		return nil, fmt.Errorf("decode products of %s: %w", id, err)
	}
	return doc.ToEntry(id, kind), nil
}
