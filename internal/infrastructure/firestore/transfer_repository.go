package firestore

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/document"
)

var (
	_ repository.TransferRepository = (*TransferRepo)(nil)
	_ inventory.TxRunner            = (*TxRunner)(nil)
)

// incompleteStatuses pasos de la saga que todavía requieren trabajo.
var incompleteStatuses = []string{
	string(entity.TransferStatusValidated),
	string(entity.TransferStatusSourceWritten),
	string(entity.TransferStatusDestinationWritten),
}

// TransferRepo registro de auditoría; el ID del documento es el número de traslado.
type TransferRepo struct {
	client     *firestore.Client
	collection string
}

func (r *TransferRepo) col() (*firestore.CollectionRef, error) {
	if r.client == nil {
		return nil, errors.New("firestore client is nil")
	}
	return r.client.Collection(r.collection), nil
}

// Create implementa repository.TransferRepository.
func (r *TransferRepo) Create(ctx context.Context, t *entity.StockTransfer) error {
	col, err := r.col()
	if err != nil {
		return err
	}
	if _, err := col.Doc(t.TransferNumber).Create(ctx, document.FromTransfer(t)); err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("crear traslado %s: %w", t.TransferNumber, err)
	}
	return nil
}

// GetByNumber implementa repository.TransferRepository; nil si no existe.
func (r *TransferRepo) GetByNumber(ctx context.Context, transferNumber string) (*entity.StockTransfer, error) {
	col, err := r.col()
	if err != nil {
		return nil, err
	}
	if transferNumber == "" {
		return nil, nil
	}
	snap, err := col.Doc(transferNumber).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("leer traslado %s: %w", transferNumber, err)
	}
	return decodeTransfer(snap)
}

// UpdateProgress implementa repository.TransferRepository.
func (r *TransferRepo) UpdateProgress(ctx context.Context, t *entity.StockTransfer) error {
	col, err := r.col()
	if err != nil {
		return err
	}
	_, err = col.Doc(t.TransferNumber).Update(ctx, []firestore.Update{
		{Path: "status", Value: string(t.Status)},
		{Path: "outboundEntryId", Value: t.OutboundEntryID},
		{Path: "inboundEntryId", Value: t.InboundEntryID},
		{Path: "updatedAt", Value: t.UpdatedAt},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return domain.ErrNotFound
		}
		return fmt.Errorf("actualizar traslado %s: %w", t.TransferNumber, err)
	}
	return nil
}

// ListIncomplete implementa repository.TransferRepository.
func (r *TransferRepo) ListIncomplete(ctx context.Context) ([]*entity.StockTransfer, error) {
	col, err := r.col()
	if err != nil {
		return nil, err
	}
	it := col.Where("status", "in", incompleteStatuses).Documents(ctx)
	defer it.Stop()
	var out []*entity.StockTransfer
	for {
		snap, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("listar traslados incompletos: %w", err)
		}
		t, err := decodeTransfer(snap)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func decodeTransfer(snap *firestore.DocumentSnapshot) (*entity.StockTransfer, error) {
	var doc document.Transfer
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("decodificar traslado %s: %w", snap.Ref.ID, err)
	}
	if doc.TransferNumber == "" {
		doc.TransferNumber = snap.Ref.ID
	}
	return doc.ToTransfer(entity.TransferIDFor(doc.TransferNumber)), nil
}

// TxRunner ejecuta fn con los repositorios directos. Firestore no ofrece aquí una transacción sobre
// consultas de colecciones completas: cada escritura es independiente y la saga persistida cubre las caídas.
type TxRunner struct {
	ledger    *LedgerRepo
	transfers *TransferRepo
}

// Run implementa inventory.TxRunner.
func (r *TxRunner) Run(ctx context.Context, lockKey string, fn func(
	ctx context.Context,
	ledger repository.LedgerRepository,
	transfers repository.TransferRepository,
) error) error {
	return fn(ctx, r.ledger, r.transfers)
}
