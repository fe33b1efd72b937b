// Package firestore implementa los puertos del motor sobre las colecciones Firestore que escriben las
// pantallas de entrada, salida y ventas.
package firestore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/pkg/config"
)

// NewClient inicializa el cliente. credentialsFile vacío usa Application Default Credentials.
func NewClient(ctx context.Context, cfg config.FirestoreConfig, log zerolog.Logger) (*firestore.Client, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	client, err := firestore.NewClient(ctx, cfg.ProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("crear cliente firestore: %w", err)
	}
	log.Info().Str("project", cfg.ProjectID).Msg("firestore conectado")
	return client, nil
}

// Store agrupa los adaptadores sobre un mismo cliente y nombres de colección.
type Store struct {
	client *firestore.Client
	cols   config.Collections
}

// NewStore construye el conjunto de adaptadores.
func NewStore(client *firestore.Client, cols config.Collections) *Store {
	return &Store{client: client, cols: cols}
}

// Ledger devuelve el adaptador del libro.
func (s *Store) Ledger() *LedgerRepo {
	return &LedgerRepo{client: s.client, collections: map[entity.EntryKind]string{
		entity.EntryKindReceipt:  s.cols.Receipts,
		entity.EntryKindPurchase: s.cols.Purchases,
		entity.EntryKindDispatch: s.cols.Dispatches,
		entity.EntryKindSale:     s.cols.Sales,
	}}
}

// Products devuelve el adaptador del catálogo.
func (s *Store) Products() *ProductRepo {
	return &ProductRepo{client: s.client, collection: s.cols.Products}
}

// Locations devuelve el adaptador de sedes.
func (s *Store) Locations() *LocationRepo {
	return &LocationRepo{client: s.client, collection: s.cols.Locations}
}

// Transfers devuelve el adaptador de traslados.
func (s *Store) Transfers() *TransferRepo {
	return &TransferRepo{client: s.client, collection: s.cols.Transfers}
}

// Runner devuelve el TxRunner no transaccional.
func (s *Store) Runner() *TxRunner {
	return &TxRunner{ledger: s.Ledger(), transfers: s.Transfers()}
}
