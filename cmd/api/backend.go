package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	fsinfra "github.com/jhoicas/stock-ledger/internal/infrastructure/firestore"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/stock-ledger/pkg/config"
)

// backend repositorios del almacenamiento elegido por STORE_BACKEND.
type backend struct {
	ledger    repository.LedgerRepository
	products  repository.ProductRepository
	locations repository.LocationRepository
	transfers repository.TransferRepository
	runner    inventory.TxRunner
	close     func()
}

func openBackend(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*backend, error) {
	switch cfg.Store.Backend {
	case config.BackendPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		return &backend{
			ledger:    postgres.NewLedgerRepository(pool),
			products:  postgres.NewProductRepository(pool),
			locations: postgres.NewLocationRepository(pool),
			transfers: postgres.NewTransferRepository(pool),
			runner:    postgres.NewTxRunner(pool),
			close:     pool.Close,
		}, nil

	case config.BackendFirestore:
		client, err := fsinfra.NewClient(ctx, cfg.Firestore, log)
		if err != nil {
			return nil, err
		}
		store := fsinfra.NewStore(client, cfg.Firestore.Collections)
		return &backend{
			ledger:    store.Ledger(),
			products:  store.Products(),
			locations: store.Locations(),
			transfers: store.Transfers(),
			runner:    store.Runner(),
			close: func() {
				if err := client.Close(); err != nil {
					log.Error().Err(err).Msg("cerrar cliente firestore")
				}
			},
		}, nil

	case config.BackendMemory:
		store := memory.NewStore()
		if cfg.Store.FixturesFile != "" {
			f, err := os.Open(cfg.Store.FixturesFile)
			if err != nil {
				return nil, fmt.Errorf("abrir fixtures: %w", err)
			}
			defer f.Close()
			if err := store.LoadFixtures(ctx, f); err != nil {
				return nil, err
			}
			log.Info().Str("file", cfg.Store.FixturesFile).Msg("fixtures cargados")
		}
		return &backend{
			ledger:    store,
			products:  store,
			locations: store.Locations(),
			transfers: store,
			runner:    store,
			close:     func() {},
		}, nil
	}
	return nil, fmt.Errorf("backend desconocido: %q", cfg.Store.Backend)
}
