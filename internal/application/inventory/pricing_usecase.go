package inventory

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	domaininv "github.com/jhoicas/stock-ledger/internal/domain/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// PricingUseCase recupera el precio distribuidor y de lista con que el stock entró a una sede.
type PricingUseCase struct {
	ledger repository.LedgerRepository
}

// NewPricingUseCase construye el caso de uso.
func NewPricingUseCase(ledger repository.LedgerRepository) *PricingUseCase {
	return &PricingUseCase{ledger: ledger}
}

// ResolveOriginalPricing nunca falla por falta de coincidencias: devuelve cero con Known() == false.
// Solo devuelve error si faltan parámetros o falla la lectura.
func (uc *PricingUseCase) ResolveOriginalPricing(ctx context.Context, productID string, serials []string, location string) (domaininv.Pricing, error) {
	if strings.TrimSpace(productID) == "" || strings.TrimSpace(location) == "" {
		return domaininv.Pricing{}, domain.ErrInvalidInput
	}
	return resolvePricing(ctx, uc.ledger, productID, serials, location)
}

func resolvePricing(ctx context.Context, ledger repository.LedgerRepository, productID string, serials []string, location string) (domaininv.Pricing, error) {
	filter := repository.LedgerFilter{Location: location, ProductID: productID}
	var receipts, purchases []*entity.LedgerEntry

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		receipts, err = ledger.ListEntries(gctx, entity.EntryKindReceipt, filter)
		if err != nil {
			return fmt.Errorf("precio: leer recepciones: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		purchases, err = ledger.ListEntries(gctx, entity.EntryKindPurchase, filter)
		if err != nil {
			return fmt.Errorf("precio: leer compras: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return domaininv.Pricing{}, err
	}
	return domaininv.ResolveOriginalPricing(receipts, purchases, productID, serials, location), nil
}
