package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// TransferUseCase valida y confirma traslados entre sedes.
//
// La confirmación es una saga persistida: validated -> source_written -> destination_written -> committed.
// Cada paso deja el registro de auditoría actualizado, de modo que un reintento con el mismo número de
// traslado retoma donde quedó en lugar de duplicar asientos.
type TransferUseCase struct {
	runner    TxRunner
	ledger    repository.LedgerRepository
	transfers repository.TransferRepository
	products  repository.ProductRepository
	locations repository.LocationRepository
	stock     *StockUseCase
	slips     TransferSlipGenerator
	locks     *keyedMutex
	log       zerolog.Logger
	now       func() time.Time
}

// NewTransferUseCase construye el orquestador. slips puede ser nil si no se sirven guías PDF.
func NewTransferUseCase(
	runner TxRunner,
	ledger repository.LedgerRepository,
	transfers repository.TransferRepository,
	products repository.ProductRepository,
	locations repository.LocationRepository,
	slips TransferSlipGenerator,
	log zerolog.Logger,
) *TransferUseCase {
	return &TransferUseCase{
		runner:    runner,
		ledger:    ledger,
		transfers: transfers,
		products:  products,
		locations: locations,
		stock:     NewStockUseCase(ledger, products),
		slips:     slips,
		locks:     newKeyedMutex(),
		log:       log,
		now:       time.Now,
	}
}

// CommitTransferInput datos de un traslado a confirmar. TransferNumber lo genera el llamador
// (ver entity.NewTransferNumber) y es la clave de idempotencia.
type CommitTransferInput struct {
	TransferNumber string
	FromLocation   string
	ToLocation     string
	Date           time.Time
	Reason         string
	Note           string
	Lines          []TransferLineInput
	CreatedBy      string
}

// CommittedLine línea confirmada con el precio recuperado de la sede de origen.
type CommittedLine struct {
	ProductID    string
	Name         string
	Serials      []string
	Quantity     decimal.Decimal
	DealerPrice  decimal.Decimal
	ListPrice    decimal.Decimal
	PriceUnknown bool
}

// CommitResult IDs de los tres documentos generados.
type CommitResult struct {
	TransferID      string
	TransferNumber  string
	OutboundEntryID string
	InboundEntryID  string
	Status          entity.TransferStatus
	Lines           []CommittedLine
}

// ProposeTransfer valida un traslado sin escribir nada. Los motivos de rechazo van en el resultado;
// el error solo se usa para fallas de lectura.
func (uc *TransferUseCase) ProposeTransfer(ctx context.Context, from, to string, lines []TransferLineInput) (*ValidationResult, error) {
	res, _, err := uc.validate(ctx, uc.ledger, from, to, lines)
	return res, err
}

func (uc *TransferUseCase) validate(ctx context.Context, ledger repository.LedgerRepository, from, to string, lines []TransferLineInput) (*ValidationResult, []entity.TransferLine, error) {
	res := validateHeader(from, to, lines)
	if !res.Valid {
		return res, nil, nil
	}
	catalog, err := uc.stock.catalogFor(ctx, lineProductIDs(lines))
	if err != nil {
		return nil, nil, err
	}
	av, err := uc.stock.availabilityFrom(ctx, ledger)
	if err != nil {
		return nil, nil, err
	}
	normalized := validateLines(res, lines, catalog, av, strings.TrimSpace(from))
	return res, normalized, nil
}

// CommitTransfer valida con disponibilidad recién calculada y escribe despacho en origen, recepción en
// destino y el registro de auditoría. Reintentar con el mismo TransferNumber es seguro.
func (uc *TransferUseCase) CommitTransfer(ctx context.Context, in CommitTransferInput) (*CommitResult, error) {
	in.TransferNumber = strings.TrimSpace(in.TransferNumber)
	in.FromLocation = strings.TrimSpace(in.FromLocation)
	in.ToLocation = strings.TrimSpace(in.ToLocation)
	if in.TransferNumber == "" || strings.TrimSpace(in.Reason) == "" {
		return nil, domain.ErrInvalidInput
	}
	if err := validateHeader(in.FromLocation, in.ToLocation, in.Lines).Err(); err != nil {
		return nil, err
	}
	if in.Date.IsZero() {
		in.Date = uc.now().UTC()
	}

	unlock := uc.locks.Lock(in.FromLocation)
	defer unlock()

	var result *CommitResult
	err := uc.runner.Run(ctx, in.FromLocation, func(ctx context.Context, ledger repository.LedgerRepository, transfers repository.TransferRepository) error {
		t, err := transfers.GetByNumber(ctx, in.TransferNumber)
		if err != nil {
			return err
		}
		if t == nil {
			res, lines, err := uc.validate(ctx, ledger, in.FromLocation, in.ToLocation, in.Lines)
			if err != nil {
				return err
			}
			if err := res.Err(); err != nil {
				return err
			}
			now := uc.now().UTC()
			t = &entity.StockTransfer{
				ID:             entity.TransferIDFor(in.TransferNumber),
				TransferNumber: in.TransferNumber,
				FromLocation:   in.FromLocation,
				ToLocation:     in.ToLocation,
				Date:           in.Date,
				Reason:         strings.TrimSpace(in.Reason),
				Note:           in.Note,
				Lines:          lines,
				Status:         entity.TransferStatusValidated,
				CreatedBy:      in.CreatedBy,
				CreatedAt:      now,
				UpdatedAt:      now,
			}
			if err := transfers.Create(ctx, t); err != nil {
				if errors.Is(err, domain.ErrDuplicate) {
					return domain.ErrConflict
				}
				return fmt.Errorf("traslado: guardar intención: %w", err)
			}
			uc.log.Info().Str("transfer", t.TransferNumber).Str("from", t.FromLocation).Str("to", t.ToLocation).
				Int("lines", len(t.Lines)).Msg("traslado validado")
		} else {
			if t.FromLocation != in.FromLocation || t.ToLocation != in.ToLocation || !sameLines(t.Lines, in.Lines) {
				return domain.ErrConflict
			}
			if err := uc.revalidatePending(ctx, ledger, t); err != nil {
				return err
			}
		}
		result, err = uc.advance(ctx, ledger, transfers, t)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ResumeIncomplete termina los traslados que quedaron a mitad de la saga (p. ej. tras una caída).
// Devuelve cuántos quedaron confirmados.
func (uc *TransferUseCase) ResumeIncomplete(ctx context.Context) (int, error) {
	pending, err := uc.transfers.ListIncomplete(ctx)
	if err != nil {
		return 0, fmt.Errorf("traslado: listar incompletos: %w", err)
	}
	var (
		resumed int
		errs    []error
	)
	for _, p := range pending {
		if err := uc.resumeOne(ctx, p); err != nil {
			uc.log.Error().Err(err).Str("transfer", p.TransferNumber).Str("status", string(p.Status)).Msg("no se pudo retomar traslado")
			errs = append(errs, fmt.Errorf("%s: %w", p.TransferNumber, err))
			continue
		}
		resumed++
	}
	return resumed, errors.Join(errs...)
}

func (uc *TransferUseCase) resumeOne(ctx context.Context, p *entity.StockTransfer) error {
	unlock := uc.locks.Lock(p.FromLocation)
	defer unlock()
	return uc.runner.Run(ctx, p.FromLocation, func(ctx context.Context, ledger repository.LedgerRepository, transfers repository.TransferRepository) error {
		t, err := transfers.GetByNumber(ctx, p.TransferNumber)
		if err != nil {
			return err
		}
		if t == nil {
			return domain.ErrNotFound
		}
		if err := uc.revalidatePending(ctx, ledger, t); err != nil {
			return err
		}
		_, err = uc.advance(ctx, ledger, transfers, t)
		return err
	})
}

// revalidatePending vuelve a validar un traslado que tiene intención pero ningún asiento escrito:
// entre la caída y el reintento otra salida pudo tomar el stock.
func (uc *TransferUseCase) revalidatePending(ctx context.Context, ledger repository.LedgerRepository, t *entity.StockTransfer) error {
	if t.Status != entity.TransferStatusValidated {
		return nil
	}
	res, _, err := uc.validate(ctx, ledger, t.FromLocation, t.ToLocation, inputsFrom(t.Lines))
	if err != nil {
		return err
	}
	return res.Err()
}

// advance ejecuta los pasos pendientes de la saga. Los asientos tienen ID determinista, así que
// encontrar uno ya escrito (ErrDuplicate) cuenta como paso cumplido.
func (uc *TransferUseCase) advance(ctx context.Context, ledger repository.LedgerRepository, transfers repository.TransferRepository, t *entity.StockTransfer) (*CommitResult, error) {
	fromName, toName := uc.locationName(ctx, t.FromLocation), uc.locationName(ctx, t.ToLocation)
	committed, lines, err := uc.priceLines(ctx, ledger, t)
	if err != nil {
		return nil, err
	}

	note := func(base string) string {
		if t.Note == "" {
			return base
		}
		return base + " - " + t.Note
	}
	outbound := &entity.LedgerEntry{
		ID:          entity.OutboundEntryIDFor(t.TransferNumber),
		Kind:        entity.EntryKindDispatch,
		Location:    t.FromLocation,
		Date:        t.Date,
		Status:      entity.DispatchStatusDispatched,
		Note:        note(fmt.Sprintf("Traslado %s hacia %s (%s)", t.TransferNumber, toName, t.ToLocation)),
		TransferRef: t.TransferNumber,
		Lines:       lines,
		CreatedAt:   uc.now().UTC(),
		CreatedBy:   t.CreatedBy,
	}
	inbound := &entity.LedgerEntry{
		ID:          entity.InboundEntryIDFor(t.TransferNumber),
		Kind:        entity.EntryKindReceipt,
		Location:    t.ToLocation,
		Date:        t.Date,
		Note:        note(fmt.Sprintf("Traslado %s desde %s (%s)", t.TransferNumber, fromName, t.FromLocation)),
		TransferRef: t.TransferNumber,
		Lines:       lines,
		CreatedAt:   uc.now().UTC(),
		CreatedBy:   t.CreatedBy,
	}

	if t.Status == entity.TransferStatusValidated {
		if err := createOnce(ctx, ledger, outbound); err != nil {
			return nil, fmt.Errorf("traslado: escribir despacho en origen: %w", err)
		}
		t.OutboundEntryID = outbound.ID
		if err := uc.step(ctx, transfers, t, entity.TransferStatusSourceWritten); err != nil {
			return nil, err
		}
	}
	if t.Status == entity.TransferStatusSourceWritten {
		if err := createOnce(ctx, ledger, inbound); err != nil {
			return nil, fmt.Errorf("traslado: escribir recepción en destino: %w", err)
		}
		t.InboundEntryID = inbound.ID
		if err := uc.step(ctx, transfers, t, entity.TransferStatusDestinationWritten); err != nil {
			return nil, err
		}
	}
	if t.Status == entity.TransferStatusDestinationWritten {
		if err := uc.step(ctx, transfers, t, entity.TransferStatusCommitted); err != nil {
			return nil, err
		}
	}

	return &CommitResult{
		TransferID:      t.ID,
		TransferNumber:  t.TransferNumber,
		OutboundEntryID: outbound.ID,
		InboundEntryID:  inbound.ID,
		Status:          t.Status,
		Lines:           committed,
	}, nil
}

func (uc *TransferUseCase) step(ctx context.Context, transfers repository.TransferRepository, t *entity.StockTransfer, next entity.TransferStatus) error {
	prev := t.Status
	t.Status = next
	t.UpdatedAt = uc.now().UTC()
	if err := transfers.UpdateProgress(ctx, t); err != nil {
		t.Status = prev
		return fmt.Errorf("traslado: registrar paso %s: %w", next, err)
	}
	uc.log.Info().Str("transfer", t.TransferNumber).Str("status", string(next)).Msg("traslado: paso completado")
	return nil
}

// priceLines recupera el precio original de cada línea en la sede de origen y arma las líneas espejo.
func (uc *TransferUseCase) priceLines(ctx context.Context, ledger repository.LedgerRepository, t *entity.StockTransfer) ([]CommittedLine, []entity.ProductLine, error) {
	ids := make([]string, 0, len(t.Lines))
	for _, l := range t.Lines {
		ids = append(ids, l.ProductID)
	}
	catalog, err := uc.stock.catalogFor(ctx, ids)
	if err != nil {
		return nil, nil, err
	}

	committed := make([]CommittedLine, 0, len(t.Lines))
	lines := make([]entity.ProductLine, 0, len(t.Lines))
	for _, l := range t.Lines {
		price, err := resolvePricing(ctx, ledger, l.ProductID, l.Serials(), t.FromLocation)
		if err != nil {
			return nil, nil, err
		}
		if !price.Known() {
			uc.log.Warn().Str("transfer", t.TransferNumber).Str("product", l.ProductID).Msg("precio original desconocido")
		}
		var productType string
		if p, ok := catalog[l.ProductID]; ok {
			productType = p.Type
		}
		lines = append(lines, entity.ProductLine{
			ProductID:   l.ProductID,
			Name:        l.Name,
			Type:        productType,
			Stock:       l.Stock,
			DealerPrice: price.DealerPrice,
			MRP:         price.ListPrice,
		})
		committed = append(committed, CommittedLine{
			ProductID:    l.ProductID,
			Name:         l.Name,
			Serials:      l.Serials(),
			Quantity:     l.Quantity(),
			DealerPrice:  price.DealerPrice,
			ListPrice:    price.ListPrice,
			PriceUnknown: !price.Known(),
		})
	}
	return committed, lines, nil
}

func (uc *TransferUseCase) locationName(ctx context.Context, id string) string {
	loc, err := uc.locations.GetByID(ctx, id)
	if err != nil || loc == nil {
		return id
	}
	return loc.DisplayName()
}

// GetTransfer devuelve el registro de auditoría por número.
func (uc *TransferUseCase) GetTransfer(ctx context.Context, transferNumber string) (*entity.StockTransfer, error) {
	t, err := uc.transfers.GetByNumber(ctx, strings.TrimSpace(transferNumber))
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrNotFound
	}
	return t, nil
}

// TransferSlip genera la guía PDF de un traslado confirmado, con los precios de la recepción en destino.
func (uc *TransferUseCase) TransferSlip(ctx context.Context, transferNumber string) ([]byte, string, error) {
	if uc.slips == nil {
		return nil, "", fmt.Errorf("traslado: generador de guías no configurado")
	}
	t, err := uc.GetTransfer(ctx, transferNumber)
	if err != nil {
		return nil, "", err
	}
	if !t.Status.Complete() {
		return nil, "", domain.ErrConflict
	}
	inbound, err := uc.ledger.GetEntry(ctx, entity.EntryKindReceipt, t.InboundEntryID)
	if err != nil {
		return nil, "", err
	}
	if inbound == nil {
		return nil, "", domain.ErrNotFound
	}
	from, _ := uc.locations.GetByID(ctx, t.FromLocation)
	to, _ := uc.locations.GetByID(ctx, t.ToLocation)
	if from == nil {
		from = &entity.Location{ID: t.FromLocation}
	}
	if to == nil {
		to = &entity.Location{ID: t.ToLocation}
	}
	slip := TransferSlip{Transfer: t, From: from, To: to}
	for _, l := range inbound.Lines {
		slip.Lines = append(slip.Lines, SlipLine{
			ProductID:   l.ProductID,
			ProductName: l.Name,
			Serials:     l.Serials(),
			Quantity:    l.Quantity(),
			DealerPrice: l.DealerPrice,
			ListPrice:   l.MRP,
		})
	}
	pdf, err := uc.slips.GenerateTransferSlip(ctx, slip)
	if err != nil {
		return nil, "", err
	}
	return pdf, t.TransferNumber + ".pdf", nil
}

func createOnce(ctx context.Context, ledger repository.LedgerRepository, entry *entity.LedgerEntry) error {
	if err := ledger.CreateEntry(ctx, entry); err != nil && !errors.Is(err, domain.ErrDuplicate) {
		return err
	}
	return nil
}
