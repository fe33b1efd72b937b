package inventory

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	domaininv "github.com/jhoicas/stock-ledger/internal/domain/inventory"
)

// TransferLineInput línea solicitada. En serializados Quantity es opcional y, si viene, debe ser len(Serials).
type TransferLineInput struct {
	ProductID string
	Serials   []string
	Quantity  decimal.Decimal
}

// Códigos de problema de validación.
const (
	ProblemInvalidInput      = "INVALID_INPUT"
	ProblemSameLocation      = "SAME_LOCATION"
	ProblemEmptyLines        = "EMPTY_LINES"
	ProblemUnknownProduct    = "UNKNOWN_PRODUCT"
	ProblemSerialUnavailable = "SERIAL_UNAVAILABLE"
	ProblemInsufficientStock = "INSUFFICIENT_STOCK"
)

// ValidationProblem un motivo de rechazo. Line = -1 para problemas de cabecera.
type ValidationProblem struct {
	Line      int
	ProductID string
	Serial    string
	Code      string
	Message   string
	err       error
}

// ValidationResult resultado de ProposeTransfer.
type ValidationResult struct {
	Valid    bool
	Problems []ValidationProblem
}

// Err convierte los problemas en un *ValidationError que envuelve los sentinelas de dominio (nil si es válido).
func (r *ValidationResult) Err() error {
	if r == nil || r.Valid {
		return nil
	}
	errs := make([]error, 0, len(r.Problems))
	for _, p := range r.Problems {
		errs = append(errs, fmt.Errorf("%w: %s", p.err, p.Message))
	}
	return &ValidationError{Problems: r.Problems, err: errors.Join(errs...)}
}

// ValidationError rechazo de un traslado. errors.Is funciona contra cada sentinela de sus problemas.
type ValidationError struct {
	Problems []ValidationProblem
	err      error
}

func (e *ValidationError) Error() string { return e.err.Error() }

func (e *ValidationError) Unwrap() error { return e.err }

func (r *ValidationResult) add(p ValidationProblem) {
	r.Valid = false
	r.Problems = append(r.Problems, p)
}

// validateHeader reglas que no requieren leer el libro.
func validateHeader(from, to string, lines []TransferLineInput) *ValidationResult {
	res := &ValidationResult{Valid: true}
	from, to = strings.TrimSpace(from), strings.TrimSpace(to)
	if from == "" || to == "" {
		res.add(ValidationProblem{Line: -1, Code: ProblemInvalidInput, Message: "sede de origen y destino requeridas", err: domain.ErrInvalidInput})
	} else if from == to {
		res.add(ValidationProblem{Line: -1, Code: ProblemSameLocation, Message: "origen y destino deben ser distintos", err: domain.ErrSameLocation})
	}
	if len(lines) == 0 {
		res.add(ValidationProblem{Line: -1, Code: ProblemEmptyLines, Message: "al menos una línea es requerida", err: domain.ErrEmptyLines})
	}
	return res
}

// validateLines verifica cada línea contra el catálogo y la disponibilidad en la sede de origen y
// devuelve las líneas normalizadas (Serialized | Bulk) listas para persistir.
func validateLines(res *ValidationResult, lines []TransferLineInput, catalog domaininv.Catalog, av *domaininv.Availability, from string) []entity.TransferLine {
	out := make([]entity.TransferLine, 0, len(lines))
	seenSerial := make(map[string]struct{})
	requested := make(map[string]decimal.Decimal)
	firstLine := make(map[string]int)
	var bulkOrder []string

	for i, in := range lines {
		productID := strings.TrimSpace(in.ProductID)
		if productID == "" {
			res.add(ValidationProblem{Line: i, Code: ProblemInvalidInput, Message: "product_id requerido", err: domain.ErrInvalidInput})
			continue
		}
		product, ok := catalog[productID]
		if !ok {
			res.add(ValidationProblem{Line: i, ProductID: productID, Code: ProblemUnknownProduct, Message: "producto no registrado", err: domain.ErrUnknownProduct})
			continue
		}
		serials := cleanSerials(in.Serials)

		if product.HasSerialNumber {
			if len(serials) == 0 {
				res.add(ValidationProblem{Line: i, ProductID: productID, Code: ProblemInvalidInput, Message: "producto serializado requiere seriales", err: domain.ErrInvalidInput})
				continue
			}
			if !in.Quantity.IsZero() && !in.Quantity.Equal(decimal.NewFromInt(int64(len(serials)))) {
				res.add(ValidationProblem{Line: i, ProductID: productID, Code: ProblemInvalidInput,
					Message: fmt.Sprintf("cantidad %s no coincide con %d seriales", in.Quantity, len(serials)), err: domain.ErrInvalidInput})
				continue
			}
			lineOK := true
			for _, s := range serials {
				key := productID + "\x00" + s
				if _, dup := seenSerial[key]; dup {
					res.add(ValidationProblem{Line: i, ProductID: productID, Serial: s, Code: ProblemInvalidInput, Message: "serial repetido: " + s, err: domain.ErrInvalidInput})
					lineOK = false
					continue
				}
				seenSerial[key] = struct{}{}
				if !av.HasSerial(productID, from, s) {
					res.add(ValidationProblem{Line: i, ProductID: productID, Serial: s, Code: ProblemSerialUnavailable, Message: "serial no disponible en origen: " + s, err: domain.ErrSerialUnavailable})
					lineOK = false
				}
			}
			if lineOK {
				out = append(out, entity.TransferLine{ProductID: productID, Name: product.Name, Stock: entity.Serialized{Serials: serials}})
			}
			continue
		}

		if len(serials) > 0 {
			res.add(ValidationProblem{Line: i, ProductID: productID, Code: ProblemInvalidInput, Message: "producto a granel no admite seriales", err: domain.ErrInvalidInput})
			continue
		}
		if !in.Quantity.GreaterThan(decimal.Zero) {
			res.add(ValidationProblem{Line: i, ProductID: productID, Code: ProblemInvalidInput, Message: "cantidad debe ser mayor que cero", err: domain.ErrInvalidInput})
			continue
		}
		if _, seen := requested[productID]; !seen {
			firstLine[productID] = i
			bulkOrder = append(bulkOrder, productID)
		}
		requested[productID] = requested[productID].Add(in.Quantity)
		out = append(out, entity.TransferLine{ProductID: productID, Name: product.Name, Stock: entity.Bulk{Quantity: in.Quantity}})
	}

	for _, productID := range bulkOrder {
		available := av.BulkQuantity(productID, from)
		if requested[productID].GreaterThan(available) {
			res.add(ValidationProblem{Line: firstLine[productID], ProductID: productID, Code: ProblemInsufficientStock,
				Message: fmt.Sprintf("solicitado %s, disponible %s", requested[productID], available), err: domain.ErrInsufficientStock})
		}
	}
	return out
}

func cleanSerials(serials []string) []string {
	out := make([]string, 0, len(serials))
	for _, s := range serials {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func lineProductIDs(lines []TransferLineInput) []string {
	seen := make(map[string]struct{}, len(lines))
	ids := make([]string, 0, len(lines))
	for _, l := range lines {
		id := strings.TrimSpace(l.ProductID)
		if _, ok := seen[id]; ok || id == "" {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

// inputsFrom reconstruye las líneas de entrada de un traslado ya persistido.
func inputsFrom(lines []entity.TransferLine) []TransferLineInput {
	out := make([]TransferLineInput, 0, len(lines))
	for _, l := range lines {
		in := TransferLineInput{ProductID: l.ProductID, Serials: l.Serials()}
		if _, bulk := l.Stock.(entity.Bulk); bulk {
			in.Quantity = l.Quantity()
		}
		out = append(out, in)
	}
	return out
}

// lineContent contenido de un traslado por producto: seriales ordenados y cantidad a granel sumada.
type lineContent struct {
	serials []string
	qty     decimal.Decimal
}

func contentOf(lines []TransferLineInput) map[string]*lineContent {
	out := make(map[string]*lineContent, len(lines))
	for _, l := range lines {
		id := strings.TrimSpace(l.ProductID)
		c, ok := out[id]
		if !ok {
			c = &lineContent{}
			out[id] = c
		}
		if serials := cleanSerials(l.Serials); len(serials) > 0 {
			c.serials = append(c.serials, serials...)
			continue
		}
		c.qty = c.qty.Add(l.Quantity)
	}
	for _, c := range out {
		slices.Sort(c.serials)
	}
	return out
}

// sameLines indica si la solicitud pide lo mismo que el traslado ya persistido, sin importar el orden.
func sameLines(persisted []entity.TransferLine, requested []TransferLineInput) bool {
	a, b := contentOf(inputsFrom(persisted)), contentOf(requested)
	if len(a) != len(b) {
		return false
	}
	for id, ca := range a {
		cb, ok := b[id]
		if !ok || !slices.Equal(ca.serials, cb.serials) || !ca.qty.Equal(cb.qty) {
			return false
		}
	}
	return true
}
