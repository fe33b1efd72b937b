package inventory

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// Sources agrupa los asientos leídos de las cuatro colecciones en un instante.
type Sources struct {
	Receipts   []*entity.LedgerEntry
	Purchases  []*entity.LedgerEntry
	Dispatches []*entity.LedgerEntry
	Sales      []*entity.LedgerEntry
}

// Catalog indexa el catálogo por ID de producto.
type Catalog map[string]*entity.Product

// NewCatalog construye el índice ignorando nulos.
func NewCatalog(products []*entity.Product) Catalog {
	c := make(Catalog, len(products))
	for _, p := range products {
		if p != nil {
			c[p.ID] = p
		}
	}
	return c
}

// IsSerialized decide el modelo de inventario de una línea de entrada: manda el catálogo y,
// si el producto no está registrado, la forma de la línea.
func (c Catalog) IsSerialized(line entity.ProductLine) bool {
	if p, ok := c[line.ProductID]; ok {
		return p.HasSerialNumber
	}
	return line.IsSerialized()
}

type stockKey struct {
	productID string
	location  string
}

type serialKey struct {
	productID string
	serial    string
}

// serialLedger saldo neto de un serial por sede y fecha de la última entrada en cada una.
type serialLedger struct {
	net    map[string]int
	lastIn map[string]time.Time
}

// Availability instantánea de disponibilidad. Se construye con Aggregate y no se modifica después.
type Availability struct {
	serials map[stockKey]map[string]struct{}
	bulk    map[stockKey]decimal.Decimal
}

// Aggregate reproduce las cuatro fuentes y devuelve la disponibilidad por (producto, sede).
//
// Es un pliegue de conjuntos y sumas: el orden de los asientos no altera el resultado.
//   - Entradas: suman seriales (productos serializados) o cantidad (granel) en la sede del asiento.
//   - Despachos: pending y dispatched restan por igual; los seriales quedan reservados en la sede del
//     despacho y las cantidades se descuentan con piso en cero.
//   - Ventas: consumen el serial sin condición.
//
// Un serial que solo aparece en salidas se ignora.
func Aggregate(src Sources, catalog Catalog) *Availability {
	ledgers := make(map[serialKey]*serialLedger)
	consumed := make(map[serialKey]struct{})
	inQty := make(map[stockKey]decimal.Decimal)
	outQty := make(map[stockKey]decimal.Decimal)

	ledgerFor := func(k serialKey) *serialLedger {
		l, ok := ledgers[k]
		if !ok {
			l = &serialLedger{net: make(map[string]int), lastIn: make(map[string]time.Time)}
			ledgers[k] = l
		}
		return l
	}

	for _, entries := range [][]*entity.LedgerEntry{src.Receipts, src.Purchases} {
		for _, e := range entries {
			if e == nil {
				continue
			}
			for _, line := range e.Lines {
				if catalog.IsSerialized(line) {
					for _, s := range normalizeSerials(line.Serials()) {
						l := ledgerFor(serialKey{line.ProductID, s})
						l.net[e.Location]++
						if e.Date.After(l.lastIn[e.Location]) {
							l.lastIn[e.Location] = e.Date
						}
					}
					continue
				}
				k := stockKey{line.ProductID, e.Location}
				inQty[k] = inQty[k].Add(line.Quantity())
			}
		}
	}

	for _, e := range src.Dispatches {
		if e == nil {
			continue
		}
		for _, line := range e.Lines {
			if line.IsSerialized() {
				for _, s := range normalizeSerials(line.Serials()) {
					ledgerFor(serialKey{line.ProductID, s}).net[e.Location]--
				}
				continue
			}
			k := stockKey{line.ProductID, e.Location}
			outQty[k] = outQty[k].Add(line.Quantity())
		}
	}

	for _, e := range src.Sales {
		if e == nil {
			continue
		}
		for _, line := range e.Lines {
			for _, s := range normalizeSerials(line.Serials()) {
				consumed[serialKey{line.ProductID, s}] = struct{}{}
			}
		}
	}

	av := &Availability{
		serials: make(map[stockKey]map[string]struct{}),
		bulk:    make(map[stockKey]decimal.Decimal),
	}
	for k, l := range ledgers {
		if _, sold := consumed[k]; sold {
			continue
		}
		loc, ok := l.holder()
		if !ok {
			continue
		}
		sk := stockKey{k.productID, loc}
		set, exists := av.serials[sk]
		if !exists {
			set = make(map[string]struct{})
			av.serials[sk] = set
		}
		set[k.serial] = struct{}{}
	}
	for k, in := range inQty {
		net := in.Sub(outQty[k])
		if net.GreaterThan(decimal.Zero) {
			av.bulk[k] = net
		}
	}
	return av
}

// holder devuelve la sede donde el serial tiene saldo positivo. Si hay más de una (datos
// inconsistentes) gana la de entrada más reciente, para que el serial aparezca una sola vez.
func (l *serialLedger) holder() (string, bool) {
	var (
		best  string
		found bool
	)
	for loc, n := range l.net {
		if n <= 0 {
			continue
		}
		if !found {
			best, found = loc, true
			continue
		}
		bt, lt := l.lastIn[best], l.lastIn[loc]
		if lt.After(bt) || (lt.Equal(bt) && loc < best) {
			best = loc
		}
	}
	return best, found
}

// SerialsAt devuelve los seriales disponibles, ordenados.
func (a *Availability) SerialsAt(productID, location string) []string {
	set := a.serials[stockKey{productID, location}]
	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// HasSerial indica si el serial está disponible en la sede.
func (a *Availability) HasSerial(productID, location, serial string) bool {
	_, ok := a.serials[stockKey{productID, location}][strings.TrimSpace(serial)]
	return ok
}

// BulkQuantity devuelve la cantidad disponible a granel (cero si no hay).
func (a *Availability) BulkQuantity(productID, location string) decimal.Decimal {
	if q, ok := a.bulk[stockKey{productID, location}]; ok {
		return q
	}
	return decimal.Zero
}

// Total devuelve las unidades disponibles del producto sumando todas las sedes.
func (a *Availability) Total(productID string) decimal.Decimal {
	total := decimal.Zero
	for k, set := range a.serials {
		if k.productID == productID {
			total = total.Add(decimal.NewFromInt(int64(len(set))))
		}
	}
	for k, q := range a.bulk {
		if k.productID == productID {
			total = total.Add(q)
		}
	}
	return total
}

// Items aplana la disponibilidad: un ítem por serial y uno por (producto, sede) a granel,
// ordenados por producto, sede y serial.
func (a *Availability) Items() []entity.AvailableStockItem {
	items := make([]entity.AvailableStockItem, 0, len(a.serials)+len(a.bulk))
	one := decimal.NewFromInt(1)
	for k, set := range a.serials {
		for s := range set {
			items = append(items, entity.AvailableStockItem{
				ProductID: k.productID, Location: k.location, SerialNumber: s, Quantity: one,
			})
		}
	}
	for k, q := range a.bulk {
		items = append(items, entity.AvailableStockItem{
			ProductID: k.productID, Location: k.location, Quantity: q,
		})
	}
	sort.Slice(items, func(i, j int) bool {
		x, y := items[i], items[j]
		if x.ProductID != y.ProductID {
			return x.ProductID < y.ProductID
		}
		if x.Location != y.Location {
			return x.Location < y.Location
		}
		return x.SerialNumber < y.SerialNumber
	})
	return items
}

func normalizeSerials(serials []string) []string {
	out := make([]string, 0, len(serials))
	for _, s := range serials {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
