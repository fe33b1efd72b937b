package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryKind identifica la fuente (colección) de un asiento del libro de inventario.
type EntryKind string

// Tipos de asiento: dos fuentes de entrada y dos de salida.
const (
	EntryKindReceipt  EntryKind = "receipt_inbound"   // entrada por recepción (material-in)
	EntryKindPurchase EntryKind = "purchase_inbound"  // entrada por compra
	EntryKindDispatch EntryKind = "dispatch_outbound" // salida por despacho (material-out)
	EntryKindSale     EntryKind = "sale_outbound"     // salida por venta
)

// EntryKinds lista las cuatro fuentes en orden estable.
var EntryKinds = []EntryKind{EntryKindReceipt, EntryKindPurchase, EntryKindDispatch, EntryKindSale}

// IsInbound indica si el asiento suma stock.
func (k EntryKind) IsInbound() bool {
	return k == EntryKindReceipt || k == EntryKindPurchase
}

// Valid indica si el tipo es uno de los cuatro conocidos.
func (k EntryKind) Valid() bool {
	switch k {
	case EntryKindReceipt, EntryKindPurchase, EntryKindDispatch, EntryKindSale:
		return true
	}
	return false
}

// DispatchStatus estado de un despacho. Ambos estados reservan el stock.
type DispatchStatus string

const (
	DispatchStatusPending    DispatchStatus = "pending"
	DispatchStatusDispatched DispatchStatus = "dispatched"
)

// LedgerEntry es un asiento inmutable de movimiento físico (solo Status de despachos cambia).
type LedgerEntry struct {
	ID          string
	Kind        EntryKind
	Location    string
	Date        time.Time
	Status      DispatchStatus // solo EntryKindDispatch
	Note        string
	TransferRef string // número de traslado cuando el asiento lo genera el motor
	Lines       []ProductLine
	CreatedAt   time.Time
	CreatedBy   string
}

// ProductLine es una línea de producto dentro de un asiento.
// Stock es Serialized o Bulk: la cantidad de un producto serializado es siempre len(Serials).
type ProductLine struct {
	ProductID   string
	Name        string
	Type        string
	Stock       LineStock
	DealerPrice decimal.Decimal
	MRP         decimal.Decimal
}

// LineStock es la suma Serialized | Bulk.
type LineStock interface {
	// Count devuelve las unidades que representa la línea.
	Count() decimal.Decimal
	isLineStock()
}

// Serialized unidades identificadas individualmente.
type Serialized struct {
	Serials []string
}

// Count implementa LineStock.
func (s Serialized) Count() decimal.Decimal { return decimal.NewFromInt(int64(len(s.Serials))) }

func (Serialized) isLineStock() {}

// Bulk unidades fungibles, solo cantidad.
type Bulk struct {
	Quantity decimal.Decimal
}

// Count implementa LineStock.
func (b Bulk) Count() decimal.Decimal { return b.Quantity }

func (Bulk) isLineStock() {}

// Serials devuelve los seriales de la línea (nil si es a granel).
func (l ProductLine) Serials() []string {
	if s, ok := l.Stock.(Serialized); ok {
		return s.Serials
	}
	return nil
}

// IsSerialized indica si la línea trae seriales.
func (l ProductLine) IsSerialized() bool {
	s, ok := l.Stock.(Serialized)
	return ok && len(s.Serials) > 0
}

// Quantity devuelve las unidades de la línea (cero si Stock es nil).
func (l ProductLine) Quantity() decimal.Decimal {
	if l.Stock == nil {
		return decimal.Zero
	}
	return l.Stock.Count()
}
