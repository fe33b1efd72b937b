// Package document traduce entre las entidades del motor y la forma de documento de las colecciones
// del libro (Firestore) y su copia JSONB en Postgres.
package document

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// Line línea de producto tal como la escriben las pantallas de entrada/salida.
// Las ventas usan SerialNumber (uno solo); el resto SerialNumbers.
type Line struct {
	ProductID     string   `json:"productId" firestore:"productId"`
	Name          string   `json:"name,omitempty" firestore:"name,omitempty"`
	Type          string   `json:"type,omitempty" firestore:"type,omitempty"`
	SerialNumbers []string `json:"serialNumbers,omitempty" firestore:"serialNumbers,omitempty"`
	SerialNumber  string   `json:"serialNumber,omitempty" firestore:"serialNumber,omitempty"`
	Quantity      *float64 `json:"quantity,omitempty" firestore:"quantity,omitempty"`
	DealerPrice   *float64 `json:"dealerPrice,omitempty" firestore:"dealerPrice,omitempty"`
	MRP           *float64 `json:"mrp,omitempty" firestore:"mrp,omitempty"`
}

// Entry documento de cualquiera de las cuatro colecciones del libro.
type Entry struct {
	Location    string    `json:"location" firestore:"location"`
	Date        time.Time `json:"date" firestore:"date"`
	Products    []Line    `json:"products" firestore:"products"`
	Note        string    `json:"note,omitempty" firestore:"note,omitempty"`
	Status      string    `json:"status,omitempty" firestore:"status,omitempty"`
	TransferRef string    `json:"transferRef,omitempty" firestore:"transferRef,omitempty"`
	CreatedAt   time.Time `json:"createdAt,omitempty" firestore:"createdAt,omitempty"`
	CreatedBy   string    `json:"createdBy,omitempty" firestore:"createdBy,omitempty"`
}

// TransferLine línea del registro de auditoría.
type TransferLine struct {
	ProductID     string   `json:"productId" firestore:"productId"`
	Name          string   `json:"name,omitempty" firestore:"name,omitempty"`
	SerialNumbers []string `json:"serialNumbers" firestore:"serialNumbers"`
	Quantity      float64  `json:"quantity" firestore:"quantity"`
}

// Transfer registro de auditoría de un traslado (colección stockTransfers).
type Transfer struct {
	TransferNumber  string         `json:"transferNumber" firestore:"transferNumber"`
	FromLocation    string         `json:"fromLocation" firestore:"fromLocation"`
	ToLocation      string         `json:"toLocation" firestore:"toLocation"`
	Lines           []TransferLine `json:"lines" firestore:"lines"`
	Reason          string         `json:"reason" firestore:"reason"`
	Note            string         `json:"note,omitempty" firestore:"note,omitempty"`
	Date            time.Time      `json:"date" firestore:"date"`
	Status          string         `json:"status" firestore:"status"`
	OutboundEntryID string         `json:"outboundEntryId,omitempty" firestore:"outboundEntryId,omitempty"`
	InboundEntryID  string         `json:"inboundEntryId,omitempty" firestore:"inboundEntryId,omitempty"`
	CreatedBy       string         `json:"createdBy,omitempty" firestore:"createdBy,omitempty"`
	CreatedAt       time.Time      `json:"createdAt" firestore:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt" firestore:"updatedAt"`
}

// FromLines convierte líneas del dominio a la forma de documento.
func FromLines(lines []entity.ProductLine) []Line {
	out := make([]Line, 0, len(lines))
	for _, l := range lines {
		d := Line{
			ProductID:   l.ProductID,
			Name:        l.Name,
			Type:        l.Type,
			DealerPrice: floatPtr(l.DealerPrice),
			MRP:         floatPtr(l.MRP),
		}
		switch s := l.Stock.(type) {
		case entity.Serialized:
			d.SerialNumbers = append([]string{}, s.Serials...)
		case entity.Bulk:
			d.Quantity = floatPtr(s.Quantity)
		}
		out = append(out, d)
	}
	return out
}

// ToLines convierte líneas de documento al dominio.
// Una línea con seriales (lista no vacía o serialNumber) es serializada; el resto es a granel,
// aunque traiga serialNumbers vacío junto a la cantidad.
func ToLines(lines []Line) []entity.ProductLine {
	out := make([]entity.ProductLine, 0, len(lines))
	for _, d := range lines {
		l := entity.ProductLine{
			ProductID:   strings.TrimSpace(d.ProductID),
			Name:        d.Name,
			Type:        d.Type,
			DealerPrice: decimalOf(d.DealerPrice),
			MRP:         decimalOf(d.MRP),
		}
		switch {
		case len(d.SerialNumbers) > 0:
			l.Stock = entity.Serialized{Serials: d.SerialNumbers}
		case d.SerialNumber != "":
			l.Stock = entity.Serialized{Serials: []string{d.SerialNumber}}
		default:
			l.Stock = entity.Bulk{Quantity: decimalOf(d.Quantity)}
		}
		out = append(out, l)
	}
	return out
}

// FromEntry convierte un asiento al documento. Las ventas guardan un serial por línea.
func FromEntry(e *entity.LedgerEntry) Entry {
	d := Entry{
		Location:    e.Location,
		Date:        e.Date,
		Products:    FromLines(e.Lines),
		Note:        e.Note,
		TransferRef: e.TransferRef,
		CreatedAt:   e.CreatedAt,
		CreatedBy:   e.CreatedBy,
	}
	if e.Kind == entity.EntryKindDispatch {
		d.Status = string(e.Status)
	}
	if e.Kind == entity.EntryKindSale {
		d.Products = splitSaleLines(d.Products)
	}
	return d
}

// ToEntry convierte el documento al asiento del dominio.
func (d Entry) ToEntry(id string, kind entity.EntryKind) *entity.LedgerEntry {
	e := &entity.LedgerEntry{
		ID:          id,
		Kind:        kind,
		Location:    strings.TrimSpace(d.Location),
		Date:        d.Date,
		Note:        d.Note,
		TransferRef: d.TransferRef,
		Lines:       ToLines(d.Products),
		CreatedAt:   d.CreatedAt,
		CreatedBy:   d.CreatedBy,
	}
	if kind == entity.EntryKindDispatch {
		e.Status = entity.DispatchStatus(d.Status)
		if e.Status == "" {
			e.Status = entity.DispatchStatusPending
		}
	}
	return e
}

// HasProduct indica si alguna línea del documento es del producto.
func (d Entry) HasProduct(productID string) bool {
	for _, l := range d.Products {
		if strings.TrimSpace(l.ProductID) == productID {
			return true
		}
	}
	return false
}

// FromTransfer convierte el registro de auditoría al documento.
func FromTransfer(t *entity.StockTransfer) Transfer {
	d := Transfer{
		TransferNumber:  t.TransferNumber,
		FromLocation:    t.FromLocation,
		ToLocation:      t.ToLocation,
		Reason:          t.Reason,
		Note:            t.Note,
		Date:            t.Date,
		Status:          string(t.Status),
		OutboundEntryID: t.OutboundEntryID,
		InboundEntryID:  t.InboundEntryID,
		CreatedBy:       t.CreatedBy,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
	for _, l := range t.Lines {
		serials := l.Serials()
		if serials == nil {
			serials = []string{}
		}
		d.Lines = append(d.Lines, TransferLine{
			ProductID:     l.ProductID,
			Name:          l.Name,
			SerialNumbers: append([]string{}, serials...),
			Quantity:      l.Quantity().InexactFloat64(),
		})
	}
	return d
}

// ToTransfer convierte el documento al registro del dominio.
func (d Transfer) ToTransfer(id string) *entity.StockTransfer {
	t := &entity.StockTransfer{
		ID:              id,
		TransferNumber:  d.TransferNumber,
		FromLocation:    d.FromLocation,
		ToLocation:      d.ToLocation,
		Date:            d.Date,
		Reason:          d.Reason,
		Note:            d.Note,
		Status:          entity.TransferStatus(d.Status),
		OutboundEntryID: d.OutboundEntryID,
		InboundEntryID:  d.InboundEntryID,
		CreatedBy:       d.CreatedBy,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
	for _, l := range d.Lines {
		line := entity.TransferLine{ProductID: l.ProductID, Name: l.Name}
		if len(l.SerialNumbers) > 0 {
			line.Stock = entity.Serialized{Serials: l.SerialNumbers}
		} else {
			line.Stock = entity.Bulk{Quantity: decimal.NewFromFloat(l.Quantity)}
		}
		t.Lines = append(t.Lines, line)
	}
	return t
}

func splitSaleLines(lines []Line) []Line {
	out := make([]Line, 0, len(lines))
	for _, l := range lines {
		if len(l.SerialNumbers) == 0 {
			out = append(out, l)
			continue
		}
		for _, s := range l.SerialNumbers {
			one := l
			one.SerialNumbers = nil
			one.SerialNumber = s
			out = append(out, one)
		}
	}
	return out
}

func floatPtr(d decimal.Decimal) *float64 {
	f := d.InexactFloat64()
	return &f
}

func decimalOf(f *float64) decimal.Decimal {
	if f == nil {
		return decimal.Zero
	}
	return decimal.NewFromFloat(*f)
}
