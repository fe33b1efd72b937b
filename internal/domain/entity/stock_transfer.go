package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransferStatus paso persistido de la saga de un traslado.
// El borrador vive solo en la UI; el primer estado persistido es validated.
type TransferStatus string

const (
	TransferStatusValidated          TransferStatus = "validated"
	TransferStatusSourceWritten      TransferStatus = "source_written"
	TransferStatusDestinationWritten TransferStatus = "destination_written"
	TransferStatusCommitted          TransferStatus = "committed"
)

// Complete indica si la saga terminó.
func (s TransferStatus) Complete() bool { return s == TransferStatusCommitted }

// StockTransfer registro de auditoría de un traslado entre sedes.
// El agregador nunca lo lee: consume los dos asientos que genera.
type StockTransfer struct {
	ID              string
	TransferNumber  string
	FromLocation    string
	ToLocation      string
	Date            time.Time
	Reason          string
	Note            string
	Lines           []TransferLine
	Status          TransferStatus
	OutboundEntryID string
	InboundEntryID  string
	CreatedBy       string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TransferLine línea de un traslado.
type TransferLine struct {
	ProductID string
	Name      string
	Stock     LineStock
}

// Serials devuelve los seriales de la línea (nil si es a granel).
func (l TransferLine) Serials() []string {
	if s, ok := l.Stock.(Serialized); ok {
		return s.Serials
	}
	return nil
}

// Quantity devuelve las unidades que mueve la línea.
func (l TransferLine) Quantity() decimal.Decimal {
	if l.Stock == nil {
		return decimal.Zero
	}
	return l.Stock.Count()
}

// NewTransferNumber genera un número legible TR-<aaaammdd>-<aleatorio>.
func NewTransferNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:6])
	return fmt.Sprintf("TR-%s-%s", now.Format("20060102"), suffix)
}

// Espacio de nombres para los IDs deterministas de los asientos generados por un traslado.
var transferEntryNamespace = uuid.MustParse("6f1c3f0e-8a57-4d7b-9c1e-2b5a4e0d9f31")

// OutboundEntryIDFor devuelve el ID determinista del despacho generado por el traslado.
func OutboundEntryIDFor(transferNumber string) string {
	return uuid.NewSHA1(transferEntryNamespace, []byte(transferNumber+"/out")).String()
}

// InboundEntryIDFor devuelve el ID determinista de la recepción generada por el traslado.
func InboundEntryIDFor(transferNumber string) string {
	return uuid.NewSHA1(transferEntryNamespace, []byte(transferNumber+"/in")).String()
}

// TransferIDFor devuelve el ID determinista del registro de auditoría.
func TransferIDFor(transferNumber string) string {
	return uuid.NewSHA1(transferEntryNamespace, []byte(transferNumber)).String()
}
