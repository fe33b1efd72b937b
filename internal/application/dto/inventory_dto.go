package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AvailableStockDTO una unidad serializada o un agregado a granel disponible en una sede.
type AvailableStockDTO struct {
	ProductID    string           `json:"product_id"`
	Location     string           `json:"location"`
	SerialNumber string           `json:"serial_number,omitempty"`
	Quantity     *decimal.Decimal `json:"quantity,omitempty"`
}

// StockSummaryDTO disponibilidad agrupada por (producto, sede).
type StockSummaryDTO struct {
	ProductID     string          `json:"product_id"`
	Location      string          `json:"location"`
	Serialized    bool            `json:"serialized"`
	Quantity      decimal.Decimal `json:"quantity"`
	SerialNumbers []string        `json:"serial_numbers,omitempty"`
}

// PricingDTO precio original recuperado del libro. Known = false significa "precio desconocido".
type PricingDTO struct {
	ProductID   string          `json:"product_id"`
	Location    string          `json:"location"`
	DealerPrice decimal.Decimal `json:"dealer_price"`
	ListPrice   decimal.Decimal `json:"list_price"`
	Known       bool            `json:"known"`
	Source      string          `json:"source,omitempty"`
}

// TransferLineRequest línea de un traslado: serial_numbers para serializados, quantity para granel.
type TransferLineRequest struct {
	ProductID     string           `json:"product_id"`
	SerialNumbers []string         `json:"serial_numbers,omitempty"`
	Quantity      *decimal.Decimal `json:"quantity,omitempty"`
}

// ValidateTransferRequest body para POST /api/transfers/validate.
type ValidateTransferRequest struct {
	FromLocation string                `json:"from_location"`
	ToLocation   string                `json:"to_location"`
	Lines        []TransferLineRequest `json:"lines"`
}

// CommitTransferRequest body para POST /api/transfers. TransferNumber vacío: lo genera el servidor.
type CommitTransferRequest struct {
	TransferNumber string                `json:"transfer_number,omitempty"`
	FromLocation   string                `json:"from_location"`
	ToLocation     string                `json:"to_location"`
	Date           *time.Time            `json:"date,omitempty"`
	Reason         string                `json:"reason"`
	Note           string                `json:"note,omitempty"`
	Lines          []TransferLineRequest `json:"lines"`
}

// ValidationProblemDTO un motivo de rechazo.
type ValidationProblemDTO struct {
	Line      int    `json:"line"`
	ProductID string `json:"product_id,omitempty"`
	Serial    string `json:"serial_number,omitempty"`
	Code      string `json:"code"`
	Message   string `json:"message"`
}

// ValidationResultDTO respuesta de POST /api/transfers/validate.
type ValidationResultDTO struct {
	Valid    bool                   `json:"valid"`
	Problems []ValidationProblemDTO `json:"problems,omitempty"`
}

// CommittedLineDTO línea confirmada con el precio recuperado.
type CommittedLineDTO struct {
	ProductID     string          `json:"product_id"`
	Name          string          `json:"name"`
	SerialNumbers []string        `json:"serial_numbers,omitempty"`
	Quantity      decimal.Decimal `json:"quantity"`
	DealerPrice   decimal.Decimal `json:"dealer_price"`
	ListPrice     decimal.Decimal `json:"list_price"`
	PriceUnknown  bool            `json:"price_unknown"`
}

// CommitTransferResponse respuesta de POST /api/transfers.
type CommitTransferResponse struct {
	TransferID      string             `json:"transfer_id"`
	TransferNumber  string             `json:"transfer_number"`
	OutboundEntryID string             `json:"outbound_entry_id"`
	InboundEntryID  string             `json:"inbound_entry_id"`
	Status          string             `json:"status"`
	Lines           []CommittedLineDTO `json:"lines"`
}

// TransferLineDTO línea del registro de auditoría.
type TransferLineDTO struct {
	ProductID     string          `json:"product_id"`
	Name          string          `json:"name"`
	SerialNumbers []string        `json:"serial_numbers,omitempty"`
	Quantity      decimal.Decimal `json:"quantity"`
}

// TransferDTO registro de auditoría de un traslado.
type TransferDTO struct {
	ID              string            `json:"id"`
	TransferNumber  string            `json:"transfer_number"`
	FromLocation    string            `json:"from_location"`
	ToLocation      string            `json:"to_location"`
	Date            time.Time         `json:"date"`
	Reason          string            `json:"reason"`
	Note            string            `json:"note,omitempty"`
	Status          string            `json:"status"`
	OutboundEntryID string            `json:"outbound_entry_id,omitempty"`
	InboundEntryID  string            `json:"inbound_entry_id,omitempty"`
	Lines           []TransferLineDTO `json:"lines"`
	CreatedBy       string            `json:"created_by,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}
