package entity

import "github.com/shopspring/decimal"

// AvailableStockItem es una unidad disponible derivada (no persistida).
// Serializado: SerialNumber con Quantity = 1. Granel: SerialNumber vacío y Quantity > 0.
type AvailableStockItem struct {
	ProductID    string
	Location     string
	SerialNumber string
	Quantity     decimal.Decimal
}

// IsSerialized indica si el ítem representa una unidad con serial.
func (i AvailableStockItem) IsSerialized() bool {
	return i.SerialNumber != ""
}
