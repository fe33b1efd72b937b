package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Unidades de conteo de un producto.
const (
	UnitOfCountPiece = "piece" // unidad suelta
	UnitOfCountPair  = "pair"  // par (p. ej. audífonos binaurales)
)

// Product representa un producto del catálogo. El catálogo es de otro módulo; el motor solo lo lee.
// HasSerialNumber indica si cada unidad se rastrea por serial (serializado) o solo por cantidad (granel).
type Product struct {
	ID              string
	Name            string
	Type            string
	HasSerialNumber bool
	MRP             decimal.Decimal  // precio de lista
	DealerPrice     *decimal.Decimal // precio distribuidor (opcional)
	TaxApplicable   bool
	UnitOfCount     string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
