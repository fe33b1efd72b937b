package entity

import "time"

// Location representa una sede (casa matriz, sucursal o centro) que mantiene inventario.
// Es la clave de partición de la disponibilidad.
type Location struct {
	ID        string
	Name      string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DisplayName devuelve el nombre legible de la sede o su ID si no tiene nombre.
func (l *Location) DisplayName() string {
	if l == nil {
		return ""
	}
	if l.Name != "" {
		return l.Name
	}
	return l.ID
}
