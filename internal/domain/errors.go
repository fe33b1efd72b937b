package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")

	// Errores del motor de traslados.
	ErrSameLocation      = errors.New("origen y destino deben ser distintos")
	ErrEmptyLines        = errors.New("el traslado no tiene líneas")
	ErrSerialUnavailable = errors.New("serial no disponible en la sede de origen")
	ErrUnknownProduct    = errors.New("producto no registrado en el catálogo")
)
