package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain"
)

// errorMapping sentinela de dominio → status y código de respuesta. El orden importa: un error
// compuesto toma la primera coincidencia.
var errorMapping = []struct {
	err    error
	status int
	code   string
}{
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrSameLocation, fiber.StatusBadRequest, "SAME_LOCATION"},
	{domain.ErrEmptyLines, fiber.StatusBadRequest, "EMPTY_LINES"},
	{domain.ErrUnknownProduct, fiber.StatusBadRequest, "UNKNOWN_PRODUCT"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrSerialUnavailable, fiber.StatusConflict, "SERIAL_UNAVAILABLE"},
	{domain.ErrInsufficientStock, fiber.StatusConflict, "INSUFFICIENT_STOCK"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
}

func statusFor(err error) (int, string) {
	for _, m := range errorMapping {
		if errors.Is(err, m.err) {
			return m.status, m.code
		}
	}
	return fiber.StatusInternalServerError, "INTERNAL"
}

// writeError responde con dto.ErrorResponse, o con el detalle por línea si es un rechazo de validación.
func writeError(c *fiber.Ctx, err error) error {
	status, code := statusFor(err)
	var verr *inventory.ValidationError
	if errors.As(err, &verr) {
		return c.Status(status).JSON(validationResultDTO(&inventory.ValidationResult{Valid: false, Problems: verr.Problems}))
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: err.Error()})
}

func badRequest(c *fiber.Ctx, code, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: code, Message: message})
}
