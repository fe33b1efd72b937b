package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// TransferHandler validación, confirmación y consulta de traslados entre sedes (protegido).
type TransferHandler struct {
	uc  *inventory.TransferUseCase
	now func() time.Time
}

// NewTransferHandler construye el handler.
func NewTransferHandler(uc *inventory.TransferUseCase) *TransferHandler {
	return &TransferHandler{uc: uc, now: time.Now}
}

// Validate godoc
// @Summary      Validar traslado (sin escribir)
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ValidateTransferRequest  true  "from_location, to_location, lines"
// @Success      200   {object}  dto.ValidationResultDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/transfers/validate [post]
func (h *TransferHandler) Validate(c *fiber.Ctx) error {
	var in dto.ValidateTransferRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	res, err := h.uc.ProposeTransfer(c.Context(), in.FromLocation, in.ToLocation, linesFromRequest(in.Lines))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(validationResultDTO(res))
}

// Commit godoc
// @Summary      Confirmar traslado
// @Description  Escribe el despacho en origen, la recepción en destino y el registro de auditoría.
// @Description  Reintentar con el mismo transfer_number es seguro.
// @Description  Salvo admin, from_location debe ser la sede del token.
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CommitTransferRequest  true  "transfer_number opcional"
// @Success      201   {object}  dto.CommitTransferResponse
// @Failure      400   {object}  dto.ValidationResultDTO
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ValidationResultDTO
// @Router       /api/transfers [post]
func (h *TransferHandler) Commit(c *fiber.Ctx) error {
	var in dto.CommitTransferRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	if !CanDispatchFrom(c, in.FromLocation) {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN_LOCATION", Message: "solo puede trasladar desde su sede"})
	}
	input := inventory.CommitTransferInput{
		TransferNumber: in.TransferNumber,
		FromLocation:   in.FromLocation,
		ToLocation:     in.ToLocation,
		Reason:         in.Reason,
		Note:           in.Note,
		Lines:          linesFromRequest(in.Lines),
		CreatedBy:      GetUserID(c),
	}
	if input.TransferNumber == "" {
		input.TransferNumber = entity.NewTransferNumber(h.now())
	}
	if in.Date != nil {
		input.Date = *in.Date
	}
	res, err := h.uc.CommitTransfer(c.Context(), input)
	if err != nil {
		return writeError(c, err)
	}
	out := dto.CommitTransferResponse{
		TransferID:      res.TransferID,
		TransferNumber:  res.TransferNumber,
		OutboundEntryID: res.OutboundEntryID,
		InboundEntryID:  res.InboundEntryID,
		Status:          string(res.Status),
		Lines:           make([]dto.CommittedLineDTO, 0, len(res.Lines)),
	}
	for _, l := range res.Lines {
		out.Lines = append(out.Lines, dto.CommittedLineDTO{
			ProductID:     l.ProductID,
			Name:          l.Name,
			SerialNumbers: l.Serials,
			Quantity:      l.Quantity,
			DealerPrice:   l.DealerPrice,
			ListPrice:     l.ListPrice,
			PriceUnknown:  l.PriceUnknown,
		})
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Get godoc
// @Summary      Registro de un traslado
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        number  path  string  true  "Número de traslado"
// @Success      200  {object}  dto.TransferDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/transfers/{number} [get]
func (h *TransferHandler) Get(c *fiber.Ctx) error {
	t, err := h.uc.GetTransfer(c.Context(), c.Params("number"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(transferDTO(t))
}

// Slip godoc
// @Summary      Guía de traslado en PDF
// @Tags         transfers
// @Security     Bearer
// @Produce      application/pdf
// @Param        number  path  string  true  "Número de traslado"
// @Success      200
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/transfers/{number}/slip [get]
func (h *TransferHandler) Slip(c *fiber.Ctx) error {
	pdf, filename, err := h.uc.TransferSlip(c.Context(), c.Params("number"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="`+filename+`"`)
	return c.Send(pdf)
}

// ── mapeos ────────────────────────────────────────────────────────────────────

func linesFromRequest(lines []dto.TransferLineRequest) []inventory.TransferLineInput {
	out := make([]inventory.TransferLineInput, 0, len(lines))
	for _, l := range lines {
		in := inventory.TransferLineInput{ProductID: l.ProductID, Serials: l.SerialNumbers, Quantity: decimal.Zero}
		if l.Quantity != nil {
			in.Quantity = *l.Quantity
		}
		out = append(out, in)
	}
	return out
}

func validationResultDTO(res *inventory.ValidationResult) dto.ValidationResultDTO {
	out := dto.ValidationResultDTO{Valid: res.Valid}
	for _, p := range res.Problems {
		out.Problems = append(out.Problems, dto.ValidationProblemDTO{
			Line:      p.Line,
			ProductID: p.ProductID,
			Serial:    p.Serial,
			Code:      p.Code,
			Message:   p.Message,
		})
	}
	return out
}

func transferDTO(t *entity.StockTransfer) dto.TransferDTO {
	out := dto.TransferDTO{
		ID:              t.ID,
		TransferNumber:  t.TransferNumber,
		FromLocation:    t.FromLocation,
		ToLocation:      t.ToLocation,
		Date:            t.Date,
		Reason:          t.Reason,
		Note:            t.Note,
		Status:          string(t.Status),
		OutboundEntryID: t.OutboundEntryID,
		InboundEntryID:  t.InboundEntryID,
		Lines:           make([]dto.TransferLineDTO, 0, len(t.Lines)),
		CreatedBy:       t.CreatedBy,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
	for _, l := range t.Lines {
		out.Lines = append(out.Lines, dto.TransferLineDTO{
			ProductID:     l.ProductID,
			Name:          l.Name,
			SerialNumbers: l.Serials(),
			Quantity:      l.Quantity(),
		})
	}
	return out
}
