package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
)

// StockHandler consultas de disponibilidad y precio original (protegido, solo lectura).
type StockHandler struct {
	stock   *inventory.StockUseCase
	pricing *inventory.PricingUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(stock *inventory.StockUseCase, pricing *inventory.PricingUseCase) *StockHandler {
	return &StockHandler{stock: stock, pricing: pricing}
}

// Available godoc
// @Summary      Unidades disponibles
// @Description  Seriales individuales y agregados a granel derivados del libro.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        location    query  string  false  "Filtrar por sede"
// @Param        product_id  query  string  false  "Filtrar por producto"
// @Success      200  {array}   dto.AvailableStockDTO
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/stock/available [get]
func (h *StockHandler) Available(c *fiber.Ctx) error {
	items, err := h.stock.ListAvailable(c.Context(), inventory.StockFilter{
		Location:  strings.TrimSpace(c.Query("location")),
		ProductID: strings.TrimSpace(c.Query("product_id")),
	})
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.AvailableStockDTO, 0, len(items))
	for _, it := range items {
		d := dto.AvailableStockDTO{ProductID: it.ProductID, Location: it.Location, SerialNumber: it.SerialNumber}
		if !it.IsSerialized() {
			q := it.Quantity
			d.Quantity = &q
		}
		out = append(out, d)
	}
	return c.JSON(out)
}

// Summary godoc
// @Summary      Disponibilidad por producto y sede
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        location  query  string  false  "Filtrar por sede"
// @Success      200  {array}   dto.StockSummaryDTO
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/stock/summary [get]
func (h *StockHandler) Summary(c *fiber.Ctx) error {
	list, err := h.stock.Summary(c.Context(), strings.TrimSpace(c.Query("location")))
	if err != nil {
		return writeError(c, err)
	}
	if list == nil {
		list = []dto.StockSummaryDTO{}
	}
	return c.JSON(list)
}

// Pricing godoc
// @Summary      Precio original en una sede
// @Description  known=false cuando ninguna entrada de la sede respalda el precio.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  true   "Producto"
// @Param        location    query  string  true   "Sede"
// @Param        serials     query  string  false  "Seriales separados por coma"
// @Success      200  {object}  dto.PricingDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock/pricing [get]
func (h *StockHandler) Pricing(c *fiber.Ctx) error {
	productID := strings.TrimSpace(c.Query("product_id"))
	location := strings.TrimSpace(c.Query("location"))
	if productID == "" || location == "" {
		return badRequest(c, "VALIDATION", "product_id y location requeridos")
	}
	p, err := h.pricing.ResolveOriginalPricing(c.Context(), productID, splitList(c.Query("serials")), location)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.PricingDTO{
		ProductID:   productID,
		Location:    location,
		DealerPrice: p.DealerPrice,
		ListPrice:   p.ListPrice,
		Known:       p.Known(),
		Source:      string(p.Source),
	})
}

// splitList separa una lista por comas descartando vacíos.
func splitList(raw string) []string {
	var out []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
