package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	StockUC    *inventory.StockUseCase
	PricingUC  *inventory.PricingUseCase
	TransferUC *inventory.TransferUseCase
	JWTSecret  string
}

// Router registra las rutas de la API. Todas requieren Bearer Token; las escrituras, rol admin o bodeguero.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	// Disponibilidad y precio (lectura)
	stock := api.Group("/stock")
	stockHandler := NewStockHandler(deps.StockUC, deps.PricingUC)
	stock.Get("/available", stockHandler.Available)
	stock.Get("/summary", stockHandler.Summary)
	stock.Get("/pricing", stockHandler.Pricing)

	// Traslados
	transfers := api.Group("/transfers")
	transferHandler := NewTransferHandler(deps.TransferUC)
	writers := RequireRole(jwt.RoleAdmin, jwt.RoleBodeguero)
	transfers.Post("/validate", transferHandler.Validate)
	transfers.Post("/", writers, transferHandler.Commit)
	transfers.Get("/:number", transferHandler.Get)
	transfers.Get("/:number/slip", transferHandler.Slip)
}
