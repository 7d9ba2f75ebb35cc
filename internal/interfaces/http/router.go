package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/grocy-sync/internal/application/stockoverview"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	VM        *stockoverview.ViewModel
	JWTSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	handler := NewStockHandler(deps.VM)

	// Lecturas (público)
	stock := api.Group("/stock")
	stock.Get("/", handler.List)
	stock.Get("/counters", handler.Counters)
	stock.Get("/notifications", handler.Notifications)
	stock.Get("/shopping-list", handler.ShoppingList)
	stock.Get("/status", handler.Status)
	stock.Get("/products/:id", handler.Detail)
	stock.Get("/products/:id/action-state", handler.ActionState)

	// Escrituras (requieren Bearer Token)
	protected := stock.Group("/", AuthMiddleware(deps.JWTSecret))
	protected.Post("/refresh", handler.Refresh)
	protected.Post("/products/:id/consume", handler.Action)
	protected.Post("/transactions/:id/undo", handler.Undo)
}
