package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/vacutrack/vacutrack-api/internal/application/admin"
	"github.com/vacutrack/vacutrack-api/internal/application/cascade"
	"github.com/vacutrack/vacutrack-api/internal/application/stock"
	"github.com/vacutrack/vacutrack-api/internal/application/transfer"
	"github.com/vacutrack/vacutrack-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	StockUC    *stock.LotUseCase
	TransferUC *transfer.TransferUseCase
	ImpactUC   *cascade.ImpactUseCase
	CascadeUC  *cascade.CascadeUseCase
	SearchUC   *admin.SearchUseCase
	JWTSecret  string
}

// Router registra las rutas de la API. Los tokens se emiten en el servicio
// de identidad de la plataforma; acá solo se validan.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Todas las rutas requieren Bearer Token con alcance administrativo.
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Stock: lotes y agregados
	stockGroup := protected.Group("/stock")
	stockHandler := NewStockHandler(deps.StockUC)
	cascadeHandler := NewCascadeHandler(deps.ImpactUC, deps.CascadeUC)
	stockGroup.Get("/", stockHandler.ListStock)
	stockGroup.Get("/lots", stockHandler.ListLots)
	stockGroup.Post("/lots/:id/adjust", stockHandler.AdjustLot)
	stockGroup.Get("/lots/:id/reduction-impact", cascadeHandler.PreviewLotReduction)
	stockGroup.Post("/sweep", RequireLevel(entity.LevelNational), stockHandler.RunSweep)

	// Transferencias
	transfers := protected.Group("/transfers")
	transferHandler := NewTransferHandler(deps.TransferUC)
	transfers.Post("/", transferHandler.Propose)
	transfers.Get("/", transferHandler.List)
	transfers.Get("/:id", transferHandler.Get)
	transfers.Post("/:id/confirm", transferHandler.Confirm)
	transfers.Post("/:id/reject", transferHandler.Reject)
	transfers.Post("/:id/cancel", transferHandler.Cancel)

	// Administración: búsqueda y eliminaciones en cascada
	adminGroup := protected.Group("/admin")
	adminHandler := NewAdminHandler(deps.SearchUC)
	adminGroup.Get("/search", adminHandler.Search)
	adminGroup.Get("/entities/:type/:id/impact", cascadeHandler.PreviewEntity)
	adminGroup.Delete("/entities/:type/:id", cascadeHandler.DeleteEntity)
	adminGroup.Get("/vaccines/:id/impact", cascadeHandler.PreviewVaccine)
	adminGroup.Delete("/vaccines/:id", cascadeHandler.DeleteVaccine)
}
