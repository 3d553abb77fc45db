package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/lotes-erp/internal/application/inventory"
	"github.com/jhoicas/lotes-erp/internal/application/usecase"
	"github.com/jhoicas/lotes-erp/pkg/jwt"
	"github.com/jhoicas/lotes-erp/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC   *usecase.ProductUseCase
	Deduct      *inventory.DeductStockUseCase
	Merge       *inventory.MergeUseCase
	Disposal    *inventory.DisposalUseCase
	Production  *inventory.ProductionUseCase
	Procurement *inventory.ProcurementUseCase
	Sale        *inventory.SaleUseCase
	Query       *inventory.QueryUseCase
	Replenish   *inventory.ReplenishmentUseCase
	JWTSecret   string
	Logger      *logger.Logger
}

// Router registra las rutas de la API. Todas bajo /api requieren Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.Logger == nil {
		deps.Logger = logger.Nop()
	}
	api := app.Group("/api", RequestLogger(deps.Logger), AuthMiddleware(deps.JWTSecret))

	anyRole := RequireRole(jwt.RoleAdmin, jwt.RoleManager, jwt.RoleWorker)
	managers := RequireRole(jwt.RoleAdmin, jwt.RoleManager)

	// Catálogo
	productHandler := NewProductHandler(deps.ProductUC)
	api.Post("/categories", managers, productHandler.CreateCategory)
	products := api.Group("/products")
	products.Post("/", managers, productHandler.Create)
	products.Get("/:id", anyRole, productHandler.GetByID)

	// Lotes: descuentos, fusiones, bajas y consultas
	inv := api.Group("/inventory")
	invHandler := NewInventoryHandler(deps.Deduct, deps.Merge, deps.Disposal, deps.Query, deps.Replenish)
	inv.Post("/deductions", managers, invHandler.DeductStock)
	inv.Post("/batches/merge", managers, invHandler.MergeBatches)
	inv.Get("/batches", anyRole, invHandler.ListBatches)
	inv.Post("/products/:id/consolidate", managers, invHandler.ConsolidateProduct)
	inv.Get("/products/:id/history", anyRole, invHandler.ProductHistory)
	inv.Post("/disposals", anyRole, invHandler.CreateDisposal)
	inv.Get("/low-stock", anyRole, invHandler.LowStock)

	// Producción
	productions := api.Group("/productions")
	productionHandler := NewProductionHandler(deps.Production)
	productions.Post("/", anyRole, productionHandler.Create)
	productions.Get("/", anyRole, productionHandler.List)
	productions.Post("/:id/complete", anyRole, productionHandler.Complete)

	// Compras y ventas
	commerceHandler := NewCommerceHandler(deps.Procurement, deps.Sale)
	api.Post("/procurements", managers, commerceHandler.CreateProcurement)
	api.Post("/sales", anyRole, commerceHandler.CreateSale)
}
