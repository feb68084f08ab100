package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/bizio/bizio-api/internal/application/auth"
	"github.com/bizio/bizio-api/internal/application/deal"
	appfinance "github.com/bizio/bizio-api/internal/application/finance"
	"github.com/bizio/bizio-api/internal/application/ports"
	"github.com/bizio/bizio-api/internal/application/usecase"
	"github.com/bizio/bizio-api/internal/domain/entity"
	"github.com/bizio/bizio-api/internal/scheduler"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	ClientUC    *usecase.ClientUseCase
	ProductUC   *usecase.ProductUseCase
	DealUC      *deal.DealUseCase
	SupplierUC  *usecase.SupplierUseCase
	ExpenseUC   *usecase.ExpenseUseCase
	FinanceUC   *appfinance.FinanceUseCase
	DashboardUC *usecase.DashboardUseCase
	DealExport  ports.DealExporter
	SyncService *scheduler.OrderSyncService
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	protected.Get("/auth/me", authHandler.Me)
	protected.Post("/users", RequireRole(entity.RoleAdmin), authHandler.CreateUser)

	// Clients (CRM)
	clients := protected.Group("/clients")
	clientHandler := NewClientHandler(deps.ClientUC)
	clients.Post("/", clientHandler.Create)
	clients.Get("/", clientHandler.List)
	clients.Get("/:id", clientHandler.GetByID)
	clients.Put("/:id", clientHandler.Update)
	clients.Delete("/:id", clientHandler.Delete)

	// Products + inventario
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)
	products.Post("/:id/receipts", productHandler.ReceiveInventory)
	products.Get("/:id/inventory", productHandler.GetInventory)

	// Deals (pipeline de ventas)
	deals := protected.Group("/deals")
	dealHandler := NewDealHandler(deps.DealUC, deps.DealExport)
	deals.Post("/", dealHandler.Create)
	deals.Get("/", dealHandler.List)
	deals.Get("/export.xlsx", dealHandler.Export)
	deals.Get("/:id", dealHandler.GetByID)
	deals.Put("/:id", dealHandler.Update)
	deals.Delete("/:id", dealHandler.Delete)
	deals.Put("/:id/status", dealHandler.UpdateStatus)
	deals.Post("/:id/items", dealHandler.AddItem)
	deals.Delete("/:id/items/:item_id", dealHandler.RemoveItem)
	deals.Get("/:id/profit", dealHandler.Profit)

	// Suppliers + órdenes de compra
	suppliers := protected.Group("/suppliers")
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers.Post("/", supplierHandler.Create)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Get("/:id", supplierHandler.GetByID)
	suppliers.Put("/:id", supplierHandler.Update)
	suppliers.Delete("/:id", supplierHandler.Delete)
	suppliers.Post("/:id/offers", supplierHandler.CreateOffer)
	suppliers.Get("/:id/offers", supplierHandler.ListOffers)
	suppliers.Delete("/:id/offers/:offer_id", supplierHandler.DeleteOffer)

	purchaseOrders := protected.Group("/purchase-orders")
	purchaseOrders.Post("/", supplierHandler.CreatePurchaseOrder)
	purchaseOrders.Get("/", supplierHandler.ListPurchaseOrders)
	purchaseOrders.Get("/:id", supplierHandler.GetPurchaseOrder)
	purchaseOrders.Post("/:id/receive", supplierHandler.ReceivePurchaseOrder)
	purchaseOrders.Post("/:id/cancel", supplierHandler.CancelPurchaseOrder)

	// Gastos y finanzas
	financeHandler := NewFinanceHandler(deps.FinanceUC, deps.ExpenseUC)
	expenses := protected.Group("/expenses")
	expenses.Post("/", financeHandler.CreateExpense)
	expenses.Get("/", financeHandler.ListExpenses)
	expenses.Get("/:id", financeHandler.GetExpense)
	expenses.Put("/:id", financeHandler.UpdateExpense)
	expenses.Delete("/:id", financeHandler.DeleteExpense)

	finance := protected.Group("/finance")
	finance.Get("/dashboard", financeHandler.Dashboard)
	finance.Get("/monthly/:year/:month", financeHandler.Monthly)
	finance.Get("/period", financeHandler.Period)
	finance.Get("/report.pdf", financeHandler.ReportPDF)
	finance.Get("/settings", financeHandler.GetSettings)
	finance.Put("/settings", financeHandler.UpdateSettings)

	// Dashboard de ventas
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	protected.Get("/dashboard/stats", dashboardHandler.Stats)

	// Sincronización de marketplaces (solo admin)
	if deps.SyncService != nil {
		syncHandler := NewSyncHandler(deps.SyncService)
		sync := protected.Group("/sync", RequireRole(entity.RoleAdmin))
		sync.Post("/orders", syncHandler.Run)
		sync.Get("/status", syncHandler.Status)
	}
}
