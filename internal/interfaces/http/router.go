package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/suestoque-api/internal/application/auth"
	"github.com/jhoicas/suestoque-api/internal/application/catalog"
	"github.com/jhoicas/suestoque-api/internal/application/crm"
	"github.com/jhoicas/suestoque-api/internal/application/inventory"
	"github.com/jhoicas/suestoque-api/internal/application/pos"
	"github.com/jhoicas/suestoque-api/internal/application/purchasing"
	"github.com/jhoicas/suestoque-api/internal/application/reports"
	"github.com/jhoicas/suestoque-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.AuthUseCase
	LedgerUC     *inventory.LedgerUseCase
	ProjectorUC  *inventory.ProjectorUseCase
	ReorderUC    *inventory.ReorderUseCase
	CheckoutUC   *pos.CheckoutUseCase
	PurchasingUC *purchasing.PurchaseOrderUseCase
	CustomerUC   *crm.CustomerUseCase
	ReportUC     *reports.ReportUseCase
	ProductUC    *catalog.ProductUseCase
	SupplierUC   *catalog.SupplierUseCase
	JWTSecret    string
}

const (
	admin     = entity.RoleAdmin
	bodeguero = entity.RoleBodeguero
	vendedor  = entity.RoleVendedor
)

// Router registra las rutas de la API.
//
// Permisos por rol:
//   - admin: todo.
//   - bodeguero: movimientos, reposición, órdenes de compra y catálogo.
//   - vendedor: punto de venta y clientes.
//   - lectura de catálogo y alertas: cualquier usuario autenticado.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (login público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	anyRole := RequireRole(admin, bodeguero, vendedor)
	adminOnly := RequireRole(admin)
	stockRoles := RequireRole(admin, bodeguero)
	salesRoles := RequireRole(admin, vendedor)

	protected.Get("/auth/me", anyRole, authHandler.Me)
	protected.Post("/auth/register", adminOnly, authHandler.Register)

	// Inventario: ledger, proyector, asesor de reposición
	inv := protected.Group("/inventory")
	invHandler := NewInventoryHandler(deps.LedgerUC, deps.ProjectorUC, deps.ReorderUC, deps.ReportUC)
	inv.Post("/movements", stockRoles, invHandler.CommitMovement)
	inv.Get("/movements", stockRoles, invHandler.ListMovements)
	inv.Patch("/movements/:id", adminOnly, invHandler.UpdateMovement)
	inv.Delete("/movements/:id", adminOnly, invHandler.DeleteMovement)
	inv.Post("/recalculate", adminOnly, invHandler.Recalculate)
	inv.Get("/reorder", stockRoles, invHandler.Reorder)
	inv.Get("/reorder.xlsx", stockRoles, invHandler.ReorderXLSX)
	inv.Get("/alerts", anyRole, invHandler.Alerts)

	// Punto de venta
	posGroup := protected.Group("/pos", salesRoles)
	posHandler := NewPOSHandler(deps.CheckoutUC)
	posGroup.Post("/checkout", posHandler.Checkout)
	posGroup.Get("/variants", posHandler.SearchVariants)
	posGroup.Get("/customers", posHandler.SearchCustomers)

	// Órdenes de compra
	orders := protected.Group("/purchase-orders", stockRoles)
	orderHandler := NewPurchaseOrderHandler(deps.PurchasingUC)
	orders.Post("/", orderHandler.Create)
	orders.Post("/generate", orderHandler.Generate)
	orders.Get("/", orderHandler.List)
	orders.Get("/:id", orderHandler.GetByID)
	orders.Post("/:id/send", orderHandler.Send)
	orders.Post("/:id/receive", orderHandler.Receive)
	orders.Post("/:id/cancel", orderHandler.Cancel)

	// Clientes / CRM ("/rankings" antes de "/:id")
	customers := protected.Group("/customers", salesRoles)
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Get("/rankings", customerHandler.Rankings)
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.Detail)
	customers.Put("/:id", customerHandler.Update)
	customers.Delete("/:id", adminOnly, customerHandler.Delete)

	// Reportes
	rep := protected.Group("/reports", adminOnly)
	reportHandler := NewReportHandler(deps.ReportUC)
	rep.Get("/dashboard", reportHandler.Dashboard)
	rep.Get("/sales", reportHandler.Sales)
	rep.Get("/sales.pdf", reportHandler.SalesPDF)
	rep.Get("/sales.xlsx", reportHandler.SalesXLSX)

	// Catálogo
	productHandler := NewProductHandler(deps.ProductUC)
	products := protected.Group("/products")
	products.Get("/", anyRole, productHandler.List)
	products.Get("/:id", anyRole, productHandler.GetByID)
	products.Post("/", stockRoles, productHandler.Create)
	products.Put("/:id", stockRoles, productHandler.Update)

	variants := protected.Group("/variants")
	variants.Get("/", anyRole, productHandler.ListVariants)
	variants.Get("/:id", anyRole, productHandler.GetVariant)
	variants.Post("/", stockRoles, productHandler.CreateVariant)
	variants.Put("/:id", stockRoles, productHandler.UpdateVariant)

	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers := protected.Group("/suppliers")
	suppliers.Get("/", anyRole, supplierHandler.List)
	suppliers.Get("/:id", anyRole, supplierHandler.GetByID)
	suppliers.Post("/", stockRoles, supplierHandler.Create)
	suppliers.Put("/:id", stockRoles, supplierHandler.Update)

	categories := protected.Group("/categories")
	categories.Get("/", anyRole, supplierHandler.ListCategories)
	categories.Post("/", stockRoles, supplierHandler.CreateCategory)
}
