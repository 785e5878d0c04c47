package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/rs/zerolog"

	appanalytics "github.com/jhoicas/Taller-api/internal/application/analytics"
	"github.com/jhoicas/Taller-api/internal/application/auth"
	"github.com/jhoicas/Taller-api/internal/application/billing"
	"github.com/jhoicas/Taller-api/internal/application/catalog"
	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/internal/application/inventory"
	"github.com/jhoicas/Taller-api/internal/application/usecase"
	"github.com/jhoicas/Taller-api/internal/application/workorder"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC        *auth.AuthUseCase
	ProductUC     *catalog.ProductUseCase
	ServiceUC     *catalog.ServiceUseCase
	PriceLedger   *catalog.PriceLedgerUseCase
	StockLedger   *inventory.StockLedgerUseCase
	SupplierOrder *inventory.SupplierOrderUseCase
	Replenishment *inventory.ReplenishmentUseCase
	WorkOrderUC   *workorder.UseCase
	InvoiceUC     *billing.InvoiceUseCase
	InvoicePDF    *billing.PDFUseCase
	PaymentUC     *billing.PaymentUseCase
	PartyUC       *billing.PartyUseCase
	ExpenseUC     *usecase.ExpenseUseCase
	DashboardUC   *appanalytics.DashboardUseCase
	JWTSecret     string
	// RateLimit peticiones por minuto e IP sobre /api; 0 lo desactiva.
	RateLimit int
	// Health verifica dependencias (BD) para /health; nil responde siempre ok.
	Health func(ctx context.Context) error
}

// NewApp crea la app Fiber con los middlewares comunes: recover, request id y log de peticiones.
func NewApp(name string, log zerolog.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: ErrorHandler,
	})
	app.Use(requestid.New())
	app.Use(RequestLogger(log))
	app.Use(recover.New())
	return app
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		if deps.Health != nil {
			if err := deps.Health(c.Context()); err != nil {
				c.Locals(localError, err)
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "down"})
			}
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")
	if deps.RateLimit > 0 {
		api.Use(limiter.New(limiter.Config{
			Max:        deps.RateLimit,
			Expiration: time.Minute,
			LimitReached: func(c *fiber.Ctx) error {
				return c.Status(fiber.StatusTooManyRequests).JSON(dto.NewError("RATE_LIMITED", "demasiadas peticiones"))
			},
		}))
	}

	// Auth (login público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("", AuthMiddleware(deps.JWTSecret))

	admin := RequireRole(entity.RoleAdmin)
	office := RequireRole(entity.RoleAdmin, entity.RoleRecepcion)
	workshop := RequireRole(entity.RoleAdmin, entity.RoleRecepcion, entity.RoleMecanico)

	protected.Get("/auth/me", authHandler.Me)
	protected.Post("/auth/register", admin, authHandler.Register)

	// Catálogo: lectura para todo el taller, altas y precios sólo admin
	productHandler := NewProductHandler(deps.ProductUC, deps.PriceLedger)
	inventoryHandler := NewInventoryHandler(deps.StockLedger, deps.SupplierOrder, deps.Replenishment)
	products := protected.Group("/products")
	products.Get("/", workshop, productHandler.List)
	products.Get("/low-stock", workshop, productHandler.LowStock)
	products.Post("/", admin, productHandler.Create)
	products.Get("/:id", workshop, productHandler.GetByID)
	products.Put("/:id", admin, productHandler.Update)
	products.Get("/:id/current-price", workshop, productHandler.CurrentPrice)
	products.Get("/:id/selling-prices", workshop, productHandler.SellingPrices)
	products.Post("/:id/selling-prices", admin, productHandler.RecordSellingPrice)
	products.Get("/:id/buying-prices", office, productHandler.BuyingPrices)
	products.Post("/:id/buying-prices", admin, productHandler.RecordBuyingPrice)
	products.Get("/:id/computed-stock", workshop, inventoryHandler.ComputedStock)

	serviceHandler := NewServiceHandler(deps.ServiceUC, deps.PriceLedger)
	services := protected.Group("/services")
	services.Get("/", workshop, serviceHandler.List)
	services.Post("/", admin, serviceHandler.Create)
	services.Get("/:id", workshop, serviceHandler.GetByID)
	services.Get("/:id/current-price", workshop, serviceHandler.CurrentPrice)
	services.Get("/:id/prices", workshop, serviceHandler.Prices)
	services.Post("/:id/prices", admin, serviceHandler.RecordPrice)

	// Ledger de stock
	movements := protected.Group("/stock-movements")
	movements.Get("/", office, inventoryHandler.ListMovements)
	movements.Get("/export", office, inventoryHandler.ExportMovements)
	movements.Post("/", office, inventoryHandler.RecordMovement)
	movements.Delete("/:id", admin, inventoryHandler.ReverseMovement)

	stock := protected.Group("/stock")
	stock.Post("/reconcile", admin, inventoryHandler.Reconcile)
	stock.Get("/reorder-suggestions", office, inventoryHandler.ReorderSuggestions)

	supplierOrders := protected.Group("/supplier-orders", office)
	supplierOrders.Post("/", inventoryHandler.CreateSupplierOrder)
	supplierOrders.Get("/:id", inventoryHandler.GetSupplierOrder)
	supplierOrders.Post("/:id/receive", inventoryHandler.ReceiveSupplierOrder)
	supplierOrders.Post("/:id/cancel", inventoryHandler.CancelSupplierOrder)

	// Órdenes de trabajo: los mecánicos cargan líneas y avanzan estados, la facturación es de oficina
	woHandler := NewWorkOrderHandler(deps.WorkOrderUC)
	workOrders := protected.Group("/work-orders")
	workOrders.Get("/", workshop, woHandler.List)
	workOrders.Post("/", office, woHandler.Create)
	workOrders.Get("/:id", workshop, woHandler.GetByID)
	workOrders.Get("/:id/totals", workshop, woHandler.Totals)
	workOrders.Post("/:id/product-lines", workshop, woHandler.AddProductLine)
	workOrders.Post("/:id/service-lines", workshop, woHandler.AddServiceLine)
	workOrders.Delete("/:id/lines/:lineId", workshop, woHandler.DeleteLine)
	workOrders.Patch("/:id/status", workshop, woHandler.ChangeStatus)
	workOrders.Post("/:id/invoice", office, woHandler.CreateInvoice)

	// Facturación
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC, deps.InvoicePDF)
	invoices := protected.Group("/invoices", office)
	invoices.Get("/", invoiceHandler.List)
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/unpaid", invoiceHandler.Unpaid)
	invoices.Get("/outstanding-total", invoiceHandler.OutstandingTotal)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Delete("/:id", invoiceHandler.Delete)
	invoices.Get("/:id/pdf", invoiceHandler.PDF)
	invoices.Post("/:id/lines", invoiceHandler.AddLine)
	invoices.Delete("/:id/lines", invoiceHandler.DeleteLine)
	invoices.Delete("/:id/lines/:lineId", invoiceHandler.DeleteLine)
	invoices.Post("/:id/issue", invoiceHandler.Issue)
	invoices.Post("/:id/send", invoiceHandler.Send)
	invoices.Post("/:id/cancel", invoiceHandler.Cancel)

	paymentHandler := NewPaymentHandler(deps.PaymentUC)
	payments := protected.Group("/payments", office)
	payments.Post("/apply", paymentHandler.Apply)
	payments.Get("/", paymentHandler.ListByPayer)
	payments.Get("/:id", paymentHandler.GetByID)

	partyHandler := NewPartyHandler(deps.PartyUC)
	clients := protected.Group("/clients")
	clients.Get("/", workshop, partyHandler.ListClients)
	clients.Post("/", office, partyHandler.CreateClient)
	clients.Get("/:id", workshop, partyHandler.GetClient)
	companies := protected.Group("/companies", office)
	companies.Get("/", partyHandler.ListCompanies)
	companies.Post("/", partyHandler.CreateCompany)
	companies.Get("/:id", partyHandler.GetCompany)

	expenseHandler := NewExpenseHandler(deps.ExpenseUC)
	expenses := protected.Group("/expenses", office)
	expenses.Get("/", expenseHandler.List)
	expenses.Get("/export", expenseHandler.Export)
	expenses.Post("/", expenseHandler.Create)

	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	protected.Get("/dashboard/summary", office, dashboardHandler.GetSummary)
}
