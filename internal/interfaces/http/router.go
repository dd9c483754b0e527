package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Envasadora-api/internal/application/auth"
	appledger "github.com/jhoicas/Envasadora-api/internal/application/ledger"
	"github.com/jhoicas/Envasadora-api/internal/application/reports"
	"github.com/jhoicas/Envasadora-api/internal/application/usecase"
	"github.com/jhoicas/Envasadora-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC   *usecase.ProductUseCase
	LocationUC  *usecase.LocationUseCase
	CustomerUC  *usecase.CustomerUseCase
	AppendUC    *appledger.AppendMovementUseCase
	BalanceUC   *appledger.BalanceUseCase
	HistoryUC   *appledger.HistoryUseCase
	StockReport *reports.StockReportUseCase
	AuthUC      *auth.AuthUseCase
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

	// Products (protegido; crear/editar solo admin)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/", RequireRole(entity.RoleAdmin), productHandler.Create)
	products.Put("/:id", RequireRole(entity.RoleAdmin), productHandler.Update)

	// Locations (protegido; crear solo admin)
	locations := protected.Group("/locations")
	locationHandler := NewLocationHandler(deps.LocationUC)
	locations.Get("/", locationHandler.List)
	locations.Get("/:id", locationHandler.GetByID)
	locations.Post("/", RequireRole(entity.RoleAdmin), locationHandler.Create)

	// Customers (protegido)
	customers := protected.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.GetByID)

	// Ledger (protegido). Escrituras según rol: el llenado y el traslado son
	// de planta (admin/bodeguero), la venta también la registra el vendedor.
	lg := protected.Group("/ledger")
	ledgerHandler := NewLedgerHandler(deps.AppendUC, deps.BalanceUC, deps.HistoryUC)
	lg.Post("/movements", RequireRole(entity.RoleAdmin, entity.RoleBodeguero), ledgerHandler.AppendMovement)
	lg.Post("/fillings", RequireRole(entity.RoleAdmin, entity.RoleBodeguero), ledgerHandler.RegisterFilling)
	lg.Post("/transfers", RequireRole(entity.RoleAdmin, entity.RoleBodeguero), ledgerHandler.RegisterTransfer)
	lg.Post("/damages", RequireRole(entity.RoleAdmin, entity.RoleBodeguero), ledgerHandler.RegisterDamage)
	lg.Post("/sales", RequireRole(entity.RoleAdmin, entity.RoleBodeguero, entity.RoleVendedor), ledgerHandler.RegisterSale)
	lg.Get("/movements", ledgerHandler.ListMovements)
	lg.Get("/balances", ledgerHandler.GetBalances)
	lg.Get("/running-total", ledgerHandler.GetRunningTotal)
	lg.Get("/fillings/history", ledgerHandler.GetFillingHistory)

	// Reports (protegido)
	reportsGroup := protected.Group("/reports")
	reportHandler := NewReportHandler(deps.StockReport)
	reportsGroup.Get("/stock", reportHandler.StockReport)
}
