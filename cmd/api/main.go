package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/Envasadora-api/internal/application/auth"
	appledger "github.com/jhoicas/Envasadora-api/internal/application/ledger"
	"github.com/jhoicas/Envasadora-api/internal/application/reports"
	"github.com/jhoicas/Envasadora-api/internal/application/usecase"
	infrapdf "github.com/jhoicas/Envasadora-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Envasadora-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Envasadora-api/internal/interfaces/http"
	"github.com/jhoicas/Envasadora-api/pkg/config"
	"github.com/jhoicas/Envasadora-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	locationRepo := postgres.NewLocationRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	movementLog := postgres.NewMovementLogRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	appendUC := appledger.NewAppendMovementUseCase(movementLog, txRunner, productRepo, locationRepo)
	balanceUC := appledger.NewBalanceUseCase(movementLog, locationRepo, log.Component("ledger"))
	historyUC := appledger.NewHistoryUseCase(movementLog, locationRepo)

	productUC := usecase.NewProductUseCase(productRepo)
	locationUC := usecase.NewLocationUseCase(locationRepo)
	customerUC := usecase.NewCustomerUseCase(customerRepo)

	pdfGenerator := infrapdf.NewMarotoStockReportGenerator()
	stockReportUC := reports.NewStockReportUseCase(
		movementLog, productRepo, locationRepo, pdfGenerator, cfg.App.PlantName,
	)

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Envasadora API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC:   productUC,
		LocationUC:  locationUC,
		CustomerUC:  customerUC,
		AppendUC:    appendUC,
		BalanceUC:   balanceUC,
		HistoryUC:   historyUC,
		StockReport: stockReportUC,
		AuthUC:      authUC,
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
