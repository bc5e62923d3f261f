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

	"github.com/tu-usuario/almacen-ti/internal/application/auth"
	"github.com/tu-usuario/almacen-ti/internal/application/issue"
	"github.com/tu-usuario/almacen-ti/internal/application/stock"
	"github.com/tu-usuario/almacen-ti/internal/application/usecase"
	infraexcel "github.com/tu-usuario/almacen-ti/internal/infrastructure/excel"
	infrapdf "github.com/tu-usuario/almacen-ti/internal/infrastructure/pdf"
	"github.com/tu-usuario/almacen-ti/internal/infrastructure/postgres"
	httpRouter "github.com/tu-usuario/almacen-ti/internal/interfaces/http"
	"github.com/tu-usuario/almacen-ti/pkg/config"
	"github.com/tu-usuario/almacen-ti/pkg/logger"
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

	if err := postgres.Migrate(cfg.DB.ConnectionString()); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}
	log.Info().Msg("migraciones aplicadas")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	deptRepo := postgres.NewDepartmentRepository(pool)
	locationRepo := postgres.NewLocationRepository(pool)
	itemRepo := postgres.NewItemRepository(pool)
	employeeRepo := postgres.NewEmployeeRepository(pool)
	stockRepo := postgres.NewStockRepository(pool)
	entryRepo := postgres.NewStockEntryRepository(pool)
	requestRepo := postgres.NewIssueRequestRepository(pool)
	auditRepo := postgres.NewAuditRepository(pool)
	dashRepo := postgres.NewDashboardRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	balanceExporter := infraexcel.NewBalanceExporter()
	noteGenerator := infrapdf.NewMarotoNoteGenerator(cfg.App.Name)

	authUC := auth.NewUseCase(userRepo, cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Expiration)
	userUC := usecase.NewUserUseCase(txRunner, userRepo, deptRepo, locationRepo)
	departmentUC := usecase.NewDepartmentUseCase(txRunner, deptRepo, userRepo)
	locationUC := usecase.NewLocationUseCase(txRunner, locationRepo)
	itemUC := usecase.NewItemUseCase(txRunner, itemRepo)
	employeeUC := usecase.NewEmployeeUseCase(txRunner, employeeRepo, deptRepo, userRepo)
	dashboardUC := usecase.NewDashboardUseCase(dashRepo, auditRepo)
	stockUC := stock.NewUseCase(txRunner, itemRepo, locationRepo, stockRepo, entryRepo, balanceExporter)
	issueUC := issue.NewUseCase(txRunner, requestRepo, itemRepo, locationRepo, deptRepo, noteGenerator)

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
		Title:    "Almacén TI API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	if cfg.Metrics.Enabled {
		httpRouter.RegisterMetrics(app)
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:       authUC,
		UserUC:       userUC,
		DepartmentUC: departmentUC,
		LocationUC:   locationUC,
		ItemUC:       itemUC,
		EmployeeUC:   employeeUC,
		DashboardUC:  dashboardUC,
		StockUC:      stockUC,
		IssueUC:      issueUC,
		UserRepo:     userRepo,
		JWTSecret:    cfg.JWT.Secret,
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
