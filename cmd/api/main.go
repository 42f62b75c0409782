package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	_ "github.com/jhoicas/Cotiza-api/docs"
	appanalytics "github.com/jhoicas/Cotiza-api/internal/application/analytics"
	"github.com/jhoicas/Cotiza-api/internal/application/auth"
	"github.com/jhoicas/Cotiza-api/internal/application/usecase"
	"github.com/jhoicas/Cotiza-api/internal/application/workflow"
	infraotel "github.com/jhoicas/Cotiza-api/internal/infrastructure/otel"
	infrapdf "github.com/jhoicas/Cotiza-api/internal/infrastructure/pdf"
	infraredis "github.com/jhoicas/Cotiza-api/internal/infrastructure/redis"
	httpRouter "github.com/jhoicas/Cotiza-api/internal/interfaces/http"
	"github.com/jhoicas/Cotiza-api/pkg/config"
	"github.com/jhoicas/Cotiza-api/pkg/logger"
)

// @title          Cotiza API
// @version        1.0
// @description    Solicitudes de cotización (RFQ), cotizaciones y órdenes de compra entre compradores y proveedores.
// @BasePath       /
// @securityDefinitions.apikey Bearer
// @in             header
// @name           Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("db_driver", cfg.DB.Driver).
		Msg("iniciando aplicación")

	// run devuelve tras ejecutar sus defers; el proceso sale una sola vez aquí
	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("arranque fallido")
	}
	log.Info().Msg("aplicación detenida")
}

// run arma las dependencias, sirve HTTP hasta SIGINT/SIGTERM y libera recursos al volver.
func run(cfg *config.Config, log *logger.Logger) error {
	ctx := context.Background()

	shutdownTracing, err := infraotel.Setup(ctx, cfg.App.Name, cfg.OTel)
	if err != nil {
		return fmt.Errorf("inicializar OpenTelemetry: %w", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Error().Err(err).Msg("apagado de OpenTelemetry")
		}
	}()

	repos, closeStorage, err := openStorage(ctx, cfg.DB, log)
	if err != nil {
		return fmt.Errorf("inicializar persistencia: %w", err)
	}
	defer closeStorage()

	authOpts := []auth.Option{auth.WithLogger(log)}
	if cfg.Redis.Enabled() {
		rdb, err := infraredis.NewClient(ctx, cfg.Redis)
		if err != nil {
			return fmt.Errorf("conexión a Redis %s: %w", cfg.Redis.Addr, err)
		}
		defer rdb.Close()
		throttle := infraredis.NewLoginThrottle(rdb, cfg.Login.MaxFailures, time.Duration(cfg.Login.LockoutMinutes)*time.Minute)
		authOpts = append(authOpts, auth.WithThrottle(throttle))
		log.Info().Int("max_failures", cfg.Login.MaxFailures).Msg("bloqueo de login activo")
	} else {
		log.Warn().Msg("REDIS_ADDR vacío: bloqueo por intentos fallidos desactivado")
	}

	authUC, err := auth.NewAuthUseCase(repos.users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, authOpts...)
	if err != nil {
		return fmt.Errorf("inicializar auth: %w", err)
	}

	// PDF: orden de compra imprimible
	workflowUC := workflow.NewWorkflowUseCase(
		repos.txRunner, repos.users, repos.products,
		repos.rfqs, repos.quotes, repos.orders,
		infrapdf.NewMarotoPDFGenerator(), log,
	)
	productUC := usecase.NewProductUseCase(repos.products, repos.categories)
	categoryUC := usecase.NewCategoryUseCase(repos.categories)
	userUC := usecase.NewUserUseCase(repos.users, log)
	dashboardUC := appanalytics.NewDashboardUseCase(repos.stats, repos.rfqs, repos.orders, repos.products)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler,
	})
	app.Use(httpRouter.RequestLogger(log))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.HTTP.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Cotiza API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		ServiceName: cfg.App.Name,
		AuthUC:      authUC,
		WorkflowUC:  workflowUC,
		ProductUC:   productUC,
		CategoryUC:  categoryUC,
		UserUC:      userUC,
		DashboardUC: dashboardUC,
	})

	listenErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.HTTP.Addr()).Msg("servidor HTTP escuchando")
		listenErr <- app.Listen(cfg.HTTP.Addr())
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-listenErr:
		if err != nil {
			return fmt.Errorf("servidor HTTP: %w", err)
		}
		return nil
	case <-quit:
	}

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	return nil
}
