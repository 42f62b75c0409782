package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/Cotiza-api/internal/application/analytics"
	"github.com/jhoicas/Cotiza-api/internal/application/auth"
	"github.com/jhoicas/Cotiza-api/internal/application/dto"
	"github.com/jhoicas/Cotiza-api/internal/application/usecase"
	"github.com/jhoicas/Cotiza-api/internal/application/workflow"
	"github.com/jhoicas/Cotiza-api/internal/domain/access"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ServiceName string
	AuthUC      *auth.AuthUseCase
	WorkflowUC  *workflow.WorkflowUseCase
	ProductUC   *usecase.ProductUseCase
	CategoryUC  *usecase.CategoryUseCase
	UserUC      *usecase.UserUseCase
	DashboardUC *appanalytics.DashboardUseCase
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(dto.HealthResponse{
			Status:    "ok",
			Service:   deps.ServiceName,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
	})

	api := app.Group("/api")
	authMW := AuthMiddleware(deps.AuthUC)

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/register", authHandler.Register)
	api.Post("/login", authHandler.Login)
	api.Get("/me", authMW, authHandler.Me)

	userHandler := NewUserHandler(deps.UserUC, deps.AuthUC)
	api.Post("/me/password", authMW, userHandler.ChangePassword)
	api.Get("/users/:id", authMW, RequireOperation(access.OpManageUsers), userHandler.GetByID)
	api.Patch("/users/:id/status", authMW, RequireOperation(access.OpManageUsers), userHandler.SetStatus)

	// Catálogo: lectura pública, escritura protegida
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	api.Get("/categories", categoryHandler.List)
	api.Post("/categories", authMW, RequireOperation(access.OpCreateCategory), categoryHandler.Create)

	productHandler := NewProductHandler(deps.ProductUC)
	api.Get("/products", productHandler.List)
	api.Get("/products/:id", productHandler.GetByID)
	api.Post("/products", authMW, RequireOperation(access.OpCreateProduct), productHandler.Create)
	api.Get("/my-products", authMW, RequireOperation(access.OpListMyProducts), productHandler.ListMine)

	// Flujo RFQ → Quote → Order (requieren Bearer Token)
	rfqHandler := NewRFQHandler(deps.WorkflowUC)
	api.Post("/rfqs", authMW, RequireOperation(access.OpCreateRFQ), rfqHandler.Create)
	api.Get("/rfqs", authMW, rfqHandler.List)
	api.Get("/rfqs/:id", authMW, rfqHandler.GetByID)

	quoteHandler := NewQuoteHandler(deps.WorkflowUC)
	api.Post("/quotes", authMW, RequireOperation(access.OpSubmitQuote), quoteHandler.Submit)
	api.Get("/quotes/:rfqId", authMW, quoteHandler.ListByRFQ)

	orderHandler := NewOrderHandler(deps.WorkflowUC)
	api.Post("/orders", authMW, RequireOperation(access.OpCreateOrder), orderHandler.Create)
	api.Get("/orders", authMW, orderHandler.List)
	api.Get("/orders/:id", authMW, orderHandler.GetByID)
	api.Get("/orders/:id/pdf", authMW, orderHandler.DownloadPDF)

	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	api.Get("/dashboard/stats", authMW, dashboardHandler.GetStats)
}
