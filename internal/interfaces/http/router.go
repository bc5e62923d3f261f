package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/almacen-ti/internal/application/auth"
	"github.com/tu-usuario/almacen-ti/internal/application/issue"
	"github.com/tu-usuario/almacen-ti/internal/application/stock"
	"github.com/tu-usuario/almacen-ti/internal/application/usecase"
	"github.com/tu-usuario/almacen-ti/internal/domain/entity"
	"github.com/tu-usuario/almacen-ti/internal/domain/repository"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.UseCase
	UserUC       *usecase.UserUseCase
	DepartmentUC *usecase.DepartmentUseCase
	LocationUC   *usecase.LocationUseCase
	ItemUC       *usecase.ItemUseCase
	EmployeeUC   *usecase.EmployeeUseCase
	DashboardUC  *usecase.DashboardUseCase
	StockUC      *stock.UseCase
	IssueUC      *issue.UseCase
	UserRepo     repository.UserRepository
	JWTSecret    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas: token válido + usuario activo cargado
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret), ActorMiddleware(deps.UserRepo))

	protected.Get("/auth/me", authHandler.Me)

	// Users (solo superadmin)
	users := protected.Group("/users", RequireRole(entity.RoleSuperadmin))
	userHandler := NewUserHandler(deps.UserUC)
	users.Post("/", userHandler.Create)
	users.Get("/", userHandler.List)
	users.Get("/:id", userHandler.GetByID)
	users.Put("/:id", userHandler.Update)
	users.Delete("/:id", userHandler.Deactivate)

	// Departments (lectura para todos; escritura para roles elevados)
	departments := protected.Group("/departments")
	departmentHandler := NewDepartmentHandler(deps.DepartmentUC)
	departments.Get("/", departmentHandler.List)
	departments.Get("/:id", departmentHandler.GetByID)
	departments.Post("/", RequireRole(entity.RoleSuperadmin, entity.RoleManager), departmentHandler.Create)
	departments.Put("/:id", RequireRole(entity.RoleSuperadmin, entity.RoleManager), departmentHandler.Update)

	// Locations
	locations := protected.Group("/locations")
	locationHandler := NewLocationHandler(deps.LocationUC)
	locations.Get("/", locationHandler.List)
	locations.Get("/:id", locationHandler.GetByID)
	locations.Post("/", RequireRole(entity.RoleSuperadmin, entity.RoleManager), locationHandler.Create)
	locations.Put("/:id", RequireRole(entity.RoleSuperadmin, entity.RoleManager), locationHandler.Update)

	// Items
	items := protected.Group("/items")
	itemHandler := NewItemHandler(deps.ItemUC)
	items.Get("/", itemHandler.List)
	items.Get("/:id", itemHandler.GetByID)
	items.Post("/", RequireRole(entity.RoleSuperadmin, entity.RoleManager), itemHandler.Create)
	items.Put("/:id", RequireRole(entity.RoleSuperadmin, entity.RoleManager), itemHandler.Update)

	// Employees (roles elevados y hod; el alcance fino vive en el caso de uso)
	employees := protected.Group("/employees", RequireRole(entity.RoleSuperadmin, entity.RoleManager, entity.RoleHOD))
	employeeHandler := NewEmployeeHandler(deps.EmployeeUC)
	employees.Get("/", employeeHandler.List)
	employees.Get("/:id", employeeHandler.GetByID)
	employees.Post("/", employeeHandler.Create)
	employees.Put("/:id", employeeHandler.Update)
	employees.Delete("/:id", employeeHandler.Delete)

	// Stock
	stockGroup := protected.Group("/stock")
	stockHandler := NewStockHandler(deps.StockUC)
	stockGroup.Post("/entries", RequireRole(entity.RoleSuperadmin, entity.RoleManager), stockHandler.CreateEntry)
	stockGroup.Get("/entries", RequireRole(entity.RoleSuperadmin, entity.RoleManager), stockHandler.ListEntries)
	stockGroup.Get("/balances", stockHandler.ListBalances)
	stockGroup.Get("/balances/export", RequireRole(entity.RoleSuperadmin, entity.RoleManager), stockHandler.ExportBalances)
	stockGroup.Get("/low", stockHandler.LowStock)

	// Solicitudes de salida
	requests := protected.Group("/requests")
	issueHandler := NewIssueHandler(deps.IssueUC)
	requests.Post("/", issueHandler.Create)
	requests.Get("/", issueHandler.List)
	requests.Get("/:id", issueHandler.Get)
	requests.Delete("/:id", issueHandler.Delete)
	requests.Post("/:id/lines", issueHandler.AddLine)
	requests.Put("/:id/lines/:lineId", issueHandler.UpdateLine)
	requests.Delete("/:id/lines/:lineId", issueHandler.RemoveLine)
	requests.Post("/:id/submit", issueHandler.Submit)
	requests.Post("/:id/approve", RequireRole(entity.RoleSuperadmin, entity.RoleHOD), issueHandler.Approve)
	requests.Post("/:id/reject", RequireRole(entity.RoleSuperadmin, entity.RoleHOD), issueHandler.Reject)
	requests.Post("/:id/issue", RequireRole(entity.RoleSuperadmin, entity.RoleManager), issueHandler.Issue)
	requests.Get("/:id/note.pdf", issueHandler.NotePDF)

	// Dashboard + auditoría
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	protected.Get("/dashboard", dashboardHandler.Summary)
	protected.Get("/audit", RequireRole(entity.RoleSuperadmin, entity.RoleManager), dashboardHandler.AuditTrail)
}
