package routes

import (
	"editortrack/internal/adapters/http/handlers"
	"editortrack/internal/adapters/http/middleware"
	"editortrack/internal/adapters/persistence/repositories"
	"editortrack/internal/config"
	"editortrack/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, rdb *redis.Client, cfg *config.Config, maintenance *services.MaintenanceService) {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	entryRepo := repositories.NewEntryRepository(db)
	teamRepo := repositories.NewTeamRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo, refreshTokenRepo, cfg)
	userService := services.NewUserService(userRepo)
	entryService := services.NewEntryService(entryRepo)
	teamService := services.NewTeamService(teamRepo, userRepo, entryRepo)
	reportService := services.NewReportService(entryRepo)
	importService := services.NewImportService(userRepo, entryService)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService, cfg)
	userHandler := handlers.NewUserHandler(userService, authService)
	entryHandler := handlers.NewEntryHandler(entryService)
	teamHandler := handlers.NewTeamHandler(teamService)
	reportHandler := handlers.NewReportHandler(reportService)
	importHandler := handlers.NewImportHandler(importService, maintenance)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	apiV1.Get("/", healthHandler.APIInfo)

	// Auth routes (public, rate-limited)
	authRoutes := apiV1.Group("/auth")
	setupAuthRoutes(authRoutes, authHandler, cfg)

	// User management routes (Admin only)
	userRoutes := apiV1.Group("/users")
	userRoutes.Use(middleware.AuthMiddleware(cfg))
	userRoutes.Use(middleware.AdminOnly())
	setupUserRoutes(userRoutes, userHandler)

	// Profile routes (Authenticated users)
	profileRoutes := apiV1.Group("/profile")
	profileRoutes.Use(middleware.AuthMiddleware(cfg))
	setupProfileRoutes(profileRoutes, userHandler)

	// Entry routes (Authenticated users)
	entryRoutes := apiV1.Group("/entries")
	entryRoutes.Use(middleware.AuthMiddleware(cfg))
	setupEntryRoutes(entryRoutes, entryHandler)

	// Team routes (Authenticated users; service enforces manage rights)
	teamRoutes := apiV1.Group("/teams")
	teamRoutes.Use(middleware.AuthMiddleware(cfg))
	setupTeamRoutes(teamRoutes, teamHandler)

	// Report routes (Authenticated users, Redis-cached when available)
	reportRoutes := apiV1.Group("/reports")
	reportRoutes.Use(middleware.AuthMiddleware(cfg))
	setupReportRoutes(reportRoutes, reportHandler, rdb, cfg)

	// Admin import & migration routes (Admin only, strictly rate-limited)
	adminRoutes := apiV1.Group("/admin")
	adminRoutes.Use(middleware.AuthMiddleware(cfg))
	adminRoutes.Use(middleware.AdminOnly())
	setupAdminRoutes(adminRoutes, importHandler)
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler, cfg *config.Config) {
	// Public routes
	router.Post("/signup", middleware.AuthRateLimiter(), handler.Signup)
	router.Post("/login", middleware.AuthRateLimiter(), handler.Login)
	router.Post("/refresh", middleware.AuthRateLimiter(), handler.Refresh)
	router.Post("/logout", handler.Logout)

	// Protected routes
	router.Get("/me", middleware.AuthMiddleware(cfg), handler.Me)
	router.Post("/logout-all", middleware.AuthMiddleware(cfg), handler.LogoutAll)
}

// setupUserRoutes configures user management routes (Admin only)
func setupUserRoutes(router fiber.Router, handler *handlers.UserHandler) {
	router.Get("/", handler.List)
	router.Get("/:id", handler.Get)
	router.Put("/:id", handler.Update)
	router.Delete("/:id", handler.Deactivate)
	router.Put("/:id/role", handler.SetRole)
}

// setupProfileRoutes configures profile routes (Authenticated)
func setupProfileRoutes(router fiber.Router, handler *handlers.UserHandler) {
	router.Get("/", handler.GetProfile)
	router.Put("/", handler.UpdateProfile)
	router.Put("/password", handler.ChangePassword)
}

// setupEntryRoutes configures daily entry routes
func setupEntryRoutes(router fiber.Router, handler *handlers.EntryHandler) {
	router.Get("/", handler.List)
	router.Post("/", handler.Create)
	router.Post("/bulk", handler.BulkCreate)
	router.Get("/:id", handler.Get)
	router.Put("/:id", handler.Update)
	router.Delete("/:id", handler.Delete)
}

// setupTeamRoutes configures team routes. Membership changes are gated
// at the route level; the service re-checks against the stored role.
func setupTeamRoutes(router fiber.Router, handler *handlers.TeamHandler) {
	router.Get("/me", handler.GetMyTeam)
	router.Put("/goals", handler.UpdateGoals)
	router.Post("/members", middleware.ManagerOrAdmin(), handler.AddMember)
	router.Delete("/members/:id", middleware.ManagerOrAdmin(), handler.RemoveMember)
}

// setupReportRoutes configures analytics, leaderboard and export routes
func setupReportRoutes(router fiber.Router, handler *handlers.ReportHandler, rdb *redis.Client, cfg *config.Config) {
	cached := middleware.ReportCache(rdb, cfg.Redis.CacheTTL)

	router.Get("/analytics", cached, handler.Analytics)
	router.Get("/leaderboard", cached, handler.Leaderboard)

	// Exports are downloads; never serve them stale
	router.Get("/export", middleware.NoCacheHeaders(), handler.Export)
}

// setupAdminRoutes configures bulk import and migration routes
func setupAdminRoutes(router fiber.Router, handler *handlers.ImportHandler) {
	router.Post("/import/users", middleware.StrictRateLimiter(), handler.ImportUsers)
	router.Post("/import/entries", middleware.StrictRateLimiter(), handler.ImportEntries)
	router.Post("/migrate", middleware.StrictRateLimiter(), handler.Migrate)
}
