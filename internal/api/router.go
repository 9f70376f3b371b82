package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/stocktrack/inventory-api/docs"
	"github.com/stocktrack/inventory-api/internal/api/handler"
	"github.com/stocktrack/inventory-api/internal/api/middleware"
	"github.com/stocktrack/inventory-api/internal/core/domain"
	"github.com/stocktrack/inventory-api/internal/core/ports"
)

// Deps carries the wired services the router needs.
type Deps struct {
	Auth      ports.AuthService
	Materials ports.MaterialService
	Verifier  middleware.TokenVerifier
	Mongo     *mongo.Database
	Redis     *redis.Client
	Log       zerolog.Logger
}

// NewRouter builds the Echo instance with all routes registered.
//
// The per-route authorization policy table lives here, on purpose, in one
// place. Two styles coexist and must not be unified: admin and destructive
// routes use the hierarchical RequireRank check, generic protected routes
// use set-membership RequireRoles.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("inventory"))

	authed := middleware.Auth(d.Verifier, d.Log)

	authHandler := handler.NewAuthHandler(d.Auth)
	materialHandler := handler.NewMaterialHandler(d.Materials)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.GET("/auth/me", authHandler.Me, authed)
	e.POST("/auth/change-password", authHandler.ChangePassword, authed)
	e.POST("/auth/refresh-token", authHandler.RefreshToken, authed)
	// Admin provisioning: hierarchical check, admin only.
	e.POST("/auth/admin/create-user", authHandler.CreateUser, authed,
		middleware.RequireRank(domain.RoleAdmin))

	// --- Materials: set-membership policies per route ---
	e.GET("/materials", materialHandler.List, authed,
		middleware.RequireRoles(domain.RoleUser, domain.RoleSupport, domain.RoleManager, domain.RoleAdmin))
	e.GET("/materials/:id", materialHandler.Get, authed,
		middleware.RequireRoles(domain.RoleUser, domain.RoleSupport, domain.RoleManager, domain.RoleAdmin))
	e.POST("/materials", materialHandler.Create, authed,
		middleware.RequireRoles(domain.RoleManager, domain.RoleAdmin))
	e.PUT("/materials/:id", materialHandler.Update, authed,
		middleware.RequireRoles(domain.RoleManager, domain.RoleAdmin))
	// Destructive: hierarchical check, admin only.
	e.DELETE("/materials/:id", materialHandler.Delete, authed,
		middleware.RequireRank(domain.RoleAdmin))

	// --- Operational endpoints ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(d.Mongo, d.Redis)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
