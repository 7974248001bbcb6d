package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/autoaccessories/pos-gateway/internal/api/handler"
	"github.com/autoaccessories/pos-gateway/internal/api/middleware"
	"github.com/autoaccessories/pos-gateway/internal/core/domain"
	"github.com/autoaccessories/pos-gateway/internal/core/ports"
	"github.com/autoaccessories/pos-gateway/internal/core/rbac"
)

// Deps carries everything the router wires together. The optional database
// handles feed the readiness probe only and may be nil.
type Deps struct {
	Backend  ports.Backend
	Sessions ports.SessionService
	Guard    *rbac.Guard
	Logger   zerolog.Logger
	Mongo    *mongo.Database
	Redis    *redis.Client
}

// area binds one business screen to its backend path prefix and the
// capability mutations require. This is the whole screen-controller layer:
// every area shares the same forwarding handler behind its own RBAC gate.
type area struct {
	prefix    string
	screen    domain.Screen
	mutateCap domain.Capability
}

var areas = []area{
	{"/dashboard", domain.ScreenDashboard, ""},
	{"/pos", domain.ScreenPOS, domain.CapManageSales},
	{"/products", domain.ScreenProducts, domain.CapManageProducts},
	{"/customers", domain.ScreenCustomers, domain.CapManageCustomers},
	{"/sales", domain.ScreenSales, domain.CapManageSales},
	{"/inventory", domain.ScreenInventory, domain.CapManageStock},
	{"/expenses", domain.ScreenExpenses, domain.CapManageExpenses},
	{"/reports", domain.ScreenReports, ""},
	{"/settings", domain.ScreenSettings, domain.CapManageSettings},
	{"/users", domain.ScreenUsers, domain.CapManageUsers},
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("posgate"))

	// --- Session lifecycle ---
	sessionHandler := handler.NewSessionHandler(deps.Sessions)
	e.POST("/session/login", sessionHandler.Login)
	e.POST("/session/unlock", sessionHandler.Unlock)

	authed := e.Group("", middleware.Session(deps.Sessions))
	authed.POST("/session/logout", sessionHandler.Logout)
	authed.GET("/session/me", sessionHandler.Me)

	// --- Business areas, each behind its screen gate ---
	for _, a := range areas {
		proxy := handler.NewProxyHandler(deps.Backend, deps.Guard, a.mutateCap)
		g := e.Group("/api"+a.prefix,
			middleware.Session(deps.Sessions),
			middleware.RequireScreen(deps.Guard, a.screen),
		)
		if a.screen == domain.ScreenReports {
			reports := handler.NewReportHandler(deps.Backend)
			g.GET("/export/*", reports.Export)
		}
		g.Any("", proxy.Forward)
		g.Any("/*", proxy.Forward)
	}

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.Mongo, deps.Redis)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
