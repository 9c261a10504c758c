package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/openshelf/library-system/docs"
	"github.com/openshelf/library-system/internal/api/handler"
	"github.com/openshelf/library-system/internal/api/middleware"
	"github.com/openshelf/library-system/internal/core/domain"
	"github.com/openshelf/library-system/internal/core/ports"
)

// Deps carries the wired services and clients the router mounts. Services
// are constructed once in main so the background accrual runner shares them.
type Deps struct {
	Auth      ports.AuthService
	Catalog   ports.CatalogService
	Borrowing ports.BorrowingService
	Dashboard ports.DashboardService

	Mongo     *mongo.Database
	Redis     *redis.Client
	JWTSecret string
	Logger    zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("library"))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(d.Auth)
	bookHandler := handler.NewBookHandler(d.Catalog)
	borrowingHandler := handler.NewBorrowingHandler(d.Borrowing)
	dashboardHandler := handler.NewDashboardHandler(d.Dashboard)

	authMW := middleware.Auth(d.JWTSecret)
	librarianOnly := middleware.RBAC(domain.RoleLibrarian)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Catalog routes ---
	books := e.Group("/v1/books", authMW)
	books.GET("", bookHandler.List)
	books.POST("", bookHandler.Create, librarianOnly)
	books.PUT("/:id", bookHandler.Update, librarianOnly)
	books.DELETE("/:id", bookHandler.Delete, librarianOnly)

	// --- Borrowing routes ---
	borrowings := e.Group("/v1/borrowings", authMW)
	borrowings.POST("", borrowingHandler.Borrow)
	borrowings.GET("", borrowingHandler.List)
	borrowings.POST("/refresh", borrowingHandler.Refresh)
	borrowings.POST("/:id/return", borrowingHandler.Return)

	// --- Dashboard ---
	e.GET("/v1/dashboard", dashboardHandler.Summary, authMW)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(d.Mongo, d.Redis)

	e.GET("/health", healthHandler.Liveness)            // liveness: is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness: are dependencies up?

	// --- Observability and docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
