package router

import (
	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"staffhub/docs"
	"staffhub/internal/auth"
	"staffhub/internal/config"
	"staffhub/internal/handler"
	"staffhub/internal/middleware"
	"staffhub/internal/service"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	log zerolog.Logger,
	jwtService *auth.JWTService,
	authService service.AuthService,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	employeeHandler *handler.EmployeeHandler,
	healthHandler *handler.HealthHandler,
) {
	e.HideBanner = true
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Recover())

	e.Validator = &CustomValidator{validator: validator.New()}
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	e.GET("/health", healthHandler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	docs.SwaggerInfo.Host = "localhost:" + cfg.ServerPort
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	// Secured routes: bearer token verified by echo-jwt, then the subject
	// is resolved to a live principal before any handler runs.
	secured := api.Group("",
		echojwt.WithConfig(echojwt.Config{
			TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
			ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
				return jwtService.ValidateToken(token)
			},
		}),
		middleware.Principal(authService),
	)

	secured.GET("/auth/me", authHandler.Me)

	// Employee routes: any active authenticated user.
	secured.POST("/employees/", employeeHandler.Create)
	secured.GET("/employees/", employeeHandler.List)
	secured.GET("/employees/:id", employeeHandler.Get)
	secured.PUT("/employees/:id", employeeHandler.Update)
	secured.DELETE("/employees/:id", employeeHandler.Delete)

	// User administration: superusers only.
	admin := secured.Group("/users", middleware.RequireSuperuser())
	admin.GET("/", userHandler.List)
	admin.GET("/:id", userHandler.Get)
	admin.PUT("/:id", userHandler.Update)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
