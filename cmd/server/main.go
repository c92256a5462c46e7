package main

import (
	"net/http"

	"github.com/labstack/echo/v4"

	_ "staffhub/docs" // swagger docs

	"staffhub/internal/auth"
	"staffhub/internal/cache"
	"staffhub/internal/config"
	"staffhub/internal/db"
	"staffhub/internal/handler"
	"staffhub/internal/logger"
	"staffhub/internal/model"
	"staffhub/internal/repository"
	"staffhub/internal/router"
	"staffhub/internal/service"
)

// @title Staffhub API
// @version 1.0
// @description Employee directory API with JWT authentication and role-gated user administration.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("database init")
	}

	if err := gormDB.AutoMigrate(&model.User{}, &model.Employee{}); err != nil {
		log.Fatal().Err(err).Msg("auto-migrate")
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	pages := service.PageDefaults{
		DefaultLimit: cfg.PageLimitDefault,
		MaxLimit:     cfg.PageLimitMax,
	}

	// Repositories
	userRepo := repository.NewUserRepository(gormDB)
	employeeRepo := repository.NewEmployeeRepository(gormDB)

	// Services
	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.TokenTTL())
	authService := service.NewAuthService(userRepo, jwtService, cfg.PasswordMinLength)
	userService := service.NewUserService(userRepo, pages, cfg.PasswordMinLength)
	employeeService := service.NewEmployeeService(employeeRepo, cacheClient, pages)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	employeeHandler := handler.NewEmployeeHandler(employeeService)
	healthHandler := handler.NewHealthHandler()

	e := echo.New()
	router.Register(e, cfg, log, jwtService, authService,
		authHandler, userHandler, employeeHandler, healthHandler)

	addr := ":" + cfg.ServerPort
	log.Info().Str("addr", addr).Msg("starting server")
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("server start")
	}
}
