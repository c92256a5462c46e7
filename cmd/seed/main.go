// Command seed creates the initial superuser. Run it once against a fresh
// database; it is a no-op when the username already exists.
package main

import (
	"context"
	"os"

	"gorm.io/gorm"

	"staffhub/internal/auth"
	"staffhub/internal/config"
	"staffhub/internal/db"
	"staffhub/internal/logger"
	"staffhub/internal/model"
	"staffhub/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true})

	username := getEnv("ADMIN_USERNAME", "admin")
	email := getEnv("ADMIN_EMAIL", "admin@example.com")
	password := getEnv("ADMIN_PASSWORD", "Admin123!")
	fullName := getEnv("ADMIN_FULL_NAME", "System Administrator")

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("database init")
	}
	if err := gormDB.AutoMigrate(&model.User{}, &model.Employee{}); err != nil {
		log.Fatal().Err(err).Msg("auto-migrate")
	}

	ctx := context.Background()
	userRepo := repository.NewUserRepository(gormDB)

	if _, err := userRepo.FindByUsername(ctx, username); err == nil {
		log.Info().Str("username", username).Msg("admin user already exists")
		return
	} else if err != gorm.ErrRecordNotFound {
		log.Fatal().Err(err).Msg("check admin user")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		log.Fatal().Err(err).Msg("hash password")
	}

	admin := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		FullName:     &fullName,
		IsActive:     true,
		IsSuperuser:  true,
	}
	if err := userRepo.Create(ctx, admin); err != nil {
		log.Fatal().Err(err).Msg("create admin user")
	}

	log.Info().
		Str("username", username).
		Str("email", email).
		Msg("admin user created, change the password after first login")
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
