// File: app/app.go
package app

import (
	"auth-service/config"
	"auth-service/db"
	"auth-service/handler"
	"auth-service/logger"
	"auth-service/repository"
	"auth-service/router"
	"auth-service/service"
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// Build wires repositories, services and handlers into the HTTP router.
// cache may be nil, in which case refresh-token lookups always hit Postgres.
func Build(database *sql.DB, cache service.ICacheClient, keys *service.KeyProvider, cfg config.Config) http.Handler {
	userRepo := repository.NewUserRepository(database)
	tokenRepo := repository.NewTokenRepository(database)

	tokens := service.NewTokenService(keys, cfg.JWT.Issuer)
	store := service.NewRefreshTokenStore(tokenRepo, cache)
	authService := service.NewAuthService(userRepo, service.NewPasswordHasher(service.DefaultPasswordCost), tokens, store)

	cookies := handler.CookieConfig{Domain: cfg.Cookie.Domain, Secure: cfg.Cookie.Secure}
	authHandler := handler.NewAuthHandler(authService, cookies)
	userHandler := handler.NewUserHandler(authService)

	return router.NewRouter(authHandler, userHandler, tokens)
}

func Run() {
	config.LoadConfig(".")
	cfg := config.AppConfig
	logger.Init(cfg.Log.Level)
	logger.Log.Info("Configuration loaded successfully")

	database, err := db.Connect(cfg)
	if err != nil {
		logger.Log.Fatalf("Error connecting to the database: %v", err)
	}
	defer database.Close()

	if cfg.Database.AutoMigrate {
		if err := db.RunMigrations(database, cfg.Database.MigrationsPath); err != nil {
			logger.Log.Fatalf("Error running migrations: %v", err)
		}
	}

	var cache service.ICacheClient
	if cfg.Redis.Enabled {
		pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
		rdb, err := db.ConnectRedis(pingCtx, cfg)
		cancelPing()
		if err != nil {
			logger.Log.Fatalf("Error connecting to redis: %v", err)
		}
		defer rdb.Close()
		cache = rdb
	}

	keys, err := service.LoadKeyProvider(cfg.JWT.PrivateKeyPath)
	if err != nil {
		logger.Log.Fatalf("Error loading signing key: %v", err)
	}

	r := Build(database, cache, keys, cfg)

	port := cfg.Server.Port
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Log.Infof("Server starting on port :%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Warn("Shutdown signal received. Starting graceful shutdown...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Log.Info("Server exited properly")
}
