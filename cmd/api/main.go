package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/pratik-mahalle/cloudlens/internal/api/handlers"
	"github.com/pratik-mahalle/cloudlens/internal/api/router"
	"github.com/pratik-mahalle/cloudlens/internal/config"
	"github.com/pratik-mahalle/cloudlens/internal/pkg/logger"
	"github.com/pratik-mahalle/cloudlens/internal/pkg/validator"
	"github.com/pratik-mahalle/cloudlens/internal/repository/postgres"
	"github.com/pratik-mahalle/cloudlens/internal/services"
	"github.com/pratik-mahalle/cloudlens/internal/worker"
	"github.com/pratik-mahalle/cloudlens/migrations"
)

// @title CloudLens API
// @version 1.0
// @description Multi-cloud monitoring dashboard backend
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})

	db, err := postgres.New(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := postgres.RunMigrations(db, migrations.GetFS()); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	providerRepo := postgres.NewProviderRepository(db)
	metricRepo := postgres.NewMetricRepository(db)
	alertRepo := postgres.NewAlertRepository(db)

	// Services
	userSvc := services.NewUserService(userRepo, providerRepo, metricRepo, alertRepo, cfg.Auth, log)
	metricSvc := services.NewMetricService(metricRepo, alertRepo, log)
	seedSvc := services.NewSeedService(metricRepo, log)
	alertSvc := services.NewAlertService(alertRepo, log)

	val := validator.New()

	h := &router.Handlers{
		Health:  handlers.NewHealthHandler(db, log),
		Auth:    handlers.NewAuthHandler(userSvc, cfg, log, val),
		Metrics: handlers.NewMetricsHandler(metricSvc, seedSvc, log),
		Users:   handlers.NewUsersHandler(userSvc, log, val),
		Alerts:  handlers.NewAlertsHandler(alertSvc, log, val),
	}

	// Optional threshold sweep
	var sweeper *worker.Sweeper
	if cfg.Sweep.Enabled {
		sweeper = worker.NewSweeper(userRepo, metricRepo, alertRepo, cfg.Sweep.Schedule, log)
		if err := sweeper.Start(); err != nil {
			log.Fatalf("Failed to start threshold sweep: %v", err)
		}
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.New(cfg, log, h),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.WithFields(map[string]interface{}{
			"addr":        srv.Addr,
			"environment": cfg.Server.Environment,
			"driver":      cfg.Database.Driver,
		}).Info("Server starting")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")

	if sweeper != nil {
		sweeper.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Forced shutdown: %v", err)
	}

	log.Info("Server stopped")
}
