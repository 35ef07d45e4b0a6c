package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pratik-mahalle/cloudlens/internal/api/handlers"
	"github.com/pratik-mahalle/cloudlens/internal/api/router"
	"github.com/pratik-mahalle/cloudlens/internal/pkg/validator"
	"github.com/pratik-mahalle/cloudlens/internal/repository/postgres"
	"github.com/pratik-mahalle/cloudlens/internal/services"
	"github.com/pratik-mahalle/cloudlens/internal/worker"
	"github.com/pratik-mahalle/cloudlens/migrations"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if v := viper.GetInt("port"); v != 0 {
				cfg.Server.Port = v
			}
			if viper.GetBool("sweep") {
				cfg.Sweep.Enabled = true
			}

			log := newLogger(cfg)

			db, err := openDB(cfg)
			if err != nil {
				return fmt.Errorf("connect to database: %w", err)
			}
			defer db.Close()

			if err := postgres.RunMigrations(db, migrations.GetFS()); err != nil {
				return fmt.Errorf("run migrations: %w", err)
			}

			userRepo := postgres.NewUserRepository(db)
			providerRepo := postgres.NewProviderRepository(db)
			metricRepo := postgres.NewMetricRepository(db)
			alertRepo := postgres.NewAlertRepository(db)

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

			var sweeper *worker.Sweeper
			if cfg.Sweep.Enabled {
				sweeper = worker.NewSweeper(userRepo, metricRepo, alertRepo, cfg.Sweep.Schedule, log)
				if err := sweeper.Start(); err != nil {
					return fmt.Errorf("start threshold sweep: %w", err)
				}
			}

			srv := &http.Server{
				Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
				Handler:      router.New(cfg, log, h),
				ReadTimeout:  cfg.Server.ReadTimeout,
				WriteTimeout: cfg.Server.WriteTimeout,
			}

			errCh := make(chan error, 1)
			go func() {
				log.WithFields(map[string]interface{}{
					"addr":   srv.Addr,
					"driver": cfg.Database.Driver,
				}).Info("Server starting")
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- err
				}
			}()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

			select {
			case err := <-errCh:
				return err
			case <-quit:
			}

			log.Info("Shutting down server")
			if sweeper != nil {
				sweeper.Stop()
			}

			ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()
			return srv.Shutdown(ctx)
		},
	}

	cmd.Flags().Int("port", 0, "listen port (overrides SERVER_PORT)")
	cmd.Flags().Bool("sweep", false, "enable the threshold sweep worker")
	_ = viper.BindPFlag("port", cmd.Flags().Lookup("port"))
	_ = viper.BindPFlag("sweep", cmd.Flags().Lookup("sweep"))

	return cmd
}
