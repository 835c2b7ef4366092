package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/product-catalog/config"
	"github.com/example/product-catalog/handlers"
	"github.com/example/product-catalog/logger"
	"github.com/example/product-catalog/middleware"
	"github.com/example/product-catalog/repository"
	"github.com/example/product-catalog/services"
	"github.com/gin-gonic/gin"
	"github.com/urfave/cli/v3"
	"gorm.io/gorm"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	envFlag := &cli.StringFlag{
		Name:  "env",
		Usage: "path to a .env file",
		Value: ".env",
	}

	app := &cli.Command{
		Name:  "product-catalog",
		Usage: "product catalog REST service",
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "run the HTTP server",
				Flags: []cli.Flag{
					envFlag,
					&cli.IntFlag{
						Name:  "port",
						Usage: "HTTP port (overrides HTTP_PORT)",
					},
					&cli.BoolFlag{
						Name:  "migrate",
						Usage: "migrate the schema before serving",
						Value: true,
					},
				},
				Action: serveAction,
			},
			{
				Name:   "migrate",
				Usage:  "create or update the database schema",
				Flags:  []cli.Flag{envFlag},
				Action: migrateAction,
			},
		},
	}

	if err := app.Run(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

func serveAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.Load(cmd.String("env"))
	if err != nil {
		return err
	}
	if port := int(cmd.Int("port")); port > 0 {
		cfg.HTTP.Port = port
	}

	appLogger := logger.New(logger.Config{Level: logger.ParseLevel(cfg.Log.Level), Format: cfg.Log.Format})

	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer closeDB(db, appLogger)

	if cmd.Bool("migrate") {
		if err := repository.Migrate(db); err != nil {
			return err
		}
	}

	repo := repository.NewProductRepository(db)
	auditService := services.NewAuditService(repository.NewAuditRepository(db), appLogger)
	service := services.NewProductService(repo, auditService, appLogger)

	gin.SetMode(cfg.HTTP.Mode)
	r := gin.New()
	r.Use(middleware.RecoveryMiddleware(appLogger))
	r.Use(middleware.LoggingMiddleware(appLogger))

	handlers.RegisterRoutes(r,
		handlers.NewProductHandler(service),
		handlers.NewDocsHandler(handlers.BasePath, repo),
		handlers.NewAuditHandler(auditService),
		middleware.AuthMiddleware(cfg.APIToken),
	)

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		appLogger.Info("http server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	appLogger.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func migrateAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.Load(cmd.String("env"))
	if err != nil {
		return err
	}
	appLogger := logger.New(logger.Config{Level: logger.ParseLevel(cfg.Log.Level), Format: cfg.Log.Format})

	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer closeDB(db, appLogger)

	if err := repository.Migrate(db.WithContext(ctx)); err != nil {
		return err
	}
	appLogger.Info("schema migrated", "database", cfg.Database.DBName)
	return nil
}

func openDB(cfg *config.Config) (*gorm.DB, error) {
	return repository.Open(cfg.Database.DSN(), repository.Options{
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: 30 * time.Minute,
	})
}

func closeDB(db *gorm.DB, appLogger *slog.Logger) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		appLogger.Error("close database", "error", err)
	}
}
