package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cropprospector/backend/internal/catalog"
	"github.com/cropprospector/backend/internal/config"
	"github.com/cropprospector/backend/internal/delivery/http"
	"github.com/cropprospector/backend/internal/domain"
	"github.com/cropprospector/backend/internal/repository/postgres"
	"github.com/cropprospector/backend/internal/repository/sqlite"
	"github.com/cropprospector/backend/internal/service"
	"github.com/cropprospector/backend/pkg/logger"
	"github.com/cropprospector/backend/pkg/metrics"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	if err := run(); err != nil {
		log.Fatalf("server: %v", err)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	zlog, err := logger.New(cfg.LogLevel, cfg.Env)
	if err != nil {
		return err
	}
	defer func() { _ = zlog.Sync() }()

	cat, err := loadCatalog(cfg.CatalogPath)
	if err != nil {
		return err
	}
	zlog.Info("catalog loaded",
		zap.String("source", catalogSource(cfg.CatalogPath)),
		zap.Int("soils", len(cat.SoilTypes())),
		zap.Int("regions", len(cat.Regions())),
	)

	// Dependency Injection: Repositories
	repo := openHistory(ctx, cfg.History, zlog)
	defer func() {
		if err := repo.Close(); err != nil {
			zlog.Warn("failed to close history store", zap.Error(err))
		}
	}()

	// Dependency Injection: Services
	m := metrics.NewManager(metrics.WithConstLabels(map[string]string{"env": cfg.Env}))
	advisorySvc := service.NewAdvisoryService(cat, repo, m, zlog,
		service.WithMaxBatchSize(cfg.MaxBatchSize),
		service.WithBatchConcurrency(cfg.BatchConcurrency),
		service.WithHistoryMaxLimit(cfg.History.MaxLimit),
		service.WithSaveTimeout(cfg.History.SaveTimeout),
	)

	// Fiber App
	app := fiber.New(fiber.Config{
		AppName:               "Crop Prospector API v1.0",
		ReadTimeout:           cfg.ReadTimeout,
		WriteTimeout:          cfg.WriteTimeout,
		ErrorHandler:          http.ErrorHandler(zlog),
		DisableStartupMessage: true,
	})
	http.SetupMiddleware(app, m, zlog)
	http.SetupRoutes(app, advisorySvc, m, zlog)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		zlog.Info("server starting", zap.String("addr", cfg.Addr))
		if err := app.Listen(cfg.Addr); err != nil {
			return fmt.Errorf("listen %s: %w", cfg.Addr, err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		zlog.Info("shutting down server")
		if err := app.ShutdownWithTimeout(cfg.ShutdownTimeout); err != nil {
			zlog.Warn("server forced to shutdown", zap.Error(err))
		}
		return nil
	})

	err = g.Wait()
	advisorySvc.WaitBackground()
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	zlog.Info("server exited gracefully")
	return nil
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default(), nil
	}
	return catalog.LoadFile(path)
}

func catalogSource(path string) string {
	if path == "" {
		return "embedded"
	}
	return path
}

// openHistory picks the configured history store. An unreachable PostgreSQL
// degrades to the in-memory store so recommendations keep working.
func openHistory(ctx context.Context, cfg config.HistoryConfig, zlog *zap.Logger) domain.HistoryRepository {
	switch driver := cfg.ResolvedDriver(); driver {
	case config.DriverPostgres:
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		repo, err := postgres.Connect(connectCtx, cfg.DatabaseURL)
		if err == nil {
			err = repo.EnsureSchema(connectCtx)
			if err != nil {
				_ = repo.Close()
			}
		}
		if err != nil {
			zlog.Warn("could not connect to database, keeping history in memory", zap.Error(err))
			return postgres.NewMemoryRepository(cfg.MemoryCapacity)
		}
		zlog.Info("connected to PostgreSQL")
		return repo

	case config.DriverSQLite:
		repo, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			zlog.Warn("could not open sqlite history, keeping history in memory",
				zap.String("path", cfg.SQLitePath), zap.Error(err))
			return postgres.NewMemoryRepository(cfg.MemoryCapacity)
		}
		zlog.Info("opened sqlite history", zap.String("path", cfg.SQLitePath))
		return repo

	default:
		zlog.Info("keeping history in memory", zap.Int("capacity", cfg.MemoryCapacity))
		return postgres.NewMemoryRepository(cfg.MemoryCapacity)
	}
}
