package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	api "dairytale/cmd/api"
	authRepo "dairytale/internal/auth/repository"
	authUsecase "dairytale/internal/auth/usecase"
	journalRepo "dairytale/internal/journal/repository"
	"dairytale/internal/journal/scheduler"
	"dairytale/internal/journal/store"
	journalUsecase "dairytale/internal/journal/usecase"
	"dairytale/pkg/config"
	"dairytale/pkg/database"
	"dairytale/pkg/latch"
	"dairytale/pkg/logger"
	"dairytale/pkg/storyclient"
	"dairytale/pkg/tracing"

	"golang.org/x/sync/errgroup"
)

const (
	// mount IDs only need to outlive a page reload
	latchTTL = 24 * time.Hour

	storeIdleTTL  = 30 * time.Minute
	sweepInterval = 5 * time.Minute
)

func main() {
	// Load configuration
	cfg := config.Load()

	log, err := logger.New(logger.Options{Mode: cfg.LogMode, LogFile: cfg.LogFile})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal("server stopped with error", "error", err)
	}
	log.Info("server stopped")
}

func run(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	shutdownTracing, err := tracing.Init(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(shutdownCtx)
	}()

	// Initialize database
	db, err := database.NewConnection(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	// Initialize repositories (dependency injection)
	profileRepo, err := authRepo.NewProfileRepository(db)
	if err != nil {
		return fmt.Errorf("migrate profiles: %w", err)
	}

	var storageRepo journalRepo.StorageRepository
	switch cfg.StorageBackend {
	case "redis":
		rdb, err := database.NewRedisClient(ctx, cfg)
		if err != nil {
			return err
		}
		defer rdb.Close()
		storageRepo = journalRepo.NewRedisStorageRepository(rdb)
	case "gorm", "":
		storageRepo, err = journalRepo.NewGormStorageRepository(db)
		if err != nil {
			return fmt.Errorf("migrate storage: %w", err)
		}
	default:
		return fmt.Errorf("unsupported STORAGE_BACKEND %q", cfg.StorageBackend)
	}
	log.Info("journal storage ready", "backend", cfg.StorageBackend, "db_driver", cfg.DBDriver)

	// Initialize usecases
	profileUc := authUsecase.NewProfileUsecase(profileRepo, cfg)
	generator := storyclient.NewClient(cfg.GeneratorBaseURL, storyclient.WithHTTPClient(tracing.HTTPClient()))
	stores := store.NewRegistry(storageRepo, log)
	latches := latch.New(latchTTL)
	journalUc := journalUsecase.NewJournalUsecase(stores, generator, latches, cfg.Location(), log)

	janitor := scheduler.NewJanitor(stores, latches, storeIdleTTL, sweepInterval, log)
	janitor.Start()
	defer janitor.Stop()

	handler, err := api.NewHandler(cfg, log, profileUc, journalUc)
	if err != nil {
		return err
	}
	srv, err := handler.Server()
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server starting", "addr", srv.Addr, "generator", cfg.GeneratorBaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
