package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/alkarama/hub/config"
	httpDelivery "github.com/alkarama/hub/internal/delivery/http"
	"github.com/alkarama/hub/internal/domain"
	"github.com/alkarama/hub/internal/infrastructure/cache"
	"github.com/alkarama/hub/internal/infrastructure/store"
	"github.com/alkarama/hub/internal/logger"
	"github.com/alkarama/hub/internal/metrics"
	"github.com/alkarama/hub/internal/usecase"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger(cfg.Server.Environment, cfg.Logging.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped with error", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	log.Info("starting Alkarama Hub",
		zap.String("version", version),
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
		zap.String("store", cfg.Store.Type),
		zap.String("cache", cfg.Cache.Type))

	// Initialize infrastructure dependencies
	cacheRepo, closeCache, err := newCache(cfg.Cache, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeCache.Close(); err != nil {
			log.Warn("closing cache", zap.Error(err))
		}
	}()

	vocabulary := usecase.DefaultVocabulary()
	if cfg.Matching.VocabularyFile != "" {
		vocabulary, err = usecase.LoadVocabularyFile(cfg.Matching.VocabularyFile)
		if err != nil {
			return err
		}
		log.Info("vocabulary loaded",
			zap.String("file", cfg.Matching.VocabularyFile),
			zap.Strings("concepts", vocabulary.Concepts()))
	}

	// Initialize usecase layer
	matcher := usecase.NewMatcher(usecase.MatcherConfig{
		Vocabulary:         vocabulary,
		MinScore:           cfg.Matching.MinScore,
		Language:           cfg.Matching.Language,
		EnableDebugLogging: cfg.Matching.Debug,
		Logger:             log.Named("matcher"),
	})

	g, gctx := errgroup.WithContext(ctx)

	var recordStore domain.RecordStore
	var fileStore *store.FileStore
	switch cfg.Store.Type {
	case "file":
		fileStore, err = store.OpenFileStore(cfg.Store.DBPath, log.Named("store"))
		if err != nil {
			return err
		}
		recordStore = fileStore
		log.Info("serving records from file", zap.String("path", fileStore.Path()))
	default:
		client := store.NewClient(store.ClientConfig{
			BaseURL:           cfg.Store.BaseURL,
			Timeout:           cfg.Store.Timeout,
			RequestsPerSecond: float64(cfg.RateLimit.Store),
			Logger:            log.Named("store"),
		})
		client.SetDebug(cfg.Server.Environment == "development")
		recordStore = client
		log.Info("serving records from record store", zap.String("base_url", cfg.Store.BaseURL))
	}

	directory := usecase.NewDirectoryService(recordStore, cacheRepo, matcher, usecase.DirectoryServiceConfig{
		CacheTTL: cfg.Cache.TTL,
		Logger:   log.Named("directory"),
		Recorder: metrics.NewRankingRecorder(),
	})

	if fileStore != nil && cfg.Store.Watch {
		g.Go(func() error {
			return watchRecords(gctx, fileStore, directory.Invalidate, log)
		})
	}

	handler := httpDelivery.NewHandler(directory, matcher)
	router := httpDelivery.SetupRouter(cfg, handler, log.Named("http"))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	g.Go(func() error {
		log.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// newCache builds the configured cache backend
func newCache(cfg config.CacheConfig, log *zap.Logger) (domain.CacheRepository, io.Closer, error) {
	switch cfg.Type {
	case "redis":
		c, err := cache.NewRedisCache(cfg.RedisURL, cfg.RedisPrefix)
		if err != nil {
			return nil, nil, fmt.Errorf("connect redis cache: %w", err)
		}
		return c, c, nil
	case "bolt":
		c, err := cache.NewBoltCache(cfg.BoltPath, log.Named("cache"))
		if err != nil {
			return nil, nil, fmt.Errorf("open bolt cache: %w", err)
		}
		return c, c, nil
	default:
		c := cache.NewMemoryCache(0)
		return c, c, nil
	}
}

type recordWatcher interface {
	Watch(ctx context.Context, onReload func()) error
}

// watchRecords drops cached collections whenever the db file changes.
// A broken watcher only disables hot reload; the server keeps running.
func watchRecords(ctx context.Context, w recordWatcher, invalidate func(context.Context) error, log *zap.Logger) error {
	err := w.Watch(ctx, func() {
		if err := invalidate(ctx); err != nil {
			log.Warn("cache invalidation failed", zap.Error(err))
		}
	})
	if err != nil {
		log.Error("db file watcher stopped, hot reload disabled", zap.Error(err))
	}
	return nil
}
