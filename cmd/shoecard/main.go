package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"finitefield.org/shoecard/internal/catalog"
	"finitefield.org/shoecard/internal/httpserver"
	"finitefield.org/shoecard/internal/platform/config"
	pfirestore "finitefield.org/shoecard/internal/platform/firestore"
	"finitefield.org/shoecard/internal/platform/observability"
	"finitefield.org/shoecard/internal/shoecard"
)

func main() {
	baseLogger, err := observability.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = baseLogger.Sync()
	}()

	logger := baseLogger.Named("shoecard")

	cfg, err := config.Load()
	if err != nil {
		var invalid *config.ValidationError
		if errors.As(err, &invalid) {
			logger.Fatal("invalid configuration", zap.Strings("fields", invalid.Fields()))
		}
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	renderer, err := buildRenderer(cfg.Card)
	if err != nil {
		logger.Fatal("failed to load card theme", zap.Error(err))
	}

	service, closeCatalog, err := buildCatalog(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to initialise catalog", zap.String("source", cfg.Catalog.Source), zap.Error(err))
	}
	defer func() {
		if err := closeCatalog(); err != nil {
			logger.Warn("catalog close error", zap.Error(err))
		}
	}()

	if fileService, ok := service.(*catalog.FileService); ok {
		go reloadOnHangup(ctx, fileService, logger.Named("catalog"))
	}

	srv := httpserver.New(httpserver.Config{
		Address:      cfg.Server.Address,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		Catalog:      service,
		Renderer:     renderer,
		Logger:       logger.Named("http"),

		HTMXScriptURL: cfg.UI.HTMXScriptURL,
		CardRefresh:   cfg.UI.CardRefreshInterval,
	})

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	logger.Info("storefront listening",
		zap.String("address", cfg.Server.Address),
		zap.String("catalog_source", cfg.Catalog.Source),
		zap.Duration("novelty_window", cfg.Card.NoveltyWindow),
	)

	select {
	case <-ctx.Done():
	case err, ok := <-serverErr:
		if ok {
			logger.Error("http server failed", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}

	logger.Info("storefront stopped")
}

func buildRenderer(cfg config.CardConfig) (*shoecard.Renderer, error) {
	theme := shoecard.DefaultTheme()
	if path := strings.TrimSpace(cfg.ThemeFile); path != "" {
		loaded, err := shoecard.LoadTheme(path)
		if err != nil {
			return nil, err
		}
		theme = loaded
	}
	if err := theme.Validate(); err != nil {
		return nil, err
	}
	return shoecard.NewRenderer(
		shoecard.WithTheme(theme),
		shoecard.WithNoveltyWindow(cfg.NoveltyWindow),
	), nil
}

func buildCatalog(ctx context.Context, cfg config.Config) (catalog.Service, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Catalog.Source {
	case config.CatalogSourceFile:
		service, err := catalog.NewFileService(cfg.Catalog.File)
		if err != nil {
			return nil, noop, err
		}
		return service, noop, nil
	case config.CatalogSourceFirestore:
		provider := pfirestore.NewProvider(cfg.Firebase)
		client, err := provider.Client(ctx)
		if err != nil {
			return nil, noop, err
		}
		service := catalog.NewFirestoreService(client, catalog.FirestoreConfig{
			Collection: cfg.Catalog.Collection,
			FetchLimit: cfg.Catalog.FetchLimit,
			CacheTTL:   cfg.Catalog.CacheTTL,
		})
		return service, provider.Close, nil
	default:
		return catalog.NewStaticService(), noop, nil
	}
}

// reloadOnHangup re-reads the catalog file whenever the process receives SIGHUP.
func reloadOnHangup(ctx context.Context, service *catalog.FileService, logger *zap.Logger) {
	hangup := make(chan os.Signal, 1)
	signal.Notify(hangup, syscall.SIGHUP)
	defer signal.Stop(hangup)

	for {
		select {
		case <-ctx.Done():
			return
		case <-hangup:
			if err := service.Reload(ctx); err != nil {
				logger.Warn("catalog reload failed; keeping previous listings", zap.Error(err))
				continue
			}
			logger.Info("catalog reloaded")
		}
	}
}
