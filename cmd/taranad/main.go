// Taranad is the travel activity retrieval daemon.
//
// It embeds an activity catalog into a vector store and serves ranked,
// multi-dimensional activity retrieval over HTTP for itinerary
// generation.
//
// Usage:
//
//	# Start the server with defaults
//	taranad serve
//
//	# Use a config file and reindex the catalog
//	taranad --config taranad.yaml reindex
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tarana-ai/taranad/internal/config"
	"github.com/tarana-ai/taranad/internal/embeddings"
	"github.com/tarana-ai/taranad/internal/httpapi"
	"github.com/tarana-ai/taranad/internal/logging"
	"github.com/tarana-ai/taranad/internal/retrieval"
	"github.com/tarana-ai/taranad/internal/scoring"
	"github.com/tarana-ai/taranad/internal/telemetry"
	"github.com/tarana-ai/taranad/internal/vectorstore"
)

// version is set via ldflags during build.
var version = "dev"

var configPath string

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "taranad",
	Short:   "Travel activity retrieval daemon",
	Long:    "taranad indexes a travel activity catalog into a vector store\nand serves ranked semantic retrieval for itinerary generation.",
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config file")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(reindexCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the retrieval HTTP server",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runServe(cmd.Context())
	},
}

var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Embed the activity catalog and write it to the vector store",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runReindex(cmd.Context())
	},
}

// app holds the wired service graph shared by both subcommands.
type app struct {
	cfg       *config.Config
	logger    *zap.Logger
	provider  embeddings.Provider
	store     vectorstore.Store
	service   *retrieval.Service
	reindexer *retrieval.CatalogReindexer
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	provider, err := embeddings.NewProvider(cfg.Embeddings, logger)
	if err != nil {
		return nil, fmt.Errorf("init embedding provider: %w", err)
	}

	store, err := vectorstore.NewStore(ctx, cfg, provider, logger)
	if err != nil {
		return nil, fmt.Errorf("init vector store: %w", err)
	}

	service := retrieval.NewService(store, cfg.Retrieval, logger)
	if metrics, err := retrieval.NewMetrics(); err == nil {
		service.SetMetrics(metrics)
	} else {
		logger.Warn("retrieval metrics disabled", zap.Error(err))
	}

	return &app{
		cfg:       cfg,
		logger:    logger,
		provider:  provider,
		store:     store,
		service:   service,
		reindexer: retrieval.NewCatalogReindexer(service, cfg.Catalog.Path, logger),
	}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.logger.Warn("closing vector store", zap.Error(err))
	}
	if err := a.provider.Close(); err != nil {
		a.logger.Warn("closing embedding provider", zap.Error(err))
	}
	_ = a.logger.Sync()
}

func runServe(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	tel, err := telemetry.New(ctx, a.cfg.Telemetry, a.logger)
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout.Duration())
		defer cancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			a.logger.Warn("telemetry shutdown", zap.Error(err))
		}
	}()

	peaks, err := scoring.ParsePeakWindows(a.cfg.Scoring.PeakHours)
	if err != nil {
		return fmt.Errorf("parse peak hours: %w", err)
	}
	ranker, err := scoring.NewRanker(scoring.WeightsFromConfig(a.cfg.Scoring.Weights), peaks)
	if err != nil {
		return fmt.Errorf("init ranker: %w", err)
	}

	orchestrator, err := retrieval.NewOrchestrator(a.service, ranker, a.cfg.Retrieval.DefaultMatchCount, a.logger)
	if err != nil {
		return fmt.Errorf("init orchestrator: %w", err)
	}

	srv, err := httpapi.NewServer(orchestrator, a.reindexer, a.logger, a.cfg.Server)
	if err != nil {
		return fmt.Errorf("init http server: %w", err)
	}

	a.logger.Info("starting taranad",
		zap.String("version", version),
		zap.String("vectorstore", a.cfg.VectorStore.Provider),
		zap.String("embeddings", a.cfg.Embeddings.Provider),
		zap.Int("port", a.cfg.Server.Port))

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout.Duration())
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func runReindex(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	indexed, err := a.reindexer.Reindex(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("indexed %d activities\n", indexed)
	return nil
}
