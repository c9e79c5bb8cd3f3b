package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/pren-systems/pren-lite/internal/async"
	"github.com/pren-systems/pren-lite/internal/blob"
	"github.com/pren-systems/pren-lite/internal/common"
	"github.com/pren-systems/pren-lite/internal/export"
	"github.com/pren-systems/pren-lite/internal/extract"
	"github.com/pren-systems/pren-lite/internal/oracle"
	"github.com/pren-systems/pren-lite/internal/pipeline"
	"github.com/pren-systems/pren-lite/internal/repository"
	"github.com/pren-systems/pren-lite/internal/server"
	"github.com/pren-systems/pren-lite/internal/zone"
)

func main() {
	_ = godotenv.Load(".env.local")

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := repository.Open(ctx, repository.Config{
		DSN:              cfg.Database.DSN,
		MaxConns:         cfg.Database.MaxConns,
		MinConns:         cfg.Database.MinConns,
		MaxConnLifetime:  cfg.Database.MaxConnLifetime,
		MaxConnIdleTime:  cfg.Database.MaxConnIdleTime,
		DialTimeout:      cfg.Database.DialTimeout,
		StatementTimeout: cfg.Database.StatementTimeout,
	}, logger)
	if err != nil {
		logger.Error("creating DB pool failed", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := repository.HealthCheck(ctx, pool, cfg.Database.DialTimeout, logger); err != nil {
		logger.Error("DB health failed", "error", err)
		os.Exit(1)
	}
	if err := repository.Bootstrap(ctx, pool, logger); err != nil {
		logger.Error("schema bootstrap failed", "error", err)
		os.Exit(1)
	}

	// Pipeline wiring
	blobs := blob.NewFSStore(cfg.Blob.RawBucket, logger)
	primary := extract.NewDocAIClient(extract.DocAIConfig{
		Endpoint: cfg.DocAI.Endpoint,
		APIKey:   cfg.DocAI.APIKey,
		Timeout:  cfg.DocAI.Timeout,
	}, nil, logger)
	fallback := extract.NewPDFText(extract.PDFTextConfig{}, logger)
	extractor := extract.NewExtractor(primary, fallback, logger)

	converse := oracle.NewConverseClient(oracle.ConverseConfig{
		Endpoint:    cfg.Oracle.Endpoint,
		APIKey:      cfg.Oracle.APIKey,
		ModelID:     cfg.Oracle.ModelID,
		MaxTokens:   cfg.Oracle.MaxTokens,
		Temperature: cfg.Oracle.Temperature,
		Timeout:     cfg.Oracle.Timeout,
	}, nil, logger)

	signals := repository.NewSignalRepository(pool, logger)
	scores := repository.NewScoreRepository(pool, logger)

	proc := pipeline.NewProcessor(logger,
		pipeline.NewExtractStage(blobs, extractor, logger),
		pipeline.NewStructureStage(converse, converse.ModelID(), signals, logger),
	)

	queue := async.NewProcessorQueue(proc, logger,
		async.WithWorkers(cfg.Pipeline.Workers),
		async.WithQueueSize(cfg.Pipeline.QueueSize),
		async.WithProcessTimeout(cfg.Pipeline.ProcessTimeout),
	)

	srv := server.NewServer(scores, zone.DemoResolver{}, queue, export.NewService(signals, logger), logger)

	httpServer := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("HTTP serving", "addr", cfg.Server.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http serve failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown error", "error", err)
	}
	queue.Shutdown(shutdownCtx)
	logger.Info("stopped")
}
