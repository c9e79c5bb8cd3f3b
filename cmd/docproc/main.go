// docproc runs the full pipeline for a single document and prints the
// structuring output as JSON. With -from-extraction it skips extraction and
// runs only the structuring stage from a saved payload. Useful for batch
// scripts and debugging.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/pren-systems/pren-lite/internal/blob"
	"github.com/pren-systems/pren-lite/internal/common"
	"github.com/pren-systems/pren-lite/internal/entity"
	"github.com/pren-systems/pren-lite/internal/extract"
	"github.com/pren-systems/pren-lite/internal/oracle"
	"github.com/pren-systems/pren-lite/internal/pipeline"
	"github.com/pren-systems/pren-lite/internal/repository"
)

func main() {
	var (
		key            = flag.String("key", "", "document storage key")
		docType        = flag.String("doc-type", "unknown", "document type tag")
		city           = flag.String("city", "Paris", "city name")
		fromExtraction = flag.String("from-extraction", "", "extraction-stage JSON payload, '-' for stdin; structuring only")
		timeout        = flag.Duration("timeout", 3*time.Minute, "overall processing timeout")
	)
	flag.Parse()

	if *key == "" && *fromExtraction == "" {
		fmt.Fprintln(os.Stderr, "usage: docproc -key pdfs/plu_paris_zone1.pdf [-doc-type zoning] [-city Paris]")
		fmt.Fprintln(os.Stderr, "       docproc -from-extraction payload.json")
		os.Exit(2)
	}

	_ = godotenv.Load(".env.local")
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	pool, err := repository.Open(ctx, repository.Config{
		DSN:             cfg.Database.DSN,
		MaxConns:        cfg.Database.MaxConns,
		MinConns:        cfg.Database.MinConns,
		MaxConnLifetime: cfg.Database.MaxConnLifetime,
		MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
		DialTimeout:     cfg.Database.DialTimeout,
	}, logger)
	if err != nil {
		logger.Error("creating DB pool failed", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := repository.Bootstrap(ctx, pool, logger); err != nil {
		logger.Error("schema bootstrap failed", "error", err)
		os.Exit(1)
	}

	primary := extract.NewDocAIClient(extract.DocAIConfig{
		Endpoint: cfg.DocAI.Endpoint,
		APIKey:   cfg.DocAI.APIKey,
		Timeout:  cfg.DocAI.Timeout,
	}, nil, logger)
	fallback := extract.NewPDFText(extract.PDFTextConfig{}, logger)

	converse := oracle.NewConverseClient(oracle.ConverseConfig{
		Endpoint:    cfg.Oracle.Endpoint,
		APIKey:      cfg.Oracle.APIKey,
		ModelID:     cfg.Oracle.ModelID,
		MaxTokens:   cfg.Oracle.MaxTokens,
		Temperature: cfg.Oracle.Temperature,
		Timeout:     cfg.Oracle.Timeout,
	}, nil, logger)

	structure := pipeline.NewStructureStage(converse, converse.ModelID(),
		repository.NewSignalRepository(pool, logger), logger)

	var out pipeline.StructuringOutput
	if *fromExtraction != "" {
		in, err := readExtractionPayload(*fromExtraction)
		if err != nil {
			logger.Error("reading extraction payload failed", "path", *fromExtraction, "error", err)
			os.Exit(1)
		}
		out, err = structure.Run(ctx, in)
		if err != nil {
			logger.Error("structuring failed", "doc_key", in.S3Key, "error", err)
			os.Exit(1)
		}
	} else {
		proc := pipeline.NewProcessor(logger,
			pipeline.NewExtractStage(
				blob.NewFSStore(cfg.Blob.RawBucket, logger),
				extract.NewExtractor(primary, fallback, logger),
				logger,
			),
			structure,
		)

		var err error
		out, err = proc.ProcessDocument(ctx, entity.DocumentRef{
			Key:     *key,
			DocType: *docType,
			City:    *city,
		})
		if err != nil {
			logger.Error("processing failed", "doc_key", *key, "error", err)
			os.Exit(1)
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		logger.Error("encode output failed", "error", err)
		os.Exit(1)
	}
}

func readExtractionPayload(path string) (pipeline.ExtractionOutput, error) {
	var raw []byte
	var err error
	if path == "-" {
		raw, err = io.ReadAll(os.Stdin)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return pipeline.ExtractionOutput{}, err
	}
	return pipeline.UnwrapExtractionOutput(raw)
}
