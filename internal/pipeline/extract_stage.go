package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pren-systems/pren-lite/constants"
	"github.com/pren-systems/pren-lite/internal/blob"
	"github.com/pren-systems/pren-lite/internal/entity"
	"github.com/pren-systems/pren-lite/internal/extract"
)

// ExtractionOutput is the extraction stage's payload, consumed by the
// structuring stage (directly or wrapped by orchestration middleware).
type ExtractionOutput struct {
	S3Key            string `json:"s3_key"`
	DocType          string `json:"doc_type"`
	City             string `json:"city"`
	PageCount        int    `json:"page_count"`
	LineCount        int    `json:"line_count"`
	ExtractedText    string `json:"extracted_text"`
	ExtractionMethod string `json:"extraction_method"`
	Status           string `json:"status"`
}

// ExtractStage fetches the document blob and runs text extraction.
type ExtractStage struct {
	Blobs     blob.Store
	Extractor extract.TextExtractor
	Logger    *slog.Logger
}

func NewExtractStage(blobs blob.Store, ex extract.TextExtractor, logger *slog.Logger) *ExtractStage {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExtractStage{Blobs: blobs, Extractor: ex, Logger: logger}
}

func (s *ExtractStage) Run(ctx context.Context, doc entity.DocumentRef) (ExtractionOutput, error) {
	if doc.Key == "" {
		return ExtractionOutput{}, fmt.Errorf("s3_key required")
	}

	content, err := s.Blobs.Fetch(ctx, doc.Bucket, doc.Key)
	if err != nil {
		return ExtractionOutput{}, fmt.Errorf("fetch document: %w", err)
	}

	res, err := s.Extractor.Extract(ctx, content)
	if err != nil {
		return ExtractionOutput{}, err
	}

	s.Logger.Info("extract.stage.ok",
		"doc_key", doc.Key,
		"method", res.Method,
		"lines", len(res.Lines),
		"pages", res.Pages,
	)

	return ExtractionOutput{
		S3Key:            doc.Key,
		DocType:          doc.DocType,
		City:             doc.City,
		PageCount:        res.Pages,
		LineCount:        len(res.Lines),
		ExtractedText:    res.Text(),
		ExtractionMethod: string(res.Method),
		Status:           constants.StatusExtracted,
	}, nil
}
