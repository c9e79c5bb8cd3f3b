package extract

import (
	"context"
	"fmt"
	"log/slog"
)

// Extractor selects between the primary OCR service and the local fallback.
// The fallback is a deliberate strategy switch on a classified error, not a
// retry: only "unavailable" service codes trigger it, everything else is
// surfaced as-is.
type Extractor struct {
	primary  TextExtractor
	fallback TextExtractor
	logger   *slog.Logger
}

func NewExtractor(primary, fallback TextExtractor, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{primary: primary, fallback: fallback, logger: logger}
}

func (e *Extractor) Extract(ctx context.Context, content []byte) (Extraction, error) {
	res, err := e.primary.Extract(ctx, content)
	if err == nil {
		return res, nil
	}
	if !IsUnavailable(err) {
		e.logger.Error("extract.primary.fatal", "error", err)
		return Extraction{}, err
	}

	e.logger.Warn("extract.primary.unavailable", "error", err, "hint", "falling back to local parsing")

	res, ferr := e.fallback.Extract(ctx, content)
	if ferr != nil {
		e.logger.Error("extract.fallback.failed", "error", ferr)
		return Extraction{}, fmt.Errorf("both extractors failed: %w (primary: %v)", ferr, err)
	}
	return res, nil
}
