package pipeline

import (
	"context"
	"log/slog"

	"github.com/pren-systems/pren-lite/internal/common"
	"github.com/pren-systems/pren-lite/internal/entity"
)

// Processor coordinates extraction then structuring for one document. The
// two stages are strictly sequential per document; independent documents may
// run through independent Processor calls concurrently (the stores tolerate
// concurrent writers on distinct composite keys).
type Processor struct {
	Logger    *slog.Logger
	Extract   *ExtractStage
	Structure *StructureStage
}

func NewProcessor(logger *slog.Logger, extract *ExtractStage, structure *StructureStage) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{Logger: logger, Extract: extract, Structure: structure}
}

func (p *Processor) ProcessDocument(ctx context.Context, doc entity.DocumentRef) (StructuringOutput, error) {
	if common.DocKeyFromContext(ctx) == "" {
		ctx = common.WithDocKey(ctx, doc.Key)
	}
	log := p.Logger
	if rid := common.RequestIDFromContext(ctx); rid != "" {
		log = log.With("trace_id", rid)
	}

	exOut, err := p.Extract.Run(ctx, doc)
	if err != nil {
		log.Error("processor.extract.failed", "doc_key", doc.Key, "err", err)
		return StructuringOutput{}, err
	}
	log.Info("processor.extract.ok",
		"doc_key", doc.Key,
		"method", exOut.ExtractionMethod,
		"pages", exOut.PageCount,
		"lines", exOut.LineCount,
	)

	stOut, err := p.Structure.Run(ctx, exOut)
	if err != nil {
		log.Error("processor.structure.failed", "doc_key", doc.Key, "err", err)
		return StructuringOutput{}, err
	}
	log.Info("processor.structure.ok", "doc_key", doc.Key, "stored", stOut.SignalsStored)
	return stOut, nil
}
