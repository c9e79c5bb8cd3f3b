package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/pren-systems/pren-lite/constants"
	"github.com/pren-systems/pren-lite/internal/entity"
	"github.com/pren-systems/pren-lite/internal/oracle"
	"github.com/pren-systems/pren-lite/internal/repository"
)

// StructuringOutput is the structuring stage's payload.
type StructuringOutput struct {
	S3Key             string             `json:"s3_key"`
	DocType           string             `json:"doc_type"`
	City              string             `json:"city"`
	StructuredSignals entity.SignalBatch `json:"structured_signals"`
	SignalsStored     int                `json:"signals_stored"`
	ModelID           string             `json:"model_id"`
	Status            string             `json:"status"`
}

// StructureStage sends extracted text to the oracle, sanitizes the response
// and persists the resulting batch.
type StructureStage struct {
	Oracle  oracle.Oracle
	ModelID string
	Signals repository.SignalRepository
	Logger  *slog.Logger

	schema *jsonschema.Schema
}

func NewStructureStage(o oracle.Oracle, modelID string, signals repository.SignalRepository, logger *slog.Logger) *StructureStage {
	if logger == nil {
		logger = slog.Default()
	}
	schema, err := oracle.CompileSchema(oracle.BuildSignalBatchJSONSchema())
	if err != nil {
		// The batch schema is static; a compile failure only disables the
		// advisory check.
		logger.Warn("structure.schema.compile_failed", "error", err)
	}
	return &StructureStage{
		Oracle:  o,
		ModelID: modelID,
		Signals: signals,
		Logger:  logger,
		schema:  schema,
	}
}

// UnwrapExtractionOutput accepts the extraction payload either directly or
// nested under a "body" wrapper (string or object), the envelope some
// orchestration middleware adds between stages.
func UnwrapExtractionOutput(raw []byte) (ExtractionOutput, error) {
	var wrapper struct {
		Body json.RawMessage `json:"body"`
	}
	if err := json.Unmarshal(raw, &wrapper); err == nil && len(wrapper.Body) > 0 {
		// body may itself be a JSON-encoded string
		var s string
		if err := json.Unmarshal(wrapper.Body, &s); err == nil {
			raw = []byte(s)
		} else {
			raw = wrapper.Body
		}
	}
	var out ExtractionOutput
	if err := json.Unmarshal(raw, &out); err != nil {
		return ExtractionOutput{}, fmt.Errorf("decode extraction output: %w", err)
	}
	return out, nil
}

func (s *StructureStage) Run(ctx context.Context, in ExtractionOutput) (StructuringOutput, error) {
	if in.ExtractedText == "" {
		return StructuringOutput{}, fmt.Errorf("extracted_text required")
	}

	raw, err := s.Oracle.Structure(ctx, oracle.StructureRequest{
		Text:    in.ExtractedText,
		DocType: in.DocType,
		City:    in.City,
	})
	if err != nil {
		return StructuringOutput{}, fmt.Errorf("oracle structuring: %w", err)
	}

	batch := oracle.ParseBatch(raw, s.Logger)

	// Advisory shape check; a violation is logged, never fatal.
	if batch.Raw == "" && s.schema != nil {
		if b, merr := json.Marshal(batch); merr == nil {
			if verr := oracle.ValidateAgainstSchema(s.schema, b); verr != nil {
				s.Logger.Warn("structure.batch.schema_violation", "doc_key", in.S3Key, "error", verr)
			}
		}
	}

	stored := 0
	if len(batch.Signals) > 0 {
		doc := entity.DocumentRef{Key: in.S3Key, DocType: in.DocType, City: in.City}
		stored = s.Signals.StoreBatch(ctx, doc, batch)
	}

	s.Logger.Info("structure.stage.ok",
		"doc_key", in.S3Key,
		"signals", len(batch.Signals),
		"declared_count", batch.SignalCount,
		"stored", stored,
	)

	return StructuringOutput{
		S3Key:             in.S3Key,
		DocType:           in.DocType,
		City:              in.City,
		StructuredSignals: batch,
		SignalsStored:     stored,
		ModelID:           s.ModelID,
		Status:            constants.StatusStructured,
	}, nil
}
