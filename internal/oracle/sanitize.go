package oracle

import (
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/pren-systems/pren-lite/constants"
	"github.com/pren-systems/pren-lite/internal/common"
	"github.com/pren-systems/pren-lite/internal/entity"
)

// StripFences removes a leading/trailing Markdown code fence from the
// oracle's output. Models emit ```json fences despite being told not to;
// the rest of the text is returned untouched.
func StripFences(raw string) string {
	clean := strings.TrimSpace(raw)
	if strings.HasPrefix(clean, "```") {
		if idx := strings.IndexByte(clean, '\n'); idx >= 0 {
			clean = clean[idx+1:]
		} else {
			clean = clean[3:]
		}
	}
	if strings.HasSuffix(clean, "```") {
		clean = clean[:len(clean)-3]
	}
	return strings.TrimSpace(clean)
}

// ParseBatch parses sanitized oracle output into a SignalBatch. Parsing
// failure is non-fatal: the pipeline must stay total for a document, so a
// bad response degrades to an empty batch that carries a truncated copy of
// the raw text for diagnostics.
func ParseBatch(raw string, logger *slog.Logger) entity.SignalBatch {
	if logger == nil {
		logger = slog.Default()
	}

	clean := StripFences(raw)

	var batch entity.SignalBatch
	if err := json.Unmarshal([]byte(clean), &batch); err != nil {
		snippet := common.TruncateUTF8(raw, constants.MaxRawDiagnosticChars)
		logger.Warn("oracle.parse.failed", "error", err, "raw_len", len(raw))
		return entity.SignalBatch{
			Signals:     []entity.Signal{},
			Summary:     "Parsing failed",
			SignalCount: 0,
			Raw:         snippet,
		}
	}
	if batch.Signals == nil {
		batch.Signals = []entity.Signal{}
	}
	return batch
}
