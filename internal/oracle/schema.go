package oracle

import "github.com/pren-systems/pren-lite/constants"

// BuildSignalBatchJSONSchema returns a JSON-Schema (draft 2020-12 subset)
// describing the batch shape the prompt demands. Validation is advisory:
// a violating batch is logged, never rejected (the degrade policy in
// ParseBatch is the only gate).
func BuildSignalBatchJSONSchema() map[string]any {
	signalProps := map[string]any{
		"type":          map[string]any{"type": "string", "enum": constants.SignalTypeStrings()},
		"description":   map[string]any{"type": "string", "minLength": 1},
		"impact":        map[string]any{"type": "string", "enum": []string{"positive", "negative", "neutral"}},
		"confidence":    map[string]any{"type": "number"},
		"location_hint": map[string]any{"type": "string"},
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"signals": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":                 "object",
					"additionalProperties": false,
					"properties":           signalProps,
					"required":             []string{"type", "description", "impact"},
				},
			},
			"summary":      map[string]any{"type": "string"},
			"signal_count": map[string]any{"type": "integer"},
		},
		"required": []string{"signals", "summary", "signal_count"},
	}
}
