package entity

import (
	"strings"
	"time"
)

// ZoneScore is the precomputed score record for one zone. It is produced by
// an external scoring process; this service only reads it. Nullable fields
// are pointers so the health check can report exactly which ones are missing.
type ZoneScore struct {
	ZoneID            string
	City              string
	FutureValueScore  *float64
	Momentum          *string
	Confidence        *float64
	DataFreshnessDays *float64
	TopSignals        string // delimited list; split with SplitTopSignals
	UpdatedAt         *time.Time
}

// MissingFields lists the required fields absent from the record, in the
// order the health check reports them.
func (z *ZoneScore) MissingFields() []string {
	var missing []string
	if z.FutureValueScore == nil {
		missing = append(missing, "future_value_score")
	}
	if z.Confidence == nil {
		missing = append(missing, "confidence")
	}
	if z.Momentum == nil {
		missing = append(missing, "momentum")
	}
	if z.UpdatedAt == nil {
		missing = append(missing, "updated_at")
	}
	return missing
}

// SplitTopSignals splits a stored top-signals list. Historical records used
// either ';' or '|' as the delimiter; both are accepted.
func SplitTopSignals(raw string) []string {
	parts := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ';' || r == '|'
	})
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
