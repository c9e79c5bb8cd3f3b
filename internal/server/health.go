package server

import (
	"errors"
	"net/http"

	"github.com/pren-systems/pren-lite/internal/common"
	"github.com/pren-systems/pren-lite/internal/zone"
)

// HandleHealth serves GET /health. It probes a fixed zone's record for the
// fields a healthy scoring run always populates.
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if s.scores == nil {
		writeError(w, http.StatusInternalServerError, map[string]any{
			"status": "FAIL",
			"reason": "score store not configured",
		})
		return
	}

	zoneID := zone.HealthZoneID
	score, err := s.scores.GetByZone(r.Context(), zoneID)
	if err != nil {
		reason := "score lookup failed"
		if errors.Is(err, common.ErrNotFound) {
			reason = "Missing item " + zoneID
		}
		writeError(w, http.StatusInternalServerError, map[string]any{
			"status": "FAIL",
			"reason": reason,
		})
		return
	}

	if missing := score.MissingFields(); len(missing) > 0 {
		writeError(w, http.StatusInternalServerError, map[string]any{
			"status":  "FAIL",
			"reason":  "Missing fields",
			"missing": missing,
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":             "PASS",
		"checked_zone_id":    zoneID,
		"future_value_score": score.FutureValueScore,
		"confidence":         score.Confidence,
		"intended_use":       IntendedUse,
	})
}
