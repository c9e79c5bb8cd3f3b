package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/pren-systems/pren-lite/internal/common"
	"github.com/pren-systems/pren-lite/internal/entity"
)

// resolveZoneID reads either an explicit zone_id or a lat/lng pair from the
// query string. A handled=true return means a response was already written.
func (s *Server) resolveZoneID(w http.ResponseWriter, r *http.Request) (string, bool) {
	q := r.URL.Query()
	if zoneID := q.Get("zone_id"); zoneID != "" {
		return zoneID, false
	}

	latS := q.Get("lat")
	lngS := q.Get("lng")
	if latS == "" || lngS == "" {
		writeError(w, http.StatusBadRequest, map[string]any{
			"error": "Provide zone_id or lat/lng.",
			"examples": []string{
				"/score?zone_id=PARIS_DEMO_3",
				"/score?lat=48.8566&lng=2.3522",
			},
		})
		return "", true
	}

	lat, latErr := strconv.ParseFloat(latS, 64)
	lng, lngErr := strconv.ParseFloat(lngS, 64)
	if latErr != nil || lngErr != nil {
		writeError(w, http.StatusBadRequest, map[string]any{
			"error": "lat/lng must be numbers",
		})
		return "", true
	}

	return s.resolver.Resolve(lat, lng), false
}

// fetchScore loads a zone score and writes the 404/500 responses itself.
func (s *Server) fetchScore(w http.ResponseWriter, r *http.Request, zoneID string) (*entity.ZoneScore, bool) {
	if s.scores == nil {
		writeError(w, http.StatusInternalServerError, map[string]any{
			"error": "score store not configured",
		})
		return nil, true
	}

	score, err := s.scores.GetByZone(r.Context(), zoneID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			writeError(w, http.StatusNotFound, map[string]any{
				"error":   "No score found for zone_id",
				"zone_id": zoneID,
			})
			return nil, true
		}
		s.logger.Error("score lookup failed", "zone_id", zoneID, "error", err)
		writeError(w, http.StatusInternalServerError, map[string]any{
			"error": "score lookup failed",
		})
		return nil, true
	}
	return score, false
}

type scoreResponse struct {
	ZoneID            string   `json:"zone_id"`
	City              string   `json:"city"`
	FutureValueScore  *float64 `json:"future_value_score"`
	Momentum          *string  `json:"momentum"`
	Confidence        *float64 `json:"confidence"`
	DataFreshnessDays *float64 `json:"data_freshness_days"`
	TopSignals        []string `json:"top_signals"`
	UpdatedAt         *string  `json:"updated_at"`
	IntendedUse       string   `json:"intended_use"`
}

func buildScoreResponse(z *entity.ZoneScore) scoreResponse {
	var updatedAt *string
	if z.UpdatedAt != nil {
		u := z.UpdatedAt.UTC().Format(time.RFC3339)
		updatedAt = &u
	}
	return scoreResponse{
		ZoneID:            z.ZoneID,
		City:              z.City,
		FutureValueScore:  z.FutureValueScore,
		Momentum:          z.Momentum,
		Confidence:        z.Confidence,
		DataFreshnessDays: z.DataFreshnessDays,
		TopSignals:        entity.SplitTopSignals(z.TopSignals),
		UpdatedAt:         updatedAt,
		IntendedUse:       IntendedUse,
	}
}

// HandleScore serves GET /score.
func (s *Server) HandleScore(w http.ResponseWriter, r *http.Request) {
	zoneID, handled := s.resolveZoneID(w, r)
	if handled {
		return
	}
	score, handled := s.fetchScore(w, r, zoneID)
	if handled {
		return
	}
	writeJSON(w, http.StatusOK, buildScoreResponse(score))
}

type explainResponse struct {
	scoreResponse
	Explanation explanation `json:"explanation"`
}

type explanation struct {
	Summary     string   `json:"summary"`
	Why         []string `json:"why"`
	TopSignals  []string `json:"top_signals"`
	Limitations []string `json:"limitations"`
	Ethics      []string `json:"ethics"`
	NextSteps   []string `json:"next_steps"`
	Roadmap     []string `json:"roadmap"`
}

// buildExplanation is template substitution only: no branching beyond what
// the retrieved record supplies.
func buildExplanation(z *entity.ZoneScore) explanation {
	momentum := ""
	if z.Momentum != nil {
		momentum = *z.Momentum
	}
	var score, confidence, freshness any
	if z.FutureValueScore != nil {
		score = *z.FutureValueScore
	}
	if z.Confidence != nil {
		confidence = *z.Confidence
	}
	if z.DataFreshnessDays != nil {
		freshness = *z.DataFreshnessDays
	}

	return explanation{
		Summary: fmt.Sprintf("%s shows %s momentum with a 5-year Future Value Score of %v.", z.ZoneID, momentum, score),
		Why: []string{
			"Signals were aggregated at zone level (pilot: Paris) and converted into a structured feature set.",
			fmt.Sprintf("Confidence (%v) reflects data volume + signal consistency; freshness is ~%v days.", confidence, freshness),
		},
		TopSignals: entity.SplitTopSignals(z.TopSignals),
		Limitations: []string{
			"This is an MVP demo: limited documents and simplified geo-mapping.",
			"No individual-level data; sentiment is OFF by design for privacy and bias control.",
			"Scores are decision-support signals, not a guarantee of future market outcomes.",
		},
		Ethics: []string{
			"Use for planning and risk management (banks, brokers, developers).",
			"Not intended for discriminatory decisions or speculative targeting that could accelerate displacement.",
		},
		NextSteps: []string{
			"Replace demo geo-mapping with a real zone index + 500m grid lookup.",
			"Ingestion pipeline: layout OCR -> batch structuring -> signal store.",
			"Scoring pipeline: batch inference + bias audit for gentrification risk.",
		},
		Roadmap: []string{
			"Integrate real zone lookup + optional 500m grid for custom geo queries (Paris -> Lyon scalability).",
			"Ingestion: layout OCR (PDF) -> batch structuring into normalized signals (cost-optimized).",
			"Scoring: batch inference + drift monitoring + bias audit for gentrification risk.",
			"Optional: privacy-safe aggregated sentiment (opt-in, RGPD-aware) with low weight in the model.",
		},
	}
}

// HandleExplain serves GET /explain.
func (s *Server) HandleExplain(w http.ResponseWriter, r *http.Request) {
	zoneID, handled := s.resolveZoneID(w, r)
	if handled {
		return
	}
	score, handled := s.fetchScore(w, r, zoneID)
	if handled {
		return
	}
	writeJSON(w, http.StatusOK, explainResponse{
		scoreResponse: buildScoreResponse(score),
		Explanation:   buildExplanation(score),
	})
}
