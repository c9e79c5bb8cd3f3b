package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pren-systems/pren-lite/internal/common"
	"github.com/pren-systems/pren-lite/internal/entity"
)

type fakeScoreRepo struct {
	scores map[string]*entity.ZoneScore
}

func (f *fakeScoreRepo) GetByZone(_ context.Context, zoneID string) (*entity.ZoneScore, error) {
	if s, ok := f.scores[zoneID]; ok {
		return s, nil
	}
	return nil, common.WrapError(common.ErrNotFound, "zone score not found")
}

func f64(v float64) *float64 { return &v }
func str(v string) *string   { return &v }

func demoScore(zoneID string) *entity.ZoneScore {
	updated := time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC)
	return &entity.ZoneScore{
		ZoneID:            zoneID,
		City:              "Paris",
		FutureValueScore:  f64(7.2),
		Momentum:          str("rising"),
		Confidence:        f64(0.74),
		DataFreshnessDays: f64(12),
		TopSignals:        "new metro station; 3 permits approved | school renovation",
		UpdatedAt:         &updated,
	}
}

func newTestServer(repo *fakeScoreRepo) *httptest.Server {
	return httptest.NewServer(NewServer(repo, nil, nil, nil, nil).Routes())
}

func getJSON(t *testing.T, url string) (int, map[string]any) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return resp.StatusCode, body
}

func TestHandleScoreByZoneID(t *testing.T) {
	ts := newTestServer(&fakeScoreRepo{scores: map[string]*entity.ZoneScore{
		"PARIS_DEMO_3": demoScore("PARIS_DEMO_3"),
	}})
	defer ts.Close()

	code, body := getJSON(t, ts.URL+"/score?zone_id=PARIS_DEMO_3")
	if code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}
	if body["zone_id"] != "PARIS_DEMO_3" {
		t.Errorf("zone_id = %v", body["zone_id"])
	}
	if body["future_value_score"] != 7.2 {
		t.Errorf("future_value_score = %v", body["future_value_score"])
	}
	if !strings.Contains(body["intended_use"].(string), "planning & risk management") {
		t.Errorf("intended_use = %v", body["intended_use"])
	}
	sigs, ok := body["top_signals"].([]any)
	if !ok || len(sigs) != 3 {
		t.Fatalf("top_signals = %v, want 3 entries", body["top_signals"])
	}
	if sigs[1] != "3 permits approved" {
		t.Errorf("top_signals[1] = %v", sigs[1])
	}
}

func TestHandleScoreResolvesCoordinates(t *testing.T) {
	ts := newTestServer(&fakeScoreRepo{scores: map[string]*entity.ZoneScore{
		"PARIS_DEMO_1": demoScore("PARIS_DEMO_1"),
	}})
	defer ts.Close()

	// lat above the northern threshold maps to the first demo zone.
	code, body := getJSON(t, ts.URL+"/score?lat=48.87&lng=2.30")
	if code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}
	if body["zone_id"] != "PARIS_DEMO_1" {
		t.Errorf("zone_id = %v, want PARIS_DEMO_1", body["zone_id"])
	}
}

func TestHandleScoreBadInput(t *testing.T) {
	ts := newTestServer(&fakeScoreRepo{})
	defer ts.Close()

	code, body := getJSON(t, ts.URL+"/score?lat=abc&lng=2.30")
	if code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", code)
	}
	if body["error"] != "lat/lng must be numbers" {
		t.Errorf("error = %v", body["error"])
	}
	if body["intended_use"] == nil {
		t.Error("error responses must carry intended_use")
	}

	code, body = getJSON(t, ts.URL+"/score")
	if code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", code)
	}
	if _, ok := body["examples"]; !ok {
		t.Errorf("missing-input error should list examples, got %v", body)
	}
}

func TestHandleScoreUnknownZone(t *testing.T) {
	ts := newTestServer(&fakeScoreRepo{})
	defer ts.Close()

	code, body := getJSON(t, ts.URL+"/score?zone_id=LYON_1")
	if code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", code)
	}
	if body["zone_id"] != "LYON_1" {
		t.Errorf("zone_id = %v", body["zone_id"])
	}
}

func TestHandleScoreNoStore(t *testing.T) {
	ts := httptest.NewServer(NewServer(nil, nil, nil, nil, nil).Routes())
	defer ts.Close()

	code, _ := getJSON(t, ts.URL+"/score?zone_id=PARIS_DEMO_3")
	if code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", code)
	}
}

func TestHandleExplain(t *testing.T) {
	ts := newTestServer(&fakeScoreRepo{scores: map[string]*entity.ZoneScore{
		"PARIS_DEMO_3": demoScore("PARIS_DEMO_3"),
	}})
	defer ts.Close()

	code, body := getJSON(t, ts.URL+"/explain?zone_id=PARIS_DEMO_3")
	if code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}
	expl, ok := body["explanation"].(map[string]any)
	if !ok {
		t.Fatalf("no explanation object in %v", body)
	}
	summary, _ := expl["summary"].(string)
	if !strings.Contains(summary, "PARIS_DEMO_3") || !strings.Contains(summary, "rising") {
		t.Errorf("summary = %q", summary)
	}
	for _, key := range []string{"why", "limitations", "ethics", "next_steps", "roadmap"} {
		if _, ok := expl[key].([]any); !ok {
			t.Errorf("explanation missing %q", key)
		}
	}
}

func TestHandleHealthPass(t *testing.T) {
	ts := newTestServer(&fakeScoreRepo{scores: map[string]*entity.ZoneScore{
		"PARIS_DEMO_3": demoScore("PARIS_DEMO_3"),
	}})
	defer ts.Close()

	code, body := getJSON(t, ts.URL+"/health")
	if code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}
	if body["status"] != "PASS" {
		t.Errorf("status = %v", body["status"])
	}
	if body["checked_zone_id"] != "PARIS_DEMO_3" {
		t.Errorf("checked_zone_id = %v", body["checked_zone_id"])
	}
}

func TestHandleHealthMissingField(t *testing.T) {
	score := demoScore("PARIS_DEMO_3")
	score.Confidence = nil
	ts := newTestServer(&fakeScoreRepo{scores: map[string]*entity.ZoneScore{
		"PARIS_DEMO_3": score,
	}})
	defer ts.Close()

	code, body := getJSON(t, ts.URL+"/health")
	if code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", code)
	}
	if body["status"] != "FAIL" {
		t.Errorf("status = %v", body["status"])
	}
	missing, ok := body["missing"].([]any)
	if !ok || len(missing) != 1 || missing[0] != "confidence" {
		t.Errorf("missing = %v, want [confidence]", body["missing"])
	}
}

func TestHandleHealthMissingItem(t *testing.T) {
	ts := newTestServer(&fakeScoreRepo{})
	defer ts.Close()

	code, body := getJSON(t, ts.URL+"/health")
	if code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", code)
	}
	if body["reason"] != "Missing item PARIS_DEMO_3" {
		t.Errorf("reason = %v", body["reason"])
	}
}
