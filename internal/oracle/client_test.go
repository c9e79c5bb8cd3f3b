package oracle

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestConverseClientRequestAndResponse(t *testing.T) {
	var got map[string]any
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_, _ = w.Write([]byte(`{
			"output":{"message":{"content":[{"text":"{\"signals\":[],\"summary\":\"ok\",\"signal_count\":0}"}]}},
			"usage":{"input_tokens":120,"output_tokens":30}
		}`))
	}))
	defer ts.Close()

	c := NewConverseClient(ConverseConfig{
		Endpoint: ts.URL,
		ModelID:  "eu.amazon.nova-micro-v1:0",
	}, ts.Client(), nil)

	raw, err := c.Structure(context.Background(), StructureRequest{
		Text: "some text", DocType: "zoning", City: "Paris",
	})
	if err != nil {
		t.Fatalf("Structure failed: %v", err)
	}
	if raw == "" || raw[0] != '{' {
		t.Errorf("raw = %q, want the model text verbatim", raw)
	}

	inf, ok := got["inference_config"].(map[string]any)
	if !ok {
		t.Fatalf("request missing inference_config: %v", got)
	}
	if inf["max_tokens"].(float64) != 2000 {
		t.Errorf("max_tokens = %v, want default 2000", inf["max_tokens"])
	}
	if temp := inf["temperature"].(float64); temp < 0.09 || temp > 0.11 {
		t.Errorf("temperature = %v, want default 0.1", temp)
	}
	if got["model_id"] != "eu.amazon.nova-micro-v1:0" {
		t.Errorf("model_id = %v", got["model_id"])
	}
}

func TestConverseClientServiceFailureIsFatal(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	c := NewConverseClient(ConverseConfig{Endpoint: ts.URL, ModelID: "m"}, ts.Client(), nil)
	if _, err := c.Structure(context.Background(), StructureRequest{Text: "x"}); err == nil {
		t.Fatal("expected error on service failure")
	}
}

func TestConverseClientEmptyContentIsError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"output":{"message":{"content":[]}}}`))
	}))
	defer ts.Close()

	c := NewConverseClient(ConverseConfig{Endpoint: ts.URL, ModelID: "m"}, ts.Client(), nil)
	if _, err := c.Structure(context.Background(), StructureRequest{Text: "x"}); err == nil {
		t.Fatal("expected error on empty content")
	}
}
