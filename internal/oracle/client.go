package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// ConverseConfig configures the structuring model client.
type ConverseConfig struct {
	Endpoint    string
	APIKey      string
	ModelID     string
	MaxTokens   int
	Temperature float32
	Timeout     time.Duration
}

// ConverseClient implements Oracle over a converse-style JSON API. Output
// length is bounded and sampling temperature kept low so the model favors
// literal compliance over creativity. Transport and service failures are
// fatal for the request; there is no local retry.
type ConverseClient struct {
	cfg    ConverseConfig
	client *http.Client
	log    *slog.Logger
}

func NewConverseClient(cfg ConverseConfig, client *http.Client, logger *slog.Logger) *ConverseClient {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 2000
	}
	if cfg.Temperature <= 0 {
		cfg.Temperature = 0.1
	}
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 45 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	return &ConverseClient{cfg: cfg, client: client, log: logger}
}

// ModelID reports the configured model identifier (carried on pipeline outputs).
func (c *ConverseClient) ModelID() string { return c.cfg.ModelID }

func (c *ConverseClient) Structure(ctx context.Context, req StructureRequest) (string, error) {
	rid := uuid.New().String()
	start := time.Now()

	prompt := BuildStructuringPrompt(req)

	c.log.Info("oracle.structure.start",
		"req_id", rid,
		"model", c.cfg.ModelID,
		"temp", c.cfg.Temperature,
		"max_tokens", c.cfg.MaxTokens,
		"prompt_len", len(prompt),
		"doc_type", req.DocType,
		"city", req.City,
	)

	body := map[string]any{
		"model_id": c.cfg.ModelID,
		"messages": []map[string]any{
			{"role": "user", "content": []map[string]any{{"text": prompt}}},
		},
		"inference_config": map[string]any{
			"max_tokens":  c.cfg.MaxTokens,
			"temperature": c.cfg.Temperature,
		},
	}

	raw, err := c.post(ctx, body)
	if err != nil {
		c.log.Error("oracle.structure.http_error",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", err
	}

	var cc struct {
		Output struct {
			Message struct {
				Content []struct {
					Text string `json:"text"`
				} `json:"content"`
			} `json:"message"`
		} `json:"output"`
		Usage struct {
			InputTokens  int `json:"input_tokens"`
			OutputTokens int `json:"output_tokens"`
		} `json:"usage"`
	}
	if err := json.Unmarshal(raw, &cc); err != nil {
		c.log.Error("oracle.structure.decode_error",
			"req_id", rid, "error", err, "raw_bytes", len(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", fmt.Errorf("decode oracle response: %w", err)
	}
	if len(cc.Output.Message.Content) == 0 {
		c.log.Error("oracle.structure.empty_content",
			"req_id", rid, "raw_bytes", len(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", fmt.Errorf("no content in oracle response")
	}

	c.log.Info("oracle.structure.ok",
		"req_id", rid,
		"input_tokens", cc.Usage.InputTokens,
		"output_tokens", cc.Usage.OutputTokens,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return cc.Output.Message.Content[0].Text, nil
}

func (c *ConverseClient) post(ctx context.Context, body map[string]any) ([]byte, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("oracle http error: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.log.Warn("oracle response body close error", "error", cerr)
		}
	}()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("oracle status %d: %s", resp.StatusCode, raw)
	}
	return raw, nil
}
