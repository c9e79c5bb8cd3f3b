package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/pren-systems/pren-lite/constants"
)

// Service error codes that mean "this backend cannot process this document
// class here" and trigger the local fallback instead of failing the request.
var unavailableCodes = map[string]struct{}{
	"SubscriptionRequiredException": {},
	"AccessDeniedException":         {},
	"UnsupportedDocumentException":  {},
	"InvalidParameterException":     {},
}

// ServiceError is a typed failure from the layout OCR service.
type ServiceError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("docai %s (http %d): %s", e.Code, e.HTTPStatus, e.Message)
}

// IsUnavailable reports whether err is a ServiceError whose code belongs to
// the fallback-triggering set. Any other failure is fatal for the request.
func IsUnavailable(err error) bool {
	var se *ServiceError
	if !errors.As(err, &se) {
		return false
	}
	_, ok := unavailableCodes[se.Code]
	return ok
}

// DocAIConfig configures the primary extraction client.
type DocAIConfig struct {
	Endpoint string
	APIKey   string
	Timeout  time.Duration
}

// DocAIClient implements TextExtractor against a layout-aware OCR service.
// It requests line and table detection and keeps LINE blocks in the order
// the service returned them.
type DocAIClient struct {
	cfg    DocAIConfig
	client *http.Client
	logger *slog.Logger
}

func NewDocAIClient(cfg DocAIConfig, client *http.Client, logger *slog.Logger) *DocAIClient {
	if logger == nil {
		logger = slog.Default()
	}
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 60 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	return &DocAIClient{cfg: cfg, client: client, logger: logger}
}

type docaiBlock struct {
	BlockType string `json:"block_type"`
	Text      string `json:"text"`
	Page      int    `json:"page,omitempty"`
}

type docaiResponse struct {
	Blocks []docaiBlock `json:"blocks"`
}

func (c *DocAIClient) Extract(ctx context.Context, content []byte) (Extraction, error) {
	rid := uuid.New().String()
	start := time.Now()

	body := map[string]any{
		"document": content, // base64-encoded by the JSON codec
		"features": []string{"LINES", "TABLES"},
	}
	bs, err := json.Marshal(body)
	if err != nil {
		return Extraction{}, fmt.Errorf("encode docai request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(bs))
	if err != nil {
		return Extraction{}, fmt.Errorf("build docai request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	c.logger.Info("docai.request", "req_id", rid, "content_length", len(bs))

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Error("docai.send_error", "req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return Extraction{}, fmt.Errorf("docai http error: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.logger.Warn("docai.response_body_close_error", "req_id", rid, "error", cerr)
		}
	}()

	raw, _ := io.ReadAll(resp.Body)

	c.logger.Info("docai.response",
		"req_id", rid,
		"status", resp.StatusCode,
		"bytes", len(raw),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode/100 != 2 {
		se := &ServiceError{HTTPStatus: resp.StatusCode}
		if err := json.Unmarshal(raw, se); err != nil || se.Code == "" {
			se.Code = "InternalServerError"
			se.Message = string(raw)
		}
		return Extraction{}, se
	}

	var out docaiResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return Extraction{}, fmt.Errorf("decode docai response: %w", err)
	}

	lines := make([]string, 0, len(out.Blocks))
	pages := map[int]struct{}{}
	for _, b := range out.Blocks {
		page := b.Page
		if page == 0 {
			page = 1 // blocks with no page index count toward page 1
		}
		pages[page] = struct{}{}
		if b.BlockType == "LINE" {
			lines = append(lines, b.Text)
		}
	}
	pageCount := len(pages)

	c.logger.Info("docai.extract.ok", "req_id", rid, "lines", len(lines), "pages", pageCount)
	return Extraction{Lines: lines, Pages: pageCount, Method: constants.MethodDocAI}, nil
}
