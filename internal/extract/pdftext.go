package extract

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pren-systems/pren-lite/constants"
)

// PDFTextConfig configures the local fallback parser.
type PDFTextConfig struct {
	Pdftotext string // binary name or absolute path; if empty -> "pdftotext"
}

// PDFText is the fallback TextExtractor: pure local parsing of the raw PDF
// bytes, no network dependency. Per-page text is split into non-empty
// trimmed lines; the page separator is the form-feed pdftotext emits.
type PDFText struct {
	cfg    PDFTextConfig
	runner Runner
	logger *slog.Logger
}

func NewPDFText(cfg PDFTextConfig, logger *slog.Logger) *PDFText {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	return &PDFText{cfg: cfg, runner: execRunner{}, logger: logger}
}

func (p *PDFText) Extract(ctx context.Context, content []byte) (Extraction, error) {
	tmpDir, err := os.MkdirTemp("", "pren-pdf-*")
	if err != nil {
		return Extraction{}, err
	}
	defer func() {
		if rerr := os.RemoveAll(tmpDir); rerr != nil {
			p.logger.Warn("pdftext.tmp_cleanup_failed", "dir", tmpDir, "error", rerr)
		}
	}()

	path := filepath.Join(tmpDir, "doc.pdf")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		return Extraction{}, fmt.Errorf("write temp pdf: %w", err)
	}

	// pdftotext -layout -enc UTF-8 -eol unix <path> -
	out, errb, err := p.runner.Run(ctx, p.cfg.Pdftotext, "-layout", "-enc", "UTF-8", "-eol", "unix", path, "-")
	if err != nil {
		return Extraction{}, fmt.Errorf("pdftotext: %w (stderr: %s)", err, truncate(string(errb), 512))
	}

	text := string(out)

	// pdftotext ends every page with a form feed, the last one included, so
	// the page count is the number of segments before the trailing marker.
	segments := strings.Split(text, "\f")
	if len(segments) > 1 && strings.TrimSpace(segments[len(segments)-1]) == "" {
		segments = segments[:len(segments)-1]
	}
	pages := len(segments)

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(strings.ReplaceAll(line, "\f", ""))
		if line != "" {
			lines = append(lines, line)
		}
	}

	p.logger.Info("pdftext.extract.ok", "lines", len(lines), "pages", pages)
	return Extraction{Lines: lines, Pages: pages, Method: constants.MethodPDFText}, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}
