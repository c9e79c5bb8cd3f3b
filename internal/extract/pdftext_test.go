package extract

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/pren-systems/pren-lite/constants"
)

type stubRunner struct {
	stdout []byte
	stderr []byte
	err    error
}

func (s stubRunner) Run(_ context.Context, _ string, _ ...string) ([]byte, []byte, error) {
	return s.stdout, s.stderr, s.err
}

func TestPDFTextSplitsPagesAndLines(t *testing.T) {
	// pdftotext terminates every page with a form feed, the last included.
	out := "Zone residentielle R2\n  Permis depose le 12/03  \n\n\fPage deux ligne\n\f"
	p := &PDFText{cfg: PDFTextConfig{Pdftotext: "pdftotext"}, runner: stubRunner{stdout: []byte(out)}, logger: slog.Default()}

	res, err := p.Extract(context.Background(), []byte("%PDF-1.4"))
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if res.Method != constants.MethodPDFText {
		t.Errorf("method = %q, want %q", res.Method, constants.MethodPDFText)
	}
	if res.Pages != 2 {
		t.Errorf("pages = %d, want 2", res.Pages)
	}
	want := []string{"Zone residentielle R2", "Permis depose le 12/03", "Page deux ligne"}
	if len(res.Lines) != len(want) {
		t.Fatalf("lines = %v, want %v", res.Lines, want)
	}
	for i := range want {
		if res.Lines[i] != want[i] {
			t.Errorf("lines[%d] = %q, want %q", i, res.Lines[i], want[i])
		}
	}
}

func TestPDFTextPageCount(t *testing.T) {
	tests := []struct {
		name  string
		out   string
		pages int
	}{
		{"single page, trailing marker", "une seule page\n\f", 1},
		{"three pages, trailing marker", "un\n\fdeux\n\ftrois\n\f", 3},
		{"no trailing marker", "un\n\fdeux\n", 2},
		{"empty output", "", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &PDFText{cfg: PDFTextConfig{Pdftotext: "pdftotext"}, runner: stubRunner{stdout: []byte(tt.out)}, logger: slog.Default()}
			res, err := p.Extract(context.Background(), []byte("%PDF-1.4"))
			if err != nil {
				t.Fatalf("Extract failed: %v", err)
			}
			if res.Pages != tt.pages {
				t.Errorf("pages = %d, want %d", res.Pages, tt.pages)
			}
		})
	}
}

func TestPDFTextRunnerFailure(t *testing.T) {
	p := &PDFText{
		cfg:    PDFTextConfig{Pdftotext: "pdftotext"},
		runner: stubRunner{stderr: []byte("Syntax Error: not a PDF"), err: errors.New("exit status 1")},
		logger: slog.Default(),
	}
	_, err := p.Extract(context.Background(), []byte("not a pdf"))
	if err == nil {
		t.Fatal("expected error from failing parser")
	}
}
