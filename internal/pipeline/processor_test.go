package pipeline

import (
	"context"
	"testing"

	"github.com/pren-systems/pren-lite/constants"
	"github.com/pren-systems/pren-lite/internal/entity"
	"github.com/pren-systems/pren-lite/internal/extract"
	"github.com/pren-systems/pren-lite/internal/oracle"
	"github.com/pren-systems/pren-lite/internal/repository"
)

type fakeBlobStore map[string][]byte

func (f fakeBlobStore) Fetch(_ context.Context, _, key string) ([]byte, error) {
	return f[key], nil
}

type fakeTextExtractor struct {
	res extract.Extraction
}

func (f fakeTextExtractor) Extract(_ context.Context, _ []byte) (extract.Extraction, error) {
	return f.res, nil
}

type fakeOracle struct {
	raw string
	req oracle.StructureRequest
}

func (f *fakeOracle) Structure(_ context.Context, req oracle.StructureRequest) (string, error) {
	f.req = req
	return f.raw, nil
}

type fakeSignalRepo struct {
	doc   entity.DocumentRef
	batch entity.SignalBatch
	calls int
}

func (f *fakeSignalRepo) StoreBatch(_ context.Context, doc entity.DocumentRef, batch entity.SignalBatch) int {
	f.calls++
	f.doc = doc
	f.batch = batch
	n := len(batch.Signals)
	if n > constants.MaxSignalsPerDoc {
		n = constants.MaxSignalsPerDoc
	}
	return n
}

func (f *fakeSignalRepo) ListByDocument(context.Context, string) ([]entity.SignalRecord, error) {
	return nil, nil
}

func (f *fakeSignalRepo) ListByCity(context.Context, string) ([]entity.SignalRecord, error) {
	return nil, nil
}

var _ repository.SignalRepository = (*fakeSignalRepo)(nil)

func TestProcessorEndToEnd(t *testing.T) {
	blobs := fakeBlobStore{"pdfs/plu_paris_zone1.pdf": []byte("%PDF-1.4")}
	extractor := fakeTextExtractor{res: extract.Extraction{
		Lines:  []string{"Zone residentielle R2", "Permis depose le 12/03"},
		Pages:  1,
		Method: constants.MethodDocAI,
	}}
	orc := &fakeOracle{raw: "```json\n{\"signals\":[{\"type\":\"permit\",\"description\":\"Permis en cours\",\"impact\":\"positive\",\"confidence\":0.8}], \"summary\":\"Permis en cours de traitement.\",\"signal_count\":1}\n```"}
	repo := &fakeSignalRepo{}

	proc := NewProcessor(nil,
		NewExtractStage(blobs, extractor, nil),
		NewStructureStage(orc, "eu.amazon.nova-micro-v1:0", repo, nil),
	)

	out, err := proc.ProcessDocument(context.Background(), entity.DocumentRef{
		Key:     "pdfs/plu_paris_zone1.pdf",
		DocType: "zoning",
		City:    "Paris",
	})
	if err != nil {
		t.Fatalf("ProcessDocument failed: %v", err)
	}

	if out.SignalsStored != 1 {
		t.Errorf("signals_stored = %d, want 1", out.SignalsStored)
	}
	if out.Status != constants.StatusStructured {
		t.Errorf("status = %q, want %q", out.Status, constants.StatusStructured)
	}
	if out.ModelID != "eu.amazon.nova-micro-v1:0" {
		t.Errorf("model_id = %q", out.ModelID)
	}
	if len(out.StructuredSignals.Signals) != 1 {
		t.Fatalf("structured signals = %d, want 1", len(out.StructuredSignals.Signals))
	}
	if out.StructuredSignals.Signals[0].Type != "permit" {
		t.Errorf("signal type = %q, want permit", out.StructuredSignals.Signals[0].Type)
	}

	// The oracle must have received the extracted text, not the raw bytes.
	if orc.req.Text != "Zone residentielle R2\nPermis depose le 12/03" {
		t.Errorf("oracle text = %q", orc.req.Text)
	}
	if repo.calls != 1 {
		t.Errorf("StoreBatch called %d times, want 1", repo.calls)
	}
	if repo.doc.Key != "pdfs/plu_paris_zone1.pdf" || repo.doc.City != "Paris" {
		t.Errorf("persisted doc ref = %+v", repo.doc)
	}
}

func TestStructureStageDegradedBatchSkipsPersistence(t *testing.T) {
	orc := &fakeOracle{raw: "sorry, I cannot do that"}
	repo := &fakeSignalRepo{}
	stage := NewStructureStage(orc, "m", repo, nil)

	out, err := stage.Run(context.Background(), ExtractionOutput{
		S3Key: "k", DocType: "zoning", City: "Paris", ExtractedText: "some text",
	})
	if err != nil {
		t.Fatalf("an unparseable oracle response must not fail the run: %v", err)
	}
	if out.SignalsStored != 0 {
		t.Errorf("signals_stored = %d, want 0", out.SignalsStored)
	}
	if out.StructuredSignals.Summary != "Parsing failed" {
		t.Errorf("summary = %q", out.StructuredSignals.Summary)
	}
	if repo.calls != 0 {
		t.Errorf("StoreBatch called for an empty batch")
	}
}

func TestExtractStageOutputShape(t *testing.T) {
	blobs := fakeBlobStore{"doc.pdf": []byte("%PDF-1.4")}
	extractor := fakeTextExtractor{res: extract.Extraction{
		Lines:  []string{"a", "b", "c"},
		Pages:  2,
		Method: constants.MethodPDFText,
	}}
	stage := NewExtractStage(blobs, extractor, nil)

	out, err := stage.Run(context.Background(), entity.DocumentRef{Key: "doc.pdf", DocType: "permit", City: "Paris"})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if out.LineCount != 3 || out.PageCount != 2 {
		t.Errorf("line_count=%d page_count=%d", out.LineCount, out.PageCount)
	}
	if out.ExtractionMethod != string(constants.MethodPDFText) {
		t.Errorf("extraction_method = %q", out.ExtractionMethod)
	}
	if out.Status != constants.StatusExtracted {
		t.Errorf("status = %q", out.Status)
	}
	if out.ExtractedText != "a\nb\nc" {
		t.Errorf("extracted_text = %q", out.ExtractedText)
	}
}

func TestUnwrapExtractionOutput(t *testing.T) {
	direct := []byte(`{"s3_key":"k","doc_type":"zoning","city":"Paris","extracted_text":"t"}`)
	wrappedObj := []byte(`{"body":{"s3_key":"k","doc_type":"zoning","city":"Paris","extracted_text":"t"}}`)
	wrappedStr := []byte(`{"body":"{\"s3_key\":\"k\",\"doc_type\":\"zoning\",\"city\":\"Paris\",\"extracted_text\":\"t\"}"}`)

	for name, raw := range map[string][]byte{"direct": direct, "object body": wrappedObj, "string body": wrappedStr} {
		t.Run(name, func(t *testing.T) {
			out, err := UnwrapExtractionOutput(raw)
			if err != nil {
				t.Fatalf("unwrap failed: %v", err)
			}
			if out.S3Key != "k" || out.ExtractedText != "t" {
				t.Errorf("out = %+v", out)
			}
		})
	}
}
