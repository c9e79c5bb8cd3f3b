package constants

// ExtractionMethod records which strategy produced the text.
type ExtractionMethod string

// Stable values (these exact strings appear in pipeline outputs).
const (
	MethodDocAI   ExtractionMethod = "docai-ocr" // primary layout-aware OCR service
	MethodPDFText ExtractionMethod = "pdf-text"  // local fallback parser
)

// Pipeline stage statuses carried on stage outputs.
const (
	StatusExtracted  = "extracted"
	StatusStructured = "structured"
)

// Character budgets for downstream payloads.
const (
	// MaxExtractedChars bounds the extracted text kept on the extraction
	// output (orchestration payload limit).
	MaxExtractedChars = 10000

	// MaxPromptChars bounds the text embedded in the structuring prompt.
	MaxPromptChars = 5000

	// MaxRawDiagnosticChars bounds the raw oracle text retained on a
	// degraded batch.
	MaxRawDiagnosticChars = 500

	// MaxSignalsPerDoc bounds how many signals are persisted per document.
	MaxSignalsPerDoc = 10
)
