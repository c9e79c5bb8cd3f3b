package entity

import (
	"time"

	"github.com/pren-systems/pren-lite/constants"
)

// DocumentRef identifies a document in the blob store plus its ingest metadata.
type DocumentRef struct {
	Bucket  string `json:"s3_bucket,omitempty"`
	Key     string `json:"s3_key"`
	DocType string `json:"doc_type"`
	City    string `json:"city"`
}

// Signal is one normalized observation the oracle extracted from a document.
// Confidence is a pointer so a missing value can be told apart from 0.
type Signal struct {
	Type         string   `json:"type"`
	Description  string   `json:"description"`
	Impact       string   `json:"impact"`
	Confidence   *float64 `json:"confidence,omitempty"`
	LocationHint string   `json:"location_hint,omitempty"`
}

// SignalBatch is the oracle's structured response for one document.
// SignalCount is the oracle's own declared count; it is carried as-is and
// never reconciled against len(Signals).
type SignalBatch struct {
	Signals     []Signal `json:"signals"`
	Summary     string   `json:"summary"`
	SignalCount int      `json:"signal_count"`
	Raw         string   `json:"raw,omitempty"` // populated only on a degraded batch
}

// SignalRecord is the persisted form of a Signal, keyed by document and
// zero-padded sequence within the batch.
type SignalRecord struct {
	DocKey       string               `json:"doc_key"`
	Seq          string               `json:"seq"` // "SIGNAL#000" .. "SIGNAL#009"
	DocType      constants.DocType    `json:"doc_type"`
	City         string               `json:"city"`
	SignalType   constants.SignalType `json:"signal_type"`
	Description  string               `json:"description"`
	Impact       constants.Impact     `json:"impact"`
	Confidence   string               `json:"confidence"` // decimal string, precision-safe
	LocationHint string               `json:"location_hint"`
	CreatedAt    time.Time            `json:"created_at"`
}
