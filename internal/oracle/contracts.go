package oracle

import "context"

// StructureRequest carries everything the oracle needs to turn extracted
// text into a signal batch.
type StructureRequest struct {
	Text    string // already bounded upstream; truncated again for the prompt
	DocType string
	City    string
}

// Oracle converts free text into (hopefully) structured JSON. It is an
// untrusted black box: callers must treat the returned text as unvalidated
// input and go through ParseBatch.
type Oracle interface {
	Structure(ctx context.Context, req StructureRequest) (raw string, err error)
}
