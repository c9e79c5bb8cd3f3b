package extract

import (
	"context"
	"strings"

	"github.com/pren-systems/pren-lite/constants"
	"github.com/pren-systems/pren-lite/internal/common"
)

// TextExtractor is Stage 1: document bytes -> line-level text.
type TextExtractor interface {
	Extract(ctx context.Context, content []byte) (Extraction, error)
}

type Extraction struct {
	Lines  []string
	Pages  int
	Method constants.ExtractionMethod
}

// Text joins the extracted lines and applies the downstream character budget.
// The cut is a hard truncation, not an ellipsis: downstream consumers expect
// at most MaxExtractedChars of verbatim text. Cuts land on rune boundaries so
// accented text stays valid UTF-8.
func (e Extraction) Text() string {
	return common.TruncateUTF8(strings.Join(e.Lines, "\n"), constants.MaxExtractedChars)
}
