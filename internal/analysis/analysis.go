// Package analysis talks to the external ML text-analysis service.
//
// The service is a black box reached over HTTP: POST {"text": ...} to
// /analyze_journal, get back mood score, emotions, core concerns, summary
// and growth tips. This package owns the wire contract and its failure
// modes; the service layer only sees a fully-populated *model.Analysis or
// an error value.
package analysis

import (
	"context"

	"github.com/harman-04/My-Mind-Mirror/internal/model"
)

// Analyzer is the interface the journal service depends on.
//
// Analyze either returns a complete analysis or an error — never a partial
// result. Errors are ordinary values; callers are expected to absorb them
// (save the entry without analysis) rather than fail the operation.
type Analyzer interface {
	Analyze(ctx context.Context, text string) (*model.Analysis, error)
}
