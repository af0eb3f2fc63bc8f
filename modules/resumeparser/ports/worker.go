package ports

import (
	"context"

	cpmodel "github.com/arjunmehta/shortlist-engine/modules/candidateprofile/model"
)

// ParserWorker runs the resume parser subprocess for one uploaded file. It
// returns a bridge-level error only for infrastructure failures (the
// worker could not be spawned, the call timed out); a parser-reported
// content failure is folded into a FAILED-status ParsedResume with
// empty defaults and a nil error, per the "never blocks the upload path"
// contract.
type ParserWorker interface {
	Parse(ctx context.Context, filePath string) (*cpmodel.ParsedResume, cpmodel.ParsingStatus, error)
}
