package ports

import "context"

// Worker produces a deterministic, unit-normalized embedding for an
// arbitrary string. Implementations own whatever process or runtime backs
// the embedding model.
type Worker interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}
