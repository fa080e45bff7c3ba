package nlp

import "context"

type Embedder interface {
	// Embed returns the text's embedding vector.
	Embed(ctx context.Context, text string) ([]float32, error)
}
