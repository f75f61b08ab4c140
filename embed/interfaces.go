package embed

import "context"

// Embedder turns chunk text into fixed-dimension vectors.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates embeddings for multiple texts. The returned
	// slice preserves index correspondence exactly: result[i] describes
	// texts[i]. A failure on any single text aborts the whole batch; there
	// is no partial success.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}
