package embed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
)

// LocalEmbedder talks to a local OpenAI-compatible model service, embedding
// whole batches in one request.
type LocalEmbedder struct {
	embedder embeddings.Embedder
	timeout  timeoutFunc
	logger   *slog.Logger
}

var _ Embedder = (*LocalEmbedder)(nil)

// NewLocalEmbedder creates an embedder backed by a local OpenAI-compatible
// service. The "none" token satisfies services that skip authentication.
func NewLocalEmbedder(config *Config) (*LocalEmbedder, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.Host),
		openai.WithToken("none"),
		openai.WithEmbeddingModel(config.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("local embedding client: %w", err)
	}

	embedder, err := embeddings.NewEmbedder(client, embeddings.WithStripNewLines(true))
	if err != nil {
		return nil, fmt.Errorf("local embedder: %w", err)
	}

	return &LocalEmbedder{
		embedder: embedder,
		timeout:  perCallTimeout(config.RequestTimeout),
		logger:   slog.Default().With("component", "local-embedder"),
	}, nil
}

// EmbedText generates an embedding for a single text.
func (e *LocalEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.EmbedTexts(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		e.logger.Warn("embedder returned empty result")
		return []float32{}, nil
	}
	return vectors[0], nil
}

// EmbedTexts embeds the whole batch in one bounded request.
func (e *LocalEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	e.logger.Debug("generating embeddings", "count", len(texts))

	ctx, cancel := e.timeout(ctx)
	defer cancel()

	vectors, err := e.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		e.logger.Error("failed to generate embeddings", "count", len(texts), "err", err)
		return nil, err
	}
	return vectors, nil
}
