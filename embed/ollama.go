package embed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/ollama"
)

// OllamaEmbedder talks to a remote Ollama inference server. Each text is
// embedded with its own request so a failure surfaces with the index of the
// text that caused it.
type OllamaEmbedder struct {
	embedder embeddings.Embedder
	timeout  timeoutFunc
	logger   *slog.Logger
}

var _ Embedder = (*OllamaEmbedder)(nil)

// NewOllamaEmbedder creates an embedder backed by an Ollama server.
func NewOllamaEmbedder(config *Config) (*OllamaEmbedder, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	llm, err := ollama.New(
		ollama.WithServerURL(config.Host),
		ollama.WithModel(config.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("ollama client: %w", err)
	}

	embedder, err := embeddings.NewEmbedder(llm, embeddings.WithStripNewLines(true))
	if err != nil {
		return nil, fmt.Errorf("ollama embedder: %w", err)
	}

	return &OllamaEmbedder{
		embedder: embedder,
		timeout:  perCallTimeout(config.RequestTimeout),
		logger:   slog.Default().With("component", "ollama-embedder"),
	}, nil
}

// EmbedText generates an embedding for a single text.
func (e *OllamaEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	ctx, cancel := e.timeout(ctx)
	defer cancel()

	vector, err := e.embedder.EmbedQuery(ctx, text)
	if err != nil {
		e.logger.Error("failed to generate embedding", "err", err)
		return nil, err
	}
	return vector, nil
}

// EmbedTexts embeds each text with an independent, individually bounded
// request. Any single failure aborts the batch.
func (e *OllamaEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	e.logger.Debug("generating embeddings", "count", len(texts))

	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vector, err := e.EmbedText(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("embed text %d of %d: %w", i, len(texts), err)
		}
		vectors[i] = vector

		if (i+1)%50 == 0 {
			e.logger.Info("embedding progress", "done", i+1, "total", len(texts))
		}
	}
	return vectors, nil
}

// timeoutFunc derives a bounded child context.
type timeoutFunc func(ctx context.Context) (context.Context, context.CancelFunc)

func perCallTimeout(d time.Duration) timeoutFunc {
	return func(ctx context.Context) (context.Context, context.CancelFunc) {
		return context.WithTimeout(ctx, d)
	}
}
