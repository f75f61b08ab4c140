package pipeline

import "errors"

var (
	// ErrDocumentRepositoryRequired is returned when a document repository is not provided.
	ErrDocumentRepositoryRequired = errors.New("document repository required")

	// ErrProgressStoreRequired is returned when a progress store is not provided.
	ErrProgressStoreRequired = errors.New("progress store required")

	// ErrExtractorRequired is returned when an extractor is not provided.
	ErrExtractorRequired = errors.New("extractor required")

	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrVectorWriterRequired is returned when a vector writer is not provided.
	ErrVectorWriterRequired = errors.New("vector writer required")

	// ErrNotRetryable is returned when retry is requested for a document
	// that is neither failed nor pending.
	ErrNotRetryable = errors.New("document is not retryable")

	// ErrNoChunks indicates that chunking produced no usable chunks.
	ErrNoChunks = errors.New("no chunks produced from extracted text")

	// ErrEmbeddingCountMismatch indicates the embedding backend returned a
	// different number of vectors than chunks submitted.
	ErrEmbeddingCountMismatch = errors.New("embedding count does not match chunk count")

	// ErrStageTimeout indicates a stage exceeded its execution time ceiling.
	ErrStageTimeout = errors.New("stage exceeded time ceiling")
)
