package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"

	"github.com/poiesic/docpipe/core"
	"github.com/poiesic/docpipe/embed"
	"github.com/poiesic/docpipe/extract"
	"github.com/poiesic/docpipe/storage"
	"github.com/poiesic/docpipe/vector"
)

// Extractor is the page extraction capability the pipeline consumes.
// *extract.Extractor satisfies it.
type Extractor interface {
	ExtractPages(ctx context.Context, tenantID, filePath string, report extract.ProgressFunc) ([]core.PageExtraction, error)
}

// Pipeline orchestrates document ingestion: extraction, chunking, embedding
// and the vector index write run as one sequential chain per document, with
// multiple documents processed concurrently across pool workers.
type Pipeline struct {
	documents storage.DocumentRepository
	progress  storage.ProgressStore
	extractor Extractor
	embedder  embed.Embedder
	vectors   vector.Writer
	pool      *ants.Pool
	config    Config
	logger    *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent document processing.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		if p.pool != nil {
			p.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithConfig overrides the default pipeline configuration.
func WithConfig(config Config) Option {
	return func(p *Pipeline) error {
		p.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	documents storage.DocumentRepository,
	progress storage.ProgressStore,
	extractor Extractor,
	embedder embed.Embedder,
	vectors vector.Writer,
	opts ...Option,
) (*Pipeline, error) {
	if documents == nil {
		return nil, ErrDocumentRepositoryRequired
	}
	if progress == nil {
		return nil, ErrProgressStoreRequired
	}
	if extractor == nil {
		return nil, ErrExtractorRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if vectors == nil {
		return nil, ErrVectorWriterRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		documents: documents,
		progress:  progress,
		extractor: extractor,
		embedder:  embedder,
		vectors:   vectors,
		pool:      pool,
		config:    DefaultConfig(),
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// Enqueue starts a pipeline run for a registered document and returns the
// run ID. The document must be pending or failed; the transition to
// processing is a compare-and-swap so two concurrent triggers for the same
// document cannot both start a run.
func (p *Pipeline) Enqueue(ctx context.Context, tenantID, docID, filePath string) (string, error) {
	// The tenant check happens inside the CAS; a wrong-tenant caller gets
	// ErrNotFound and the record is never touched.
	if _, err := p.documents.AcquireProcessing(ctx, tenantID, docID); err != nil {
		return "", err
	}

	runID := uuid.NewString()

	submitErr := p.pool.Submit(func() {
		p.process(tenantID, docID, filePath, runID)
	})
	if submitErr != nil {
		// Failure to enqueue converges on the same behavior as a stage failure.
		p.fail(ctx, p.logger.With("run", runID, "doc", docID), docID,
			fmt.Errorf("enqueue failed: %w", submitErr))
		return "", submitErr
	}

	return runID, nil
}

// Retry re-queues a failed or pending document from stage 1 with its
// original file path. There are no partial-resume semantics; the whole
// chain reruns. Returns a fresh run ID.
func (p *Pipeline) Retry(ctx context.Context, tenantID, docID string) (string, error) {
	doc, err := p.documents.GetDocument(ctx, docID)
	if err != nil {
		return "", err
	}
	if doc.TenantID != tenantID {
		return "", storage.ErrNotFound
	}
	if doc.Status != core.StatusFailed && doc.Status != core.StatusPending {
		return "", fmt.Errorf("%w: status is %s", ErrNotRetryable, doc.Status)
	}

	if doc.Status == core.StatusFailed {
		if err := p.documents.SetStatus(ctx, docID, core.StatusPending); err != nil {
			return "", err
		}
	}

	return p.Enqueue(ctx, tenantID, docID, doc.FilePath)
}

// DeleteVectors schedules asynchronous removal of all index points for a
// document. Fire and forget: cleanup errors are logged, never returned.
func (p *Pipeline) DeleteVectors(tenantID, docID string) error {
	return p.pool.Submit(func() {
		if err := p.vectors.DeleteDocument(context.Background(), tenantID, docID); err != nil {
			p.logger.Error("vector cleanup failed", "tenant", tenantID, "doc", docID, "err", err)
		}
	})
}

// Delete removes a document record. Documents that completed ingestion get
// their index points cleaned up asynchronously; anything else has no points
// worth removing. Deleting a document mid-processing leaves the in-flight
// run to fail on its own.
func (p *Pipeline) Delete(ctx context.Context, tenantID, docID string) error {
	doc, err := p.documents.GetDocument(ctx, docID)
	if err != nil {
		return err
	}
	if doc.TenantID != tenantID {
		return storage.ErrNotFound
	}

	if err := p.documents.DeleteDocument(ctx, docID); err != nil {
		return err
	}

	if doc.Status == core.StatusCompleted {
		return p.DeleteVectors(tenantID, docID)
	}
	return nil
}

// GetProgress reads the best-effort progress snapshot for a document.
// Missing or unreadable snapshots yield UnknownProgress, never an error.
func (p *Pipeline) GetProgress(ctx context.Context, docID string) core.Progress {
	progress, err := p.progress.GetProgress(ctx, docID)
	if err != nil {
		p.logger.Warn("progress read failed", "doc", docID, "err", err)
		return core.UnknownProgress()
	}
	return progress
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}

// process runs the four-stage chain for one document. It owns the document
// record for the duration of the run; every failure converges on status
// failed, a persisted error message and a failed progress snapshot.
func (p *Pipeline) process(tenantID, docID, filePath, runID string) {
	ctx := context.Background()
	logger := p.logger.With("run", runID, "doc", docID, "tenant", tenantID)

	report := func(percent int, step string) {
		snapshot := core.Progress{Percent: percent, Step: step}
		if err := p.progress.SetProgress(ctx, docID, snapshot, p.config.ProgressTTL); err != nil {
			// Progress is a liveness signal, not state; a failed write never
			// fails the run.
			logger.Warn("progress write failed", "step", step, "err", err)
		}
	}

	report(5, "starting")

	// Stage 1: extraction
	report(10, "extracting_text")
	var pages []core.PageExtraction
	err := p.runStage(ctx, "extract", p.config.ExtractLimits, func(ctx context.Context) error {
		var err error
		pages, err = p.extractor.ExtractPages(ctx, tenantID, filePath, func(done, total int) {
			report(10+done*15/total, fmt.Sprintf("extracted_page_%d", done))
		})
		return err
	})
	if err != nil {
		p.fail(ctx, logger, docID, fmt.Errorf("text extraction failed: %w", err))
		return
	}
	report(25, "text_extracted")

	// Stage 2: chunking
	report(30, "chunking_text")
	var chunks []core.Chunk
	err = p.runStage(ctx, "chunk", p.config.ChunkLimits, func(ctx context.Context) error {
		var err error
		chunks, err = p.chunkPages(ctx, pages)
		return err
	})
	if err != nil {
		p.fail(ctx, logger, docID, fmt.Errorf("chunking failed: %w", err))
		return
	}
	report(40, "storing_chunks")
	report(50, "chunks_stored")

	// Stage 3: embedding
	report(55, "generating_embeddings")
	var embeddings [][]float32
	err = p.runStage(ctx, "embed", p.config.EmbedLimits, func(ctx context.Context) error {
		texts := make([]string, len(chunks))
		for i, c := range chunks {
			texts[i] = c.Text
		}

		var err error
		embeddings, err = p.embedder.EmbedTexts(ctx, texts)
		if err != nil {
			return err
		}
		if len(embeddings) != len(chunks) {
			return fmt.Errorf("%w: %d embeddings for %d chunks",
				ErrEmbeddingCountMismatch, len(embeddings), len(chunks))
		}
		return nil
	})
	if err != nil {
		p.fail(ctx, logger, docID, fmt.Errorf("embedding generation failed: %w", err))
		return
	}
	report(75, "embeddings_generated")

	// Stage 4: vector write
	report(80, "upserting_vectors")
	err = p.runStage(ctx, "upsert", p.config.UpsertLimits, func(ctx context.Context) error {
		// Re-fetch metadata for payload enrichment; upload metadata may have
		// changed since the run started.
		doc, err := p.documents.GetDocument(ctx, docID)
		if err != nil {
			return err
		}

		// Remove points from any prior run first so a retry converges
		// instead of accumulating stale points.
		if err := p.vectors.DeleteDocument(ctx, tenantID, docID); err != nil {
			return err
		}
		return p.vectors.UpsertDocument(ctx, tenantID, docID, buildPoints(doc, chunks, embeddings))
	})
	if err != nil {
		p.fail(ctx, logger, docID, fmt.Errorf("vector write failed: %w", err))
		return
	}
	report(90, "vectors_upserted")

	if err := p.documents.SetCompleted(ctx, docID, len(chunks)); err != nil {
		p.fail(ctx, logger, docID, fmt.Errorf("recording completion failed: %w", err))
		return
	}
	report(100, "completed")

	logger.Info("pipeline run completed", "pages", len(pages), "chunks", len(chunks))
}

// fail converges every stage failure on one behavior: persist the failed
// status with the error message, and write a failed progress snapshot.
func (p *Pipeline) fail(ctx context.Context, logger *slog.Logger, docID string, cause error) {
	logger.Error("pipeline run failed", "err", cause)

	if err := p.documents.SetFailed(ctx, docID, cause.Error()); err != nil {
		logger.Error("failed to record failure status", "err", err)
	}

	snapshot := core.Progress{Percent: 0, Step: "failed", Error: cause.Error()}
	if err := p.progress.SetProgress(ctx, docID, snapshot, p.config.ProgressTTL); err != nil {
		logger.Warn("progress write failed", "step", "failed", "err", err)
	}
}
