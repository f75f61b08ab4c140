package storage

import (
	"context"
	"time"

	"github.com/poiesic/docpipe/core"
)

// DocumentRepository provides operations for managing document metadata.
// Implementations must be thread-safe and support concurrent access.
type DocumentRepository interface {
	// AddDocument stores a document record, creating or replacing it.
	// Sets CreatedAt on first insert and UpdatedAt on every write.
	// Returns the document with timestamps populated.
	AddDocument(ctx context.Context, doc *core.Document) (*core.Document, error)

	// GetDocument retrieves a single document by ID.
	// Returns ErrNotFound if the document doesn't exist.
	GetDocument(ctx context.Context, id string) (*core.Document, error)

	// GetDocumentsByTenant retrieves all documents belonging to a tenant,
	// ordered by document ID. Returns an empty slice for unknown tenants.
	GetDocumentsByTenant(ctx context.Context, tenantID string) ([]*core.Document, error)

	// AcquireProcessing atomically transitions a document from pending or
	// failed to processing, clearing any previous error message. Returns
	// ErrNotAcquirable if the document is already processing or completed,
	// and ErrNotFound if it doesn't exist or belongs to a different tenant;
	// neither case mutates the record.
	AcquireProcessing(ctx context.Context, tenantID, id string) (*core.Document, error)

	// SetStatus updates a document's processing status.
	// Returns ErrNotFound if the document doesn't exist.
	SetStatus(ctx context.Context, id string, status core.ProcessingStatus) error

	// SetCompleted marks a document completed and records its chunk count.
	SetCompleted(ctx context.Context, id string, totalChunks int) error

	// SetFailed marks a document failed and records the error message.
	SetFailed(ctx context.Context, id string, errMsg string) error

	// DeleteDocument removes a document record and its tenant index entry.
	// Returns ErrNotFound if the document doesn't exist.
	DeleteDocument(ctx context.Context, id string) error

	// Close closes the repository and releases resources.
	Close() error
}

// ProgressStore provides operations for tracking per-document ingestion
// progress. Entries expire after their TTL; readers must treat a missing
// entry as unknown rather than an error.
type ProgressStore interface {
	// SetProgress records the current progress snapshot for a document.
	// The entry expires after ttl.
	SetProgress(ctx context.Context, documentID string, progress core.Progress, ttl time.Duration) error

	// GetProgress retrieves the progress snapshot for a document.
	// Returns core.UnknownProgress() if no entry exists or it has expired.
	GetProgress(ctx context.Context, documentID string) (core.Progress, error)

	// Close closes the store and releases resources.
	Close() error
}
