package vector

import "context"

// Point is one persisted (id, embedding, payload) triple. The payload
// carries the chunk fields plus the owning document's metadata so search
// results are self-describing.
type Point struct {
	ID      string
	Vector  []float32
	Payload map[string]any
}

// Writer upserts and removes document vectors in a tenant-scoped
// collection. Implementations must be thread-safe.
type Writer interface {
	// UpsertDocument writes all points for a document. The collection is
	// created on first use with the dimensionality of the first vector in
	// the batch; that dimension is fixed for the collection's lifetime.
	// Chunks are never updated in place: reprocessing deletes the
	// document's prior points before calling this.
	UpsertDocument(ctx context.Context, tenantID, docID string, points []Point) error

	// DeleteDocument removes every point belonging to the document.
	// Deleting a document with no points succeeds silently.
	DeleteDocument(ctx context.Context, tenantID, docID string) error

	// Close releases the connection to the index service.
	Close() error
}

// CollectionName returns the tenant-scoped collection name.
func CollectionName(tenantID string) string {
	return "tenant_" + tenantID
}
