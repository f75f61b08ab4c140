// Package mock provides an in-memory vector.Writer for tests.
package mock

import (
	"context"
	"sync"

	"github.com/poiesic/docpipe/vector"
)

// Upsert records a single UpsertDocument call.
type Upsert struct {
	TenantID   string
	DocumentID string
	Points     []vector.Point
}

// Delete records a single DeleteDocument call.
type Delete struct {
	TenantID   string
	DocumentID string
}

// Writer is an in-memory vector.Writer that records every call. Handlers
// can be overridden per test to inject failures.
type Writer struct {
	mu      sync.Mutex
	Upserts []Upsert
	Deletes []Delete

	UpsertFunc func(ctx context.Context, tenantID, documentID string, points []vector.Point) error
	DeleteFunc func(ctx context.Context, tenantID, documentID string) error
}

var _ vector.Writer = (*Writer)(nil)

func NewWriter() *Writer {
	return &Writer{}
}

func (w *Writer) UpsertDocument(ctx context.Context, tenantID, documentID string, points []vector.Point) error {
	w.mu.Lock()
	w.Upserts = append(w.Upserts, Upsert{TenantID: tenantID, DocumentID: documentID, Points: points})
	fn := w.UpsertFunc
	w.mu.Unlock()
	if fn != nil {
		return fn(ctx, tenantID, documentID, points)
	}
	return nil
}

func (w *Writer) DeleteDocument(ctx context.Context, tenantID, documentID string) error {
	w.mu.Lock()
	w.Deletes = append(w.Deletes, Delete{TenantID: tenantID, DocumentID: documentID})
	fn := w.DeleteFunc
	w.mu.Unlock()
	if fn != nil {
		return fn(ctx, tenantID, documentID)
	}
	return nil
}

func (w *Writer) Close() error { return nil }

// PointCount returns the total number of points upserted for a document
// across all recorded calls.
func (w *Writer) PointCount(tenantID, documentID string) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	n := 0
	for _, u := range w.Upserts {
		if u.TenantID == tenantID && u.DocumentID == documentID {
			n += len(u.Points)
		}
	}
	return n
}

// Reset clears all recorded calls.
func (w *Writer) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.Upserts = nil
	w.Deletes = nil
}
