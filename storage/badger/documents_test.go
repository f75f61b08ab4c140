package badger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/docpipe/core"
	"github.com/poiesic/docpipe/storage"
)

func newTestDoc(tenantID, filePath string) *core.Document {
	return &core.Document{
		ID:       core.DocumentID(tenantID, filePath),
		TenantID: tenantID,
		FilePath: filePath,
		Status:   core.StatusPending,
		Filename: "doc.pdf",
	}
}

func TestAddDocument_SetsTimestamps(t *testing.T) {
	docs, _, backend, err := NewMemoryStores()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	doc := newTestDoc("tenant-1", "/uploads/tenant-1/doc.pdf")

	added, err := docs.AddDocument(ctx, doc)
	require.NoError(t, err)
	assert.False(t, added.CreatedAt.IsZero())
	assert.False(t, added.UpdatedAt.IsZero())
}

func TestAddDocument_ReplacePreservesCreatedAt(t *testing.T) {
	docs, _, backend, err := NewMemoryStores()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	doc := newTestDoc("tenant-1", "/uploads/tenant-1/doc.pdf")

	added, err := docs.AddDocument(ctx, doc)
	require.NoError(t, err)
	created := added.CreatedAt

	replacement := newTestDoc("tenant-1", "/uploads/tenant-1/doc.pdf")
	replacement.Title = "updated"
	replaced, err := docs.AddDocument(ctx, replacement)
	require.NoError(t, err)
	assert.Equal(t, created, replaced.CreatedAt)

	got, err := docs.GetDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "updated", got.Title)
}

func TestAddDocument_Invalid(t *testing.T) {
	docs, _, backend, err := NewMemoryStores()
	require.NoError(t, err)
	defer backend.Close()

	_, err = docs.AddDocument(context.Background(), &core.Document{
		TenantID: "tenant-1",
		FilePath: "/uploads/tenant-1/doc.pdf",
		Status:   core.StatusPending,
	})
	assert.ErrorIs(t, err, core.ErrEmptyDocumentID)
}

func TestGetDocument_NotFound(t *testing.T) {
	docs, _, backend, err := NewMemoryStores()
	require.NoError(t, err)
	defer backend.Close()

	_, err = docs.GetDocument(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestGetDocumentsByTenant(t *testing.T) {
	docs, _, backend, err := NewMemoryStores()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()

	for _, path := range []string{"/uploads/tenant-1/a.pdf", "/uploads/tenant-1/b.pdf"} {
		_, err := docs.AddDocument(ctx, newTestDoc("tenant-1", path))
		require.NoError(t, err)
	}
	_, err = docs.AddDocument(ctx, newTestDoc("tenant-2", "/uploads/tenant-2/c.pdf"))
	require.NoError(t, err)

	got, err := docs.GetDocumentsByTenant(ctx, "tenant-1")
	require.NoError(t, err)
	assert.Len(t, got, 2)
	for _, doc := range got {
		assert.Equal(t, "tenant-1", doc.TenantID)
	}

	empty, err := docs.GetDocumentsByTenant(ctx, "tenant-404")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestAcquireProcessing_FromPending(t *testing.T) {
	docs, _, backend, err := NewMemoryStores()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	doc := newTestDoc("tenant-1", "/uploads/tenant-1/doc.pdf")
	_, err = docs.AddDocument(ctx, doc)
	require.NoError(t, err)

	acquired, err := docs.AcquireProcessing(ctx, "tenant-1", doc.ID)
	require.NoError(t, err)
	assert.Equal(t, core.StatusProcessing, acquired.Status)
	assert.Empty(t, acquired.ErrorMessage)
}

func TestAcquireProcessing_FromFailedClearsError(t *testing.T) {
	docs, _, backend, err := NewMemoryStores()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	doc := newTestDoc("tenant-1", "/uploads/tenant-1/doc.pdf")
	_, err = docs.AddDocument(ctx, doc)
	require.NoError(t, err)
	require.NoError(t, docs.SetFailed(ctx, doc.ID, "text extraction failed"))

	acquired, err := docs.AcquireProcessing(ctx, "tenant-1", doc.ID)
	require.NoError(t, err)
	assert.Equal(t, core.StatusProcessing, acquired.Status)
	assert.Empty(t, acquired.ErrorMessage)
}

func TestAcquireProcessing_RejectsActiveAndCompleted(t *testing.T) {
	docs, _, backend, err := NewMemoryStores()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	doc := newTestDoc("tenant-1", "/uploads/tenant-1/doc.pdf")
	_, err = docs.AddDocument(ctx, doc)
	require.NoError(t, err)

	_, err = docs.AcquireProcessing(ctx, "tenant-1", doc.ID)
	require.NoError(t, err)

	// Second acquire while processing must fail
	_, err = docs.AcquireProcessing(ctx, "tenant-1", doc.ID)
	assert.ErrorIs(t, err, storage.ErrNotAcquirable)

	require.NoError(t, docs.SetCompleted(ctx, doc.ID, 10))
	_, err = docs.AcquireProcessing(ctx, "tenant-1", doc.ID)
	assert.ErrorIs(t, err, storage.ErrNotAcquirable)
}

func TestAcquireProcessing_WrongTenantLeavesRecordUntouched(t *testing.T) {
	docs, _, backend, err := NewMemoryStores()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	doc := newTestDoc("tenant-1", "/uploads/tenant-1/doc.pdf")
	_, err = docs.AddDocument(ctx, doc)
	require.NoError(t, err)
	require.NoError(t, docs.SetFailed(ctx, doc.ID, "embedding backend unreachable"))

	_, err = docs.AcquireProcessing(ctx, "tenant-2", doc.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	got, err := docs.GetDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, core.StatusFailed, got.Status)
	assert.Equal(t, "embedding backend unreachable", got.ErrorMessage)
}

func TestAcquireProcessing_NotFound(t *testing.T) {
	docs, _, backend, err := NewMemoryStores()
	require.NoError(t, err)
	defer backend.Close()

	_, err = docs.AcquireProcessing(context.Background(), "tenant-1", "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestSetCompleted(t *testing.T) {
	docs, _, backend, err := NewMemoryStores()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	doc := newTestDoc("tenant-1", "/uploads/tenant-1/doc.pdf")
	_, err = docs.AddDocument(ctx, doc)
	require.NoError(t, err)

	require.NoError(t, docs.SetCompleted(ctx, doc.ID, 37))

	got, err := docs.GetDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, core.StatusCompleted, got.Status)
	assert.Equal(t, 37, got.TotalChunks)
	assert.Empty(t, got.ErrorMessage)
}

func TestSetFailed(t *testing.T) {
	docs, _, backend, err := NewMemoryStores()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	doc := newTestDoc("tenant-1", "/uploads/tenant-1/doc.pdf")
	_, err = docs.AddDocument(ctx, doc)
	require.NoError(t, err)

	require.NoError(t, docs.SetFailed(ctx, doc.ID, "embedding generation failed"))

	got, err := docs.GetDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, core.StatusFailed, got.Status)
	assert.Equal(t, "embedding generation failed", got.ErrorMessage)
}

func TestSetStatus_InvalidStatus(t *testing.T) {
	docs, _, backend, err := NewMemoryStores()
	require.NoError(t, err)
	defer backend.Close()

	err = docs.SetStatus(context.Background(), "any", core.ProcessingStatus("bogus"))
	assert.ErrorIs(t, err, core.ErrInvalidStatus)
}

func TestDeleteDocument(t *testing.T) {
	docs, _, backend, err := NewMemoryStores()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	doc := newTestDoc("tenant-1", "/uploads/tenant-1/doc.pdf")
	_, err = docs.AddDocument(ctx, doc)
	require.NoError(t, err)

	require.NoError(t, docs.DeleteDocument(ctx, doc.ID))

	_, err = docs.GetDocument(ctx, doc.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	// Tenant index entry must be gone as well
	remaining, err := docs.GetDocumentsByTenant(ctx, "tenant-1")
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestDeleteDocument_NotFound(t *testing.T) {
	docs, _, backend, err := NewMemoryStores()
	require.NoError(t, err)
	defer backend.Close()

	err = docs.DeleteDocument(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
