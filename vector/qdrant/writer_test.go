package qdrant

import (
	"context"
	"testing"

	qdrantclient "github.com/qdrant/go-client/qdrant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"

	"github.com/poiesic/docpipe/vector"
)

// fakeCollections fakes the collections client; unoverridden methods panic
// through the embedded nil interface.
type fakeCollections struct {
	qdrantclient.CollectionsClient
	existing []string
	created  []*qdrantclient.CreateCollection
}

func (f *fakeCollections) List(ctx context.Context, in *qdrantclient.ListCollectionsRequest, opts ...grpc.CallOption) (*qdrantclient.ListCollectionsResponse, error) {
	resp := &qdrantclient.ListCollectionsResponse{}
	for _, name := range f.existing {
		resp.Collections = append(resp.Collections, &qdrantclient.CollectionDescription{Name: name})
	}
	return resp, nil
}

func (f *fakeCollections) Create(ctx context.Context, in *qdrantclient.CreateCollection, opts ...grpc.CallOption) (*qdrantclient.CollectionOperationResponse, error) {
	f.created = append(f.created, in)
	f.existing = append(f.existing, in.GetCollectionName())
	return &qdrantclient.CollectionOperationResponse{Result: true}, nil
}

// fakePoints fakes the points client.
type fakePoints struct {
	qdrantclient.PointsClient
	upserts []*qdrantclient.UpsertPoints
	deletes []*qdrantclient.DeletePoints
}

func (f *fakePoints) Upsert(ctx context.Context, in *qdrantclient.UpsertPoints, opts ...grpc.CallOption) (*qdrantclient.PointsOperationResponse, error) {
	f.upserts = append(f.upserts, in)
	return &qdrantclient.PointsOperationResponse{}, nil
}

func (f *fakePoints) Delete(ctx context.Context, in *qdrantclient.DeletePoints, opts ...grpc.CallOption) (*qdrantclient.PointsOperationResponse, error) {
	f.deletes = append(f.deletes, in)
	return &qdrantclient.PointsOperationResponse{}, nil
}

func makePoints(n, dim int) []vector.Point {
	points := make([]vector.Point, n)
	for i := range points {
		points[i] = vector.Point{
			ID:     "point-id",
			Vector: make([]float32, dim),
			Payload: map[string]any{
				"document_id": "doc-1",
				"text":        "chunk text",
			},
		}
	}
	return points
}

func TestUpsertDocument_CreatesCollectionWithVectorDimension(t *testing.T) {
	collections := &fakeCollections{}
	points := &fakePoints{}
	w := NewWriterWithClients(collections, points)

	err := w.UpsertDocument(context.Background(), "tenant-1", "doc-1", makePoints(3, 384))
	require.NoError(t, err)

	require.Len(t, collections.created, 1)
	created := collections.created[0]
	assert.Equal(t, "tenant_tenant-1", created.GetCollectionName())
	assert.Equal(t, uint64(384), created.GetVectorsConfig().GetParams().GetSize())
	assert.Equal(t, qdrantclient.Distance_Cosine, created.GetVectorsConfig().GetParams().GetDistance())
}

func TestUpsertDocument_SkipsCreateWhenCollectionExists(t *testing.T) {
	collections := &fakeCollections{existing: []string{"tenant_tenant-1"}}
	points := &fakePoints{}
	w := NewWriterWithClients(collections, points)

	err := w.UpsertDocument(context.Background(), "tenant-1", "doc-1", makePoints(1, 384))
	require.NoError(t, err)
	assert.Empty(t, collections.created)
}

func TestUpsertDocument_BatchesWrites(t *testing.T) {
	collections := &fakeCollections{}
	points := &fakePoints{}
	w := NewWriterWithClients(collections, points)

	err := w.UpsertDocument(context.Background(), "tenant-1", "doc-1", makePoints(250, 8))
	require.NoError(t, err)

	require.Len(t, points.upserts, 3)
	assert.Len(t, points.upserts[0].GetPoints(), 100)
	assert.Len(t, points.upserts[1].GetPoints(), 100)
	assert.Len(t, points.upserts[2].GetPoints(), 50)
	for _, upsert := range points.upserts {
		require.NotNil(t, upsert.Wait)
		assert.True(t, *upsert.Wait, "batches must be acknowledged")
	}
}

func TestUpsertDocument_EmptyBatchIsNoop(t *testing.T) {
	collections := &fakeCollections{}
	points := &fakePoints{}
	w := NewWriterWithClients(collections, points)

	err := w.UpsertDocument(context.Background(), "tenant-1", "doc-1", nil)
	require.NoError(t, err)
	assert.Empty(t, collections.created)
	assert.Empty(t, points.upserts)
}

func TestDeleteDocument_FiltersByDocumentID(t *testing.T) {
	collections := &fakeCollections{existing: []string{"tenant_tenant-1"}}
	points := &fakePoints{}
	w := NewWriterWithClients(collections, points)

	err := w.DeleteDocument(context.Background(), "tenant-1", "doc-1")
	require.NoError(t, err)

	require.Len(t, points.deletes, 1)
	del := points.deletes[0]
	assert.Equal(t, "tenant_tenant-1", del.GetCollectionName())

	filter := del.GetPoints().GetFilter()
	require.NotNil(t, filter)
	require.Len(t, filter.GetMust(), 1)
	field := filter.GetMust()[0].GetField()
	require.NotNil(t, field)
	assert.Equal(t, "document_id", field.GetKey())
	assert.Equal(t, "doc-1", field.GetMatch().GetKeyword())
}

func TestDeleteDocument_IdempotentWhenCollectionMissing(t *testing.T) {
	collections := &fakeCollections{}
	points := &fakePoints{}
	w := NewWriterWithClients(collections, points)

	err := w.DeleteDocument(context.Background(), "tenant-1", "doc-1")
	require.NoError(t, err)
	assert.Empty(t, points.deletes)
}

func TestToValue_Conversions(t *testing.T) {
	assert.Equal(t, "title", toValue("title").GetStringValue())
	assert.Equal(t, int64(7), toValue(7).GetIntegerValue())
	assert.Equal(t, int64(9), toValue(int64(9)).GetIntegerValue())
	assert.Equal(t, 1.5, toValue(1.5).GetDoubleValue())
	assert.True(t, toValue(true).GetBoolValue())

	list := toValue([]string{"a", "b"}).GetListValue()
	require.NotNil(t, list)
	require.Len(t, list.GetValues(), 2)
	assert.Equal(t, "a", list.GetValues()[0].GetStringValue())

	null := toValue(nil)
	assert.Equal(t, qdrantclient.NullValue_NULL_VALUE, null.GetNullValue())
}
