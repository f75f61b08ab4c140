// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package qdrant

import (
	"context"
	"fmt"
	"log/slog"

	qdrantclient "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/poiesic/docpipe/vector"
)

const (
	// upsertBatchSize bounds the size of one upsert request. Each batch is
	// acknowledged before the next is sent, keeping peak outstanding work
	// memory-bounded.
	upsertBatchSize = 100
)

// Writer implements vector.Writer against a Qdrant server over gRPC.
type Writer struct {
	conn        *grpc.ClientConn
	collections qdrantclient.CollectionsClient
	points      qdrantclient.PointsClient
	logger      *slog.Logger
}

var _ vector.Writer = (*Writer)(nil)

// NewWriter connects to a Qdrant server at host:port (the gRPC port,
// usually 6334).
func NewWriter(host string, port int) (*Writer, error) {
	conn, err := grpc.NewClient(
		fmt.Sprintf("%s:%d", host, port),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to qdrant: %w", err)
	}

	return &Writer{
		conn:        conn,
		collections: qdrantclient.NewCollectionsClient(conn),
		points:      qdrantclient.NewPointsClient(conn),
		logger:      slog.Default().With("component", "qdrant-writer"),
	}, nil
}

// NewWriterWithClients creates a Writer around existing clients. Used by
// tests to substitute fakes.
func NewWriterWithClients(collections qdrantclient.CollectionsClient, points qdrantclient.PointsClient) *Writer {
	return &Writer{
		collections: collections,
		points:      points,
		logger:      slog.Default().With("component", "qdrant-writer"),
	}
}

// Close closes the gRPC connection.
func (w *Writer) Close() error {
	if w.conn == nil {
		return nil
	}
	return w.conn.Close()
}

// UpsertDocument ensures the tenant collection exists with the
// dimensionality of the first vector, then writes all points in
// acknowledged batches of 100.
func (w *Writer) UpsertDocument(ctx context.Context, tenantID, docID string, points []vector.Point) error {
	if len(points) == 0 {
		return nil
	}

	collection := vector.CollectionName(tenantID)
	if err := w.ensureCollection(ctx, collection, len(points[0].Vector)); err != nil {
		return err
	}

	w.logger.Info("upserting vectors",
		"tenant", tenantID, "document", docID, "points", len(points))

	structs := make([]*qdrantclient.PointStruct, len(points))
	for i, point := range points {
		structs[i] = &qdrantclient.PointStruct{
			Id: &qdrantclient.PointId{
				PointIdOptions: &qdrantclient.PointId_Uuid{Uuid: point.ID},
			},
			Vectors: &qdrantclient.Vectors{
				VectorsOptions: &qdrantclient.Vectors_Vector{
					Vector: &qdrantclient.Vector{Data: point.Vector},
				},
			},
			Payload: toPayload(point.Payload),
		}
	}

	wait := true
	for start := 0; start < len(structs); start += upsertBatchSize {
		end := min(start+upsertBatchSize, len(structs))
		_, err := w.points.Upsert(ctx, &qdrantclient.UpsertPoints{
			CollectionName: collection,
			Wait:           &wait,
			Points:         structs[start:end],
		})
		if err != nil {
			return fmt.Errorf("upsert batch %d: %w", start/upsertBatchSize+1, err)
		}
		w.logger.Debug("upserted batch", "batch", start/upsertBatchSize+1)
	}

	return nil
}

// DeleteDocument removes every point whose payload matches the document
// id. Deleting from a collection that does not exist succeeds silently.
func (w *Writer) DeleteDocument(ctx context.Context, tenantID, docID string) error {
	collection := vector.CollectionName(tenantID)

	exists, err := w.collectionExists(ctx, collection)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}

	w.logger.Info("deleting document vectors", "tenant", tenantID, "document", docID)

	wait := true
	_, err = w.points.Delete(ctx, &qdrantclient.DeletePoints{
		CollectionName: collection,
		Wait:           &wait,
		Points: &qdrantclient.PointsSelector{
			PointsSelectorOneOf: &qdrantclient.PointsSelector_Filter{
				Filter: &qdrantclient.Filter{
					Must: []*qdrantclient.Condition{
						{
							ConditionOneOf: &qdrantclient.Condition_Field{
								Field: &qdrantclient.FieldCondition{
									Key: "document_id",
									Match: &qdrantclient.Match{
										MatchValue: &qdrantclient.Match_Keyword{Keyword: docID},
									},
								},
							},
						},
					},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("delete document %s: %w", docID, err)
	}
	return nil
}

// ensureCollection creates the collection with cosine distance if it does
// not exist yet.
func (w *Writer) ensureCollection(ctx context.Context, name string, dimension int) error {
	exists, err := w.collectionExists(ctx, name)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	w.logger.Info("creating collection", "collection", name, "dimension", dimension)

	_, err = w.collections.Create(ctx, &qdrantclient.CreateCollection{
		CollectionName: name,
		VectorsConfig: &qdrantclient.VectorsConfig{
			Config: &qdrantclient.VectorsConfig_Params{
				Params: &qdrantclient.VectorParams{
					Size:     uint64(dimension),
					Distance: qdrantclient.Distance_Cosine,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create collection %s: %w", name, err)
	}
	return nil
}

func (w *Writer) collectionExists(ctx context.Context, name string) (bool, error) {
	resp, err := w.collections.List(ctx, &qdrantclient.ListCollectionsRequest{})
	if err != nil {
		return false, fmt.Errorf("list collections: %w", err)
	}
	for _, col := range resp.GetCollections() {
		if col.GetName() == name {
			return true, nil
		}
	}
	return false, nil
}

// toPayload converts a generic payload into Qdrant values. Unsupported
// types are stored as their string representation.
func toPayload(payload map[string]any) map[string]*qdrantclient.Value {
	out := make(map[string]*qdrantclient.Value, len(payload))
	for key, value := range payload {
		out[key] = toValue(value)
	}
	return out
}

func toValue(value any) *qdrantclient.Value {
	switch v := value.(type) {
	case nil:
		return &qdrantclient.Value{Kind: &qdrantclient.Value_NullValue{NullValue: qdrantclient.NullValue_NULL_VALUE}}
	case string:
		return &qdrantclient.Value{Kind: &qdrantclient.Value_StringValue{StringValue: v}}
	case bool:
		return &qdrantclient.Value{Kind: &qdrantclient.Value_BoolValue{BoolValue: v}}
	case int:
		return &qdrantclient.Value{Kind: &qdrantclient.Value_IntegerValue{IntegerValue: int64(v)}}
	case int64:
		return &qdrantclient.Value{Kind: &qdrantclient.Value_IntegerValue{IntegerValue: v}}
	case float64:
		return &qdrantclient.Value{Kind: &qdrantclient.Value_DoubleValue{DoubleValue: v}}
	case []string:
		values := make([]*qdrantclient.Value, len(v))
		for i, s := range v {
			values[i] = toValue(s)
		}
		return &qdrantclient.Value{Kind: &qdrantclient.Value_ListValue{ListValue: &qdrantclient.ListValue{Values: values}}}
	default:
		return &qdrantclient.Value{Kind: &qdrantclient.Value_StringValue{StringValue: fmt.Sprintf("%v", v)}}
	}
}
