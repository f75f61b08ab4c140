// Package vector defines the vector index writer used by the ingestion
// pipeline.
//
// Every tenant owns one collection, named tenant_<tenant_id>; points for a
// document are written in bounded batches and removed in bulk by document
// id. The qdrant subpackage implements Writer against a Qdrant server over
// gRPC; the mock subpackage provides an in-memory implementation for tests.
package vector
