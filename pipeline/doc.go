// Package pipeline provides orchestration for document ingestion runs.
//
// The Pipeline type chains four stages per document: per-page text
// extraction, boundary-aware chunking, embedding generation, and the vector
// index write. Stages within one document execute strictly in order;
// documents process concurrently across pool workers.
//
// Each run reports progress milestones to an ephemeral progress store and
// converges every failure on the same behavior: the document is marked
// failed with a persisted error message, and the progress snapshot reads
// {0, "failed", error}.
package pipeline
