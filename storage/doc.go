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


// Package storage provides the storage abstraction layer for docpipe.
//
// This package defines repository interfaces that decouple storage
// implementation from pipeline logic. It allows for different storage
// backends (BadgerDB, in-memory, etc.) to be used interchangeably.
//
// # Constructor Return Type Pattern
//
// Backend constructors return their concrete types; callers who want the
// abstraction assign the result to the interface:
//
//	var docs storage.DocumentRepository
//	docs, err = badger.NewDocumentRepository(backend)
//
// Each implementation asserts interface conformance with a compile-time
// check (var _ storage.DocumentRepository = (*DocumentRepository)(nil)).
//
// # Architecture
//
// The storage layer follows the Repository pattern:
//
//   - DocumentRepository: Document metadata and status transitions
//   - ProgressStore: TTL-bound per-document progress snapshots
//
// # Usage
//
// Create repositories backed by a shared BadgerDB backend:
//
//	backend, err := badger.OpenBackend("/path/to/db", false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer backend.Close()
//	docs, err := badger.NewDocumentRepository(backend)
//
// Use in tests with in-memory storage:
//
//	docs, progress, backend, err := badger.NewMemoryStores()
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
//
// # Context Support
//
// All repository methods accept context.Context for cancellation
// and timeout support. Pass context.Background() for operations
// without specific timeout requirements.
package storage
