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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidDocument indicates a Document failed validation.
	ErrInvalidDocument = errors.New("invalid document")

	// ErrEmptyDocumentID indicates the document ID field is empty.
	ErrEmptyDocumentID = errors.New("document id cannot be empty")

	// ErrEmptyTenantID indicates the tenant ID field is empty.
	ErrEmptyTenantID = errors.New("tenant id cannot be empty")

	// ErrEmptyFilePath indicates the file path field is empty.
	ErrEmptyFilePath = errors.New("file path cannot be empty")

	// ErrInvalidStatus indicates an unknown ProcessingStatus value.
	ErrInvalidStatus = errors.New("invalid processing status")

	// ErrInvalidChunk indicates a Chunk failed validation.
	ErrInvalidChunk = errors.New("invalid chunk")

	// ErrInvalidCharRange indicates CharStart is not strictly below CharEnd.
	ErrInvalidCharRange = errors.New("chunk character range is invalid")

	// ErrInvalidProgress indicates a Progress percent outside 0-100.
	ErrInvalidProgress = errors.New("progress percent must be between 0 and 100")
)
