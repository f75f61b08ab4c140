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

import "fmt"

// ValidateDocument validates a Document according to domain rules.
//
// Validation rules:
//   - ID, TenantID and FilePath must not be empty
//   - Status must be one of the known processing statuses
//
// NOT validated (populated by the pipeline):
//   - TotalChunks (0 until a run completes)
//   - ErrorMessage (empty unless failed)
func ValidateDocument(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidDocument)
	}

	if doc.ID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyDocumentID)
	}

	if doc.TenantID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyTenantID)
	}

	if doc.FilePath == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyFilePath)
	}

	if err := ValidateStatus(doc.Status); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	return nil
}

// ValidateStatus validates that a ProcessingStatus has a known value.
func ValidateStatus(status ProcessingStatus) error {
	switch status {
	case StatusPending, StatusProcessing, StatusCompleted, StatusFailed:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
}

// ValidateChunk validates a Chunk according to domain rules.
//
// Validation rules:
//   - Text must not be empty
//   - CharStart must be strictly below CharEnd
//   - Indices must not be negative
func ValidateChunk(chunk *Chunk) error {
	if chunk == nil {
		return fmt.Errorf("%w: chunk is nil", ErrInvalidChunk)
	}

	if chunk.Text == "" {
		return fmt.Errorf("%w: text is empty", ErrInvalidChunk)
	}

	if chunk.CharStart < 0 || chunk.CharStart >= chunk.CharEnd {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrInvalidCharRange)
	}

	if chunk.PageNumber < 1 || chunk.IndexInPage < 0 || chunk.GlobalIndex < 0 {
		return fmt.Errorf("%w: negative index", ErrInvalidChunk)
	}

	return nil
}

// ValidateProgress validates a Progress record.
func ValidateProgress(progress Progress) error {
	if progress.Percent < 0 || progress.Percent > 100 {
		return fmt.Errorf("%w: got %d", ErrInvalidProgress, progress.Percent)
	}
	return nil
}
