package core

import (
	"errors"
	"testing"
)

func TestValidateDocument(t *testing.T) {
	tests := []struct {
		name    string
		doc     *Document
		wantErr error
	}{
		{
			name: "valid document",
			doc: &Document{
				ID:       "doc-1",
				TenantID: "tenant-1",
				FilePath: "/uploads/tenant-1/file.pdf",
				Status:   StatusPending,
			},
			wantErr: nil,
		},
		{
			name: "valid document with metadata",
			doc: &Document{
				ID:       "doc-2",
				TenantID: "tenant-1",
				FilePath: "/uploads/tenant-1/report.pdf",
				Status:   StatusCompleted,
				Title:    "Quarterly Report",
				Tags:     []string{"finance", "q3"},
			},
			wantErr: nil,
		},
		{
			name:    "nil document",
			doc:     nil,
			wantErr: ErrInvalidDocument,
		},
		{
			name: "empty id",
			doc: &Document{
				TenantID: "tenant-1",
				FilePath: "/uploads/tenant-1/file.pdf",
				Status:   StatusPending,
			},
			wantErr: ErrEmptyDocumentID,
		},
		{
			name: "empty tenant",
			doc: &Document{
				ID:       "doc-1",
				FilePath: "/uploads/tenant-1/file.pdf",
				Status:   StatusPending,
			},
			wantErr: ErrEmptyTenantID,
		},
		{
			name: "empty file path",
			doc: &Document{
				ID:       "doc-1",
				TenantID: "tenant-1",
				Status:   StatusPending,
			},
			wantErr: ErrEmptyFilePath,
		},
		{
			name: "unknown status",
			doc: &Document{
				ID:       "doc-1",
				TenantID: "tenant-1",
				FilePath: "/uploads/tenant-1/file.pdf",
				Status:   ProcessingStatus("queued"),
			},
			wantErr: ErrInvalidStatus,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateDocument(tc.doc)
			if tc.wantErr == nil {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected error %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestValidateChunk(t *testing.T) {
	tests := []struct {
		name    string
		chunk   *Chunk
		wantErr error
	}{
		{
			name: "valid chunk",
			chunk: &Chunk{
				Text:       "Some extracted sentence.",
				PageNumber: 1,
				CharStart:  0,
				CharEnd:    24,
				Method:     MethodTextExtraction,
			},
			wantErr: nil,
		},
		{
			name:    "nil chunk",
			chunk:   nil,
			wantErr: ErrInvalidChunk,
		},
		{
			name: "empty text",
			chunk: &Chunk{
				PageNumber: 1,
				CharStart:  0,
				CharEnd:    10,
			},
			wantErr: ErrInvalidChunk,
		},
		{
			name: "start equals end",
			chunk: &Chunk{
				Text:       "x",
				PageNumber: 1,
				CharStart:  10,
				CharEnd:    10,
			},
			wantErr: ErrInvalidCharRange,
		},
		{
			name: "page number zero",
			chunk: &Chunk{
				Text:       "x",
				PageNumber: 0,
				CharStart:  0,
				CharEnd:    1,
			},
			wantErr: ErrInvalidChunk,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateChunk(tc.chunk)
			if tc.wantErr == nil {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected error %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestValidateProgress(t *testing.T) {
	if err := ValidateProgress(Progress{Percent: 50, Step: "chunking_text"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := ValidateProgress(Progress{Percent: 101}); !errors.Is(err, ErrInvalidProgress) {
		t.Fatalf("expected ErrInvalidProgress, got %v", err)
	}
	if err := ValidateProgress(Progress{Percent: -1}); !errors.Is(err, ErrInvalidProgress) {
		t.Fatalf("expected ErrInvalidProgress, got %v", err)
	}
}
