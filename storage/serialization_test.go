package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/docpipe/core"
)

func TestDocumentSerialization_RoundTrip(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)
	doc := &core.Document{
		ID:           "abc123",
		TenantID:     "tenant-1",
		FilePath:     "/data/uploads/tenant-1/report.pdf",
		Status:       core.StatusProcessing,
		TotalChunks:  42,
		ErrorMessage: "",
		Title:        "Quarterly Report",
		Filename:     "report.pdf",
		Author:       "finance",
		Tags:         []string{"q3", "finance"},
		DocumentType: "report",
		UploadedBy:   "user-7",
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	data := MarshalDocument(doc)
	require.NotEmpty(t, data)

	got, err := UnmarshalDocument(data)
	require.NoError(t, err)
	assert.Equal(t, doc, got)
}

func TestDocumentSerialization_Truncated(t *testing.T) {
	doc := &core.Document{
		ID:       "abc123",
		TenantID: "tenant-1",
		FilePath: "/data/uploads/tenant-1/report.pdf",
		Status:   core.StatusPending,
	}
	data := MarshalDocument(doc)

	_, err := UnmarshalDocument(data[:len(data)/2])
	assert.Error(t, err)
}

func TestProgressSerialization_RoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		progress core.Progress
	}{
		{"starting", core.Progress{Percent: 5, Step: "starting"}},
		{"mid-run", core.Progress{Percent: 55, Step: "generating_embeddings"}},
		{"failed", core.Progress{Percent: 0, Step: "failed", Error: "extraction failed: boom"}},
		{"completed", core.Progress{Percent: 100, Step: "completed"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalProgress(tt.progress)
			got, err := UnmarshalProgress(data)
			require.NoError(t, err)
			assert.Equal(t, tt.progress, got)
		})
	}
}
