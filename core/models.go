package core

import (
	"encoding/hex"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ProcessingStatus tracks a document through its ingestion lifecycle.
type ProcessingStatus string

const (
	// StatusPending means the document is registered but not yet picked up.
	StatusPending ProcessingStatus = "pending"
	// StatusProcessing means a pipeline run currently owns the document.
	StatusProcessing ProcessingStatus = "processing"
	// StatusCompleted means all chunks were embedded and indexed.
	StatusCompleted ProcessingStatus = "completed"
	// StatusFailed means the last pipeline run ended with an error.
	StatusFailed ProcessingStatus = "failed"
)

// ExtractionMethod records how the text of a page was obtained.
type ExtractionMethod string

const (
	// MethodTextExtraction means the page carried embedded text.
	MethodTextExtraction ExtractionMethod = "text_extraction"
	// MethodOCR means the page was rasterized and recognized.
	MethodOCR ExtractionMethod = "ocr"
	// MethodFailed means neither extraction nor OCR produced usable text.
	MethodFailed ExtractionMethod = "failed"
)

// DocumentID derives a deterministic document ID from the owning tenant and
// the stored file path using BLAKE2b hashing. Registering the same file for
// the same tenant always yields the same ID.
func DocumentID(tenantID, filePath string) string {
	h, _ := blake2b.New(16, nil)
	h.Write([]byte(tenantID))
	h.Write([]byte{0})
	h.Write([]byte(filePath))
	return hex.EncodeToString(h.Sum(nil))
}

// Document is the metadata record for an uploaded file. It is created when
// the file is registered and mutated only by the pipeline while a run owns it.
type Document struct {
	ID           string
	TenantID     string
	FilePath     string
	Status       ProcessingStatus
	TotalChunks  int    // 0 until a run completes
	ErrorMessage string // empty unless Status is failed

	// Upload metadata carried into every vector payload.
	Title        string
	Filename     string
	Author       string
	Tags         []string
	DocumentType string
	UploadedBy   string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PageExtraction is the per-page output of the extraction stage.
// Pages that yielded no usable text are not propagated.
type PageExtraction struct {
	PageNumber int
	Text       string
	Method     ExtractionMethod
}

// Chunk is a bounded span of one page's text, the atomic unit for embedding
// and retrieval. GlobalIndex is strictly increasing and unique within a
// document, assigned across pages in page order.
type Chunk struct {
	Text        string
	PageNumber  int
	IndexInPage int
	TotalInPage int
	GlobalIndex int
	Method      ExtractionMethod
	CharStart   int
	CharEnd     int
}

// Progress is the ephemeral per-document progress record. It is a
// best-effort liveness signal only; Document.Status stays authoritative.
type Progress struct {
	Percent int
	Step    string
	Error   string
}

// UnknownProgress is returned when no progress record exists for a document.
func UnknownProgress() Progress {
	return Progress{Percent: 0, Step: "unknown"}
}
