package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/poiesic/docpipe/chunk"
	"github.com/poiesic/docpipe/core"
	"github.com/poiesic/docpipe/vector"
)

// runStage executes fn under the stage's time ceilings. The soft ceiling is
// a context deadline, giving fn the chance to return and have the failure
// recorded; the hard ceiling abandons the stage outright. fn runs in its own
// goroutine so a stage that ignores its context cannot wedge the worker
// past the hard ceiling.
func (p *Pipeline) runStage(ctx context.Context, name string, limits StageLimits, fn func(ctx context.Context) error) error {
	stageCtx, cancel := context.WithTimeout(ctx, limits.Soft)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- fn(stageCtx)
	}()

	hard := time.NewTimer(limits.Hard)
	defer hard.Stop()

	select {
	case err := <-done:
		if err != nil && stageCtx.Err() != nil {
			return fmt.Errorf("%w: %s stage", ErrStageTimeout, name)
		}
		return err
	case <-hard.C:
		return fmt.Errorf("%w: %s stage exceeded hard ceiling", ErrStageTimeout, name)
	}
}

// chunkPages splits every page's text and assigns chunk indices. Global
// indices are contiguous from 0 across pages in page order. The context is
// checked between pages so a cancelled run stops without finishing a large
// document.
func (p *Pipeline) chunkPages(ctx context.Context, pages []core.PageExtraction) ([]core.Chunk, error) {
	var chunks []core.Chunk
	globalIndex := 0

	for _, page := range pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		spans, err := chunk.Split(page.Text, p.config.ChunkSize, p.config.ChunkOverlap)
		if err != nil {
			return nil, err
		}

		for i, span := range spans {
			chunks = append(chunks, core.Chunk{
				Text:        span.Text,
				PageNumber:  page.PageNumber,
				IndexInPage: i,
				TotalInPage: len(spans),
				GlobalIndex: globalIndex,
				Method:      page.Method,
				CharStart:   span.CharStart,
				CharEnd:     span.CharEnd,
			})
			globalIndex++
		}
	}

	if len(chunks) == 0 {
		return nil, ErrNoChunks
	}
	return chunks, nil
}

// buildPoints pairs chunks with their embeddings and attaches the document's
// upload metadata to every point payload.
func buildPoints(doc *core.Document, chunks []core.Chunk, embeddings [][]float32) []vector.Point {
	points := make([]vector.Point, len(chunks))
	for i, c := range chunks {
		points[i] = vector.Point{
			ID:     uuid.NewString(),
			Vector: embeddings[i],
			Payload: map[string]any{
				"document_id":          doc.ID,
				"tenant_id":            doc.TenantID,
				"text":                 c.Text,
				"page_number":          c.PageNumber,
				"chunk_index":          c.GlobalIndex,
				"chunk_in_page":        c.IndexInPage,
				"total_chunks_in_page": c.TotalInPage,
				"extraction_method":    string(c.Method),
				"char_start":           c.CharStart,
				"char_end":             c.CharEnd,
				"title":                doc.Title,
				"filename":             doc.Filename,
				"author":               doc.Author,
				"tags":                 doc.Tags,
				"document_type":        doc.DocumentType,
				"uploaded_by":          doc.UploadedBy,
				"upload_date":          doc.CreatedAt.Format(time.RFC3339),
			},
		}
	}
	return points
}
