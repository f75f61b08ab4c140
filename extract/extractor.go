package extract

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/poiesic/docpipe/core"
)

const (
	// minPageTextLen is the trimmed length below which a page is treated as
	// a scanned image and handed to OCR.
	minPageTextLen = 50

	// minOCRTextLen is the trimmed length below which OCR output is
	// discarded and the page marked failed.
	minOCRTextLen = 10

	// defaultMaxFileSize caps uploads at 100 MB.
	defaultMaxFileSize = 100 << 20
)

// ProgressFunc receives the number of pages finished out of the total.
type ProgressFunc func(done, total int)

// Extractor produces per-page text for PDF files stored under a tenant's
// isolated directory. Pages without embedded text fall back to OCR when an
// OCR capability was provided.
type Extractor struct {
	uploadDir   string
	runner      CommandRunner
	ocr         OCR // nil means scanned pages become failed pages
	maxFileSize int64
	logger      *slog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithRunner sets a custom command runner.
func WithRunner(runner CommandRunner) Option {
	return func(e *Extractor) {
		e.runner = runner
	}
}

// WithOCR sets the OCR capability. Passing nil disables OCR; scanned pages
// then contribute no text and are marked failed.
func WithOCR(ocr OCR) Option {
	return func(e *Extractor) {
		e.ocr = ocr
	}
}

// WithMaxFileSize sets the file size ceiling in bytes.
func WithMaxFileSize(limit int64) Option {
	return func(e *Extractor) {
		if limit > 0 {
			e.maxFileSize = limit
		}
	}
}

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewExtractor creates an Extractor rooted at uploadDir. Files handed to
// ExtractPages must live under uploadDir/<tenantID>/.
func NewExtractor(uploadDir string, opts ...Option) (*Extractor, error) {
	if uploadDir == "" {
		return nil, fmt.Errorf("upload directory required")
	}

	e := &Extractor{
		uploadDir:   uploadDir,
		runner:      execRunner{},
		maxFileSize: defaultMaxFileSize,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.With("component", "extractor")
	return e, nil
}

// ExtractPages extracts text for every page of the PDF at filePath,
// falling back to OCR for pages that look scanned. Pages that yield no
// usable text are omitted from the result. report, when non-nil, is called
// after each page.
//
// The path is validated against the tenant's storage prefix before any file
// I/O; a path outside it fails with ErrPathOutsideTenant.
func (e *Extractor) ExtractPages(ctx context.Context, tenantID, filePath string, report ProgressFunc) ([]core.PageExtraction, error) {
	resolved, err := e.resolveTenantPath(tenantID, filePath)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(resolved)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, filePath)
		}
		return nil, fmt.Errorf("stat file: %w", err)
	}
	if info.Size() > e.maxFileSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrFileTooLarge, info.Size())
	}

	totalPages, err := e.pageCount(ctx, resolved)
	if err != nil {
		return nil, err
	}

	e.logger.Info("extracting text", "tenant", tenantID, "pages", totalPages)

	var pages []core.PageExtraction
	for pageNum := 1; pageNum <= totalPages; pageNum++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := e.extractPage(ctx, resolved, pageNum)
		if strings.TrimSpace(page.Text) != "" {
			pages = append(pages, page)
		}
		if report != nil {
			report(pageNum, totalPages)
		}
	}

	if len(pages) == 0 {
		return nil, ErrNoExtractableText
	}

	return pages, nil
}

// resolveTenantPath verifies that filePath resolves under the tenant's
// storage prefix and returns the cleaned absolute path. This runs before
// any file I/O so traversal attempts never touch the filesystem.
func (e *Extractor) resolveTenantPath(tenantID, filePath string) (string, error) {
	prefix, err := filepath.Abs(filepath.Join(e.uploadDir, tenantID))
	if err != nil {
		return "", fmt.Errorf("resolve tenant prefix: %w", err)
	}

	resolved, err := filepath.Abs(filepath.Clean(filePath))
	if err != nil {
		return "", fmt.Errorf("resolve file path: %w", err)
	}

	if !strings.HasPrefix(resolved, prefix+string(os.PathSeparator)) {
		// Audit log keeps the submitted path; the returned error does not
		// reveal where it resolved to.
		e.logger.Error("file path escapes tenant storage",
			"tenant", tenantID, "path", filePath)
		return "", fmt.Errorf("%w: tenant %s", ErrPathOutsideTenant, tenantID)
	}

	return resolved, nil
}

// pageCount parses the page count out of pdfinfo output.
func (e *Extractor) pageCount(ctx context.Context, path string) (int, error) {
	out, err := e.runner.Run(ctx, "pdfinfo", path)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrPageCount, err)
	}

	for _, line := range strings.Split(string(out), "\n") {
		if !strings.HasPrefix(line, "Pages:") {
			continue
		}
		count, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, "Pages:")))
		if err != nil {
			return 0, fmt.Errorf("%w: bad pdfinfo output %q", ErrPageCount, line)
		}
		return count, nil
	}
	return 0, fmt.Errorf("%w: no Pages line in pdfinfo output", ErrPageCount)
}

// extractPage extracts one page, preferring embedded text and falling back
// to OCR for pages that look scanned.
func (e *Extractor) extractPage(ctx context.Context, path string, pageNum int) core.PageExtraction {
	pageArg := strconv.Itoa(pageNum)
	out, err := e.runner.Run(ctx, "pdftotext",
		"-f", pageArg, "-l", pageArg,
		"-enc", "UTF-8",
		path, "-")
	if err != nil {
		e.logger.Warn("page text extraction failed", "page", pageNum, "err", err)
		out = nil
	}

	text := string(out)
	// Thresholds count characters, not bytes; multibyte text must not
	// inflate past them.
	if utf8.RuneCountInString(strings.TrimSpace(text)) > minPageTextLen {
		return core.PageExtraction{
			PageNumber: pageNum,
			Text:       text,
			Method:     core.MethodTextExtraction,
		}
	}

	// Likely a scanned page.
	e.logger.Warn("page appears scanned, attempting OCR", "page", pageNum)

	if e.ocr == nil {
		return core.PageExtraction{PageNumber: pageNum, Method: core.MethodFailed}
	}

	ocrText, err := e.ocr.RecognizeText(ctx, path, pageNum)
	if err != nil {
		e.logger.Error("ocr failed", "page", pageNum, "err", err)
		return core.PageExtraction{PageNumber: pageNum, Method: core.MethodFailed}
	}
	if utf8.RuneCountInString(strings.TrimSpace(ocrText)) > minOCRTextLen {
		return core.PageExtraction{
			PageNumber: pageNum,
			Text:       ocrText,
			Method:     core.MethodOCR,
		}
	}

	return core.PageExtraction{PageNumber: pageNum, Method: core.MethodFailed}
}
