package extract

import "errors"

var (
	// ErrPathOutsideTenant is returned when a file path does not resolve
	// under the tenant's storage prefix. The resolved path is deliberately
	// kept out of the error text.
	ErrPathOutsideTenant = errors.New("file path outside tenant storage")

	// ErrFileNotFound is returned when the file does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrFileTooLarge is returned when the file exceeds the size ceiling.
	ErrFileTooLarge = errors.New("file exceeds size limit")

	// ErrNoExtractableText is returned when not a single page yields usable
	// text. This signals a structurally bad input, not a transient fault.
	ErrNoExtractableText = errors.New("no text could be extracted from PDF (all pages empty)")

	// ErrPDFToolNotFound is returned when the poppler tools (pdfinfo,
	// pdftotext) are not installed.
	ErrPDFToolNotFound = errors.New("pdftotext not found: install poppler")

	// ErrOCRToolNotFound is returned when pdftoppm or tesseract is not
	// installed.
	ErrOCRToolNotFound = errors.New("tesseract not found: install tesseract-ocr")

	// ErrPageCount is returned when the page count cannot be determined.
	ErrPageCount = errors.New("could not determine page count")
)
