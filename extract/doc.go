// Package extract produces per-page text from PDF files stored in
// tenant-isolated upload directories.
//
// Embedded text is read with poppler's pdftotext. Pages with too little
// embedded text are treated as scanned images and handed to an optional OCR
// capability that rasterizes the page at high resolution and runs
// tesseract. Pages that produce no usable text either way are dropped.
//
// External tools run through the CommandRunner interface so behaviour can
// be scripted in tests without poppler or tesseract installed.
package extract
