package extract

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
)

// OCR recognizes text on a single page of a PDF file. It is an optional
// capability: an Extractor without one marks scanned pages as failed.
type OCR interface {
	// RecognizeText rasterizes the given page and returns the recognized
	// text. page is 1-based.
	RecognizeText(ctx context.Context, filePath string, page int) (string, error)
}

const (
	// ocrDPI is the rasterization resolution. Below 300 DPI recognition
	// quality drops off sharply.
	ocrDPI = 300

	// ocrLanguage passed to tesseract.
	ocrLanguage = "eng"

	// ocrPageSegMode 6 assumes a single uniform block of text.
	ocrPageSegMode = "6"
)

// TesseractOCR rasterizes pages with pdftoppm and recognizes them with
// tesseract, both invoked through a CommandRunner.
type TesseractOCR struct {
	runner CommandRunner
}

var _ OCR = (*TesseractOCR)(nil)

// NewTesseractOCR creates an OCR backed by the pdftoppm and tesseract
// command line tools.
func NewTesseractOCR() *TesseractOCR {
	return &TesseractOCR{runner: execRunner{}}
}

// NewTesseractOCRWithRunner creates a TesseractOCR with a custom runner.
func NewTesseractOCRWithRunner(runner CommandRunner) *TesseractOCR {
	return &TesseractOCR{runner: runner}
}

// CheckOCRAvailable reports whether the OCR tool chain is installed.
func CheckOCRAvailable() error {
	if _, err := exec.LookPath("pdftoppm"); err != nil {
		return ErrOCRToolNotFound
	}
	if _, err := exec.LookPath("tesseract"); err != nil {
		return ErrOCRToolNotFound
	}
	return nil
}

// RecognizeText rasterizes one page at high resolution and runs tesseract
// over the resulting image.
func (t *TesseractOCR) RecognizeText(ctx context.Context, filePath string, page int) (string, error) {
	dir, err := os.MkdirTemp("", "docpipe-ocr-*")
	if err != nil {
		return "", fmt.Errorf("create scratch dir: %w", err)
	}
	defer os.RemoveAll(dir)

	pageArg := strconv.Itoa(page)
	prefix := filepath.Join(dir, "page")

	_, err = t.runner.Run(ctx, "pdftoppm",
		"-f", pageArg, "-l", pageArg,
		"-r", strconv.Itoa(ocrDPI),
		"-png", "-singlefile",
		filePath, prefix)
	if err != nil {
		return "", fmt.Errorf("rasterize page %d: %w", page, err)
	}

	out, err := t.runner.Run(ctx, "tesseract",
		prefix+".png", "-",
		"--psm", ocrPageSegMode,
		"-l", ocrLanguage)
	if err != nil {
		return "", fmt.Errorf("ocr page %d: %w", page, err)
	}

	return string(out), nil
}
