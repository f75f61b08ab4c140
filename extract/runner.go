package extract

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// CommandRunner executes an external tool and returns its stdout. It exists
// as a seam so tests can script tool output without poppler installed.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// execRunner runs commands with os/exec.
type execRunner struct{}

var _ CommandRunner = execRunner{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return nil, fmt.Errorf("%s: %w: %s", name, err, msg)
		}
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return stdout.Bytes(), nil
}

// CheckAvailable reports whether the poppler tools needed for text
// extraction are installed.
func CheckAvailable() error {
	if _, err := exec.LookPath("pdfinfo"); err != nil {
		return ErrPDFToolNotFound
	}
	if _, err := exec.LookPath("pdftotext"); err != nil {
		return ErrPDFToolNotFound
	}
	return nil
}

// InstallInstructions returns a human-readable hint for installing the
// required external tools.
func InstallInstructions() string {
	return "text extraction requires poppler (pdfinfo, pdftotext): " +
		"brew install poppler | apt install poppler-utils; " +
		"OCR additionally requires tesseract: " +
		"brew install tesseract | apt install tesseract-ocr"
}
