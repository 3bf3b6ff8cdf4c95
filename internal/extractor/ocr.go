package extractor

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/askdoc/askdoc-backend/internal/config"
)

// OCREngine recognizes text in an encoded image.
type OCREngine interface {
	Recognize(ctx context.Context, image []byte) (string, error)
}

// TesseractEngine shells out to a local tesseract binary, reading the
// image from stdin and the recognized text from stdout.
type TesseractEngine struct {
	path      string
	languages string
	timeout   time.Duration
}

// NewTesseractEngine returns nil when no binary path is configured, which
// disables OCR entirely.
func NewTesseractEngine(cfg config.OCRConfig) *TesseractEngine {
	if cfg.TesseractPath == "" {
		return nil
	}
	return &TesseractEngine{
		path:      cfg.TesseractPath,
		languages: cfg.Languages,
		timeout:   cfg.Timeout,
	}
}

func (e *TesseractEngine) Recognize(ctx context.Context, image []byte) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, e.path, "stdin", "stdout", "-l", e.languages)
	cmd.Stdin = bytes.NewReader(image)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("tesseract: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	return strings.TrimSpace(stdout.String()), nil
}
