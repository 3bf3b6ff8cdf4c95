// Package extractor turns uploaded document bytes into plain text.
// Extraction is best-effort: a page or embedded image that fails to
// process is skipped, and a wholly unreadable file degrades to empty
// text instead of failing the upload batch.
package extractor

import (
	"context"

	"go.uber.org/zap"

	"github.com/askdoc/askdoc-backend/internal/config"
	"github.com/askdoc/askdoc-backend/internal/entity"
	"github.com/askdoc/askdoc-backend/internal/textproc"
)

// Result carries extracted text plus extraction metadata.
type Result struct {
	Text    string
	UsedOCR bool
}

// Manager dispatches extraction on the declared media type.
type Manager struct {
	cfg    config.ExtractConfig
	ocr    OCREngine
	ocrCfg config.OCRConfig
	logger *zap.Logger
}

func NewManager(cfg config.ExtractConfig, ocrCfg config.OCRConfig, ocr OCREngine, logger *zap.Logger) *Manager {
	return &Manager{
		cfg:    cfg,
		ocr:    ocr,
		ocrCfg: ocrCfg,
		logger: logger,
	}
}

// Extract returns the plain text of a document. It never returns an error
// for unreadable content; the result is simply empty.
func (m *Manager) Extract(ctx context.Context, mediaType entity.MediaType, data []byte) Result {
	var res Result
	switch mediaType {
	case entity.MediaTypePDF:
		res = m.extractPDF(ctx, data)
	case entity.MediaTypeDOCX:
		res = m.extractDOCX(data)
	default:
		m.logger.Warn("unsupported media type, skipping extraction",
			zap.String("media_type", string(mediaType)))
		return Result{}
	}

	res.Text = textproc.Truncate(res.Text, m.cfg.MaxChars)
	return res
}
