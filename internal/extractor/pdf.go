package extractor

import (
	"bytes"
	"context"
	"strings"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"
)

// extractPDF concatenates per-page text in page order, then appends OCR
// output for embedded images when an OCR engine is configured.
func (m *Manager) extractPDF(ctx context.Context, data []byte) Result {
	var res Result

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		m.logger.Debug("unreadable PDF, degrading to empty text", zap.Error(err))
		return res
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		text, ok := pageText(reader, i)
		if !ok {
			continue
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		sb.WriteString(text)
		if !strings.HasSuffix(text, "\n") {
			sb.WriteString("\n")
		}
	}

	if m.ocr != nil {
		for _, img := range scanJPEGStreams(data, m.ocrCfg.MaxImages) {
			recognized, err := m.ocr.Recognize(ctx, img)
			if err != nil {
				m.logger.Debug("OCR failed for embedded image, skipping", zap.Error(err))
				continue
			}
			if strings.TrimSpace(recognized) == "" {
				continue
			}
			res.UsedOCR = true
			sb.WriteString(recognized)
			if !strings.HasSuffix(recognized, "\n") {
				sb.WriteString("\n")
			}
		}
	}

	res.Text = sb.String()
	return res
}

// pageText reads one page's plain text. The pdf library panics on some
// malformed content streams, so the page is sandboxed with a recover and
// skipped on failure.
func pageText(reader *pdf.Reader, num int) (text string, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			text, ok = "", false
		}
	}()

	page := reader.Page(num)
	if page.V.IsNull() {
		return "", false
	}
	text, err := page.GetPlainText(nil)
	if err != nil {
		return "", false
	}
	return text, true
}
