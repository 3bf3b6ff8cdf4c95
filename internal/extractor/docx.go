package extractor

import (
	"bytes"
	"strings"

	"github.com/unidoc/unioffice/document"
	"go.uber.org/zap"
)

// extractDOCX concatenates paragraph text in document order, one paragraph
// per line.
func (m *Manager) extractDOCX(data []byte) Result {
	doc, err := document.Read(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		m.logger.Debug("unreadable DOCX, degrading to empty text", zap.Error(err))
		return Result{}
	}
	defer doc.Close()

	var sb strings.Builder
	for _, para := range doc.Paragraphs() {
		var line strings.Builder
		for _, run := range para.Runs() {
			line.WriteString(run.Text())
		}
		if strings.TrimSpace(line.String()) == "" {
			continue
		}
		sb.WriteString(line.String())
		sb.WriteString("\n")
	}

	return Result{Text: sb.String()}
}
