package formatter

import (
	"fmt"

	"github.com/askdoc/askdoc-backend/internal/entity"
)

const defaultTitle = "Document Answers"

// Formatter renders an answer report into one downloadable document.
type Formatter interface {
	Format(report entity.AnswerReport) ([]byte, error)
	ContentType() string
	FileExtension() string
}

type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) Create(format entity.ResultFormat) (Formatter, error) {
	switch format {
	case entity.FormatMarkdown:
		return NewMarkdownFormatter(), nil
	case entity.FormatDOCX:
		return NewDOCXFormatter(), nil
	case entity.FormatPDF:
		return NewPDFFormatter(), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

func reportTitle(report entity.AnswerReport) string {
	if report.Title != "" {
		return report.Title
	}
	return defaultTitle
}
