package formatter

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/askdoc/askdoc-backend/internal/entity"
)

const (
	markdownContentType   = "text/markdown; charset=utf-8"
	markdownFileExtension = ".md"
)

type MarkdownFormatter struct{}

func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

func (mf *MarkdownFormatter) Format(report entity.AnswerReport) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# %s\n\n", reportTitle(report))
	buf.WriteString("| Document | Question | Answer |\n")
	buf.WriteString("| --- | --- | --- |\n")
	for _, row := range report.Rows {
		fmt.Fprintf(&buf, "| %s | %s | %s |\n",
			markdownCell(row.Document),
			markdownCell(row.Question),
			markdownCell(row.Answer),
		)
	}
	return buf.Bytes(), nil
}

// markdownCell keeps multi-line answers inside a single table cell.
func markdownCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", "<br>")
}

func (mf *MarkdownFormatter) ContentType() string {
	return markdownContentType
}

func (mf *MarkdownFormatter) FileExtension() string {
	return markdownFileExtension
}
