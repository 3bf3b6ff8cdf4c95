package formatter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askdoc/askdoc-backend/internal/entity"
)

func sampleReport() entity.AnswerReport {
	return entity.AnswerReport{
		Title: "Session Answers",
		Rows: []entity.AnswerRow{
			{Document: "report.pdf", Question: "What was the revenue growth?", Answer: "10%"},
			{Document: "notes.docx", Question: "Who signed?", Answer: "No relevant answers found."},
		},
	}
}

func TestFactoryCreate(t *testing.T) {
	factory := NewFactory()

	for _, format := range []entity.ResultFormat{entity.FormatMarkdown, entity.FormatPDF, entity.FormatDOCX} {
		f, err := factory.Create(format)
		require.NoError(t, err)
		require.NotNil(t, f)
		assert.NotEmpty(t, f.ContentType())
		assert.NotEmpty(t, f.FileExtension())
	}

	_, err := factory.Create(entity.ResultFormat("xlsx"))
	assert.Error(t, err)
}

func TestMarkdownFormat(t *testing.T) {
	out, err := NewMarkdownFormatter().Format(sampleReport())
	require.NoError(t, err)

	text := string(out)
	assert.Contains(t, text, "# Session Answers")
	assert.Contains(t, text, "| Document | Question | Answer |")
	assert.Contains(t, text, "| report.pdf | What was the revenue growth? | 10% |")
	assert.Contains(t, text, "No relevant answers found.")
}

func TestMarkdownFormatEscapesCells(t *testing.T) {
	out, err := NewMarkdownFormatter().Format(entity.AnswerReport{
		Rows: []entity.AnswerRow{
			{Document: "a.pdf", Question: "q", Answer: "line one\nline | two"},
		},
	})
	require.NoError(t, err)

	text := string(out)
	assert.Contains(t, text, "line one<br>line \\| two")
	assert.Contains(t, text, "# Document Answers", "missing title falls back to the default")
}

func TestPDFFormat(t *testing.T) {
	out, err := NewPDFFormatter().Format(sampleReport())
	require.NoError(t, err)
	require.NotEmpty(t, out)
	assert.Equal(t, "%PDF", string(out[:4]))
}

func TestDOCXFormat(t *testing.T) {
	out, err := NewDOCXFormatter().Format(sampleReport())
	require.NoError(t, err)
	require.NotEmpty(t, out)
	// docx is a zip container
	assert.Equal(t, []byte{'P', 'K'}, out[:2])
}
