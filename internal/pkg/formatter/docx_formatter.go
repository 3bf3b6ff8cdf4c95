package formatter

import (
	"bytes"

	"github.com/unidoc/unioffice/document"

	"github.com/askdoc/askdoc-backend/internal/entity"
)

const (
	docxContentType   = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	docxFileExtension = ".docx"
)

type DOCXFormatter struct{}

func NewDOCXFormatter() *DOCXFormatter {
	return &DOCXFormatter{}
}

func (mf *DOCXFormatter) Format(report entity.AnswerReport) ([]byte, error) {
	doc := document.New()
	defer doc.Close()

	titlePar := doc.AddParagraph()
	titlePar.SetStyle("Heading1")
	titleRun := titlePar.AddRun()
	titleRun.AddText(reportTitle(report))

	doc.AddParagraph()

	table := doc.AddTable()
	header := table.AddRow()
	for _, label := range []string{"Document", "Question", "Answer"} {
		cellPar := header.AddCell().AddParagraph()
		run := cellPar.AddRun()
		run.Properties().SetBold(true)
		run.AddText(label)
	}

	for _, row := range report.Rows {
		tr := table.AddRow()
		tr.AddCell().AddParagraph().AddRun().AddText(row.Document)
		tr.AddCell().AddParagraph().AddRun().AddText(row.Question)
		tr.AddCell().AddParagraph().AddRun().AddText(row.Answer)
	}

	var buf bytes.Buffer
	if err := doc.Save(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (mf *DOCXFormatter) ContentType() string {
	return docxContentType
}

func (mf *DOCXFormatter) FileExtension() string {
	return docxFileExtension
}
