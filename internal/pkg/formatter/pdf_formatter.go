package formatter

import (
	"bytes"

	"github.com/jung-kurt/gofpdf"

	"github.com/askdoc/askdoc-backend/internal/entity"
)

const (
	pdfContentType   = "application/pdf"
	pdfFileExtension = ".pdf"
)

type PDFFormatter struct{}

func NewPDFFormatter() *PDFFormatter {
	return &PDFFormatter{}
}

func (mf *PDFFormatter) Format(report entity.AnswerReport) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.Cell(0, 10, reportTitle(report))
	pdf.Ln(14)

	_, lineHeight := pdf.GetFontSize()
	for _, row := range report.Rows {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.MultiCell(0, lineHeight*1.5, row.Document+": "+row.Question, "", "", false)

		pdf.SetFont("Helvetica", "", 12)
		pdf.MultiCell(0, lineHeight*1.5, row.Answer, "", "", false)
		pdf.Ln(4)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (mf *PDFFormatter) ContentType() string {
	return pdfContentType
}

func (mf *PDFFormatter) FileExtension() string {
	return pdfFileExtension
}
