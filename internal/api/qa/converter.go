package qa

import (
	"fmt"

	"github.com/askdoc/askdoc-backend/internal/entity"
)

const noAnswerText = "No relevant answers found."

func toSessionDTO(session *entity.Session) entity.SessionDTO {
	docs := make([]entity.DocumentDTO, len(session.Documents))
	for i, doc := range session.Documents {
		docs[i] = entity.DocumentDTO{
			Index:     doc.Index,
			Filename:  doc.Filename,
			MediaType: string(doc.MediaType),
			Size:      doc.Size,
			Extracted: doc.Text != "",
			UsedOCR:   doc.UsedOCR,
		}
	}
	return entity.SessionDTO{
		ID:        session.ID,
		Documents: docs,
		CreatedAt: session.CreatedAt,
	}
}

func toAnswerSetDTO(session *entity.Session, set *entity.AnswerSet) entity.AnswerSetDTO {
	results := make([]entity.QuestionResultDTO, len(set.Results))
	for i, res := range set.Results {
		dto := entity.QuestionResultDTO{
			Question: res.Question,
			NoAnswer: res.NoAnswer,
		}

		if res.Combined != nil {
			text, _ := renderAnswer(*res.Combined)
			dto.Answer = &text
		}

		// walk documents in index order so the output ordering is stable
		for _, doc := range session.Documents {
			answer, ok := res.Answers[doc.Index]
			if !ok {
				continue
			}
			text, kind := renderAnswer(answer)
			dto.Answers = append(dto.Answers, entity.DocumentAnswerDTO{
				DocumentIndex: doc.Index,
				DocumentName:  doc.Filename,
				Answer:        text,
				ErrorKind:     kind,
			})
		}

		results[i] = dto
	}

	return entity.AnswerSetDTO{
		Mode:        string(set.Mode),
		Results:     results,
		GeneratedAt: set.GeneratedAt,
	}
}

// renderAnswer turns an answer into display text. Failed calls are shown
// in place of the answer so one bad document never hides the rest.
func renderAnswer(a entity.Answer) (text, errorKind string) {
	if a.Err != nil {
		return fmt.Sprintf("Error occurred: %s", a.Err.Message), string(a.Err.Kind)
	}
	return a.Text, ""
}

// buildAnswerReport flattens an answer set into the three-column export
// table.
func buildAnswerReport(session *entity.Session, set *entity.AnswerSet) entity.AnswerReport {
	report := entity.AnswerReport{Title: "Document Answers"}

	for _, res := range set.Results {
		if res.NoAnswer {
			report.Rows = append(report.Rows, entity.AnswerRow{
				Document: "-",
				Question: res.Question,
				Answer:   noAnswerText,
			})
			continue
		}

		if res.Combined != nil {
			text, _ := renderAnswer(*res.Combined)
			report.Rows = append(report.Rows, entity.AnswerRow{
				Document: "All documents",
				Question: res.Question,
				Answer:   text,
			})
			continue
		}

		for _, doc := range session.Documents {
			answer, ok := res.Answers[doc.Index]
			if !ok {
				continue
			}
			text, _ := renderAnswer(answer)
			report.Rows = append(report.Rows, entity.AnswerRow{
				Document: doc.Filename,
				Question: res.Question,
				Answer:   text,
			})
		}
	}

	return report
}
