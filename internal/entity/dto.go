package entity

import "time"

// UploadedFile carries one multipart file through the upload pipeline.
type UploadedFile struct {
	Filename  string
	MediaType MediaType
	Data      []byte
}

// AskRequest is the body of POST /sessions/{id}/answers. Questions holds
// the raw textarea content, one question per line.
type AskRequest struct {
	Questions string `json:"questions"`
}

// ResultFormat selects the export rendering of an answer report.
type ResultFormat string

const (
	FormatMarkdown ResultFormat = "markdown"
	FormatPDF      ResultFormat = "pdf"
	FormatDOCX     ResultFormat = "docx"
)

// SessionDTO is the API representation of a session.
type SessionDTO struct {
	ID        string        `json:"session_id"`
	Documents []DocumentDTO `json:"documents"`
	CreatedAt time.Time     `json:"created_at"`
}

type DocumentDTO struct {
	Index     int    `json:"index"`
	Filename  string `json:"filename"`
	MediaType string `json:"media_type"`
	Size      int64  `json:"size"`
	// Extracted reports whether any text was recovered from the file.
	Extracted bool `json:"extracted"`
	UsedOCR   bool `json:"used_ocr"`
}

// AnswerSetDTO is the API representation of one answering run.
type AnswerSetDTO struct {
	Mode        string              `json:"mode"`
	Results     []QuestionResultDTO `json:"results"`
	GeneratedAt time.Time           `json:"generated_at"`
}

type QuestionResultDTO struct {
	Question string `json:"question"`
	// Answer is set in combined mode only.
	Answer *string `json:"answer,omitempty"`
	// Answers is set in per-document modes, ordered by document index.
	Answers []DocumentAnswerDTO `json:"answers,omitempty"`
	// NoAnswer marks a question for which no document produced a usable
	// answer. Distinct from an empty list so absence is never ambiguous.
	NoAnswer bool `json:"no_answer"`
}

type DocumentAnswerDTO struct {
	DocumentIndex int    `json:"document_index"`
	DocumentName  string `json:"document_name"`
	Answer        string `json:"answer"`
	ErrorKind     string `json:"error_kind,omitempty"`
}
