package entity

import (
	"time"
)

// MediaType is the declared type of an uploaded document.
type MediaType string

const (
	MediaTypePDF  MediaType = "application/pdf"
	MediaTypeDOCX MediaType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// AnswerMode selects the orchestration policy used when answering questions.
type AnswerMode string

const (
	// AnswerModeCombined filters every document by question keywords,
	// joins the surviving lines and issues one LLM call per question.
	AnswerModeCombined AnswerMode = "combined"
	// AnswerModeChunked walks each document chunk by chunk and records the
	// first chunk that yields an answer for that document.
	AnswerModeChunked AnswerMode = "chunked"
	// AnswerModeRelevance asks the model whether a document pertains to the
	// question before generating an answer against it.
	AnswerModeRelevance AnswerMode = "relevance"
)

func (m AnswerMode) Validate() error {
	switch m {
	case AnswerModeCombined, AnswerModeChunked, AnswerModeRelevance:
		return nil
	default:
		return ErrInvalidAnswerMode
	}
}

// Document is one uploaded file together with its extracted text.
// The index is assigned in upload order and stays stable for the
// lifetime of the session.
type Document struct {
	Index       int       `json:"index"`
	Filename    string    `json:"filename"`
	MediaType   MediaType `json:"media_type"`
	Size        int64     `json:"size"`
	ContentHash string    `json:"content_hash"`

	// Text is the extracted (and possibly truncated) document text.
	// Empty text means the document was unreadable and is treated as
	// "no relevant content" downstream.
	Text      string `json:"-"`
	UsedOCR   bool   `json:"used_ocr"`
	FromCache bool   `json:"from_cache"`
}

// Session groups uploaded documents and their cached extractions.
// Sessions live in memory only and expire with their TTL.
type Session struct {
	ID          string     `json:"session_id"`
	Documents   []Document `json:"documents"`
	CreatedAt   time.Time  `json:"created_at"`
	LastAnswers *AnswerSet `json:"-"`
}
