package entity

import (
	"fmt"
	"time"
)

// CallErrorKind classifies a failed LLM call so callers can distinguish
// failure classes without string-matching error messages.
type CallErrorKind string

const (
	CallErrorNetwork   CallErrorKind = "network"
	CallErrorAuth      CallErrorKind = "auth"
	CallErrorQuota     CallErrorKind = "quota"
	CallErrorMalformed CallErrorKind = "malformed"
	CallErrorCanceled  CallErrorKind = "canceled"
	CallErrorUnknown   CallErrorKind = "unknown"
)

// CallError is the structured failure of a single LLM call.
type CallError struct {
	Kind    CallErrorKind
	Message string
}

func (e *CallError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Answer is the outcome of one (question, text) generation: either answer
// text or a structured call failure, never both.
type Answer struct {
	Text string
	Err  *CallError
}

// OK reports whether the answer carries usable text.
func (a Answer) OK() bool {
	return a.Err == nil && a.Text != ""
}

// QuestionResult maps one question to its per-document answers.
// Exactly one of the following holds: Combined is set (combined mode),
// Answers is non-empty, or NoAnswer is true. An empty Answers map is
// never returned without the explicit marker.
type QuestionResult struct {
	Question string
	Combined *Answer
	Answers  map[int]Answer
	NoAnswer bool
}

// AnswerSet is the result of one answering run, ordered by question.
type AnswerSet struct {
	Mode        AnswerMode
	Results     []QuestionResult
	GeneratedAt time.Time
}

// AnswerReport is the flat three-column rendering of an AnswerSet,
// consumed by the export formatters.
type AnswerReport struct {
	Title string
	Rows  []AnswerRow
}

type AnswerRow struct {
	Document string
	Question string
	Answer   string
}
