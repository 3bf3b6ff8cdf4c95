package qa

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/askdoc/askdoc-backend/internal/entity"
	"github.com/askdoc/askdoc-backend/internal/textproc"
)

const (
	answerPromptTemplate = "Here is the document content:\n\n%s\n\nQuestion: %s\nAnswer:"

	combinedPromptTemplate = "Here is the combined document content:\n\n%s\n\nQuestion: %s\nAnswer:"

	relevancePromptTemplate = "Does the following document contain information relevant to the question? " +
		"Answer strictly YES or NO.\n\nDocument:\n%s\n\nQuestion: %s"
)

// SplitQuestions turns the raw textarea content into one question per
// non-blank line.
func SplitQuestions(textarea string) []string {
	var questions []string
	for _, line := range strings.Split(textarea, "\n") {
		q := strings.TrimSpace(line)
		if q == "" {
			continue
		}
		questions = append(questions, q)
	}
	return questions
}

// generateAnswer issues a single LLM call for (question, text). Failures
// are recorded in the answer instead of propagating so one bad call never
// aborts the batch.
func (uc *Usecase) generateAnswer(ctx context.Context, template, question, text string) entity.Answer {
	resp, err := uc.llm.Complete(ctx, fmt.Sprintf(template, text, question))
	if err != nil {
		callErr := asCallError(err)
		ctxzap.Warn(ctx, "LLM call failed",
			zap.String("kind", string(callErr.Kind)),
			zap.String("question", question),
		)
		return entity.Answer{Err: callErr}
	}
	return entity.Answer{Text: strings.TrimSpace(resp)}
}

// isRelevant asks the model for a strict YES/NO verdict and parses only
// the leading token of the reply. Any failure means not relevant.
func (uc *Usecase) isRelevant(ctx context.Context, docText, question string) bool {
	resp, err := uc.llm.Complete(ctx, fmt.Sprintf(relevancePromptTemplate, docText, question))
	if err != nil {
		return false
	}

	fields := strings.Fields(resp)
	if len(fields) == 0 {
		return false
	}
	verdict := strings.Trim(fields[0], ".,!:;\"'")
	return strings.EqualFold(verdict, "yes")
}

func asCallError(err error) *entity.CallError {
	var callErr *entity.CallError
	if errors.As(err, &callErr) {
		return callErr
	}
	return &entity.CallError{Kind: entity.CallErrorUnknown, Message: err.Error()}
}

// runTasks executes tasks on the bounded answer pool and waits for all of
// them. A full or released pool falls back to inline execution.
func (uc *Usecase) runTasks(tasks []func()) {
	var wg sync.WaitGroup
	for _, task := range tasks {
		task := task
		wg.Add(1)
		wrapped := func() {
			defer wg.Done()
			task()
		}
		if err := uc.answerPool.Submit(wrapped); err != nil {
			wrapped()
		}
	}
	wg.Wait()
}

// answerCombined reproduces the original policy: keyword-filter every
// document by the question, join the survivors and issue one call per
// question against the combined text.
func (uc *Usecase) answerCombined(ctx context.Context, docs []entity.Document, questions []string) []entity.QuestionResult {
	results := make([]entity.QuestionResult, len(questions))

	tasks := make([]func(), 0, len(questions))
	for qi, question := range questions {
		qi, question := qi, question
		tasks = append(tasks, func() {
			results[qi] = entity.QuestionResult{Question: question}

			keywords := textproc.Keywords(question)
			var parts []string
			for _, doc := range docs {
				if filtered := textproc.FilterLines(doc.Text, keywords); filtered != "" {
					parts = append(parts, filtered)
				}
			}

			combined := textproc.Truncate(strings.Join(parts, "\n"), uc.answerCfg.CombinedMaxChars)
			if strings.TrimSpace(combined) == "" {
				results[qi].NoAnswer = true
				return
			}

			answer := uc.generateAnswer(ctx, combinedPromptTemplate, question, combined)
			if !answer.OK() && answer.Err == nil {
				results[qi].NoAnswer = true
				return
			}
			results[qi].Combined = &answer
		})
	}

	uc.runTasks(tasks)
	return results
}

// answerChunked walks each document's chunks in order and keeps the first
// chunk that yields any answer (or, when early exit is disabled, the last
// usable one). Documents that never produce an answer stay absent from the
// question's mapping.
func (uc *Usecase) answerChunked(ctx context.Context, docs []entity.Document, questions []string) []entity.QuestionResult {
	slots := answerMatrix(len(questions), len(docs))

	tasks := make([]func(), 0, len(questions)*len(docs))
	for qi, question := range questions {
		for di := range docs {
			qi, di, question := qi, di, question
			doc := docs[di]
			tasks = append(tasks, func() {
				if doc.Text == "" {
					return
				}
				for _, chunk := range textproc.SplitChunks(doc.Text, uc.answerCfg.ChunkSize) {
					answer := uc.generateAnswer(ctx, answerPromptTemplate, question, chunk)
					if !answer.OK() && answer.Err == nil {
						continue
					}
					slots[qi][di] = &answer
					if uc.answerCfg.StopAfterFirstChunk {
						return
					}
				}
			})
		}
	}

	uc.runTasks(tasks)
	return assembleResults(questions, slots)
}

// answerRelevanceGated asks the relevance classifier per document and only
// generates answers against documents it accepts.
func (uc *Usecase) answerRelevanceGated(ctx context.Context, docs []entity.Document, questions []string) []entity.QuestionResult {
	slots := answerMatrix(len(questions), len(docs))

	tasks := make([]func(), 0, len(questions)*len(docs))
	for qi, question := range questions {
		for di := range docs {
			qi, di, question := qi, di, question
			doc := docs[di]
			tasks = append(tasks, func() {
				if doc.Text == "" {
					return
				}
				if !uc.isRelevant(ctx, doc.Text, question) {
					return
				}
				answer := uc.generateAnswer(ctx, answerPromptTemplate, question, doc.Text)
				if !answer.OK() && answer.Err == nil {
					return
				}
				slots[qi][di] = &answer
			})
		}
	}

	uc.runTasks(tasks)
	return assembleResults(questions, slots)
}

func answerMatrix(questions, docs int) [][]*entity.Answer {
	slots := make([][]*entity.Answer, questions)
	for i := range slots {
		slots[i] = make([]*entity.Answer, docs)
	}
	return slots
}

// assembleResults folds the slot matrix into per-question results. An
// empty mapping becomes the explicit NoAnswer marker so absence is never
// represented by an ambiguous empty map.
func assembleResults(questions []string, slots [][]*entity.Answer) []entity.QuestionResult {
	results := make([]entity.QuestionResult, len(questions))
	for qi, question := range questions {
		result := entity.QuestionResult{
			Question: question,
			Answers:  make(map[int]entity.Answer),
		}
		for di, answer := range slots[qi] {
			if answer != nil {
				result.Answers[di] = *answer
			}
		}
		if len(result.Answers) == 0 {
			result.Answers = nil
			result.NoAnswer = true
		}
		results[qi] = result
	}
	return results
}
