package qa

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/askdoc/askdoc-backend/internal/cache"
	"github.com/askdoc/askdoc-backend/internal/config"
	"github.com/askdoc/askdoc-backend/internal/entity"
	"github.com/askdoc/askdoc-backend/internal/extractor"
)

type llmFunc func(ctx context.Context, prompt string) (string, error)

func (f llmFunc) Complete(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

func newTestUsecase(t *testing.T, llm LLMConnector, answerCfg config.AnsweringConfig) *Usecase {
	t.Helper()

	store := cache.NewStore(config.SessionConfig{TTL: time.Minute, CleanupInterval: time.Minute})
	extractCfg := config.ExtractConfig{MaxChars: 20000, Workers: 2}
	mgr := extractor.NewManager(extractCfg, config.OCRConfig{}, nil, zap.NewNop())

	uc, err := NewUsecase(store, mgr, llm, extractCfg, config.LLMConfig{MaxConcurrent: 1}, answerCfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(uc.Close)

	return uc
}

func seedSession(uc *Usecase, texts ...string) *entity.Session {
	docs := make([]entity.Document, len(texts))
	for i, text := range texts {
		docs[i] = entity.Document{
			Index:     i,
			Filename:  fmt.Sprintf("doc-%d.pdf", i),
			MediaType: entity.MediaTypePDF,
			Text:      text,
		}
	}

	sess := &entity.Session{
		ID:        uuid.New().String(),
		Documents: docs,
		CreatedAt: time.Now().UTC(),
	}
	uc.store.SaveSession(sess)
	return sess
}

func TestSplitQuestions(t *testing.T) {
	questions := SplitQuestions("What was the revenue growth?\n\n  \nWho signed the contract?  \n")

	assert.Equal(t, []string{
		"What was the revenue growth?",
		"Who signed the contract?",
	}, questions)

	assert.Nil(t, SplitQuestions(""))
	assert.Nil(t, SplitQuestions(" \n\t\n"))
}

func TestAnswerQuestionsCombined(t *testing.T) {
	var prompts []string
	llm := llmFunc(func(_ context.Context, prompt string) (string, error) {
		prompts = append(prompts, prompt)
		return "Revenue grew by 10%.", nil
	})

	uc := newTestUsecase(t, llm, config.AnsweringConfig{
		Mode:             entity.AnswerModeCombined,
		ChunkSize:        5000,
		CombinedMaxChars: 5000,
	})
	sess := seedSession(uc,
		"Revenue growth was 10% in 2024.\nThe office moved to Berlin.",
		"Headcount stayed flat.",
	)

	set, err := uc.AnswerQuestions(context.Background(), sess.ID, "What was the revenue growth?")
	require.NoError(t, err)
	require.Len(t, set.Results, 1)

	result := set.Results[0]
	require.NotNil(t, result.Combined)
	assert.Equal(t, "Revenue grew by 10%.", result.Combined.Text)
	assert.False(t, result.NoAnswer)

	// only the keyword-matching line reaches the prompt
	require.Len(t, prompts, 1)
	assert.Contains(t, prompts[0], "Revenue growth was 10% in 2024.")
	assert.NotContains(t, prompts[0], "Berlin")
	assert.NotContains(t, prompts[0], "Headcount")

	// the result is stored on the session for export
	stored, lastSet, err := uc.LastAnswers(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, stored.ID)
	assert.Equal(t, set.Results, lastSet.Results)
}

func TestAnswerQuestionsCombinedNothingMatches(t *testing.T) {
	var calls atomic.Int32
	llm := llmFunc(func(_ context.Context, _ string) (string, error) {
		calls.Add(1)
		return "should not be called", nil
	})

	uc := newTestUsecase(t, llm, config.AnsweringConfig{
		Mode:             entity.AnswerModeCombined,
		ChunkSize:        5000,
		CombinedMaxChars: 5000,
	})
	sess := seedSession(uc, "The office moved to Berlin.")

	set, err := uc.AnswerQuestions(context.Background(), sess.ID, "What was the revenue growth?")
	require.NoError(t, err)
	require.Len(t, set.Results, 1)

	assert.True(t, set.Results[0].NoAnswer)
	assert.Nil(t, set.Results[0].Combined)
	assert.Zero(t, calls.Load(), "no generation call without matching content")
}

func TestAnswerQuestionsChunkedFirstChunkWins(t *testing.T) {
	var calls atomic.Int32
	llm := llmFunc(func(_ context.Context, _ string) (string, error) {
		calls.Add(1)
		return "found in the first chunk", nil
	})

	uc := newTestUsecase(t, llm, config.AnsweringConfig{
		Mode:                entity.AnswerModeChunked,
		ChunkSize:           8,
		StopAfterFirstChunk: true,
	})
	sess := seedSession(uc, "aaaaaaaabbbbbbbbcccccccc") // three chunks

	set, err := uc.AnswerQuestions(context.Background(), sess.ID, "Where is it?")
	require.NoError(t, err)
	require.Len(t, set.Results, 1)

	result := set.Results[0]
	require.Len(t, result.Answers, 1)
	assert.Equal(t, "found in the first chunk", result.Answers[0].Text)
	assert.Equal(t, int32(1), calls.Load(), "later chunks are skipped once one answers")
}

func TestAnswerQuestionsChunkedScansAllChunks(t *testing.T) {
	var calls atomic.Int32
	llm := llmFunc(func(_ context.Context, prompt string) (string, error) {
		calls.Add(1)
		if strings.Contains(prompt, "cccc") {
			return "found in the last chunk", nil
		}
		return "", nil
	})

	uc := newTestUsecase(t, llm, config.AnsweringConfig{
		Mode:                entity.AnswerModeChunked,
		ChunkSize:           8,
		StopAfterFirstChunk: false,
	})
	sess := seedSession(uc, "aaaaaaaabbbbbbbbcccccccc")

	set, err := uc.AnswerQuestions(context.Background(), sess.ID, "Where is it?")
	require.NoError(t, err)

	result := set.Results[0]
	require.Len(t, result.Answers, 1)
	assert.Equal(t, "found in the last chunk", result.Answers[0].Text)
	assert.Equal(t, int32(3), calls.Load())
}

func TestAnswerQuestionsChunkedNoAnswerMarker(t *testing.T) {
	llm := llmFunc(func(_ context.Context, _ string) (string, error) {
		return "", nil
	})

	uc := newTestUsecase(t, llm, config.AnsweringConfig{
		Mode:                entity.AnswerModeChunked,
		ChunkSize:           5000,
		StopAfterFirstChunk: true,
	})
	sess := seedSession(uc, "some text", "")

	set, err := uc.AnswerQuestions(context.Background(), sess.ID, "Anything?")
	require.NoError(t, err)

	result := set.Results[0]
	assert.True(t, result.NoAnswer)
	assert.Nil(t, result.Answers, "absence is the explicit marker, never an empty map")
}

func TestAnswerQuestionsChunkedRecordsErrorAndContinues(t *testing.T) {
	llm := llmFunc(func(_ context.Context, prompt string) (string, error) {
		if strings.Contains(prompt, "broken") {
			return "", &entity.CallError{Kind: entity.CallErrorCanceled, Message: "request timed out"}
		}
		return "the answer", nil
	})

	uc := newTestUsecase(t, llm, config.AnsweringConfig{
		Mode:                entity.AnswerModeChunked,
		ChunkSize:           5000,
		StopAfterFirstChunk: true,
	})
	sess := seedSession(uc, "broken document", "healthy document")

	set, err := uc.AnswerQuestions(context.Background(), sess.ID, "Anything?")
	require.NoError(t, err, "a failed call never aborts the batch")

	result := set.Results[0]
	require.Len(t, result.Answers, 2)

	failed := result.Answers[0]
	require.NotNil(t, failed.Err)
	assert.Equal(t, entity.CallErrorCanceled, failed.Err.Kind)
	assert.Empty(t, failed.Text)

	assert.Equal(t, "the answer", result.Answers[1].Text)
}

func TestAnswerQuestionsRelevanceGate(t *testing.T) {
	llm := llmFunc(func(_ context.Context, prompt string) (string, error) {
		if strings.Contains(prompt, "YES or NO") {
			if strings.Contains(prompt, "Spending plan") {
				return "YES", nil
			}
			return "No, it does not.", nil
		}
		return "The budget was 1M.", nil
	})

	uc := newTestUsecase(t, llm, config.AnsweringConfig{
		Mode:      entity.AnswerModeRelevance,
		ChunkSize: 5000,
	})
	sess := seedSession(uc, "Notes on the office party.", "Spending plan: 1M total.")

	set, err := uc.AnswerQuestions(context.Background(), sess.ID, "What was the budget?")
	require.NoError(t, err)

	result := set.Results[0]
	require.Len(t, result.Answers, 1, "only the relevant document is answered")
	assert.Equal(t, "The budget was 1M.", result.Answers[1].Text)
}

func TestAnswerQuestionsRelevanceFailsClosed(t *testing.T) {
	var answered atomic.Int32
	llm := llmFunc(func(_ context.Context, prompt string) (string, error) {
		if strings.Contains(prompt, "YES or NO") {
			return "", &entity.CallError{Kind: entity.CallErrorNetwork, Message: "connection refused"}
		}
		answered.Add(1)
		return "should not happen", nil
	})

	uc := newTestUsecase(t, llm, config.AnsweringConfig{
		Mode:      entity.AnswerModeRelevance,
		ChunkSize: 5000,
	})
	sess := seedSession(uc, "Some document content.")

	set, err := uc.AnswerQuestions(context.Background(), sess.ID, "Anything?")
	require.NoError(t, err)

	assert.True(t, set.Results[0].NoAnswer)
	assert.Zero(t, answered.Load(), "a failed relevance check gates generation off")
}

func TestAnswerQuestionsEmptyTextarea(t *testing.T) {
	var calls atomic.Int32
	llm := llmFunc(func(_ context.Context, _ string) (string, error) {
		calls.Add(1)
		return "", nil
	})

	uc := newTestUsecase(t, llm, config.AnsweringConfig{Mode: entity.AnswerModeCombined, ChunkSize: 5000})
	sess := seedSession(uc, "text")

	_, err := uc.AnswerQuestions(context.Background(), sess.ID, " \n \n")
	assert.ErrorIs(t, err, entity.ErrNoQuestions)
	assert.Zero(t, calls.Load())
}

func TestAnswerQuestionsSessionNotFound(t *testing.T) {
	uc := newTestUsecase(t, llmFunc(func(_ context.Context, _ string) (string, error) {
		return "", nil
	}), config.AnsweringConfig{Mode: entity.AnswerModeCombined, ChunkSize: 5000})

	_, err := uc.AnswerQuestions(context.Background(), "missing", "Anything?")
	assert.ErrorIs(t, err, entity.ErrSessionNotFound)
}

func TestLastAnswersBeforeAnyRun(t *testing.T) {
	uc := newTestUsecase(t, llmFunc(func(_ context.Context, _ string) (string, error) {
		return "", nil
	}), config.AnsweringConfig{Mode: entity.AnswerModeCombined, ChunkSize: 5000})
	sess := seedSession(uc, "text")

	_, _, err := uc.LastAnswers(context.Background(), sess.ID)
	assert.ErrorIs(t, err, entity.ErrNoAnswersYet)
}

func TestCreateSessionRequiresFiles(t *testing.T) {
	uc := newTestUsecase(t, llmFunc(func(_ context.Context, _ string) (string, error) {
		return "", nil
	}), config.AnsweringConfig{Mode: entity.AnswerModeCombined, ChunkSize: 5000})

	_, err := uc.CreateSession(context.Background(), nil)
	assert.ErrorIs(t, err, entity.ErrMissingField)
}

func TestDeleteSession(t *testing.T) {
	uc := newTestUsecase(t, llmFunc(func(_ context.Context, _ string) (string, error) {
		return "", nil
	}), config.AnsweringConfig{Mode: entity.AnswerModeCombined, ChunkSize: 5000})
	sess := seedSession(uc, "text")

	require.NoError(t, uc.DeleteSession(context.Background(), sess.ID))

	_, err := uc.GetSession(context.Background(), sess.ID)
	assert.ErrorIs(t, err, entity.ErrSessionNotFound)

	assert.ErrorIs(t, uc.DeleteSession(context.Background(), sess.ID), entity.ErrSessionNotFound)
}
