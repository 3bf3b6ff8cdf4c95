package qa

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/askdoc/askdoc-backend/internal/cache"
	"github.com/askdoc/askdoc-backend/internal/config"
	"github.com/askdoc/askdoc-backend/internal/entity"
	"github.com/askdoc/askdoc-backend/internal/extractor"
)

// Usecase implements the document question-answering pipeline: extraction
// fan-out at upload time and per-question answer orchestration.
type Usecase struct {
	store     *cache.Store
	extractor *extractor.Manager
	llm       LLMConnector

	answerCfg config.AnsweringConfig

	// extractPool parallelizes file text extraction; answerPool bounds
	// in-flight LLM calls across a whole answering run.
	extractPool *ants.Pool
	answerPool  *ants.Pool

	logger *zap.Logger
}

// NewUsecase creates the use case and its worker pools.
func NewUsecase(
	store *cache.Store,
	extr *extractor.Manager,
	llm LLMConnector,
	extractCfg config.ExtractConfig,
	llmCfg config.LLMConfig,
	answerCfg config.AnsweringConfig,
	logger *zap.Logger,
) (*Usecase, error) {
	extractPool, err := ants.NewPool(extractCfg.Workers)
	if err != nil {
		return nil, fmt.Errorf("create extraction pool: %w", err)
	}

	answerPool, err := ants.NewPool(llmCfg.MaxConcurrent)
	if err != nil {
		extractPool.Release()
		return nil, fmt.Errorf("create answer pool: %w", err)
	}

	return &Usecase{
		store:       store,
		extractor:   extr,
		llm:         llm,
		answerCfg:   answerCfg,
		extractPool: extractPool,
		answerPool:  answerPool,
		logger:      logger,
	}, nil
}

// Close releases the worker pools.
func (uc *Usecase) Close() {
	uc.extractPool.Release()
	uc.answerPool.Release()
}

// CreateSession extracts text from every uploaded file on the extraction
// pool and stores the session. Document indices follow upload order and
// stay stable for the session's lifetime.
func (uc *Usecase) CreateSession(ctx context.Context, files []entity.UploadedFile) (*entity.Session, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: files", entity.ErrMissingField)
	}

	session := &entity.Session{
		ID:        uuid.New().String(),
		Documents: make([]entity.Document, len(files)),
		CreatedAt: time.Now().UTC(),
	}

	var wg sync.WaitGroup
	for i, file := range files {
		i, file := i, file
		wg.Add(1)

		task := func() {
			defer wg.Done()
			session.Documents[i] = uc.extractDocument(ctx, i, file)
		}

		// A full pool falls back to inline execution rather than dropping
		// the document.
		if err := uc.extractPool.Submit(task); err != nil {
			task()
		}
	}
	wg.Wait()

	uc.store.SaveSession(session)

	ctxzap.Info(ctx, "session created",
		zap.String("session_id", session.ID),
		zap.Int("document_count", len(session.Documents)),
	)

	return session, nil
}

func (uc *Usecase) extractDocument(ctx context.Context, index int, file entity.UploadedFile) entity.Document {
	doc := entity.Document{
		Index:       index,
		Filename:    file.Filename,
		MediaType:   file.MediaType,
		Size:        int64(len(file.Data)),
		ContentHash: cache.ContentHash(file.Data),
	}

	if entry, ok := uc.store.CachedText(doc.ContentHash); ok {
		doc.Text = entry.Text
		doc.UsedOCR = entry.UsedOCR
		doc.FromCache = true
		return doc
	}

	res := uc.extractor.Extract(ctx, file.MediaType, file.Data)
	doc.Text = res.Text
	doc.UsedOCR = res.UsedOCR
	uc.store.PutText(doc.ContentHash, res.Text, res.UsedOCR)

	if doc.Text == "" {
		ctxzap.Warn(ctx, "document yielded no text",
			zap.String("filename", file.Filename))
	}

	return doc
}

// GetSession returns a session by ID.
func (uc *Usecase) GetSession(ctx context.Context, id string) (*entity.Session, error) {
	return uc.store.Session(id)
}

// DeleteSession discards a session and its documents.
func (uc *Usecase) DeleteSession(ctx context.Context, id string) error {
	if _, err := uc.store.Session(id); err != nil {
		return err
	}
	uc.store.DeleteSession(id)
	return nil
}

// AnswerQuestions splits the submitted textarea into questions and runs
// the configured orchestration policy. The result is stored on the session
// for later export.
func (uc *Usecase) AnswerQuestions(ctx context.Context, sessionID, textarea string) (*entity.AnswerSet, error) {
	session, err := uc.store.Session(sessionID)
	if err != nil {
		return nil, err
	}

	questions := SplitQuestions(textarea)
	if len(questions) == 0 {
		return nil, entity.ErrNoQuestions
	}

	ctxzap.Info(ctx, "answering questions",
		zap.String("mode", string(uc.answerCfg.Mode)),
		zap.Int("question_count", len(questions)),
		zap.Int("document_count", len(session.Documents)),
	)

	set := &entity.AnswerSet{
		Mode:        uc.answerCfg.Mode,
		GeneratedAt: time.Now().UTC(),
	}

	switch uc.answerCfg.Mode {
	case entity.AnswerModeCombined:
		set.Results = uc.answerCombined(ctx, session.Documents, questions)
	case entity.AnswerModeChunked:
		set.Results = uc.answerChunked(ctx, session.Documents, questions)
	case entity.AnswerModeRelevance:
		set.Results = uc.answerRelevanceGated(ctx, session.Documents, questions)
	default:
		return nil, fmt.Errorf("%w: %q", entity.ErrInvalidAnswerMode, uc.answerCfg.Mode)
	}

	session.LastAnswers = set
	uc.store.SaveSession(session)

	return set, nil
}

// LastAnswers returns the most recent answer set of a session.
func (uc *Usecase) LastAnswers(ctx context.Context, sessionID string) (*entity.Session, *entity.AnswerSet, error) {
	session, err := uc.store.Session(sessionID)
	if err != nil {
		return nil, nil, err
	}
	if session.LastAnswers == nil {
		return nil, nil, entity.ErrNoAnswersYet
	}
	return session, session.LastAnswers, nil
}
