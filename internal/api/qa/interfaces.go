package qa

import (
	"context"

	"github.com/askdoc/askdoc-backend/internal/entity"
)

type QAUsecase interface {
	CreateSession(ctx context.Context, files []entity.UploadedFile) (*entity.Session, error)
	GetSession(ctx context.Context, sessionID string) (*entity.Session, error)
	DeleteSession(ctx context.Context, sessionID string) error
	AnswerQuestions(ctx context.Context, sessionID, textarea string) (*entity.AnswerSet, error)
	LastAnswers(ctx context.Context, sessionID string) (*entity.Session, *entity.AnswerSet, error)
}
