package llm

import (
	"context"
	"strings"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// MockConnector is a deterministic stand-in for a real provider, used when
// mocks are enabled for local development.
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{logger: logger}
}

func (m *MockConnector) Complete(ctx context.Context, prompt string) (string, error) {
	ctxzap.Debug(ctx, "[MOCK] completing prompt", zap.Int("prompt_length", len(prompt)))

	// Relevance verdicts get an affirmative token so the full pipeline is
	// exercised end to end.
	if strings.Contains(prompt, "YES or NO") {
		return "YES", nil
	}

	return "Mock answer derived from the provided document content.", nil
}

func (m *MockConnector) Probe(ctx context.Context) error {
	return nil
}
