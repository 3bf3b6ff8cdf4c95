package llm

import (
	"context"
	"net/http"
	"strings"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/askdoc/askdoc-backend/internal/config"
	"github.com/askdoc/askdoc-backend/internal/integration/common"
	"github.com/askdoc/askdoc-backend/pkg/httpclient"
)

const (
	defaultOpenAIBaseURL = "https://api.openai.com"
	defaultOpenAIModel   = "gpt-4"
)

// OpenAIConnector talks to the OpenAI chat completions API.
type OpenAIConnector struct {
	model     string
	connector *httpclient.Connector
	logger    *zap.Logger
}

func NewOpenAIConnector(cfg config.LLMConfig, logger *zap.Logger) *OpenAIConnector {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultOpenAIBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = defaultOpenAIModel
	}

	return &OpenAIConnector{
		model:     model,
		connector: common.NewBaseConnector(cfg, logger, httpclient.WithBearerToken(cfg.APIKey)),
		logger:    logger,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionsRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatCompletionsResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends the prompt and returns the stripped response text. No
// retry, no backoff; failures come back as a classified *entity.CallError.
func (c *OpenAIConnector) Complete(ctx context.Context, prompt string) (string, error) {
	req := chatCompletionsRequest{
		Model:    c.model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	}

	var resp chatCompletionsResponse
	if err := c.connector.DoJSON(ctx, http.MethodPost, "/v1/chat/completions", req, &resp); err != nil {
		return "", ClassifyError(err)
	}

	if len(resp.Choices) == 0 {
		return "", malformed("openai returned no choices")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// Probe checks reachability and credentials without spending tokens.
func (c *OpenAIConnector) Probe(ctx context.Context) error {
	ctxzap.Debug(ctx, "probing openai provider")
	if err := c.connector.DoJSON(ctx, http.MethodGet, "/v1/models", nil, nil); err != nil {
		return ClassifyError(err)
	}
	return nil
}
