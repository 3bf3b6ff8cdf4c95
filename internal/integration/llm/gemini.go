package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/askdoc/askdoc-backend/internal/config"
	"github.com/askdoc/askdoc-backend/internal/integration/common"
	"github.com/askdoc/askdoc-backend/pkg/httpclient"
)

const (
	defaultGeminiBaseURL = "https://generativelanguage.googleapis.com"
	defaultGeminiModel   = "gemini-1.5-flash"
)

// GeminiConnector talks to the Google Gemini generateContent API.
type GeminiConnector struct {
	model     string
	connector *httpclient.Connector
	logger    *zap.Logger
}

func NewGeminiConnector(cfg config.LLMConfig, logger *zap.Logger) *GeminiConnector {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultGeminiBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = defaultGeminiModel
	}

	return &GeminiConnector{
		model:     model,
		connector: common.NewBaseConnector(cfg, logger, httpclient.WithQueryAPIKey("key", cfg.APIKey)),
		logger:    logger,
	}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
	Role  string       `json:"role,omitempty"`
}

type generateContentRequest struct {
	Contents []geminiContent `json:"contents"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// Complete sends the prompt and returns the stripped response text. No
// retry, no backoff; failures come back as a classified *entity.CallError.
func (c *GeminiConnector) Complete(ctx context.Context, prompt string) (string, error) {
	req := generateContentRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	}

	endpoint := fmt.Sprintf("/v1beta/models/%s:generateContent", c.model)

	var resp generateContentResponse
	if err := c.connector.DoJSON(ctx, http.MethodPost, endpoint, req, &resp); err != nil {
		return "", ClassifyError(err)
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", malformed("gemini returned no candidates")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}

	return strings.TrimSpace(sb.String()), nil
}

// Probe checks reachability and credentials without spending tokens.
func (c *GeminiConnector) Probe(ctx context.Context) error {
	ctxzap.Debug(ctx, "probing gemini provider")
	if err := c.connector.DoJSON(ctx, http.MethodGet, "/v1beta/models", nil, nil); err != nil {
		return ClassifyError(err)
	}
	return nil
}
