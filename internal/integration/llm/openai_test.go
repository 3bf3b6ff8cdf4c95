package llm

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/askdoc/askdoc-backend/internal/config"
	"github.com/askdoc/askdoc-backend/internal/entity"
)

func testLLMConfig(baseURL string) config.LLMConfig {
	return config.LLMConfig{
		Provider:              "openai",
		APIKey:                "test-key",
		BaseURL:               baseURL,
		RequestTimeout:        2 * time.Second,
		ConnTimeout:           2 * time.Second,
		KeepAlive:             time.Second,
		IdleConnTimeout:       time.Second,
		ResponseHeaderTimeout: time.Second,
	}
}

func TestOpenAICompleteReturnsText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"  Revenue grew 10%.  "}}]}`))
	}))
	defer srv.Close()

	c := NewOpenAIConnector(testLLMConfig(srv.URL), zap.NewNop())
	got, err := c.Complete(context.Background(), "What was the revenue growth?")
	require.NoError(t, err)
	assert.Equal(t, "Revenue grew 10%.", got)
}

func TestOpenAICompleteClassifiesAuthError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid api key"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewOpenAIConnector(testLLMConfig(srv.URL), zap.NewNop())
	_, err := c.Complete(context.Background(), "question")

	var callErr *entity.CallError
	require.ErrorAs(t, err, &callErr)
	assert.Equal(t, entity.CallErrorAuth, callErr.Kind)
}

func TestOpenAICompleteClassifiesQuotaError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"code":"insufficient_quota"}}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewOpenAIConnector(testLLMConfig(srv.URL), zap.NewNop())
	_, err := c.Complete(context.Background(), "question")

	var callErr *entity.CallError
	require.ErrorAs(t, err, &callErr)
	assert.Equal(t, entity.CallErrorQuota, callErr.Kind)
}

func TestOpenAICompleteClassifiesNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused

	c := NewOpenAIConnector(testLLMConfig(srv.URL), zap.NewNop())
	_, err := c.Complete(context.Background(), "question")

	var callErr *entity.CallError
	require.ErrorAs(t, err, &callErr)
	assert.Equal(t, entity.CallErrorNetwork, callErr.Kind)
}

func TestOpenAICompleteClassifiesTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// The server only cancels r.Context() on client disconnect once the
		// body is consumed; without this drain, srv.Close() deadlocks.
		io.Copy(io.Discard, r.Body)
		<-r.Context().Done()
	}))
	defer srv.Close()

	c := NewOpenAIConnector(testLLMConfig(srv.URL), zap.NewNop())
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.Complete(ctx, "question")

	var callErr *entity.CallError
	require.ErrorAs(t, err, &callErr)
	assert.Equal(t, entity.CallErrorCanceled, callErr.Kind)
}

func TestOpenAICompleteMalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	c := NewOpenAIConnector(testLLMConfig(srv.URL), zap.NewNop())
	_, err := c.Complete(context.Background(), "question")

	var callErr *entity.CallError
	require.ErrorAs(t, err, &callErr)
	assert.Equal(t, entity.CallErrorMalformed, callErr.Kind)
}

func TestGeminiCompleteReturnsText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1beta/models/gemini-1.5-flash:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"Answer "},{"text":"text"}]}}]}`))
	}))
	defer srv.Close()

	c := NewGeminiConnector(testLLMConfig(srv.URL), zap.NewNop())
	got, err := c.Complete(context.Background(), "question")
	require.NoError(t, err)
	assert.Equal(t, "Answer text", got)
}

func TestClassifyErrorPassesThroughCallError(t *testing.T) {
	orig := &entity.CallError{Kind: entity.CallErrorQuota, Message: "quota"}
	assert.Same(t, orig, ClassifyError(orig))
	assert.Nil(t, ClassifyError(nil))
	assert.Equal(t, entity.CallErrorUnknown, ClassifyError(errors.New("boom")).Kind)
}
