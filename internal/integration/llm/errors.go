package llm

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/askdoc/askdoc-backend/internal/entity"
	"github.com/askdoc/askdoc-backend/pkg/httpclient"
)

// ClassifyError converts a failed provider call into a structured
// entity.CallError so callers can distinguish failure classes instead of
// string-matching messages.
func ClassifyError(err error) *entity.CallError {
	if err == nil {
		return nil
	}

	var callErr *entity.CallError
	if errors.As(err, &callErr) {
		return callErr
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return &entity.CallError{Kind: entity.CallErrorCanceled, Message: err.Error()}
	}

	var httpErr *httpclient.HTTPError
	if errors.As(err, &httpErr) {
		return &entity.CallError{Kind: kindForStatus(httpErr), Message: err.Error()}
	}

	var netErr *httpclient.NetworkError
	if errors.As(err, &netErr) {
		if errors.Is(netErr.Err, context.Canceled) || errors.Is(netErr.Err, context.DeadlineExceeded) {
			return &entity.CallError{Kind: entity.CallErrorCanceled, Message: err.Error()}
		}
		return &entity.CallError{Kind: entity.CallErrorNetwork, Message: err.Error()}
	}

	var decErr *httpclient.DecodeError
	if errors.As(err, &decErr) {
		return &entity.CallError{Kind: entity.CallErrorMalformed, Message: err.Error()}
	}

	return &entity.CallError{Kind: entity.CallErrorUnknown, Message: err.Error()}
}

func kindForStatus(httpErr *httpclient.HTTPError) entity.CallErrorKind {
	switch httpErr.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return entity.CallErrorAuth
	case http.StatusTooManyRequests, http.StatusPaymentRequired:
		return entity.CallErrorQuota
	}

	msg := strings.ToLower(httpErr.Message)
	switch {
	case strings.Contains(msg, "quota"), strings.Contains(msg, "billing"):
		return entity.CallErrorQuota
	case strings.Contains(msg, "api key"), strings.Contains(msg, "api_key"):
		return entity.CallErrorAuth
	case httpErr.StatusCode >= 500:
		return entity.CallErrorNetwork
	default:
		return entity.CallErrorUnknown
	}
}

// malformed builds the CallError for a syntactically valid but unusable
// provider response.
func malformed(message string) *entity.CallError {
	return &entity.CallError{Kind: entity.CallErrorMalformed, Message: message}
}
