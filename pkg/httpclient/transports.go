package httpclient

import (
	"net/http"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type authTransport struct {
	token string
	next  http.RoundTripper
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	if t.token != "" {
		clone.Header.Set("Authorization", "Bearer "+t.token)
	}
	return t.next.RoundTrip(clone)
}

// WithBearerToken adds an Authorization: Bearer header to every request.
func WithBearerToken(token string) Option {
	return WithTransport(func(rt http.RoundTripper) http.RoundTripper {
		return &authTransport{token: token, next: rt}
	})
}

type apiKeyTransport struct {
	param string
	key   string
	next  http.RoundTripper
}

func (t *apiKeyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	if t.key != "" {
		q := clone.URL.Query()
		q.Set(t.param, t.key)
		clone.URL.RawQuery = q.Encode()
	}
	return t.next.RoundTrip(clone)
}

// WithQueryAPIKey appends the credential as a URL query parameter, the
// scheme used by the Gemini REST API.
func WithQueryAPIKey(param, key string) Option {
	return WithTransport(func(rt http.RoundTripper) http.RoundTripper {
		return &apiKeyTransport{param: param, key: key, next: rt}
	})
}

type logTransport struct {
	next http.RoundTripper
}

func (t *logTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctxzap.Debug(req.Context(), "HTTP outbound request",
		zap.String("method", req.Method),
		zap.String("url", req.URL.Redacted()),
	)
	return t.next.RoundTrip(req)
}

// WithRequestLogging logs method and URL of outbound requests at debug level.
func WithRequestLogging() Option {
	return WithTransport(func(rt http.RoundTripper) http.RoundTripper {
		return &logTransport{next: rt}
	})
}
