package common

import (
	"go.uber.org/zap"

	"github.com/askdoc/askdoc-backend/internal/config"
	"github.com/askdoc/askdoc-backend/pkg/httpclient"
)

// NewBaseConnector builds the shared outbound connector for an LLM provider
// from its HTTP tuning config. Credential transports are added per provider.
func NewBaseConnector(cfg config.LLMConfig, logger *zap.Logger, extra ...httpclient.Option) *httpclient.Connector {
	connCfg := &httpclient.ConnectorConfig{
		Logger:  logger,
		BaseURL: cfg.BaseURL,
	}

	opts := []httpclient.Option{
		httpclient.WithRequestTimeout(cfg.RequestTimeout),
		httpclient.WithConnTimeout(cfg.ConnTimeout),
		httpclient.WithKeepAlive(cfg.KeepAlive),
		httpclient.WithIdleConnTimeout(cfg.IdleConnTimeout),
		httpclient.WithResponseHeaderTimeout(cfg.ResponseHeaderTimeout),
		httpclient.WithRequestLogging(),
	}
	opts = append(opts, extra...)

	return httpclient.NewConnector(connCfg, opts...)
}
