package builder

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
	"go.uber.org/zap"

	"github.com/askdoc/askdoc-backend/internal/api"
	qaapi "github.com/askdoc/askdoc-backend/internal/api/qa"
	"github.com/askdoc/askdoc-backend/internal/cache"
	"github.com/askdoc/askdoc-backend/internal/config"
	"github.com/askdoc/askdoc-backend/internal/extractor"
	"github.com/askdoc/askdoc-backend/internal/integration/llm"
	"github.com/askdoc/askdoc-backend/internal/pkg/validator"
	"github.com/askdoc/askdoc-backend/internal/usecase/qa"
)

func Build() (*App, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := setupLogger(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	logger.Info("Building application",
		zap.String("environment", cfg.Environment),
		zap.String("server_addr", cfg.ServerAddr),
	)

	// Initialize session and extraction-cache store
	store := cache.NewStore(cfg.SessionCfg)
	logger.Info("Session store initialized",
		zap.Duration("ttl", cfg.SessionCfg.TTL),
	)

	// Initialize extraction
	var ocrEngine extractor.OCREngine
	if engine := extractor.NewTesseractEngine(cfg.OCRCfg); engine != nil {
		ocrEngine = engine
		logger.Info("OCR enabled",
			zap.String("tesseract_path", cfg.OCRCfg.TesseractPath),
			zap.String("languages", cfg.OCRCfg.Languages),
		)
	} else {
		logger.Info("OCR disabled, embedded images will be skipped")
	}
	extractManager := extractor.NewManager(cfg.ExtractCfg, cfg.OCRCfg, ocrEngine, logger)

	// Initialize the LLM connector (with mock support)
	llmConnector, err := setupLLMConnector(cfg, logger)
	if err != nil {
		return nil, err
	}

	// Initialize validators
	fileValidator := validator.NewFileValidator(cfg.FileUploadCfg)
	logger.Info("Validators initialized")

	// Initialize use cases
	qaUC, err := qa.NewUsecase(
		store,
		extractManager,
		llmConnector,
		cfg.ExtractCfg,
		cfg.LLMCfg,
		cfg.AnswerCfg,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("initialize usecase: %w", err)
	}
	logger.Info("Use cases initialized",
		zap.String("answer_mode", string(cfg.AnswerCfg.Mode)),
		zap.Int("extract_workers", cfg.ExtractCfg.Workers),
		zap.Int("llm_max_concurrent", cfg.LLMCfg.MaxConcurrent),
	)

	// Setup API handlers
	qaHandler := qaapi.NewHandler(qaUC, fileValidator, cfg.FileUploadCfg)
	logger.Info("API handlers initialized")

	// Setup router
	router := api.SetupRouter(qaHandler, logger)
	logger.Info("HTTP router configured")

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("Application built successfully",
		zap.String("environment", cfg.Environment),
	)

	return &App{
		server:  server,
		usecase: qaUC,
		logger:  logger,
	}, nil
}

// prober is implemented by connectors that can check reachability and
// credentials without spending tokens.
type prober interface {
	Probe(ctx context.Context) error
}

func setupLLMConnector(cfg *config.Config, logger *zap.Logger) (qa.LLMConnector, error) {
	if cfg.EnableMocks || cfg.LLMCfg.Provider == "mock" {
		logger.Info("Using mock LLM connector")
		return llm.NewMockConnector(logger), nil
	}

	var connector qa.LLMConnector
	switch cfg.LLMCfg.Provider {
	case "openai":
		connector = llm.NewOpenAIConnector(cfg.LLMCfg, logger)
	case "gemini":
		connector = llm.NewGeminiConnector(cfg.LLMCfg, logger)
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.LLMCfg.Provider)
	}
	logger.Info("LLM connector initialized",
		zap.String("provider", cfg.LLMCfg.Provider),
		zap.String("model", cfg.LLMCfg.Model),
	)

	if cfg.LLMCfg.ProbeOnStart {
		p, ok := connector.(prober)
		if !ok {
			return connector, nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), cfg.LLMCfg.RequestTimeout)
		defer cancel()

		err := retry.Do(func() error {
			return p.Probe(ctx)
		}, cfg.LLMCfg.ProbeRetry.ToRetryOptions()...)
		if err != nil {
			return nil, fmt.Errorf("probe LLM provider %q: %w", cfg.LLMCfg.Provider, err)
		}
		logger.Info("LLM provider probe succeeded")
	}

	return connector, nil
}
