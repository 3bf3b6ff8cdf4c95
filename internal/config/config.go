package config

import (
	"flag"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/askdoc/askdoc-backend/internal/entity"
	pkgRetry "github.com/askdoc/askdoc-backend/internal/pkg/retry"
)

// Config holds the application configuration
type Config struct {
	// Server configuration
	ServerAddr string `env:"SERVER_ADDR" envDefault:":8080"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// File upload configuration
	FileUploadCfg FileUploadConfig `envPrefix:"FILE_UPLOAD_"`

	// LLM provider configuration
	LLMCfg LLMConfig `envPrefix:"LLM_"`

	// Extraction configuration
	ExtractCfg ExtractConfig `envPrefix:"EXTRACT_"`

	// OCR configuration
	OCRCfg OCRConfig `envPrefix:"OCR_"`

	// Answer orchestration configuration
	AnswerCfg AnsweringConfig `envPrefix:"ANSWER_"`

	// Session store configuration
	SessionCfg SessionConfig `envPrefix:"SESSION_"`

	// Mock configuration
	EnableMocks bool `env:"ENABLE_MOCKS" envDefault:"false"`

	// Environment (set from flag, not from env var)
	Environment string
}

// FileUploadConfig holds file upload limits
type FileUploadConfig struct {
	MaxFileSize   int64 `env:"MAX_FILE_SIZE" envDefault:"10485760"`  // 10 MiB
	MaxTotalSize  int64 `env:"MAX_TOTAL_SIZE" envDefault:"52428800"` // 50 MiB
	MaxFileCount  int   `env:"MAX_FILE_COUNT" envDefault:"16"`
	MaxUploadSize int64 `env:"MAX_UPLOAD_SIZE" envDefault:"67108864"` // multipart memory limit
}

// LLMConfig holds the text-generation provider settings. The core contract
// is provider-agnostic: given a prompt string, return a response string or
// fail.
type LLMConfig struct {
	Provider string `env:"PROVIDER" envDefault:"openai"` // openai, gemini or mock
	APIKey   string `env:"API_KEY"`
	Model    string `env:"MODEL"`
	BaseURL  string `env:"BASE_URL"`

	RequestTimeout        time.Duration `env:"TIMEOUT" envDefault:"60s"`
	ConnTimeout           time.Duration `env:"CONN_TIMEOUT" envDefault:"10s"`
	KeepAlive             time.Duration `env:"KEEP_ALIVE" envDefault:"90s"`
	IdleConnTimeout       time.Duration `env:"IDLE_CONN_TIMEOUT" envDefault:"90s"`
	ResponseHeaderTimeout time.Duration `env:"RESPONSE_HEADER_TIMEOUT" envDefault:"30s"`

	// MaxConcurrent bounds in-flight generation calls across the whole
	// answering run. 1 reproduces strictly sequential call issuance.
	MaxConcurrent int `env:"MAX_CONCURRENT" envDefault:"1"`

	// ProbeOnStart checks provider reachability during startup.
	ProbeOnStart bool                 `env:"PROBE_ON_START" envDefault:"false"`
	ProbeRetry   pkgRetry.RetryConfig `envPrefix:"PROBE_RETRY_"`
}

// ExtractConfig bounds document text extraction.
type ExtractConfig struct {
	// MaxChars truncates extracted text to bound downstream prompt size.
	MaxChars int `env:"MAX_CHARS" envDefault:"20000"`
	// Workers sizes the extraction worker pool.
	Workers int `env:"WORKERS" envDefault:"4"`
}

// OCRConfig configures the optional local OCR engine. An empty path
// disables OCR and embedded images are skipped.
type OCRConfig struct {
	TesseractPath string        `env:"TESSERACT_PATH"`
	Languages     string        `env:"LANGUAGES" envDefault:"eng"`
	Timeout       time.Duration `env:"TIMEOUT" envDefault:"30s"`
	MaxImages     int           `env:"MAX_IMAGES" envDefault:"16"` // per document
}

// AnsweringConfig configures the question answering orchestrator.
type AnsweringConfig struct {
	Mode entity.AnswerMode `env:"MODE" envDefault:"combined"`
	// ChunkSize bounds each chunk in chunked mode.
	ChunkSize int `env:"CHUNK_SIZE" envDefault:"5000"`
	// CombinedMaxChars truncates the keyword-filtered combined text.
	CombinedMaxChars int `env:"COMBINED_MAX_CHARS" envDefault:"5000"`
	// StopAfterFirstChunk keeps the first answering chunk per document and
	// skips the rest. Disabling it scans every chunk and keeps the last
	// usable answer.
	StopAfterFirstChunk bool `env:"STOP_AFTER_FIRST_CHUNK" envDefault:"true"`
}

// SessionConfig configures the in-memory session store.
type SessionConfig struct {
	TTL             time.Duration `env:"TTL" envDefault:"1h"`
	CleanupInterval time.Duration `env:"CLEANUP_INTERVAL" envDefault:"10m"`
}

func LoadConfig() (*Config, error) {
	envFlag := flag.String("env", "local", "Environment to run (local, prod, or custom)")
	flag.Parse()

	envFile := getEnvFile(*envFlag)
	// Try to load env file, but don't fail if it's missing.
	// In containerized/prod environments variables are usually set externally.
	if err := godotenv.Load(envFile); err != nil {
		fmt.Printf("Warning: could not load %s file (this is ok if env vars are set externally): %v\n", envFile, err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	cfg.Environment = *envFlag

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	if err := cfg.AnswerCfg.Mode.Validate(); err != nil {
		return fmt.Errorf("%w: ANSWER_MODE=%q", err, cfg.AnswerCfg.Mode)
	}

	if cfg.AnswerCfg.ChunkSize < 1 {
		return fmt.Errorf("ANSWER_CHUNK_SIZE must be at least 1, got %d", cfg.AnswerCfg.ChunkSize)
	}

	if cfg.LLMCfg.MaxConcurrent < 1 || cfg.LLMCfg.MaxConcurrent > 64 {
		return fmt.Errorf("LLM_MAX_CONCURRENT must be between 1 and 64, got %d", cfg.LLMCfg.MaxConcurrent)
	}

	if cfg.ExtractCfg.Workers < 1 || cfg.ExtractCfg.Workers > 64 {
		return fmt.Errorf("EXTRACT_WORKERS must be between 1 and 64, got %d", cfg.ExtractCfg.Workers)
	}

	switch cfg.LLMCfg.Provider {
	case "openai", "gemini":
		if cfg.LLMCfg.APIKey == "" && !cfg.EnableMocks {
			return fmt.Errorf("LLM_API_KEY is required for provider %q", cfg.LLMCfg.Provider)
		}
	case "mock":
	default:
		return fmt.Errorf("unknown LLM_PROVIDER %q (openai, gemini or mock)", cfg.LLMCfg.Provider)
	}

	return nil
}

func getEnvFile(environment string) string {
	switch environment {
	case "prod", "production":
		return ".env.prod"
	case "local", "dev", "development":
		return ".env.local"
	default:
		return fmt.Sprintf(".env.%s", environment)
	}
}
