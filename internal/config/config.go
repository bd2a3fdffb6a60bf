package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"formassist/internal/logger"
)

// Supported AI providers
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Supported OCR backends
const (
	OCRVision     = "vision"
	OCRDocumentAI = "documentai"
)

type Config struct {
	// AI provider selection
	AIProvider string

	// Gemini Configuration
	GeminiAPIKey string
	GeminiModel  string

	// OpenAI Configuration
	OpenAIAPIKey          string
	OpenAIModel           string
	OpenAITemperature     float32
	OpenAITranscribeModel string

	// OCR Configuration
	OCRProvider           string
	GoogleCloudProject    string
	GoogleCloudLocation   string
	DocumentAIProcessorID string

	// HTTP server
	ServerHost string
	ServerPort int

	// Generated documents
	OutputDir string

	// Parallel workers for batch scans
	BatchWorkers int

	// Optional: Google Sheets submission log
	SubmissionsSheetURL  string
	SubmissionsWorksheet string

	// Logging Configuration
	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

// Load reads the configuration from the environment. API keys are optional:
// without them the pipeline answers from its fallbacks.
func Load() (*Config, error) {
	config := &Config{
		AIProvider:            strings.ToLower(getEnv("AI_PROVIDER", ProviderGemini)),
		GeminiAPIKey:          getEnv("GEMINI_API_KEY", ""),
		GeminiModel:           getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		OpenAIAPIKey:          getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:           getEnv("OPENAI_MODEL", "gpt-4-turbo-preview"),
		OpenAITemperature:     parseFloatEnv("OPENAI_TEMPERATURE", 0.3),
		OpenAITranscribeModel: getEnv("OPENAI_TRANSCRIBE_MODEL", "whisper-1"),
		OCRProvider:           strings.ToLower(getEnv("OCR_PROVIDER", OCRVision)),
		GoogleCloudProject:    getEnv("GOOGLE_CLOUD_PROJECT", ""),
		GoogleCloudLocation:   getEnv("GOOGLE_CLOUD_LOCATION", "us"),
		DocumentAIProcessorID: getEnv("DOCUMENT_AI_PROCESSOR_ID", ""),
		ServerHost:            getEnv("SERVER_HOST", "0.0.0.0"),
		ServerPort:            parseIntEnv("SERVER_PORT", 8000),
		OutputDir:             getEnv("OUTPUT_DIR", "output"),
		BatchWorkers:          parseIntEnv("BATCH_WORKERS", 4),
		SubmissionsSheetURL:   getEnv("SUBMISSIONS_SHEET_URL", ""),
		SubmissionsWorksheet:  getEnv("SUBMISSIONS_WORKSHEET", "Submissions"),
		LogLevel:              getEnv("LOG_LEVEL", "info"),
		LogFormat:             getEnv("LOG_FORMAT", "console"),
		LogTimeFormat:         getEnv("LOG_TIME_FORMAT", "2006-01-02T15:04:05Z07:00"),
		LogOutput:             getEnv("LOG_OUTPUT", "stdout"),
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

func (c *Config) validate() error {
	if c.AIProvider != ProviderGemini && c.AIProvider != ProviderOpenAI {
		return fmt.Errorf("AI_PROVIDER must be %q or %q, got %q", ProviderGemini, ProviderOpenAI, c.AIProvider)
	}
	if c.OCRProvider != OCRVision && c.OCRProvider != OCRDocumentAI {
		return fmt.Errorf("OCR_PROVIDER must be %q or %q, got %q", OCRVision, OCRDocumentAI, c.OCRProvider)
	}
	if c.OCRProvider == OCRDocumentAI {
		if c.GoogleCloudProject == "" {
			return fmt.Errorf("GOOGLE_CLOUD_PROJECT is required when OCR_PROVIDER=documentai")
		}
		if c.DocumentAIProcessorID == "" {
			return fmt.Errorf("DOCUMENT_AI_PROCESSOR_ID is required when OCR_PROVIDER=documentai")
		}
	}
	if c.ServerPort <= 0 || c.ServerPort > 65535 {
		return fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", c.ServerPort)
	}
	if c.BatchWorkers < 1 {
		return fmt.Errorf("BATCH_WORKERS must be at least 1, got %d", c.BatchWorkers)
	}
	if c.OpenAITemperature < 0 || c.OpenAITemperature > 2 {
		return fmt.Errorf("OPENAI_TEMPERATURE must be between 0 and 2, got %.2f", c.OpenAITemperature)
	}
	return nil
}

// ActiveAPIKey returns the API key of the selected AI provider.
func (c *Config) ActiveAPIKey() string {
	if c.AIProvider == ProviderOpenAI {
		return c.OpenAIAPIKey
	}
	return c.GeminiAPIKey
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
		return -1
	}
	return defaultValue
}

func parseFloatEnv(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(parsed)
		}
		return -1
	}
	return defaultValue
}
