package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Provider string

const (
	ProviderGemini Provider = "gemini"
	ProviderVertex Provider = "vertex"
	ProviderOpenAI Provider = "openai"
	ProviderMock   Provider = "mock"
)

type Config struct {
	Port          string
	AllowedOrigin string

	Provider    Provider
	// ModelName is empty unless set; each model client has its own default.
	ModelName   string
	Temperature float32
	// SendTimeout bounds a single model exchange; zero means no limit.
	SendTimeout time.Duration
	PromptFile  string // optional YAML prompt profile

	GeminiAPIKey string
	GCPProjectID string
	GCPLocation  string

	OpenAIAPIKey  string
	OpenAIBaseURL string

	LogLevel  string
	LogFormat string // "json" or "text"
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getFloatEnv(key string, def float32) float32 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 32)
	if err != nil {
		return def
	}
	return float32(f)
}

func getDurationEnv(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

// ParseProvider normalizes a provider name. ok is false for unknown names.
func ParseProvider(s string) (Provider, bool) {
	switch p := Provider(strings.ToLower(strings.TrimSpace(s))); p {
	case ProviderGemini, ProviderVertex, ProviderOpenAI, ProviderMock:
		return p, true
	default:
		return "", false
	}
}

func parseProvider(s string) Provider {
	if p, ok := ParseProvider(s); ok {
		return p
	}
	return ProviderGemini
}

// Load reads a local .env file when present, then all env vars, and builds
// the config.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:          getEnv("GOURMETGO_PORT", getEnv("PORT", "8080")),
		AllowedOrigin: getEnv("GOURMETGO_ALLOWED_ORIGIN", "*"),

		Provider:    parseProvider(getEnv("GOURMETGO_MODEL_PROVIDER", "gemini")),
		ModelName:   os.Getenv("GOURMETGO_MODEL_NAME"),
		Temperature: getFloatEnv("GOURMETGO_TEMPERATURE", 0.7),
		SendTimeout: getDurationEnv("GOURMETGO_SEND_TIMEOUT", 0),
		PromptFile:  os.Getenv("GOURMETGO_PROMPT_FILE"),

		GeminiAPIKey: getEnv("API_KEY", os.Getenv("GEMINI_API_KEY")),
		GCPProjectID: os.Getenv("GOURMETGO_GCP_PROJECT"),
		GCPLocation:  getEnv("GOURMETGO_GCP_LOCATION", "us-central1"),

		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL: os.Getenv("OPENAI_BASE_URL"),

		LogLevel:  getEnv("GOURMETGO_LOG_LEVEL", "info"),
		LogFormat: getEnv("GOURMETGO_LOG_FORMAT", "json"),
	}
}

// Validate checks that the selected provider has its credentials.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			return errors.New("API_KEY (or GEMINI_API_KEY) must be set for the gemini provider")
		}
	case ProviderVertex:
		if c.GCPProjectID == "" {
			return errors.New("GOURMETGO_GCP_PROJECT must be set for the vertex provider")
		}
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			return errors.New("OPENAI_API_KEY must be set for the openai provider")
		}
	}
	if c.SendTimeout < 0 {
		return errors.New("GOURMETGO_SEND_TIMEOUT must not be negative")
	}
	return nil
}
