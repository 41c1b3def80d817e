package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the application configuration.
// Everything is optional: with no environment at all the service composes
// with rule-based defaults and no external calls.
type Config struct {
	// Environment
	Environment string
	Port        string

	// Hint providers
	HintProvider    string // "openai", "gemini", "ollama" or empty to infer from the model
	OpenAIAPIKey    string // OpenAI API key for GPT models
	OpenAIModel     string
	GeminiAPIKey    string // Google Gemini API key
	GeminiModel     string
	OllamaURL       string // e.g. http://localhost:11434
	OllamaModel     string
	HintTemperature float64
	HintTimeout     time.Duration
	HintCacheTTL    time.Duration

	// HTTP
	AllowedOrigins []string

	// Usage log (optional)
	DatabaseURL string

	// Observability
	SentryDSN         string // Sentry DSN for error tracking
	LangfusePublicKey string // Langfuse public key
	LangfuseSecretKey string // Langfuse secret key
	LangfuseHost      string // Langfuse host URL (cloud or self-hosted)
	LangfuseEnabled   bool   // Feature flag for Langfuse

	// Auth mode
	// - "none": No auth (self-hosted, local dev)
	// - "gateway": Trust X-User-* headers from an upstream gateway
	AuthMode string
}

const (
	defaultHintTimeoutSeconds  = 10
	defaultHintCacheTTLSeconds = 600
	defaultHintTemperature     = 0.4
)

var defaultAllowedOrigins = []string{"http://localhost:3000", "http://127.0.0.1:3000"}

func Load() *Config {
	return &Config{
		Environment:       getEnv("ENVIRONMENT", "development"),
		Port:              getEnv("PORT", "8080"),
		HintProvider:      strings.ToLower(getEnv("HINT_PROVIDER", "")),
		OpenAIAPIKey:      getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:       getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		GeminiAPIKey:      getEnv("GEMINI_API_KEY", ""),
		GeminiModel:       getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		OllamaURL:         getEnv("OLLAMA_URL", ""),
		OllamaModel:       getEnv("OLLAMA_MODEL", "llama3.2"),
		HintTemperature:   getEnvFloat("HINT_TEMPERATURE", defaultHintTemperature),
		HintTimeout:       time.Duration(getEnvInt("HINT_TIMEOUT_SECONDS", defaultHintTimeoutSeconds)) * time.Second,
		HintCacheTTL:      time.Duration(getEnvInt("HINT_CACHE_TTL_SECONDS", defaultHintCacheTTLSeconds)) * time.Second,
		AllowedOrigins:    getEnvList("ALLOWED_ORIGINS", defaultAllowedOrigins),
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		SentryDSN:         getEnv("SENTRY_DSN", ""),
		LangfusePublicKey: getEnv("LANGFUSE_PUBLIC_KEY", ""),
		LangfuseSecretKey: getEnv("LANGFUSE_SECRET_KEY", ""),
		LangfuseHost:      getEnv("LANGFUSE_HOST", "https://cloud.langfuse.com"),
		LangfuseEnabled:   getEnv("LANGFUSE_ENABLED", "false") == "true",
		AuthMode:          getEnv("AUTH_MODE", "none"), // Default to no auth for self-hosted
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// getEnvList reads a comma separated list, dropping blank entries
func getEnvList(key string, defaultValue []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return append([]string(nil), defaultValue...)
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return append([]string(nil), defaultValue...)
	}
	return out
}

// IsGatewayMode returns true if running behind an authenticating gateway
func (c *Config) IsGatewayMode() bool {
	return c.AuthMode == "gateway"
}

// IsProduction reports whether production-only integrations should run
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// HintsEnabled reports whether any hint provider has credentials or an endpoint
func (c *Config) HintsEnabled() bool {
	switch c.HintProvider {
	case "openai":
		return c.OpenAIAPIKey != ""
	case "gemini":
		return c.GeminiAPIKey != ""
	case "ollama":
		return c.OllamaURL != ""
	case "":
		return c.OpenAIAPIKey != "" || c.GeminiAPIKey != "" || c.OllamaURL != ""
	default:
		return false
	}
}

// HintModel returns the model name for the selected hint provider
func (c *Config) HintModel() string {
	switch c.HintProvider {
	case "gemini":
		return c.GeminiModel
	case "ollama":
		return c.OllamaModel
	case "openai":
		return c.OpenAIModel
	}
	switch {
	case c.OpenAIAPIKey != "":
		return c.OpenAIModel
	case c.GeminiAPIKey != "":
		return c.GeminiModel
	default:
		return c.OllamaModel
	}
}
