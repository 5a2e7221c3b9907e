package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultModel          = "claude-sonnet-4-20250514"
	defaultMaxTokens      = 1500
	defaultLLMTimeout     = 120 * time.Second
	defaultMaxUploadBytes = 10 << 20
)

// Config holds application configuration.
type Config struct {
	Port             string
	CORSAllowOrigin  []string
	Env              string
	LLMProvider      string
	LLMModel         string
	LLMMaxTokens     int
	LLMTimeout       time.Duration
	AnthropicAPIKey  string
	AnthropicBaseURL string
	PDFReader        string
	MaxUploadBytes   int64
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	apiKey := strings.TrimSpace(os.Getenv("ANTHROPIC_API_KEY"))

	if env == "production" && apiKey == "" {
		log.Printf("ANTHROPIC_API_KEY is required in production")
	}

	return Config{
		Port:             getEnv("PORT", "8080"),
		CORSAllowOrigin:  splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000")),
		Env:              env,
		LLMProvider:      normalizeProvider(getEnv("LLM_PROVIDER", "anthropic")),
		LLMModel:         getEnv("LLM_MODEL", defaultModel),
		LLMMaxTokens:     getEnvInt("LLM_MAX_TOKENS", defaultMaxTokens),
		LLMTimeout:       getEnvSeconds("LLM_TIMEOUT_SECONDS", defaultLLMTimeout),
		AnthropicAPIKey:  apiKey,
		AnthropicBaseURL: getEnv("ANTHROPIC_BASE_URL", ""),
		PDFReader:        normalizePDFReader(getEnv("PDF_READER", "ledongthuc")),
		MaxUploadBytes:   int64(getEnvInt("MAX_UPLOAD_BYTES", defaultMaxUploadBytes)),
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed <= 0 {
		log.Printf("config: ignoring invalid %s=%q", key, raw)
		return def
	}
	return parsed
}

func getEnvSeconds(key string, def time.Duration) time.Duration {
	secs := getEnvInt(key, 0)
	if secs == 0 {
		return def
	}
	return time.Duration(secs) * time.Second
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "development", "dev":
		return "dev"
	default:
		return "dev"
	}
}

func normalizeProvider(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "none", "placeholder":
		return "none"
	default:
		return "anthropic"
	}
}

func normalizePDFReader(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "pdfcpu":
		return "pdfcpu"
	default:
		return "ledongthuc"
	}
}
