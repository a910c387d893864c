package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App    AppConfig
	Data   DataConfig
	LLM    LLMConfig
	Events EventsConfig
	Otel   OtelConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	AuditLogFilePath   string
	CorsAllowedOrigins string
}

func (a AppConfig) IsProduction() bool {
	return a.Environment == "production"
}

type DataConfig struct {
	PoliciesPath string
	RulesPath    string
	TopK         int
}

type LLMConfig struct {
	Provider      string // "groq" or "ollama"
	Model         string
	BaseURL       string
	GroqAPIKey    string
	OllamaBaseURL string
	Cache         string // "none", "memory" or "redis"
	CacheTTL      time.Duration
	RedisURL      string
}

type EventsConfig struct {
	Topic   string
	NatsURL string // empty disables forwarding
}

type OtelConfig struct {
	Enabled  bool
	Endpoint string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			AuditLogFilePath:   getEnv("AUDIT_LOG_FILE_PATH", "logs/returns_audit.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		},
		Data: DataConfig{
			PoliciesPath: getEnv("POLICIES_PATH", "data/policies.json"),
			RulesPath:    getEnv("RULES_PATH", "data/config.json"),
			TopK:         getEnvAsInt("RETRIEVAL_TOP_K", 3),
		},
		LLM: LLMConfig{
			Provider:      getEnv("LLM_PROVIDER", "groq"),
			Model:         getEnv("LLM_MODEL", "llama3-8b-8192"),
			BaseURL:       getEnv("LLM_BASE_URL", ""),
			GroqAPIKey:    getEnv("GROQ_API_KEY", ""),
			OllamaBaseURL: getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			Cache:         getEnv("LLM_CACHE", "none"),
			CacheTTL:      getEnvAsDuration("LLM_CACHE_TTL", 10*time.Minute),
			RedisURL:      getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Events: EventsConfig{
			Topic:   getEnv("EVENTS_TOPIC", "RETURNS_QUERY_ANSWERED"),
			NatsURL: getEnv("NATS_URL", ""),
		},
		Otel: OtelConfig{
			Enabled:  getEnvAsBool("OTEL_ENABLED", false),
			Endpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
		},
	}
}

// ProviderBaseURL picks the endpoint for the configured provider.
func (c LLMConfig) ProviderBaseURL() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	if c.Provider == "ollama" {
		return c.OllamaBaseURL
	}
	return ""
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if value, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if value, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return value
	}
	return fallback
}
