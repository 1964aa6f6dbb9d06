package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port     string
	Timezone string

	// Generation service
	GeneratorBaseURL string
	ServeGenerator   bool
	AIProvider       string
	GeminiApiKey     string
	OllamaBaseURL    string
	OllamaModel      string

	// Storage
	DBDriver       string
	DatabaseURL    string
	StorageBackend string
	RedisAddr      string

	// Profiles
	ProfileSecret string
	ProfileTTL    time.Duration

	AllowedOrigins []string

	LogMode string
	LogFile string

	OtelEnabled      bool
	OtelServiceName  string
	OtelOTLPEndpoint string
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	profileTTL := 8760 * time.Hour // 1 year
	if exp := os.Getenv("PROFILE_TTL"); exp != "" {
		if parsed, err := time.ParseDuration(exp); err == nil {
			profileTTL = parsed
		}
	}

	port := getEnv("PORT", "8080")

	return &Config{
		Port:             port,
		Timezone:         getEnv("TIMEZONE", "Asia/Seoul"),
		GeneratorBaseURL: strings.TrimRight(getEnv("GENERATOR_BASE_URL", "http://localhost:"+port), "/"),
		ServeGenerator:   getBool("SERVE_GENERATOR", true),
		AIProvider:       getEnv("AI_PROVIDER", "template"),
		GeminiApiKey:     getEnv("GEMINI_API_KEY", ""),
		OllamaBaseURL:    getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
		OllamaModel:      getEnv("OLLAMA_MODEL", "llama3"),
		DBDriver:         strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
		DatabaseURL:      getEnv("DATABASE_URL", "dairytale.db"),
		StorageBackend:   strings.ToLower(getEnv("STORAGE_BACKEND", "gorm")),
		RedisAddr:        getEnv("REDIS_ADDR", "localhost:6379"),
		ProfileSecret:    getEnv("PROFILE_SECRET", "your-secret-key-change-in-production"),
		ProfileTTL:       profileTTL,
		AllowedOrigins:   getList("ALLOWED_ORIGINS"),
		LogMode:          getEnv("LOG_MODE", "dev"),
		LogFile:          getEnv("LOG_FILE", ""),
		OtelEnabled:      getBool("OTEL_ENABLED", false),
		OtelServiceName:  getEnv("OTEL_SERVICE_NAME", "dairytale"),
		OtelOTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
	}
}

// Location resolves the configured time zone, falling back to local time.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return defaultValue
	}
}

func getList(key string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
