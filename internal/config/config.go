package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config captures all runtime configuration derived from environment
// variables. API keys and base URLs are explicit here; no client reads
// ambient state.
type Config struct {
	Port     string
	LogLevel string

	GenAIURL         string
	GenAIAPIKey      string
	GenAIModel       string
	GenAITimeoutSecs int

	MetadataURL         string
	MetadataAPIKey      string
	MetadataTimeoutSecs int

	CatalogURL         string
	CatalogImageURL    string
	CatalogAPIKey      string
	CatalogTimeoutSecs int

	GeoURL         string
	GeoTimeoutSecs int

	AllowedOrigins []string

	ReadTimeoutSecs  int
	WriteTimeoutSecs int
	IdleTimeoutSecs  int
}

// Load reads configuration from environment variables, applying defaults and
// validation.
func Load() (Config, error) {
	cfg := Config{
		Port:                getEnv("PORT", "8080"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		GenAIURL:            getEnv("GENAI_URL", "https://generativelanguage.googleapis.com"),
		GenAIAPIKey:         os.Getenv("GENAI_API_KEY"),
		GenAIModel:          getEnv("GENAI_MODEL", "gemini-3-flash-preview"),
		GenAITimeoutSecs:    getEnvInt("GENAI_TIMEOUT_SECS", 30),
		MetadataURL:         getEnv("METADATA_URL", "https://www.omdbapi.com"),
		MetadataAPIKey:      os.Getenv("METADATA_API_KEY"),
		MetadataTimeoutSecs: getEnvInt("METADATA_TIMEOUT_SECS", 5),
		CatalogURL:          getEnv("CATALOG_URL", "https://api.themoviedb.org/3"),
		CatalogImageURL:     getEnv("CATALOG_IMAGE_URL", "https://image.tmdb.org/t/p"),
		CatalogAPIKey:       os.Getenv("CATALOG_API_KEY"),
		CatalogTimeoutSecs:  getEnvInt("CATALOG_TIMEOUT_SECS", 10),
		GeoURL:              getEnv("GEO_URL", "https://nominatim.openstreetmap.org"),
		GeoTimeoutSecs:      getEnvInt("GEO_TIMEOUT_SECS", 5),
		AllowedOrigins:      splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		ReadTimeoutSecs:     getEnvInt("SERVER_READ_TIMEOUT", 15),
		WriteTimeoutSecs:    getEnvInt("SERVER_WRITE_TIMEOUT", 60),
		IdleTimeoutSecs:     getEnvInt("SERVER_IDLE_TIMEOUT", 60),
	}

	if cfg.GenAIAPIKey == "" {
		return Config{}, fmt.Errorf("GENAI_API_KEY is required")
	}
	if cfg.MetadataAPIKey == "" {
		return Config{}, fmt.Errorf("METADATA_API_KEY is required")
	}
	if cfg.CatalogAPIKey == "" {
		return Config{}, fmt.Errorf("CATALOG_API_KEY is required")
	}
	if cfg.GenAIModel == "" {
		return Config{}, fmt.Errorf("GENAI_MODEL cannot be empty")
	}
	if cfg.GenAITimeoutSecs <= 0 {
		return Config{}, fmt.Errorf("GENAI_TIMEOUT_SECS must be positive")
	}
	if cfg.MetadataTimeoutSecs <= 0 {
		return Config{}, fmt.Errorf("METADATA_TIMEOUT_SECS must be positive")
	}
	if cfg.CatalogTimeoutSecs <= 0 {
		return Config{}, fmt.Errorf("CATALOG_TIMEOUT_SECS must be positive")
	}
	if cfg.GeoTimeoutSecs <= 0 {
		return Config{}, fmt.Errorf("GEO_TIMEOUT_SECS must be positive")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func splitCSV(val string) []string {
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
