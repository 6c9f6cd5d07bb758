// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment string
	AppVersion  string
	Server      ServerConfig
	Database    DatabaseConfig
	Catalog     CatalogConfig
	Photos      PhotoConfig
	Analytics   AnalyticsConfig
	I18n        I18nConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	ReadTimeout  int
	WriteTimeout int
	IdleTimeout  int
}

type DatabaseConfig struct {
	Path     string
	LogLevel string
}

type CatalogConfig struct {
	// ChecklistPath holds the localized checklist definition files
	// (checklist_<lang>.json).
	ChecklistPath string
	// BoatModelsPath is the bundled boat-model catalog seeded into the store.
	BoatModelsPath  string
	DefaultLanguage string
}

type PhotoConfig struct {
	Dir           string
	MaxUploadSize int64 // bytes
}

type AnalyticsConfig struct {
	BaseURL string
	APIKey  string
	// SubmitPerMinute throttles outbound anonymous-findings submissions.
	SubmitPerMinute int
}

type I18nConfig struct {
	DefaultLocale string
	LocalesPath   string
}

func Load() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	config := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		AppVersion:  getEnv("APP_VERSION", "1.0.0"),
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			Host:         getEnv("SERVER_HOST", "localhost"),
			ReadTimeout:  getEnvAsInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvAsInt("SERVER_WRITE_TIMEOUT", 15),
			IdleTimeout:  getEnvAsInt("SERVER_IDLE_TIMEOUT", 60),
		},
		Database: DatabaseConfig{
			Path:     getEnv("DB_PATH", "./data/boatchecker.db"),
			LogLevel: getEnv("DB_LOG_LEVEL", "silent"),
		},
		Catalog: CatalogConfig{
			ChecklistPath:   getEnv("CHECKLIST_PATH", "./internal/checklist/locales"),
			BoatModelsPath:  getEnv("BOAT_MODELS_PATH", "./data/boat_models.json"),
			DefaultLanguage: getEnv("CHECKLIST_DEFAULT_LANGUAGE", "nb"),
		},
		Photos: PhotoConfig{
			Dir:           getEnv("PHOTO_DIR", "./data/photos"),
			MaxUploadSize: int64(getEnvAsInt("PHOTO_MAX_UPLOAD_MB", 15)) << 20,
		},
		Analytics: AnalyticsConfig{
			BaseURL:         getEnv("ANALYTICS_API_URL", ""),
			APIKey:          getEnv("ANALYTICS_API_KEY", ""),
			SubmitPerMinute: getEnvAsInt("ANALYTICS_SUBMIT_PER_MINUTE", 6),
		},
		I18n: I18nConfig{
			DefaultLocale: getEnv("DEFAULT_LOCALE", "nb"),
			LocalesPath:   getEnv("LOCALES_PATH", "./internal/i18n/locales"),
		},
	}

	return config, config.Validate()
}

func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database path must not be empty")
	}

	if c.Catalog.DefaultLanguage == "" {
		return fmt.Errorf("catalog default language must not be empty")
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(strings.ToLower(value)); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
