package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"transport-editor/internal/models"
)

// Config stores all configuration of the application.
// Values are read from app.env in the config directory and can be overridden by environment variables.
type Config struct {
	DBSource           string   `mapstructure:"DB_SOURCE"`
	ServerAddress      string   `mapstructure:"SERVER_ADDRESS"`
	LogLevel           string   `mapstructure:"LOG_LEVEL"`
	LogFormat          string   `mapstructure:"LOG_FORMAT"`
	ResourceBudget     uint64   `mapstructure:"RESOURCE_BUDGET"`
	SuggestLimit       int      `mapstructure:"SUGGEST_LIMIT"`
	CORSAllowedOrigins []string `mapstructure:"CORS_ALLOWED_ORIGINS"`
	PlacesTable        string   `mapstructure:"PLACES_TABLE"`

	SessionTTL           time.Duration `mapstructure:"SESSION_TTL"`
	SessionSweepInterval time.Duration `mapstructure:"SESSION_SWEEP_INTERVAL"`
}

// LoadConfig reads configuration from the given directory
func LoadConfig(path string) (Config, error) {
	// .env files only seed the process environment; existing variables win.
	for _, f := range []string{".env", ".env.local"} {
		_ = godotenv.Load(filepath.Join(path, f))
	}

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")

	v.SetDefault("SERVER_ADDRESS", "0.0.0.0:8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("RESOURCE_BUDGET", models.DefaultResourceBudget)
	v.SetDefault("SUGGEST_LIMIT", 5)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("PLACES_TABLE", "places")
	v.SetDefault("SESSION_TTL", "30m")
	v.SetDefault("SESSION_SWEEP_INTERVAL", "1m")

	// Unmarshal only sees keys viper knows about, so bind every key explicitly.
	for _, key := range []string{"DB_SOURCE", "SERVER_ADDRESS", "LOG_LEVEL", "LOG_FORMAT", "RESOURCE_BUDGET", "SUGGEST_LIMIT", "CORS_ALLOWED_ORIGINS", "PLACES_TABLE", "SESSION_TTL", "SESSION_SWEEP_INTERVAL"} {
		if err := v.BindEnv(key); err != nil {
			return Config{}, fmt.Errorf("config: bind %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("config: failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("config: failed to decode config: %w", err)
	}
	config.CORSAllowedOrigins = splitList(config.CORSAllowedOrigins)

	if config.DBSource == "" {
		return Config{}, fmt.Errorf("config: DB_SOURCE is required")
	}
	if config.ResourceBudget == 0 {
		return Config{}, fmt.Errorf("config: RESOURCE_BUDGET must be positive")
	}
	if config.SuggestLimit <= 0 {
		return Config{}, fmt.Errorf("config: SUGGEST_LIMIT must be positive")
	}
	if config.SessionTTL <= 0 || config.SessionSweepInterval <= 0 {
		return Config{}, fmt.Errorf("config: SESSION_TTL and SESSION_SWEEP_INTERVAL must be positive")
	}

	return config, nil
}

// splitList normalizes list values that arrive as a single comma separated string.
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
