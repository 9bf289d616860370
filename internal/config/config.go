package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Port                             string `mapstructure:"PORT"`
	GinMode                          string `mapstructure:"GIN_MODE"`
	LogLevel                         string `mapstructure:"LOG_LEVEL"`
	FirebaseProjectID                string `mapstructure:"FIREBASE_PROJECT_ID"`
	GoogleApplicationCredentials     string `mapstructure:"GOOGLE_APPLICATION_CREDENTIALS"`
	FirebaseServiceAccountJSONBase64 string `mapstructure:"FIREBASE_SERVICE_ACCOUNT_JSON_BASE64"`
	ClientURL                        string `mapstructure:"CLIENT_URL"`

	GeocoderBaseURL        string `mapstructure:"GEOCODER_BASE_URL"`
	GeocoderUserAgent      string `mapstructure:"GEOCODER_USER_AGENT"`
	GeocoderTimeoutSeconds int    `mapstructure:"GEOCODER_TIMEOUT_SECONDS"`
	GeocodeCacheTTLMinutes int    `mapstructure:"GEOCODE_CACHE_TTL_MINUTES"`

	RedisAddr     string `mapstructure:"REDIS_ADDR"` // empty disables the geocode cache
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	RabbitMQURL   string `mapstructure:"RABBITMQ_URL"` // empty disables trip events
	RabbitMQQueue string `mapstructure:"RABBITMQ_QUEUE"`
}

var envKeys = []string{
	"PORT",
	"GIN_MODE",
	"LOG_LEVEL",
	"FIREBASE_PROJECT_ID",
	"GOOGLE_APPLICATION_CREDENTIALS",
	"FIREBASE_SERVICE_ACCOUNT_JSON_BASE64",
	"CLIENT_URL",
	"GEOCODER_BASE_URL",
	"GEOCODER_USER_AGENT",
	"GEOCODER_TIMEOUT_SECONDS",
	"GEOCODE_CACHE_TTL_MINUTES",
	"REDIS_ADDR",
	"REDIS_PASSWORD",
	"REDIS_DB",
	"RABBITMQ_URL",
	"RABBITMQ_QUEUE",
}

// LoadConfig loads configuration from environment variables using Viper.
// Outside release mode a .env file in the working directory is loaded first;
// variables already set in the environment take precedence over it.
func LoadConfig() (*Config, error) {
	if !strings.EqualFold(os.Getenv("GIN_MODE"), "release") {
		_ = godotenv.Load() // optional
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("PORT", "8080")
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("GEOCODER_BASE_URL", "https://nominatim.openstreetmap.org")
	v.SetDefault("GEOCODER_USER_AGENT", "TripPlanner/1.0")
	v.SetDefault("GEOCODER_TIMEOUT_SECONDS", 10)
	v.SetDefault("GEOCODE_CACHE_TTL_MINUTES", 24*60)
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("RABBITMQ_QUEUE", "trip-events")

	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, errors.New("failed to bind env " + key + ": " + err.Error())
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.New("failed to unmarshal config: " + err.Error())
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports every missing or invalid required setting at once.
func (c *Config) Validate() error {
	var errs []string
	if c.FirebaseProjectID == "" {
		errs = append(errs, "FIREBASE_PROJECT_ID is required")
	}
	if c.ClientURL == "" {
		errs = append(errs, "CLIENT_URL is required")
	}
	if c.GeocoderUserAgent == "" {
		errs = append(errs, "GEOCODER_USER_AGENT must not be empty")
	}
	if c.GeocoderTimeoutSeconds <= 0 {
		errs = append(errs, "GEOCODER_TIMEOUT_SECONDS must be positive")
	}
	if c.GeocodeCacheTTLMinutes <= 0 {
		errs = append(errs, "GEOCODE_CACHE_TTL_MINUTES must be positive")
	}
	if len(errs) > 0 {
		return errors.New("invalid configuration: " + strings.Join(errs, "; "))
	}
	return nil
}

// IsRelease reports whether gin should run in release mode.
func (c *Config) IsRelease() bool {
	return strings.EqualFold(c.GinMode, "release")
}

// GeocoderTimeout returns the outbound geocoding request timeout.
func (c *Config) GeocoderTimeout() time.Duration {
	return time.Duration(c.GeocoderTimeoutSeconds) * time.Second
}

// GeocodeCacheTTL returns how long successful geocode results are cached.
func (c *Config) GeocodeCacheTTL() time.Duration {
	return time.Duration(c.GeocodeCacheTTLMinutes) * time.Minute
}
