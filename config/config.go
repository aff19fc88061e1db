package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// AppConfig holds the application configuration
type AppConfig struct {
	Env          string
	Port         string
	DBURL        string
	RedisAddress string
	JWTSecret    string
	SymmetricKey string
	PublicURL    string

	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	MailFrom string

	AllowedOrigins    []string
	RequestsPerSecond float64
	Burst             int
	ShutdownTimeout   time.Duration
}

// IsDevelopment reports whether the service runs with development defaults.
func (c *AppConfig) IsDevelopment() bool {
	return c.Env == "development"
}

// RedisEnabled reports whether a Redis URL was configured.
func (c *AppConfig) RedisEnabled() bool {
	return c.RedisAddress != ""
}

// MailEnabled reports whether an SMTP host was configured.
func (c *AppConfig) MailEnabled() bool {
	return c.SMTPHost != ""
}

// Load reads a .env file when one exists and builds the configuration from
// environment variables.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn().Err(err).Msg("could not load .env file")
	}
	return FromEnv()
}

// FromEnv builds the configuration from environment variables only.
func FromEnv() (*AppConfig, error) {
	dbURL := os.Getenv("DB_URL")
	if dbURL == "" {
		return nil, errors.New("missing DB_URL environment variable")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, errors.New("missing JWT_SECRET environment variable")
	}

	symmetricKey := os.Getenv("SYMMETRIC_KEY")
	if len(symmetricKey) != 32 {
		return nil, fmt.Errorf("SYMMETRIC_KEY must be 32 bytes long, got %d", len(symmetricKey))
	}

	port := getEnv("PORT", "8080")

	return &AppConfig{
		Env:          getEnv("ENV", "production"),
		Port:         port,
		DBURL:        dbURL,
		RedisAddress: os.Getenv("REDIS_URL"),
		JWTSecret:    jwtSecret,
		SymmetricKey: symmetricKey,
		PublicURL:    strings.TrimSuffix(getEnv("PUBLIC_BASE_URL", "http://localhost:"+port), "/"),

		SMTPHost: os.Getenv("SMTP_HOST"),
		SMTPPort: getEnvAsInt("SMTP_PORT", 587),
		SMTPUser: os.Getenv("SMTP_USER"),
		SMTPPass: os.Getenv("SMTP_PASS"),
		MailFrom: getEnv("MAIL_FROM", os.Getenv("SMTP_USER")),

		AllowedOrigins:    getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		RequestsPerSecond: getEnvAsFloat("RATE_LIMIT_RPS", 15),
		Burst:             getEnvAsInt("RATE_LIMIT_BURST", 30),
		ShutdownTimeout:   getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}, nil
}

func getEnv(name, defaultValue string) string {
	if value, exists := os.LookupEnv(name); exists && value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(name string, defaultValue int) int {
	if value, exists := os.LookupEnv(name); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
		log.Warn().Str("name", name).Int("default", defaultValue).Msg("invalid integer value, using default")
	}
	return defaultValue
}

func getEnvAsFloat(name string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(name); exists {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
		log.Warn().Str("name", name).Float64("default", defaultValue).Msg("invalid float value, using default")
	}
	return defaultValue
}

func getEnvAsDuration(name string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(name); exists {
		if durationValue, err := time.ParseDuration(value); err == nil {
			return durationValue
		}
		log.Warn().Str("name", name).Dur("default", defaultValue).Msg("invalid duration value, using default")
	}
	return defaultValue
}

func getEnvAsList(name string, defaultValue []string) []string {
	value, exists := os.LookupEnv(name)
	if !exists || strings.TrimSpace(value) == "" {
		return defaultValue
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
