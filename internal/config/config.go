package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config aggregates runtime configuration for the GoGallery API.
type Config struct {
	Server   ServerConfig
	Postgres PostgresConfig
	MinIO    MinIOConfig
	Auth     AuthConfig
	Quota    QuotaConfig
	Metrics  MetricsConfig
}

// ServerConfig parameterizes the HTTP server.
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// Address returns the listen address in host:port form.
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// PostgresConfig contains PostgreSQL connection details.
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// DSN returns the PostgreSQL DSN string.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		p.User, p.Password, p.Host, p.Port, p.Database, p.SSLMode)
}

// MinIOConfig carries MinIO connection and bucket information.
type MinIOConfig struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	UseSSL          bool
	Region          string
	AccessURLTTL    time.Duration
}

// AuthConfig groups authentication-related settings.
type AuthConfig struct {
	AccessTokenSecret   string
	RefreshTokenSecret  string
	AccessTokenTTL      time.Duration
	RefreshTokenTTL     time.Duration
	BcryptCost          int
	AdminBootstrapEmail string
}

// QuotaConfig holds the per-account storage policy. Values are fixed for the
// lifetime of the process.
type QuotaConfig struct {
	MaxBytesPerAccount   int64
	MaxSingleObjectBytes int64
}

// MetricsConfig groups observability settings.
type MetricsConfig struct {
	PrometheusPath string
}

const (
	defaultMaxBytesPerAccount   = 1 << 30  // 1 GiB
	defaultMaxSingleObjectBytes = 50 << 20 // 50 MiB
)

// Load reads configuration values from environment variables, applying defaults.
func Load() (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Host:         getString("GOGALLERY_API_HOST", "0.0.0.0"),
			Port:         getInt("GOGALLERY_API_PORT", 8080),
			ReadTimeout:  getDuration("GOGALLERY_API_READ_TIMEOUT", 15*time.Second),
			WriteTimeout: getDuration("GOGALLERY_API_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:  getDuration("GOGALLERY_API_IDLE_TIMEOUT", 60*time.Second),
		},
		Postgres: PostgresConfig{
			Host:     getString("POSTGRES_HOST", "localhost"),
			Port:     getInt("POSTGRES_PORT", 5432),
			User:     getString("POSTGRES_USER", "gogallery_app"),
			Password: getString("POSTGRES_PASSWORD", "change-me"),
			Database: getString("POSTGRES_DB", "gogallery"),
			SSLMode:  strings.ToLower(getString("POSTGRES_SSL_MODE", "disable")),
		},
		MinIO: MinIOConfig{
			Endpoint:        getString("MINIO_ENDPOINT", "localhost:9000"),
			AccessKeyID:     getString("MINIO_ROOT_USER", "gogallery"),
			SecretAccessKey: getString("MINIO_ROOT_PASSWORD", "change-me-strong-password"),
			Bucket:          getString("MINIO_BUCKET", "gogallery"),
			UseSSL:          getBool("MINIO_USE_SSL", false),
			Region:          getString("MINIO_REGION", ""),
			AccessURLTTL:    getDuration("GOGALLERY_ACCESS_URL_TTL", time.Hour),
		},
		Auth: loadAuthConfig(),
		Quota: QuotaConfig{
			MaxBytesPerAccount:   getInt64("GOGALLERY_QUOTA_MAX_BYTES", defaultMaxBytesPerAccount),
			MaxSingleObjectBytes: getInt64("GOGALLERY_QUOTA_MAX_OBJECT_BYTES", defaultMaxSingleObjectBytes),
		},
		Metrics: MetricsConfig{
			PrometheusPath: getString("GOGALLERY_METRICS_PATH", "/metrics"),
		},
	}

	return cfg, nil
}

func getString(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getInt64(key string, fallback int64) int64 {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseInt(val, 10, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if val, ok := os.LookupEnv(key); ok {
		val = strings.ToLower(strings.TrimSpace(val))
		switch val {
		case "1", "true", "t", "yes", "y":
			return true
		case "0", "false", "f", "no", "n":
			return false
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func loadAuthConfig() AuthConfig {
	cost := getInt("GOGALLERY_AUTH_BCRYPT_COST", 12)
	if cost < 4 || cost > 31 {
		cost = 12
	}

	return AuthConfig{
		AccessTokenSecret:   getString("GOGALLERY_JWT_SECRET", "change-me-to-a-32-byte-secret"),
		RefreshTokenSecret:  getString("GOGALLERY_JWT_REFRESH_SECRET", "change-me-to-a-64-byte-secret"),
		AccessTokenTTL:      getDuration("GOGALLERY_AUTH_ACCESS_TOKEN_TTL", 15*time.Minute),
		RefreshTokenTTL:     getDuration("GOGALLERY_AUTH_REFRESH_TOKEN_TTL", 720*time.Hour),
		BcryptCost:          cost,
		AdminBootstrapEmail: strings.ToLower(getString("GOGALLERY_ADMIN_BOOTSTRAP_EMAIL", "")),
	}
}
