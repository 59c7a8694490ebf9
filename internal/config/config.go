package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fanarena/contest-engine/internal/platform/logging"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv             string
	ServiceName        string
	ServiceVersion     string
	HTTPAddr           string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	CORSAllowedOrigins []string
	InternalJobToken   string
	LogLevel           logging.Level

	DBEnabled bool
	DBURL     string

	CacheTTL time.Duration

	IdentityBaseURL        string
	IdentityIntrospectPath string
	IdentityTimeout        time.Duration

	WalletEnabled                bool
	WalletBaseURL                string
	WalletTimeout                time.Duration
	WalletMaxRetries             int
	WalletCircuitEnabled         bool
	WalletCircuitFailureCount    int
	WalletCircuitOpenTimeout     time.Duration
	WalletCircuitHalfOpenMaxReq  int
	SeedDemoData                 bool
	StatsFeedEnabled             bool
	StatsFeedBaseURL             string
	StatsFeedTimeout             time.Duration
	StatsFeedMaxRetries          int
	StatsFeedMaxConcurrency      int
	StatsFeedCircuitEnabled      bool
	StatsFeedCircuitFailureCount int
	StatsFeedCircuitOpenTimeout  time.Duration
	StatsFeedCircuitHalfOpenReq  int

	IngestWorkers      int
	JobPromoteInterval time.Duration
	JobIngestInterval  time.Duration

	UptraceEnabled bool
	UptraceDSN     string

	PyroscopeEnabled       bool
	PyroscopeServerAddress string
	PyroscopeAppName       string
	PyroscopeAuthToken     string
	PyroscopeUploadRate    time.Duration
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppEnv:         appEnv,
		ServiceName:    strings.TrimSpace(getEnv("SERVICE_NAME", "contest-engine")),
		ServiceVersion: strings.TrimSpace(getEnv("SERVICE_VERSION", "dev")),
		HTTPAddr:       strings.TrimSpace(getEnv("HTTP_ADDR", ":8080")),
		LogLevel:       parseLogLevel(getEnv("LOG_LEVEL", "info")),
	}

	cfg.ReadTimeout, err = getEnvAsDuration("APP_READ_TIMEOUT", "10s")
	if err != nil {
		return Config{}, err
	}
	cfg.WriteTimeout, err = getEnvAsDuration("APP_WRITE_TIMEOUT", "15s")
	if err != nil {
		return Config{}, err
	}

	cfg.CORSAllowedOrigins = splitAndTrim(getEnv("CORS_ALLOWED_ORIGINS", "*"))
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}
	cfg.InternalJobToken = strings.TrimSpace(getEnv("INTERNAL_JOB_TOKEN", ""))

	cfg.DBURL = strings.TrimSpace(getEnv("DATABASE_URL", ""))
	cfg.DBEnabled = cfg.DBURL != ""

	cfg.CacheTTL, err = getEnvAsDuration("CACHE_TTL", "60s")
	if err != nil {
		return Config{}, err
	}
	if cfg.CacheTTL <= 0 {
		return Config{}, fmt.Errorf("CACHE_TTL must be > 0")
	}

	cfg.IdentityBaseURL = strings.TrimSpace(getEnv("IDENTITY_BASE_URL", ""))
	if cfg.IdentityBaseURL == "" {
		return Config{}, fmt.Errorf("IDENTITY_BASE_URL is required")
	}
	cfg.IdentityIntrospectPath = strings.TrimSpace(getEnv("IDENTITY_INTROSPECT_PATH", "/v1/tokens/introspect"))
	cfg.IdentityTimeout, err = getEnvAsDuration("IDENTITY_TIMEOUT", "3s")
	if err != nil {
		return Config{}, err
	}

	cfg.WalletEnabled, err = getEnvAsBool("WALLET_ENABLED", "false")
	if err != nil {
		return Config{}, err
	}
	cfg.WalletBaseURL = strings.TrimSpace(getEnv("WALLET_BASE_URL", ""))
	if cfg.WalletEnabled && cfg.WalletBaseURL == "" {
		return Config{}, fmt.Errorf("WALLET_BASE_URL is required when WALLET_ENABLED=true")
	}
	cfg.WalletTimeout, err = getEnvAsDuration("WALLET_TIMEOUT", "3s")
	if err != nil {
		return Config{}, err
	}
	cfg.WalletMaxRetries, err = getEnvAsInt("WALLET_MAX_RETRIES", 2)
	if err != nil {
		return Config{}, err
	}
	cfg.WalletCircuitEnabled, err = getEnvAsBool("WALLET_CIRCUIT_ENABLED", "true")
	if err != nil {
		return Config{}, err
	}
	cfg.WalletCircuitFailureCount, err = getEnvAsInt("WALLET_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, err
	}
	if cfg.WalletCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("WALLET_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	cfg.WalletCircuitOpenTimeout, err = getEnvAsDuration("WALLET_CIRCUIT_OPEN_TIMEOUT", "15s")
	if err != nil {
		return Config{}, err
	}
	cfg.WalletCircuitHalfOpenMaxReq, err = getEnvAsInt("WALLET_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, err
	}

	cfg.SeedDemoData, err = getEnvAsBool("SEED_DEMO_DATA", defaultForEnv(appEnv, "true", "false"))
	if err != nil {
		return Config{}, err
	}

	cfg.StatsFeedEnabled, err = getEnvAsBool("STATS_FEED_ENABLED", "false")
	if err != nil {
		return Config{}, err
	}
	cfg.StatsFeedBaseURL = strings.TrimSpace(getEnv("STATS_FEED_BASE_URL", ""))
	if cfg.StatsFeedEnabled && cfg.StatsFeedBaseURL == "" {
		return Config{}, fmt.Errorf("STATS_FEED_BASE_URL is required when STATS_FEED_ENABLED=true")
	}
	cfg.StatsFeedTimeout, err = getEnvAsDuration("STATS_FEED_TIMEOUT", "5s")
	if err != nil {
		return Config{}, err
	}
	cfg.StatsFeedMaxRetries, err = getEnvAsInt("STATS_FEED_MAX_RETRIES", 2)
	if err != nil {
		return Config{}, err
	}
	cfg.StatsFeedMaxConcurrency, err = getEnvAsInt("STATS_FEED_MAX_CONCURRENCY", 4)
	if err != nil {
		return Config{}, err
	}
	cfg.StatsFeedCircuitEnabled, err = getEnvAsBool("STATS_FEED_CIRCUIT_ENABLED", "true")
	if err != nil {
		return Config{}, err
	}
	cfg.StatsFeedCircuitFailureCount, err = getEnvAsInt("STATS_FEED_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, err
	}
	cfg.StatsFeedCircuitOpenTimeout, err = getEnvAsDuration("STATS_FEED_CIRCUIT_OPEN_TIMEOUT", "15s")
	if err != nil {
		return Config{}, err
	}
	cfg.StatsFeedCircuitHalfOpenReq, err = getEnvAsInt("STATS_FEED_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, err
	}

	cfg.IngestWorkers, err = getEnvAsInt("INGEST_WORKERS", 8)
	if err != nil {
		return Config{}, err
	}
	if cfg.IngestWorkers < 1 {
		return Config{}, fmt.Errorf("INGEST_WORKERS must be >= 1")
	}
	cfg.JobPromoteInterval, err = getEnvAsDuration("JOB_PROMOTE_INTERVAL", "30s")
	if err != nil {
		return Config{}, err
	}
	cfg.JobIngestInterval, err = getEnvAsDuration("JOB_INGEST_INTERVAL", "1m")
	if err != nil {
		return Config{}, err
	}

	cfg.UptraceEnabled, err = getEnvAsBool("UPTRACE_ENABLED", "false")
	if err != nil {
		return Config{}, err
	}
	cfg.UptraceDSN = strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if cfg.UptraceEnabled && cfg.UptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	cfg.PyroscopeEnabled, err = getEnvAsBool("PYROSCOPE_ENABLED", "false")
	if err != nil {
		return Config{}, err
	}
	cfg.PyroscopeServerAddress = strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if cfg.PyroscopeEnabled && cfg.PyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	cfg.PyroscopeAuthToken = strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", ""))
	cfg.PyroscopeUploadRate, err = getEnvAsDuration("PYROSCOPE_UPLOAD_RATE", "15s")
	if err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// SlogLevel maps the zap-style log level to its slog equivalent for the
// bootstrap logger.
func (c Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case logging.LevelDebug:
		return slog.LevelDebug
	case logging.LevelWarn:
		return slog.LevelWarn
	case logging.LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func parseAppEnv(v string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(v))
	switch normalized {
	case EnvDev, EnvStage, EnvProd:
		return normalized, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}

func defaultForEnv(appEnv, devDefault, prodDefault string) string {
	if appEnv == EnvProd {
		return prodDefault
	}
	return devDefault
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		return value
	}
	return fallback
}

func getEnvAsBool(key, fallback string) (bool, error) {
	parsed, err := strconv.ParseBool(getEnv(key, fallback))
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", key, err)
	}
	return parsed, nil
}

func getEnvAsInt(key string, fallback int) (int, error) {
	raw := getEnv(key, strconv.Itoa(fallback))
	parsed, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return parsed, nil
}

func getEnvAsDuration(key, fallback string) (time.Duration, error) {
	parsed, err := time.ParseDuration(getEnv(key, fallback))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return parsed, nil
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		candidate := strings.TrimSpace(part)
		if candidate != "" {
			out = append(out, candidate)
		}
	}
	return out
}
