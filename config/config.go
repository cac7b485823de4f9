package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Environment represents the application environment.
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvStaging     Environment = "staging"
	EnvProduction  Environment = "production"
)

// StoreBackend selects the local persistence implementation.
type StoreBackend string

const (
	// StoreFile keeps one JSON file per slot under the data directory.
	StoreFile StoreBackend = "file"

	// StoreSQLite keeps all slots in a single SQLite database.
	StoreSQLite StoreBackend = "sqlite"

	// StoreRedis keeps slots in Redis, for shared desk installations.
	StoreRedis StoreBackend = "redis"
)

// Config holds all application configuration.
type Config struct {
	// Application
	App AppConfig

	// Store - local slot persistence
	Store StoreConfig

	// Redis - used when Store.Backend is "redis"
	Redis RedisConfig

	// Sync - cloud snapshot mirroring
	Sync SyncConfig

	// HTTP - REST API server
	HTTP HTTPConfig

	// Admin - seed administrator account
	Admin AdminConfig

	// Feature Flags
	Features *FeatureFlags

	// Observability
	Observability ObservabilityConfig
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string
	Environment Environment
	Debug       bool
	Version     string

	// Timezone for class schedules and check-in timestamps
	// (default: America/Sao_Paulo)
	Timezone string
	Location *time.Location

	// Graceful shutdown timeout
	ShutdownTimeout time.Duration
}

// StoreConfig holds local persistence settings.
type StoreConfig struct {
	// Backend selects the slot store implementation.
	Backend StoreBackend

	// DataDir is the directory for the file backend.
	DataDir string

	// SQLitePath is the database file for the sqlite backend.
	SQLitePath string
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int

	// KeyPrefix namespaces the slot keys.
	KeyPrefix string

	// Timeouts
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// SyncConfig holds cloud sync settings.
type SyncConfig struct {
	// Enabled turns the sync adapter on.
	Enabled bool

	// Endpoint is the document collection URL of the JSON host.
	Endpoint string

	// APIKey is sent as a bearer token when non-empty.
	APIKey string

	// DebounceDelay is the quiet period before a push.
	DebounceDelay time.Duration

	// PollInterval is the period between pulls.
	PollInterval time.Duration

	// RequestTimeout bounds each remote call.
	RequestTimeout time.Duration
}

// HTTPConfig holds REST API server settings.
type HTTPConfig struct {
	Host string
	Port int

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	EnableCORS     bool
	AllowedOrigins []string

	// RateLimitPerMinute limits requests per IP (0 = disabled).
	RateLimitPerMinute int
}

// AdminConfig holds the seed administrator account. The password is only
// read at startup and never persisted in clear text.
type AdminConfig struct {
	Name     string
	Email    string
	Password string
}

// ObservabilityConfig holds logging settings.
type ObservabilityConfig struct {
	LogLevel  string // debug, info, warn, error
	LogFormat string // json, text
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		App:           loadAppConfig(),
		Store:         loadStoreConfig(),
		Redis:         loadRedisConfig(),
		Sync:          loadSyncConfig(),
		HTTP:          loadHTTPConfig(),
		Admin:         loadAdminConfig(),
		Features:      LoadFeatureFlags(),
		Observability: loadObservabilityConfig(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

func loadAppConfig() AppConfig {
	env := Environment(getEnv("APP_ENV", "development"))
	timezone := getEnv("APP_TIMEZONE", "America/Sao_Paulo")

	loc, err := time.LoadLocation(timezone)
	if err != nil {
		loc = time.UTC
	}

	return AppConfig{
		Name:            getEnv("APP_NAME", "academy-hub"),
		Environment:     env,
		Debug:           env == EnvDevelopment || getEnvBool("APP_DEBUG", false),
		Version:         getEnv("APP_VERSION", "0.1.0"),
		Timezone:        timezone,
		Location:        loc,
		ShutdownTimeout: getEnvDuration("APP_SHUTDOWN_TIMEOUT", 30*time.Second),
	}
}

func loadStoreConfig() StoreConfig {
	return StoreConfig{
		Backend:    StoreBackend(getEnv("STORE_BACKEND", "file")),
		DataDir:    getEnv("STORE_DATA_DIR", "./data"),
		SQLitePath: getEnv("STORE_SQLITE_PATH", "./data/academy.db"),
	}
}

func loadRedisConfig() RedisConfig {
	return RedisConfig{
		Host:         getEnv("REDIS_HOST", "localhost"),
		Port:         getEnvInt("REDIS_PORT", 6379),
		Password:     getEnv("REDIS_PASSWORD", ""),
		DB:           getEnvInt("REDIS_DB", 0),
		KeyPrefix:    getEnv("REDIS_KEY_PREFIX", "academy:"),
		DialTimeout:  getEnvDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		ReadTimeout:  getEnvDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		WriteTimeout: getEnvDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
	}
}

func loadSyncConfig() SyncConfig {
	return SyncConfig{
		Enabled:        getEnvBool("SYNC_ENABLED", false),
		Endpoint:       getEnv("SYNC_ENDPOINT", ""),
		APIKey:         getEnv("SYNC_API_KEY", ""),
		DebounceDelay:  getEnvDuration("SYNC_DEBOUNCE_DELAY", 2*time.Second),
		PollInterval:   getEnvDuration("SYNC_POLL_INTERVAL", 15*time.Second),
		RequestTimeout: getEnvDuration("SYNC_REQUEST_TIMEOUT", 10*time.Second),
	}
}

func loadHTTPConfig() HTTPConfig {
	return HTTPConfig{
		Host:               getEnv("HTTP_HOST", "0.0.0.0"),
		Port:               getEnvInt("HTTP_PORT", 8080),
		ReadTimeout:        getEnvDuration("HTTP_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:       getEnvDuration("HTTP_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:        getEnvDuration("HTTP_IDLE_TIMEOUT", 60*time.Second),
		EnableCORS:         getEnvBool("HTTP_ENABLE_CORS", true),
		AllowedOrigins:     getEnvSlice("HTTP_ALLOWED_ORIGINS", []string{"*"}),
		RateLimitPerMinute: getEnvInt("HTTP_RATE_LIMIT_PER_MINUTE", 120),
	}
}

func loadAdminConfig() AdminConfig {
	return AdminConfig{
		Name:     getEnv("ADMIN_NAME", "Administrador"),
		Email:    getEnv("ADMIN_EMAIL", "admin@academy.local"),
		Password: getEnv("ADMIN_PASSWORD", ""),
	}
}

func loadObservabilityConfig() ObservabilityConfig {
	return ObservabilityConfig{
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	var errs []string

	switch c.Store.Backend {
	case StoreFile, StoreSQLite, StoreRedis:
	default:
		errs = append(errs, fmt.Sprintf("STORE_BACKEND must be file, sqlite or redis (got %q)", c.Store.Backend))
	}

	if c.Sync.Enabled && c.Sync.Endpoint == "" {
		errs = append(errs, "SYNC_ENDPOINT is required when SYNC_ENABLED is true")
	}

	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		errs = append(errs, "HTTP_PORT must be between 1 and 65535")
	}

	if c.App.Environment == EnvProduction && c.Admin.Password == "" {
		errs = append(errs, "ADMIN_PASSWORD is required in production")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == EnvDevelopment
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.App.Environment == EnvProduction
}

// --- Helper functions for environment variable parsing ---

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return defaultVal
	}
	return b
}

func getEnvInt(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}
	return d
}

func getEnvSlice(key string, defaultVal []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}

	parts := strings.Split(val, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	if len(result) == 0 {
		return defaultVal
	}
	return result
}
