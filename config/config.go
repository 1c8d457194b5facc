// Package config provides configuration management for the famroot API client.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the complete application configuration.
type Config struct {
	Client    ClientConfig    `yaml:"client"`
	Store     StoreConfig     `yaml:"store"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Database  DatabaseConfig  `yaml:"database"`
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
}

// ClientConfig holds the API client configuration.
type ClientConfig struct {
	BaseURL                  string            `yaml:"base_url"`
	Timeout                  time.Duration     `yaml:"timeout"`
	CacheSize                int               `yaml:"cache_size"`
	CacheTTL                 time.Duration     `yaml:"cache_ttl"`
	EnableTracking           bool              `yaml:"enable_tracking"`
	EnableCookies            bool              `yaml:"enable_cookies"`
	Headers                  map[string]string `yaml:"headers"`
	CachePools               []CachePool       `yaml:"cache_pools"`
	TokenHeader              string            `yaml:"token_header"`
	ClearTokenOnUnauthorized bool              `yaml:"clear_token_on_unauthorized"`
	BatchLimit               int               `yaml:"batch_limit"`
}

// CachePool routes cache keys containing Contains into the named partition.
type CachePool struct {
	Name     string `yaml:"name"`
	Contains string `yaml:"contains"`
}

// StoreConfig holds preference and token store configuration.
type StoreConfig struct {
	// Driver is one of "memory", "file" or "sqlite".
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
	// Secret enables sealing of values written with the Secure option.
	Secret string `yaml:"secret"`
}

// TelemetryConfig holds request telemetry configuration.
type TelemetryConfig struct {
	BufferSize   int           `yaml:"buffer_size"`
	Workers      int           `yaml:"workers"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	MaxLogs      int           `yaml:"max_logs"`
}

// DatabaseConfig holds the remote store configuration.
type DatabaseConfig struct {
	// Driver is one of "none", "mongodb" or "sqlite".
	Driver       string        `yaml:"driver"`
	URI          string        `yaml:"uri"`
	DatabaseName string        `yaml:"database_name"`
	SQLitePath   string        `yaml:"sqlite_path"`
	LogsTTL      time.Duration `yaml:"logs_ttl"`
	// PreferencesOwner names the remote preference row this client syncs.
	PreferencesOwner string `yaml:"preferences_owner"`
	// CircuitBreaker configuration
	CircuitBreakerFailureThreshold int           `yaml:"circuit_breaker_failure_threshold"`
	CircuitBreakerSuccessThreshold int           `yaml:"circuit_breaker_success_threshold"`
	CircuitBreakerTimeout          time.Duration `yaml:"circuit_breaker_timeout"`
}

// Enabled reports whether a remote store is configured.
func (d DatabaseConfig) Enabled() bool {
	return d.Driver == "mongodb" || d.Driver == "sqlite"
}

// ServerConfig holds admin HTTP server configuration.
// A zero RateLimit disables rate limiting.
type ServerConfig struct {
	Port          string        `yaml:"port"`
	CORSOrigins   []string      `yaml:"cors_origins"`
	JWTSecret     string        `yaml:"jwt_secret"`
	AdminTokenTTL time.Duration `yaml:"admin_token_ttl"`
	SwaggerUser   string        `yaml:"swagger_user"`
	SwaggerPass   string        `yaml:"swagger_pass"`
	RateLimit     int           `yaml:"rate_limit"`
	RateWindow    time.Duration `yaml:"rate_window"`
	// GzipLevel is a compress/gzip level; 0 turns response compression off.
	GzipLevel int `yaml:"gzip_level"`
}

// LogConfig holds logger configuration.
type LogConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Client: ClientConfig{
			Timeout:        30 * time.Second,
			CacheSize:      100,
			CacheTTL:       5 * time.Minute,
			EnableTracking: true,
			EnableCookies:  true,
			Headers:        map[string]string{"Content-Type": "application/json"},
			BatchLimit:     8,
		},
		Store: StoreConfig{
			Driver: "memory",
		},
		Telemetry: TelemetryConfig{
			BufferSize:   1000,
			Workers:      2,
			WriteTimeout: 5 * time.Second,
			MaxLogs:      0,
		},
		Database: DatabaseConfig{
			Driver:                         "none",
			URI:                            "mongodb://localhost:27017",
			DatabaseName:                   "famroot",
			SQLitePath:                     "famroot.db",
			LogsTTL:                        30 * 24 * time.Hour,
			PreferencesOwner:               "default",
			CircuitBreakerFailureThreshold: 5,
			CircuitBreakerSuccessThreshold: 2,
			CircuitBreakerTimeout:          30 * time.Second,
		},
		Server: ServerConfig{
			Port:          "8080",
			CORSOrigins:   parseCORSOrigins(""),
			AdminTokenTTL: time.Hour,
			RateLimit:     100,
			RateWindow:    time.Minute,
			GzipLevel:     -1,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load creates a Config from environment variables.
func Load() Config {
	d := Default()
	return Config{
		Client: ClientConfig{
			BaseURL:                  getEnv("API_BASE_URL", d.Client.BaseURL),
			Timeout:                  getEnvDuration("API_TIMEOUT", d.Client.Timeout),
			CacheSize:                getEnvInt("API_CACHE_SIZE", d.Client.CacheSize),
			CacheTTL:                 getEnvDuration("API_CACHE_TTL", d.Client.CacheTTL),
			EnableTracking:           getEnvBool("API_ENABLE_TRACKING", d.Client.EnableTracking),
			EnableCookies:            getEnvBool("API_ENABLE_COOKIES", d.Client.EnableCookies),
			Headers:                  parseHeaders(os.Getenv("API_HEADERS"), d.Client.Headers),
			CachePools:               parseCachePools(os.Getenv("API_CACHE_POOLS")),
			TokenHeader:              getEnv("API_TOKEN_HEADER", ""),
			ClearTokenOnUnauthorized: getEnvBool("API_CLEAR_TOKEN_ON_401", false),
			BatchLimit:               getEnvInt("API_BATCH_LIMIT", d.Client.BatchLimit),
		},
		Store: StoreConfig{
			Driver: getEnv("STORE_DRIVER", d.Store.Driver),
			Path:   getEnv("STORE_PATH", ""),
			Secret: getEnv("STORE_SECRET", ""),
		},
		Telemetry: TelemetryConfig{
			BufferSize:   getEnvInt("TELEMETRY_BUFFER_SIZE", d.Telemetry.BufferSize),
			Workers:      getEnvInt("TELEMETRY_WORKERS", d.Telemetry.Workers),
			WriteTimeout: getEnvDuration("TELEMETRY_WRITE_TIMEOUT", d.Telemetry.WriteTimeout),
			MaxLogs:      getEnvInt("TELEMETRY_MAX_LOGS", d.Telemetry.MaxLogs),
		},
		Database: DatabaseConfig{
			Driver:                         getEnv("REMOTE_DRIVER", d.Database.Driver),
			URI:                            getEnv("MONGODB_URI", d.Database.URI),
			DatabaseName:                   getEnv("MONGODB_DATABASE", d.Database.DatabaseName),
			SQLitePath:                     getEnv("SQLITE_PATH", d.Database.SQLitePath),
			LogsTTL:                        getEnvDuration("REMOTE_LOGS_TTL", d.Database.LogsTTL),
			PreferencesOwner:               getEnv("PREFERENCES_OWNER", d.Database.PreferencesOwner),
			CircuitBreakerFailureThreshold: getEnvInt("CIRCUIT_BREAKER_FAILURE_THRESHOLD", d.Database.CircuitBreakerFailureThreshold),
			CircuitBreakerSuccessThreshold: getEnvInt("CIRCUIT_BREAKER_SUCCESS_THRESHOLD", d.Database.CircuitBreakerSuccessThreshold),
			CircuitBreakerTimeout:          getEnvDuration("CIRCUIT_BREAKER_TIMEOUT", d.Database.CircuitBreakerTimeout),
		},
		Server: ServerConfig{
			Port:          getEnv("PORT", d.Server.Port),
			CORSOrigins:   parseCORSOrigins(os.Getenv("CORS_ORIGINS")),
			JWTSecret:     getEnv("ADMIN_JWT_SECRET", ""),
			AdminTokenTTL: getEnvDuration("ADMIN_TOKEN_TTL", d.Server.AdminTokenTTL),
			SwaggerUser:   getEnv("SWAGGER_USER", ""),
			SwaggerPass:   getEnv("SWAGGER_PASS", ""),
			RateLimit:     getEnvInt("RATE_LIMIT", d.Server.RateLimit),
			RateWindow:    getEnvDuration("RATE_WINDOW", d.Server.RateWindow),
			GzipLevel:     getEnvInt("GZIP_LEVEL", d.Server.GzipLevel),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", d.Log.Level),
			Pretty: getEnvBool("LOG_PRETTY", false),
		},
	}
}

// LoadFile reads a YAML configuration file on top of Default.
// ${VAR} references in the file are expanded from the environment.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultValue
}

// parseHeaders reads "Name=value,Name=value" pairs on top of defaults.
func parseHeaders(s string, defaults map[string]string) map[string]string {
	result := make(map[string]string, len(defaults))
	for k, v := range defaults {
		result[k] = v
	}
	for _, pair := range strings.Split(s, ",") {
		name, value, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			continue
		}
		result[name] = strings.TrimSpace(value)
	}
	return result
}

// parseCachePools reads "name=substring,..." rules in order.
func parseCachePools(s string) []CachePool {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]CachePool, 0, len(parts))
	for _, p := range parts {
		name, contains, ok := strings.Cut(p, "=")
		name, contains = strings.TrimSpace(name), strings.TrimSpace(contains)
		if !ok || name == "" || contains == "" {
			continue
		}
		result = append(result, CachePool{Name: name, Contains: contains})
	}
	return result
}

func parseCORSOrigins(s string) []string {
	// Default origins for local development
	defaults := []string{
		"http://localhost:3000",
		"http://127.0.0.1:3000",
	}
	if s == "" {
		return defaults
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts)+len(defaults))
	result = append(result, defaults...)
	for _, p := range parts {
		if origin := strings.TrimSpace(p); origin != "" {
			result = append(result, origin)
		}
	}
	return result
}
