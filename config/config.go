package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

type Config struct {
	Server    ServerConfig
	Storage   StorageConfig
	Session   SessionConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Host         string
	Port         int
	ViewsDir     string
	StaticDir    string
	LogFile      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type StorageConfig struct {
	// DataDir holds the three bucket documents (users, favorites, listings)
	DataDir string
}

type SessionConfig struct {
	TTL        time.Duration
	CookieName string
}

type RedisConfig struct {
	// Enabled turns on the optional session mirror and Redis-backed
	// rate-limiter storage. Off by default; the app is fully local without it.
	Enabled  bool
	Address  string
	Username string
	Password string
	DB       int
}

type RateLimitConfig struct {
	Capacity     int64
	RefillRate   int64
	RefillPeriod time.Duration
}

// getProjectRoot finds the project root by looking for go.mod
func getProjectRoot() (string, error) {
	if projectRoot := os.Getenv("PROJECT_ROOT"); projectRoot != "" {
		return projectRoot, nil
	}

	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("could not find project root (no go.mod found)")
		}
		dir = parent
	}
}

// resolvePath resolves a path relative to the project root if it's not absolute
func resolvePath(path string) (string, error) {
	if filepath.IsAbs(path) {
		return path, nil
	}

	projectRoot, err := getProjectRoot()
	if err != nil {
		return "", err
	}

	return filepath.Join(projectRoot, path), nil
}

func Load() (*Config, error) {
	viewsDir, err := resolvePath(getEnv("VIEWS_DIR", "./server/views"))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve views directory: %w", err)
	}

	staticDir, err := resolvePath(getEnv("STATIC_DIR", "./static"))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve static directory: %w", err)
	}

	logFile, err := resolvePath(getEnv("LOG_FILE", "./log/server.log"))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve log file: %w", err)
	}

	dataDir, err := resolvePath(getEnv("DATA_DIR", "./data"))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:         getEnv("SERVER_HOST", "0.0.0.0"),
			Port:         getEnvAsInt("SERVER_PORT", 8000),
			ViewsDir:     viewsDir,
			StaticDir:    staticDir,
			LogFile:      logFile,
			ReadTimeout:  getEnvAsDuration("READ_TIMEOUT", 1*time.Minute),
			WriteTimeout: getEnvAsDuration("WRITE_TIMEOUT", 1*time.Minute),
		},
		Storage: StorageConfig{
			DataDir: dataDir,
		},
		Session: SessionConfig{
			TTL:        getEnvAsDuration("SESSION_TTL", 24*time.Hour),
			CookieName: getEnv("SESSION_COOKIE_NAME", "session_id"),
		},
		Redis: RedisConfig{
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
			Address:  getEnv("REDIS_ADDR", "localhost:6379"),
			Username: getEnv("REDIS_USERNAME", "default"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		RateLimit: RateLimitConfig{
			Capacity:     getEnvAsInt64("RATE_LIMIT_CAPACITY", 200),
			RefillRate:   getEnvAsInt64("RATE_LIMIT_REFILL", 10),
			RefillPeriod: getEnvAsDuration("RATE_LIMIT_PERIOD", time.Second),
		},
	}

	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	var errors []string

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid server port: %d (must be 1-65535)", c.Server.Port))
	}
	if c.Server.ViewsDir == "" {
		errors = append(errors, "views directory (VIEWS_DIR) is required")
	}
	if c.Storage.DataDir == "" {
		errors = append(errors, "data directory (DATA_DIR) is required")
	}

	if c.Session.TTL <= 0 {
		errors = append(errors, "session TTL must be > 0")
	}
	if c.Session.CookieName == "" {
		errors = append(errors, "session cookie name (SESSION_COOKIE_NAME) is required")
	}

	if c.Redis.Enabled {
		if c.Redis.Address == "" {
			errors = append(errors, "redis address (REDIS_ADDR) is required when REDIS_ENABLED=true")
		}
		if c.Redis.Username == "" {
			errors = append(errors, "redis username (REDIS_USERNAME) is required when REDIS_ENABLED=true")
		}
	}

	if c.RateLimit.Capacity <= 0 {
		errors = append(errors, "rate limit capacity must be > 0")
	}
	if c.RateLimit.RefillRate <= 0 {
		errors = append(errors, "rate limit refill rate must be > 0")
	}
	if c.RateLimit.RefillPeriod <= 0 {
		errors = append(errors, "rate limit refill period must be > 0")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", joinErrors(errors))
	}

	return nil
}

func joinErrors(errors []string) string {
	result := ""
	for i, err := range errors {
		if i > 0 {
			result += "\n  - "
		}
		result += err
	}
	return result
}

func (c *Config) ServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// PrintSummary logs a summary of the loaded configuration
func (c *Config) PrintSummary() {
	fmt.Println("Configuration Summary:")
	fmt.Printf("  Server: %s\n", c.ServerAddress())
	fmt.Printf("  Data dir: %s\n", c.Storage.DataDir)
	fmt.Printf("  Session TTL: %s\n", c.Session.TTL)
	if c.Redis.Enabled {
		fmt.Printf("  Redis: %s (DB: %d)\n", c.Redis.Address, c.Redis.DB)
	} else {
		fmt.Println("  Redis: disabled")
	}
	fmt.Printf("  Rate Limit: %d requests/%s (capacity: %d)\n",
		c.RateLimit.RefillRate, c.RateLimit.RefillPeriod, c.RateLimit.Capacity)
}

// Helper functions to read environment variables with defaults

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	valStr := os.Getenv(key)
	if val, err := strconv.Atoi(valStr); err == nil {
		return val
	}
	return defaultVal
}

func getEnvAsInt64(key string, defaultVal int64) int64 {
	valStr := os.Getenv(key)
	if val, err := strconv.ParseInt(valStr, 10, 64); err == nil {
		return val
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	valStr := os.Getenv(key)
	if val, err := strconv.ParseBool(valStr); err == nil {
		return val
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	valStr := os.Getenv(key)
	if val, err := time.ParseDuration(valStr); err == nil {
		return val
	}
	return defaultVal
}
