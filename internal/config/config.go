package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Port            string        `json:"port" validate:"required,numeric"`
	Env             string        `json:"env" validate:"oneof=development production test"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout"`
	HTTPTimeout     time.Duration `json:"http_timeout"`

	// Site
	SiteURL         string `json:"site_url" validate:"omitempty,url"`
	SiteName        string `json:"site_name" validate:"required"`
	DefaultLanguage string `json:"default_language" validate:"oneof=en bn"`

	// Content API
	APIBaseURL    string        `json:"api_base_url" validate:"required,url"`
	UploadBaseURL string        `json:"upload_base_url" validate:"omitempty,url"`
	APITimeout    time.Duration `json:"api_timeout"`
	APIRetryCount int           `json:"api_retry_count" validate:"min=0,max=5"`

	// Query cache
	RedisURL       string        `json:"redis_url"`
	RedisPrefix    string        `json:"redis_prefix"`
	CacheStaleTime time.Duration `json:"cache_stale_time"`
	CacheTTL       time.Duration `json:"cache_ttl" validate:"gtefield=CacheStaleTime"`
	RenderBudget   time.Duration `json:"render_budget"`

	// CloudFlare R2 Configuration
	R2Endpoint  string `json:"r2_endpoint" validate:"omitempty,url"`
	R2AccessKey string `json:"r2_access_key" validate:"required_with=R2Endpoint"`
	R2SecretKey string `json:"r2_secret_key" validate:"required_with=R2Endpoint"`
	R2Bucket    string `json:"r2_bucket"`
	R2PublicURL string `json:"r2_public_url" validate:"omitempty,url"`
	MaxFileSize int64  `json:"max_file_size" validate:"min=0"`

	// Logging
	LogLevel  string `json:"log_level"`
	LogFile   string `json:"log_file"`
	LogPretty bool   `json:"log_pretty"`

	// Security
	AdminAPIKey  string `json:"admin_api_key"`
	CookieSecret string `json:"-"`
	CookieSecure bool   `json:"cookie_secure"`
}

// Load reads configuration from environment variables, after an optional
// .env file, and validates it.
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	env := getEnv("APP_ENV", "development")
	cfg := &Config{
		// Server configuration
		Port:            getEnv("PORT", "8080"),
		Env:             env,
		ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		HTTPTimeout:     getEnvAsDuration("HTTP_TIMEOUT", 30*time.Second),

		SiteURL:         strings.TrimRight(getEnv("SITE_URL", ""), "/"),
		SiteName:        getEnv("SITE_NAME", "News Portal"),
		DefaultLanguage: strings.ToLower(getEnv("DEFAULT_LANGUAGE", "en")),

		APIBaseURL:    strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:5000/api/v1"), "/"),
		UploadBaseURL: strings.TrimRight(getEnv("UPLOAD_BASE_URL", ""), "/"),
		APITimeout:    getEnvAsDuration("API_TIMEOUT", 15*time.Second),
		APIRetryCount: getEnvAsInt("API_RETRY_COUNT", 1),

		// Redis is optional; without it the cache lives in process memory.
		RedisURL:       getEnv("REDIS_URL", ""),
		RedisPrefix:    getEnv("REDIS_PREFIX", "newsportal:"),
		CacheStaleTime: getEnvAsDuration("CACHE_STALE_TIME", time.Minute),
		CacheTTL:       getEnvAsDuration("CACHE_TTL", 10*time.Minute),
		RenderBudget:   getEnvAsDuration("RENDER_BUDGET", 2*time.Second),

		// CloudFlare R2 Configuration
		R2Endpoint:  getEnv("R2_ENDPOINT", ""),
		R2AccessKey: getEnv("R2_ACCESS_KEY", ""),
		R2SecretKey: getEnv("R2_SECRET_ACCESS_KEY", ""),
		R2Bucket:    getEnv("R2_BUCKET", "newsapi"),
		R2PublicURL: strings.TrimRight(getEnv("R2_PUBLIC_URL", ""), "/"),
		MaxFileSize: getEnvAsInt64("MAX_UPLOAD_SIZE", 10<<20), // 10MB

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFile:   getEnv("LOG_FILE", ""),
		LogPretty: getEnvAsBool("LOG_PRETTY", env == "development"),

		// Security
		AdminAPIKey:  getEnv("ADMIN_API_KEY", ""),
		CookieSecret: getEnv("COOKIE_SECRET", ""),
		CookieSecure: getEnvAsBool("COOKIE_SECURE", env == "production"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.IsProduction() && c.CookieSecret == "" {
		return fmt.Errorf("invalid configuration: COOKIE_SECRET is required in production")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// MediaBaseURL is the origin relative media paths resolve against: the
// upload origin when set, otherwise the API origin.
func (c *Config) MediaBaseURL() string {
	if c.UploadBaseURL != "" {
		return c.UploadBaseURL
	}
	return c.APIBaseURL
}

// BucketEnabled reports whether uploads go straight to the R2 bucket.
func (c *Config) BucketEnabled() bool {
	return c.R2Endpoint != "" && c.R2AccessKey != "" && c.R2SecretKey != ""
}

// Helper functions for environment variable handling
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(name string, defaultVal int) int {
	valueStr := getEnv(name, "")
	if valueStr == "" {
		return defaultVal
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Invalid %s value: %v, using default: %d", name, err, defaultVal)
		return defaultVal
	}
	return value
}

func getEnvAsInt64(name string, defaultVal int64) int64 {
	valueStr := getEnv(name, "")
	if valueStr == "" {
		return defaultVal
	}
	value, err := strconv.ParseInt(valueStr, 10, 64)
	if err != nil {
		log.Printf("Invalid %s value: %v, using default: %d", name, err, defaultVal)
		return defaultVal
	}
	return value
}

func getEnvAsBool(name string, defaultVal bool) bool {
	valueStr := getEnv(name, "")
	if valueStr == "" {
		return defaultVal
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Invalid %s value: %v, using default: %t", name, err, defaultVal)
		return defaultVal
	}
	return value
}

func getEnvAsDuration(name string, defaultVal time.Duration) time.Duration {
	valueStr := getEnv(name, "")
	if valueStr == "" {
		return defaultVal
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Invalid %s value: %v, using default: %v", name, err, defaultVal)
		return defaultVal
	}
	return value
}
