package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Log       LogConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Storage   StorageConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Redis     RedisConfig
	Cleanup   CleanupConfig
	Delivery  DeliveryConfig
	Printer   PrinterConfig
	Admin     AdminConfig
}

type AppConfig struct {
	Name  string
	Env   string
	Port  string
	Debug bool
}

// IsProduction reports whether the service runs with production settings
func (a AppConfig) IsProduction() bool {
	return a.Env == "production"
}

type LogConfig struct {
	Level  string
	Pretty bool
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	Timezone string
}

type JWTConfig struct {
	Secret      string
	ExpiryHours time.Duration
}

type StorageConfig struct {
	Path string
	// PublicURL prefixes stored file URLs. A path such as /files is served by
	// this API; an absolute URL points at an external server.
	PublicURL     string
	UploadMaxSize int64
}

// ServedPath is the route prefix that serves stored files, or "" when files
// are served elsewhere.
func (c *StorageConfig) ServedPath() string {
	if strings.HasPrefix(c.PublicURL, "/") {
		return c.PublicURL
	}
	return ""
}

func (c *StorageConfig) validate() error {
	switch {
	case c.PublicURL == "":
		return errors.New("STORAGE_PUBLIC_URL must be a path such as /files or an absolute URL")
	case strings.HasPrefix(c.PublicURL, "/"):
		first := strings.SplitN(strings.TrimPrefix(c.PublicURL, "/"), "/", 2)[0]
		if reservedPrefixes[first] || strings.ContainsAny(c.PublicURL, ":*") {
			return fmt.Errorf("STORAGE_PUBLIC_URL %q collides with an API route", c.PublicURL)
		}
	case !strings.HasPrefix(c.PublicURL, "http://") && !strings.HasPrefix(c.PublicURL, "https://"):
		return fmt.Errorf("STORAGE_PUBLIC_URL %q must start with / or http(s)://", c.PublicURL)
	}
	return nil
}

var reservedPrefixes = map[string]bool{"api": true, "health": true, "ws": true, "swagger": true}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	StatsTTL time.Duration
}

// Enabled reports whether a Redis address was configured
func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}

type CleanupConfig struct {
	RetentionDays int
	Interval      time.Duration
	Token         string
}

type DeliveryConfig struct {
	// CompletionMode is "aggregate" or "strict"
	CompletionMode string
}

type PrinterConfig struct {
	Type    string
	USBPath string
	Address string
	// PaperWidth is the number of characters per line
	PaperWidth int
}

type AdminConfig struct {
	Email    string
	Password string
	Name     string
}

// Load reads configuration from an optional .env file and the environment.
func Load() (*Config, error) {
	return LoadFrom(".env")
}

// LoadFrom is Load with an explicit env file path; a missing file is not an error.
func LoadFrom(envFile string) (*Config, error) {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		App: AppConfig{
			Name:  v.GetString("APP_NAME"),
			Env:   v.GetString("APP_ENV"),
			Port:  v.GetString("APP_PORT"),
			Debug: v.GetBool("APP_DEBUG"),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Pretty: v.GetBool("LOG_PRETTY"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			Name:     v.GetString("DB_NAME"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			SSLMode:  v.GetString("DB_SSL_MODE"),
			Timezone: v.GetString("DB_TIMEZONE"),
		},
		JWT: JWTConfig{
			Secret:      v.GetString("JWT_SECRET"),
			ExpiryHours: time.Duration(v.GetInt("JWT_EXPIRY_HOURS")) * time.Hour,
		},
		Storage: StorageConfig{
			Path:          v.GetString("STORAGE_PATH"),
			PublicURL:     strings.TrimRight(v.GetString("STORAGE_PUBLIC_URL"), "/"),
			UploadMaxSize: v.GetInt64("UPLOAD_MAX_SIZE"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
			AllowedMethods: splitList(v.GetString("CORS_ALLOWED_METHODS")),
			AllowedHeaders: splitList(v.GetString("CORS_ALLOWED_HEADERS")),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: v.GetFloat64("RATE_LIMIT_RPS"),
			Burst:             v.GetInt("RATE_LIMIT_BURST"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
			StatsTTL: time.Duration(v.GetInt("CACHE_STATS_TTL")) * time.Second,
		},
		Cleanup: CleanupConfig{
			RetentionDays: v.GetInt("CLEANUP_RETENTION_DAYS"),
			Interval:      time.Duration(v.GetInt("CLEANUP_INTERVAL_HOURS")) * time.Hour,
			Token:         v.GetString("CLEANUP_TOKEN"),
		},
		Delivery: DeliveryConfig{
			CompletionMode: strings.ToLower(v.GetString("DELIVERY_COMPLETION_MODE")),
		},
		Printer: PrinterConfig{
			Type:       v.GetString("PRINTER_TYPE"),
			USBPath:    v.GetString("PRINTER_USB_PATH"),
			Address:    v.GetString("PRINTER_ADDRESS"),
			PaperWidth: v.GetInt("PRINTER_PAPER_WIDTH"),
		},
		Admin: AdminConfig{
			Email:    v.GetString("ADMIN_EMAIL"),
			Password: v.GetString("ADMIN_PASSWORD"),
			Name:     v.GetString("ADMIN_NAME"),
		},
	}

	if err := cfg.Storage.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_NAME", "posdelivery-api")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("APP_DEBUG", true)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_PRETTY", false)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "posdelivery")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_TIMEZONE", "UTC")
	v.SetDefault("JWT_SECRET", "change-this-secret-in-production")
	v.SetDefault("JWT_EXPIRY_HOURS", 24)
	v.SetDefault("STORAGE_PATH", "./storage")
	v.SetDefault("STORAGE_PUBLIC_URL", "/files")
	v.SetDefault("UPLOAD_MAX_SIZE", 10485760)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("RATE_LIMIT_RPS", 10)
	v.SetDefault("RATE_LIMIT_BURST", 20)
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_STATS_TTL", 60)
	v.SetDefault("CLEANUP_RETENTION_DAYS", 14)
	v.SetDefault("CLEANUP_INTERVAL_HOURS", 24)
	v.SetDefault("DELIVERY_COMPLETION_MODE", "aggregate")
	v.SetDefault("PRINTER_TYPE", "none")
	v.SetDefault("PRINTER_PAPER_WIDTH", 32)
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.Timezone
}
