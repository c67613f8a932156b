package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	DefaultAPIVersion     = "2025-07"
	DefaultPageSize       = 50
	DefaultExportSchedule = "@every 1h"
)

// AppConfig holds global application configuration
var AppConfig *Config
var once sync.Once

type Config struct {
	AppName  string
	Env      string
	Debug    bool
	LogLevel string
	// LogFormat is "console" or "json".
	LogFormat string

	APIVersion string
	// Endpoint overrides the per-store GraphQL URL, e.g. to point at the mock Admin API.
	Endpoint    string
	HTTPTimeout time.Duration
	PageSize    int

	MediaLimit          int
	VariantLimit        int
	InventoryLevelLimit int
	MetafieldLimit      int

	ExportDSN string
	GormLog   string

	RedisAddr   string
	RedisPass   string
	RedisDB     int
	RedisPrefix string

	ElasticsearchHost        string
	ElasticsearchIndexPrefix string

	ExportSchedule string

	// Warnings lists env values that were rejected in favour of a default.
	Warnings []string
}

// LoadAppConfig initializes the global AppConfig variable
func LoadAppConfig() {
	once.Do(func() {
		AppConfig = FromEnv()
	})
}

// FromEnv builds a Config from the process environment.
func FromEnv() *Config {
	e := &envReader{}
	cfg := &Config{
		AppName:   e.str("APP_NAME", "shopify.GO"),
		Env:       e.str("APP_ENV", "development"),
		Debug:     e.boolean("DEBUG", false),
		LogLevel:  e.str("LOG_LEVEL", "info"),
		LogFormat: e.str("LOG_FORMAT", "console"),

		APIVersion:  e.str("SHOPIFY_API_VERSION", DefaultAPIVersion),
		Endpoint:    e.str("SHOPIFY_ADMIN_ENDPOINT", ""),
		HTTPTimeout: e.duration("SHOPIFY_HTTP_TIMEOUT", 0),
		PageSize:    e.integer("SHOPIFY_PAGE_SIZE", DefaultPageSize),

		MediaLimit:          e.integer("SHOPIFY_MEDIA_LIMIT", 10),
		VariantLimit:        e.integer("SHOPIFY_VARIANT_LIMIT", 20),
		InventoryLevelLimit: e.integer("SHOPIFY_INVENTORY_LEVEL_LIMIT", 5),
		MetafieldLimit:      e.integer("SHOPIFY_METAFIELD_LIMIT", 20),

		ExportDSN: e.str("EXPORT_DSN", "shopify_export.db"),
		GormLog:   e.str("GORM_LOG", "off"),

		RedisAddr:   e.str("REDIS_ADDR", ""),
		RedisPass:   e.str("REDIS_PASS", ""),
		RedisDB:     e.integer("REDIS_DB", 0),
		RedisPrefix: e.str("REDIS_PREFIX", "shopify"),

		ElasticsearchHost:        e.str("ELASTICSEARCH_HOST", ""),
		ElasticsearchIndexPrefix: e.str("ELASTICSEARCH_INDEX_PREFIX", "shopify"),

		ExportSchedule: e.str("EXPORT_SCHEDULE", DefaultExportSchedule),
	}
	if cfg.Debug && os.Getenv("LOG_LEVEL") == "" {
		cfg.LogLevel = "debug"
	}
	cfg.Warnings = e.warnings
	return cfg
}

type envReader struct {
	warnings []string
}

func (e *envReader) str(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func (e *envReader) boolean(key string, fallback bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		e.warn(key, value, fallback)
		return fallback
	}
	return parsed
}

func (e *envReader) integer(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 0 {
		e.warn(key, value, fallback)
		return fallback
	}
	return parsed
}

// duration accepts Go durations ("30s") or a bare number of seconds.
func (e *envReader) duration(key string, fallback time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	if secs, err := strconv.Atoi(value); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	parsed, err := time.ParseDuration(value)
	if err != nil || parsed < 0 {
		e.warn(key, value, fallback)
		return fallback
	}
	return parsed
}

func (e *envReader) warn(key, value string, fallback interface{}) {
	e.warnings = append(e.warnings, fmt.Sprintf("%s=%q is invalid, using %v", key, value, fallback))
}
