package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration. Every secret is sourced from
// the environment; nothing is compiled in.
type Config struct {
	App       AppConfig
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Webflow   WebflowConfig
	OfficeRnd OfficeRndConfig
	Klaviyo   KlaviyoConfig
	Cron      CronConfig
	Sync      SyncConfig
	RateLimit RateLimitConfig
	OTel      OTelConfig
}

// AppConfig holds application-level settings
type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Debug       bool
	Version     string
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// Addr returns the listen address
func (s *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig holds the optional PostgreSQL correlation store settings.
// The store is disabled by default; the CMS back-reference field is then the
// only correlation mechanism.
type DatabaseConfig struct {
	Enabled         bool
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

// DSN returns the PostgreSQL connection string
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// RedisConfig holds optional Redis settings used for distributed webhook
// rate limiting
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// Addr returns the Redis address
func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// WebflowConfig holds CMS API settings
type WebflowConfig struct {
	BaseURL      string
	AccessToken  string
	CollectionID string
	SiteID       string
	Timeout      time.Duration
}

// OfficeRndConfig holds coworking platform API settings
type OfficeRndConfig struct {
	AuthURL      string
	BaseURL      string
	ClientID     string
	ClientSecret string
	OrgSlug      string
	// OfficeID is the office/location the synced calendar events belong to
	OfficeID string
	// Scopes vary by API generation: "officernd.api.read officernd.api.write"
	// for the legacy API, "flex.collaboration.events.create ..." for v2
	Scopes  string
	Timeout time.Duration
}

// KlaviyoConfig holds marketing platform API settings
type KlaviyoConfig struct {
	BaseURL  string
	APIKey   string
	ListID   string
	Revision string
	Timeout  time.Duration
}

// CronConfig holds the scheduled-trigger shared secret
type CronConfig struct {
	Secret string
}

// SyncConfig holds event sync policy defaults. The month-window DST
// heuristic and the fallback event duration are policy choices, kept
// configurable rather than baked in.
type SyncConfig struct {
	// DefaultDuration is applied when a source event has no end date/time
	DefaultDuration time.Duration
	// DSTStartMonth..DSTEndMonth (inclusive) is the naive daylight-saving
	// window applied when no explicit timezone is supplied
	DSTStartMonth  int
	DSTEndMonth    int
	DSTOffsetHours int
	StdOffsetHours int
}

// RateLimitConfig holds webhook rate limiting settings
type RateLimitConfig struct {
	Enabled           bool
	RequestsPerSecond int
	BurstSize         int
	UseRedis          bool
}

// OTelConfig holds OpenTelemetry settings
type OTelConfig struct {
	Enabled       bool
	ServiceName   string
	CollectorAddr string
	SampleRatio   float64
}

// Load loads configuration from environment variables and an optional .env file
func Load() (*Config, error) {
	return loadFrom(".env", true)
}

// LoadWithPath loads configuration from a specific file
func LoadWithPath(path string) (*Config, error) {
	return loadFrom(path, false)
}

func loadFrom(path string, optional bool) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(path)
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil && !optional {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	cfg := bindConfig(v)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("APP_NAME", "join-gradient")
	v.SetDefault("APP_ENVIRONMENT", "development")
	v.SetDefault("APP_DEBUG", true)
	v.SetDefault("APP_VERSION", "1.0.0")

	// Server defaults
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 3000)
	v.SetDefault("SERVER_READ_TIMEOUT", "30s")
	v.SetDefault("SERVER_WRITE_TIMEOUT", "30s")
	v.SetDefault("SERVER_IDLE_TIMEOUT", "120s")

	// Database defaults (correlation store is opt-in)
	v.SetDefault("DATABASE_ENABLED", false)
	v.SetDefault("DATABASE_HOST", "localhost")
	v.SetDefault("DATABASE_PORT", 5432)
	v.SetDefault("DATABASE_USER", "postgres")
	v.SetDefault("DATABASE_PASSWORD", "postgres")
	v.SetDefault("DATABASE_DBNAME", "join_gradient")
	v.SetDefault("DATABASE_SSLMODE", "disable")
	v.SetDefault("DATABASE_MAX_OPEN_CONNS", 10)
	v.SetDefault("DATABASE_CONN_MAX_LIFETIME", "1h")

	// Redis defaults
	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	// Webflow defaults
	v.SetDefault("WEBFLOW_BASE_URL", "https://api.webflow.com/v2")
	v.SetDefault("WEBFLOW_ACCESS_TOKEN", "")
	v.SetDefault("WEBFLOW_COLLECTION_ID", "")
	v.SetDefault("WEBFLOW_SITE_ID", "")
	v.SetDefault("WEBFLOW_TIMEOUT", "15s")

	// OfficeRnD defaults
	v.SetDefault("OFFICERND_AUTH_URL", "https://identity.officernd.com/oauth/token")
	v.SetDefault("OFFICERND_BASE_URL", "https://app.officernd.com/api/v1")
	v.SetDefault("OFFICERND_CLIENT_ID", "")
	v.SetDefault("OFFICERND_CLIENT_SECRET", "")
	v.SetDefault("OFFICERND_ORG_SLUG", "")
	v.SetDefault("OFFICERND_OFFICE_ID", "")
	v.SetDefault("OFFICERND_SCOPES", "officernd.api.read officernd.api.write")
	v.SetDefault("OFFICERND_TIMEOUT", "15s")

	// Klaviyo defaults
	v.SetDefault("KLAVIYO_BASE_URL", "https://a.klaviyo.com")
	v.SetDefault("KLAVIYO_PRIVATE_API_KEY", "")
	v.SetDefault("KLAVIYO_LIST_ID", "")
	v.SetDefault("KLAVIYO_REVISION", "2025-04-15")
	v.SetDefault("KLAVIYO_TIMEOUT", "15s")

	// Cron defaults
	v.SetDefault("CRON_SECRET", "")

	// Sync policy defaults
	v.SetDefault("SYNC_DEFAULT_DURATION", "2h")
	v.SetDefault("SYNC_DST_START_MONTH", 3)
	v.SetDefault("SYNC_DST_END_MONTH", 11)
	v.SetDefault("SYNC_DST_OFFSET_HOURS", 5)
	v.SetDefault("SYNC_STD_OFFSET_HOURS", 6)

	// Rate limit defaults
	v.SetDefault("RATELIMIT_ENABLED", true)
	v.SetDefault("RATELIMIT_REQUESTS_PER_SECOND", 50)
	v.SetDefault("RATELIMIT_BURST_SIZE", 20)
	v.SetDefault("RATELIMIT_USE_REDIS", false)

	// OTel defaults
	v.SetDefault("OTEL_ENABLED", false)
	v.SetDefault("OTEL_SERVICE_NAME", "join-gradient")
	v.SetDefault("OTEL_COLLECTOR_ADDR", "localhost:4317")
	v.SetDefault("OTEL_SAMPLE_RATIO", 1.0)
}

func bindConfig(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.App.Name = v.GetString("APP_NAME")
	cfg.App.Environment = v.GetString("APP_ENVIRONMENT")
	cfg.App.Debug = v.GetBool("APP_DEBUG")
	cfg.App.Version = v.GetString("APP_VERSION")

	cfg.Server.Host = v.GetString("SERVER_HOST")
	cfg.Server.Port = v.GetInt("SERVER_PORT")
	cfg.Server.ReadTimeout = v.GetDuration("SERVER_READ_TIMEOUT")
	cfg.Server.WriteTimeout = v.GetDuration("SERVER_WRITE_TIMEOUT")
	cfg.Server.IdleTimeout = v.GetDuration("SERVER_IDLE_TIMEOUT")

	cfg.Database.Enabled = v.GetBool("DATABASE_ENABLED")
	cfg.Database.Host = v.GetString("DATABASE_HOST")
	cfg.Database.Port = v.GetInt("DATABASE_PORT")
	cfg.Database.User = v.GetString("DATABASE_USER")
	cfg.Database.Password = v.GetString("DATABASE_PASSWORD")
	cfg.Database.DBName = v.GetString("DATABASE_DBNAME")
	cfg.Database.SSLMode = v.GetString("DATABASE_SSLMODE")
	cfg.Database.MaxOpenConns = v.GetInt("DATABASE_MAX_OPEN_CONNS")
	cfg.Database.ConnMaxLifetime = v.GetDuration("DATABASE_CONN_MAX_LIFETIME")

	cfg.Redis.Enabled = v.GetBool("REDIS_ENABLED")
	cfg.Redis.Host = v.GetString("REDIS_HOST")
	cfg.Redis.Port = v.GetInt("REDIS_PORT")
	cfg.Redis.Password = v.GetString("REDIS_PASSWORD")
	cfg.Redis.DB = v.GetInt("REDIS_DB")

	cfg.Webflow.BaseURL = v.GetString("WEBFLOW_BASE_URL")
	cfg.Webflow.AccessToken = v.GetString("WEBFLOW_ACCESS_TOKEN")
	cfg.Webflow.CollectionID = v.GetString("WEBFLOW_COLLECTION_ID")
	cfg.Webflow.SiteID = v.GetString("WEBFLOW_SITE_ID")
	cfg.Webflow.Timeout = v.GetDuration("WEBFLOW_TIMEOUT")

	cfg.OfficeRnd.AuthURL = v.GetString("OFFICERND_AUTH_URL")
	cfg.OfficeRnd.BaseURL = v.GetString("OFFICERND_BASE_URL")
	cfg.OfficeRnd.ClientID = v.GetString("OFFICERND_CLIENT_ID")
	cfg.OfficeRnd.ClientSecret = v.GetString("OFFICERND_CLIENT_SECRET")
	cfg.OfficeRnd.OrgSlug = v.GetString("OFFICERND_ORG_SLUG")
	cfg.OfficeRnd.OfficeID = v.GetString("OFFICERND_OFFICE_ID")
	cfg.OfficeRnd.Scopes = v.GetString("OFFICERND_SCOPES")
	cfg.OfficeRnd.Timeout = v.GetDuration("OFFICERND_TIMEOUT")

	cfg.Klaviyo.BaseURL = v.GetString("KLAVIYO_BASE_URL")
	cfg.Klaviyo.APIKey = v.GetString("KLAVIYO_PRIVATE_API_KEY")
	cfg.Klaviyo.ListID = v.GetString("KLAVIYO_LIST_ID")
	cfg.Klaviyo.Revision = v.GetString("KLAVIYO_REVISION")
	cfg.Klaviyo.Timeout = v.GetDuration("KLAVIYO_TIMEOUT")

	cfg.Cron.Secret = v.GetString("CRON_SECRET")

	cfg.Sync.DefaultDuration = v.GetDuration("SYNC_DEFAULT_DURATION")
	cfg.Sync.DSTStartMonth = v.GetInt("SYNC_DST_START_MONTH")
	cfg.Sync.DSTEndMonth = v.GetInt("SYNC_DST_END_MONTH")
	cfg.Sync.DSTOffsetHours = v.GetInt("SYNC_DST_OFFSET_HOURS")
	cfg.Sync.StdOffsetHours = v.GetInt("SYNC_STD_OFFSET_HOURS")

	cfg.RateLimit.Enabled = v.GetBool("RATELIMIT_ENABLED")
	cfg.RateLimit.RequestsPerSecond = v.GetInt("RATELIMIT_REQUESTS_PER_SECOND")
	cfg.RateLimit.BurstSize = v.GetInt("RATELIMIT_BURST_SIZE")
	cfg.RateLimit.UseRedis = v.GetBool("RATELIMIT_USE_REDIS")

	cfg.OTel.Enabled = v.GetBool("OTEL_ENABLED")
	cfg.OTel.ServiceName = v.GetString("OTEL_SERVICE_NAME")
	cfg.OTel.CollectorAddr = v.GetString("OTEL_COLLECTOR_ADDR")
	cfg.OTel.SampleRatio = v.GetFloat64("OTEL_SAMPLE_RATIO")

	return cfg
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app name is required")
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Webflow.AccessToken == "" {
		return fmt.Errorf("WEBFLOW_ACCESS_TOKEN is required")
	}
	if c.Webflow.CollectionID == "" {
		return fmt.Errorf("WEBFLOW_COLLECTION_ID is required")
	}

	if c.Klaviyo.APIKey == "" {
		return fmt.Errorf("KLAVIYO_PRIVATE_API_KEY is required")
	}
	if c.Klaviyo.ListID == "" {
		return fmt.Errorf("KLAVIYO_LIST_ID is required")
	}

	if c.Cron.Secret == "" {
		return fmt.Errorf("CRON_SECRET is required")
	}

	if c.Database.Enabled && c.Database.DBName == "" {
		return fmt.Errorf("database name is required when the correlation store is enabled")
	}

	if c.Sync.DSTStartMonth < 1 || c.Sync.DSTStartMonth > 12 ||
		c.Sync.DSTEndMonth < 1 || c.Sync.DSTEndMonth > 12 {
		return fmt.Errorf("DST window months must be in [1, 12]")
	}

	return nil
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}
