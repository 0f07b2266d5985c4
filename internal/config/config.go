package config

import (
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Reports   ReportsConfig   `yaml:"reports"`
	Generator GeneratorConfig `yaml:"generator"`
	Render    RenderConfig    `yaml:"render"`
	Storage   StorageConfig   `yaml:"storage"`
	Log       LogConfig       `yaml:"log"`
	CORS      CORSConfig      `yaml:"cors"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"60s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// AuthConfig holds bearer-token validation settings. Tokens are issued by
// the main Lumen auth service; this subsystem only validates them.
type AuthConfig struct {
	JWTSecret      string        `yaml:"jwt_secret"       env:"AUTH_JWT_SECRET"       env-required:"true"`
	JWTIssuer      string        `yaml:"jwt_issuer"       env:"AUTH_JWT_ISSUER"       env-default:"lumen"`
	AccessTokenTTL time.Duration `yaml:"access_token_ttl" env:"AUTH_ACCESS_TOKEN_TTL" env-default:"15m"`
}

// ReportsConfig holds report lifecycle settings.
type ReportsConfig struct {
	// BatchSize is the number of users processed concurrently per scheduler
	// batch; batches run sequentially to bound downstream load.
	BatchSize int `yaml:"batch_size" env:"REPORTS_BATCH_SIZE" env-default:"5"`

	// StuckThreshold is how long a report may sit in generating before the
	// reaper treats the attempt as dead.
	StuckThreshold time.Duration `yaml:"stuck_threshold" env:"REPORTS_STUCK_THRESHOLD" env-default:"30m"`

	// StuckSweepLimit caps how many stuck reports one reaper sweep handles.
	StuckSweepLimit int `yaml:"stuck_sweep_limit" env:"REPORTS_STUCK_SWEEP_LIMIT" env-default:"500"`

	// SchedulerTimeout bounds one scheduler invocation end to end. Work
	// abandoned at the deadline is recovered by the reaper.
	SchedulerTimeout time.Duration `yaml:"scheduler_timeout" env:"REPORTS_SCHEDULER_TIMEOUT" env-default:"10m"`

	// ReaperTimeout bounds one reaper sweep.
	ReaperTimeout time.Duration `yaml:"reaper_timeout" env:"REPORTS_REAPER_TIMEOUT" env-default:"5m"`
}

// GeneratorConfig holds settings for the report-content generator service.
type GeneratorConfig struct {
	BaseURL string        `yaml:"base_url" env:"GENERATOR_BASE_URL" env-required:"true"`
	Timeout time.Duration `yaml:"timeout"  env:"GENERATOR_TIMEOUT"  env-default:"30s"`
}

// RenderConfig holds settings for the PDF rendering service.
type RenderConfig struct {
	BaseURL string        `yaml:"base_url" env:"RENDER_BASE_URL" env-required:"true"`
	Timeout time.Duration `yaml:"timeout"  env:"RENDER_TIMEOUT"  env-default:"60s"`
}

// StorageConfig holds object-storage settings for exported artifacts.
type StorageConfig struct {
	Bucket string `yaml:"bucket" env:"STORAGE_BUCKET" env-required:"true"`

	// SignedURLTTL is how long an export download link stays valid.
	SignedURLTTL time.Duration `yaml:"signed_url_ttl" env:"STORAGE_SIGNED_URL_TTL" env-default:"24h"`

	// CredentialsJSON optionally carries an explicit service-account key;
	// empty means Application Default Credentials.
	CredentialsJSON string `yaml:"credentials_json" env:"STORAGE_CREDENTIALS_JSON"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"true"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}
