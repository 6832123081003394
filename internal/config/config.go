package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database" validate:"required"`
	Directory DirectoryConfig `mapstructure:"directory" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port                   int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel               string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	LogFormat              string `mapstructure:"log_format" validate:"required,oneof=json text"`
	ShutdownTimeoutSeconds int    `mapstructure:"shutdown_timeout_seconds" validate:"gt=0"`
	MetricsEnabled         bool   `mapstructure:"metrics_enabled"`
	// IdentityHeader names the request header carrying the caller's user ID.
	IdentityHeader string `mapstructure:"identity_header" validate:"required"`
}

// DatabaseConfig selects and tunes the task store backend.
type DatabaseConfig struct {
	Driver string `mapstructure:"driver" validate:"required,oneof=memory sqlite postgres"`
	// URL is a postgres connection URL or a SQLite DSN; unused by the memory driver.
	URL                    string `mapstructure:"url" validate:"required_unless=Driver memory"`
	MaxOpenConns           int    `mapstructure:"max_open_conns" validate:"gte=0"`
	MaxIdleConns           int    `mapstructure:"max_idle_conns" validate:"gte=0"`
	ConnMaxLifetimeMinutes int    `mapstructure:"conn_max_lifetime_minutes" validate:"gte=0"`
	AutoMigrate            bool   `mapstructure:"auto_migrate"`
}

// DirectoryConfig selects the user directory backend and its circuit breaker settings.
type DirectoryConfig struct {
	Backend                 string `mapstructure:"backend" validate:"required,oneof=memory redis"`
	RedisURL                string `mapstructure:"redis_url" validate:"required_if=Backend redis"`
	BreakerFailureThreshold uint32 `mapstructure:"breaker_failure_threshold" validate:"gt=0"`
	BreakerTimeoutSeconds   int    `mapstructure:"breaker_timeout_seconds" validate:"gt=0"`
	LookupTimeoutMillis     int    `mapstructure:"lookup_timeout_ms" validate:"gt=0"`
}
