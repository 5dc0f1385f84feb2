package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Records   Records   `mapstructure:"records"`
	Dashboard Dashboard `mapstructure:"dashboard"`
	Logger    Logger    `mapstructure:"logger"`
	Server    Server    `mapstructure:"server"`
	Database  Database  `mapstructure:"database"`
}

// Records holds the configuration for the trade records API.
type Records struct {
	BaseURL        string        `mapstructure:"base_url"`
	Timeout        time.Duration `mapstructure:"timeout"`
	HealthTimeout  time.Duration `mapstructure:"health_timeout"`
	MaxRetries     int           `mapstructure:"max_retries"`
	RetryDelay     time.Duration `mapstructure:"retry_delay"`
	RateLimit      float64       `mapstructure:"rate_limit"`
	RateLimitBurst int           `mapstructure:"rate_limit_burst"`
}

// Dashboard holds the polling and account defaults for the dashboard session.
type Dashboard struct {
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
	HistoryPerPage  int           `mapstructure:"history_per_page"`
	DefaultBalance  float64       `mapstructure:"default_balance"`
	// DefaultRiskPercent is a fraction, 0.01 = 1%.
	DefaultRiskPercent float64 `mapstructure:"default_risk_percent"`
}

// Server holds the configuration for the web server.
type Server struct {
	Port int `mapstructure:"port"`
}

// Database holds the configuration for the settings database.
type Database struct {
	DSN string `mapstructure:"dsn"`
}

// Logger holds the configuration for the logger.
type Logger struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// LoadConfig reads configuration from file or environment variables.
// A missing config file is not an error; defaults and the environment apply.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config") // name of config file (without extension)
	v.SetConfigType("yml")

	// Allow environment variables to override config file
	v.SetEnvPrefix("FOREXRADAR")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err = v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return
		}
	}

	err = v.Unmarshal(&config)
	return
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("records.base_url", "https://pb.brokersreview360.com")
	v.SetDefault("records.timeout", 45*time.Second)
	v.SetDefault("records.health_timeout", 10*time.Second)
	v.SetDefault("records.max_retries", 5)
	v.SetDefault("records.retry_delay", 1500*time.Millisecond)
	v.SetDefault("records.rate_limit", 5) // requests per second
	v.SetDefault("records.rate_limit_burst", 2)

	v.SetDefault("dashboard.refresh_interval", 30*time.Second)
	v.SetDefault("dashboard.history_per_page", 50)
	v.SetDefault("dashboard.default_balance", 1000.0)
	v.SetDefault("dashboard.default_risk_percent", 0.01)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("server.port", 8080)
	v.SetDefault("database.dsn", "forexradar.db")
}
