package config

import (
	"os"
	"time"
)

// Config holds runtime settings for the calldash CLI.
type Config struct {
	APIHost        string
	RequestTimeout time.Duration

	SessionBackend string
	SessionDSN     string
	RedisAddr      string
	RedisPrefix    string
	DeviceKeyPath  string

	LogLevel   string
	LogFormat  string
	LogBackend string
	LogFile    string

	ReportDir      string
	S3Bucket       string
	S3Region       string
	S3BaseEndpoint string
	S3AccessKey    string
	S3SecretKey    string
}

const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIHost = "https://api.callingdashboard.app"
	c.RequestTimeout = 30 * time.Second
	c.SessionBackend = BackendSQLite
	c.SessionDSN = "calldash.db"
	c.RedisAddr = "127.0.0.1:6379"
	c.RedisPrefix = "calldash:session:"
	c.DeviceKeyPath = ".calldash.key"
	c.LogLevel = "info"
	c.LogFormat = "text"
	c.LogBackend = "slog"
	c.S3Region = "us-east-1"
}

// LoadConfig constructs a Config from defaults, environment, an optional
// file and command-line flags. Later sources take precedence.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseFile(cfg)
	parseFlags(cfg)
	return cfg
}

// overlay copies src into *dst when src is non-empty.
func overlay(dst *string, src string) {
	if src != "" {
		*dst = src
	}
}

func lookupEnv(key string) string {
	v, _ := os.LookupEnv(key)
	return v
}
