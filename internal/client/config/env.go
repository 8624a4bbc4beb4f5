package config

import (
	"errors"
	"io/fs"

	"github.com/dmitrijs2005/calldash/internal/timex"
	"github.com/joho/godotenv"
)

// envFile is loaded before the environment is read. Variables already set
// in the environment win over the file.
var envFile = ".env"

// parseEnv overlays Config with CALLDASH_* variables. Unset or empty
// variables leave the current value alone.
func parseEnv(cfg *Config) {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}

	overlay(&cfg.APIHost, lookupEnv("CALLDASH_API_HOST"))
	if v := lookupEnv("CALLDASH_REQUEST_TIMEOUT"); v != "" {
		d, err := timex.ParseDuration(v)
		if err != nil {
			panic(err)
		}
		cfg.RequestTimeout = d.Std()
	}

	overlay(&cfg.SessionBackend, lookupEnv("CALLDASH_SESSION_BACKEND"))
	overlay(&cfg.SessionDSN, lookupEnv("CALLDASH_SESSION_DSN"))
	overlay(&cfg.RedisAddr, lookupEnv("CALLDASH_REDIS_ADDR"))
	overlay(&cfg.RedisPrefix, lookupEnv("CALLDASH_REDIS_PREFIX"))
	overlay(&cfg.DeviceKeyPath, lookupEnv("CALLDASH_DEVICE_KEY"))

	overlay(&cfg.LogLevel, lookupEnv("CALLDASH_LOG_LEVEL"))
	overlay(&cfg.LogFormat, lookupEnv("CALLDASH_LOG_FORMAT"))
	overlay(&cfg.LogBackend, lookupEnv("CALLDASH_LOG_BACKEND"))
	overlay(&cfg.LogFile, lookupEnv("CALLDASH_LOG_FILE"))

	overlay(&cfg.ReportDir, lookupEnv("CALLDASH_REPORT_DIR"))
	overlay(&cfg.S3Bucket, lookupEnv("CALLDASH_S3_BUCKET"))
	overlay(&cfg.S3Region, lookupEnv("CALLDASH_S3_REGION"))
	overlay(&cfg.S3BaseEndpoint, lookupEnv("CALLDASH_S3_ENDPOINT"))
	overlay(&cfg.S3AccessKey, lookupEnv("CALLDASH_S3_ACCESS_KEY"))
	overlay(&cfg.S3SecretKey, lookupEnv("CALLDASH_S3_SECRET_KEY"))
}
