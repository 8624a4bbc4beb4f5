// Package config loads runtime configuration for the calldash CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. A .env file in the working directory, then CALLDASH_* environment
//     variables (see parseEnv).
//  3. Optional config file selected with -c or -config. Files ending in
//     .yaml or .yml are read as YAML, anything else as JSON (see parseFile).
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   admin API base URL
//	-s string   session backend: sqlite or redis
//	-d string   sqlite session database path
//	-r string   redis address for the shared session backend
//	-t int      request timeout (seconds)
//	-l string   log level: debug, info, warn, error
//
// # File schema
//
// Durations are either strings like "30s" or integer seconds:
//
//	{
//	  "api_host": "https://api.callingdashboard.app",
//	  "request_timeout": "30s",
//	  "session": {"backend": "redis", "redis_addr": "127.0.0.1:6379"},
//	  "log": {"level": "debug", "format": "json", "backend": "zap"},
//	  "reports": {"dir": "reports", "s3_bucket": "calldash-reports"}
//	}
//
// Parse errors in any source panic, as the CLI cannot start without a
// usable configuration.
package config
