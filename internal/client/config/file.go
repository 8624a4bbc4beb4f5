package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/calldash/internal/flagx"
	"github.com/dmitrijs2005/calldash/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is a DTO used exclusively for decoding the config file. Only
// fields present in the file override the Config.
type FileConfig struct {
	APIHost        string         `json:"api_host" yaml:"api_host"`
	RequestTimeout timex.Duration `json:"request_timeout" yaml:"request_timeout"`

	Session struct {
		Backend       string `json:"backend" yaml:"backend"`
		DSN           string `json:"dsn" yaml:"dsn"`
		RedisAddr     string `json:"redis_addr" yaml:"redis_addr"`
		RedisPrefix   string `json:"redis_prefix" yaml:"redis_prefix"`
		DeviceKeyPath string `json:"device_key" yaml:"device_key"`
	} `json:"session" yaml:"session"`

	Log struct {
		Level   string `json:"level" yaml:"level"`
		Format  string `json:"format" yaml:"format"`
		Backend string `json:"backend" yaml:"backend"`
		File    string `json:"file" yaml:"file"`
	} `json:"log" yaml:"log"`

	Reports struct {
		Dir            string `json:"dir" yaml:"dir"`
		S3Bucket       string `json:"s3_bucket" yaml:"s3_bucket"`
		S3Region       string `json:"s3_region" yaml:"s3_region"`
		S3BaseEndpoint string `json:"s3_endpoint" yaml:"s3_endpoint"`
		S3AccessKey    string `json:"s3_access_key" yaml:"s3_access_key"`
		S3SecretKey    string `json:"s3_secret_key" yaml:"s3_secret_key"`
	} `json:"reports" yaml:"reports"`
}

// parseFile overlays Config with the file named by -c / -config. Without
// the flag it does nothing. Read and decode errors panic.
func parseFile(cfg *Config) {
	path := flagx.ConfigFileFlag(os.Args[1:])
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var fc FileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		panic(err)
	}

	fc.apply(cfg)
}

func (fc *FileConfig) apply(cfg *Config) {
	overlay(&cfg.APIHost, fc.APIHost)
	if fc.RequestTimeout > 0 {
		cfg.RequestTimeout = fc.RequestTimeout.Std()
	}

	overlay(&cfg.SessionBackend, fc.Session.Backend)
	overlay(&cfg.SessionDSN, fc.Session.DSN)
	overlay(&cfg.RedisAddr, fc.Session.RedisAddr)
	overlay(&cfg.RedisPrefix, fc.Session.RedisPrefix)
	overlay(&cfg.DeviceKeyPath, fc.Session.DeviceKeyPath)

	overlay(&cfg.LogLevel, fc.Log.Level)
	overlay(&cfg.LogFormat, fc.Log.Format)
	overlay(&cfg.LogBackend, fc.Log.Backend)
	overlay(&cfg.LogFile, fc.Log.File)

	overlay(&cfg.ReportDir, fc.Reports.Dir)
	overlay(&cfg.S3Bucket, fc.Reports.S3Bucket)
	overlay(&cfg.S3Region, fc.Reports.S3Region)
	overlay(&cfg.S3BaseEndpoint, fc.Reports.S3BaseEndpoint)
	overlay(&cfg.S3AccessKey, fc.Reports.S3AccessKey)
	overlay(&cfg.S3SecretKey, fc.Reports.S3SecretKey)
}
