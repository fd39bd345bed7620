// Package config handles configuration for the API server: defaults, an
// optional JSON or YAML file, DONADMIN_SERVER_* environment variables and
// command-line flags, in that order of precedence.
package config

import "time"

// Config holds runtime settings for the donadmin API server.
//
// Fields:
//   - ListenAddr: bind address of the HTTP API.
//   - DatabaseDSN: PostgreSQL DSN (pgx). Empty keeps everything in memory.
//   - SecretKey: HMAC secret for signing session tokens (HS256).
//   - SessionValidity: lifetime of a session cookie.
//   - S3RootUser / S3RootPassword / S3Bucket / S3Region / S3BaseEndpoint:
//     object storage for ad photos.
//   - PhotoBaseURL: public prefix of stored photos; defaults to the
//     bucket URL under S3BaseEndpoint.
//   - AdminEmail / AdminPassword: account created at startup if missing.
type Config struct {
	ListenAddr      string
	DatabaseDSN     string
	SecretKey       string
	SessionValidity time.Duration
	S3RootUser      string
	S3RootPassword  string
	S3Bucket        string
	S3Region        string
	S3BaseEndpoint  string
	PhotoBaseURL    string
	AdminEmail      string
	AdminPassword   string
	LogLevel        string
	ShutdownTimeout time.Duration
}

// LoadDefaults populates Config with development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.ListenAddr = ":8080"
	c.DatabaseDSN = ""
	c.SecretKey = "secretKey"
	c.SessionValidity = 24 * time.Hour
	c.S3RootUser = "admin"
	c.S3RootPassword = "secretpassword"
	c.S3Bucket = "photos"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
	c.PhotoBaseURL = ""
	c.AdminEmail = "admin@example.com"
	c.AdminPassword = "admin"
	c.LogLevel = "info"
	c.ShutdownTimeout = 5 * time.Second
}

// LoadConfig builds a Config by applying defaults, then the config file,
// the environment and finally command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseFile(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
