package config

import (
	"time"

	"github.com/dmitrijs2005/donadmin/internal/configx"
	"github.com/dmitrijs2005/donadmin/internal/flagx"
	"github.com/dmitrijs2005/donadmin/internal/timex"
)

// FileConfig is the on-disk shape of Config. Durations accept "90s" as
// well as integer nanoseconds. Empty values leave Config unchanged.
type FileConfig struct {
	ListenAddr      string         `json:"listen_addr" yaml:"listen_addr"`
	DatabaseDSN     string         `json:"database_dsn" yaml:"database_dsn"`
	SecretKey       string         `json:"secret_key" yaml:"secret_key"`
	SessionValidity timex.Duration `json:"session_validity" yaml:"session_validity"`
	S3RootUser      string         `json:"s3_root_user" yaml:"s3_root_user"`
	S3RootPassword  string         `json:"s3_root_password" yaml:"s3_root_password"`
	S3Bucket        string         `json:"s3_bucket" yaml:"s3_bucket"`
	S3Region        string         `json:"s3_region" yaml:"s3_region"`
	S3BaseEndpoint  string         `json:"s3_base_endpoint" yaml:"s3_base_endpoint"`
	PhotoBaseURL    string         `json:"photo_base_url" yaml:"photo_base_url"`
	AdminEmail      string         `json:"admin_email" yaml:"admin_email"`
	AdminPassword   string         `json:"admin_password" yaml:"admin_password"`
	LogLevel        string         `json:"log_level" yaml:"log_level"`
	ShutdownTimeout timex.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// EnvConfig is read from DONADMIN_SERVER_* variables.
type EnvConfig struct {
	ListenAddr      string        `env:"LISTEN_ADDR"`
	DatabaseDSN     string        `env:"DATABASE_DSN"`
	SecretKey       string        `env:"SECRET_KEY"`
	SessionValidity time.Duration `env:"SESSION_VALIDITY"`
	S3RootUser      string        `env:"S3_ROOT_USER"`
	S3RootPassword  string        `env:"S3_ROOT_PASSWORD"`
	S3Bucket        string        `env:"S3_BUCKET"`
	S3Region        string        `env:"S3_REGION"`
	S3BaseEndpoint  string        `env:"S3_BASE_ENDPOINT"`
	PhotoBaseURL    string        `env:"PHOTO_BASE_URL"`
	AdminEmail      string        `env:"ADMIN_EMAIL"`
	AdminPassword   string        `env:"ADMIN_PASSWORD"`
	LogLevel        string        `env:"LOG_LEVEL"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT"`
}

const EnvPrefix = "DONADMIN_SERVER_"

func parseFile(cfg *Config) {
	path := flagx.ConfigFileFlag()
	if path == "" {
		return
	}

	var fc FileConfig
	if err := configx.LoadFile(path, &fc); err != nil {
		panic(err)
	}

	cfg.overlay(EnvConfig{
		ListenAddr:      fc.ListenAddr,
		DatabaseDSN:     fc.DatabaseDSN,
		SecretKey:       fc.SecretKey,
		SessionValidity: fc.SessionValidity.Duration,
		S3RootUser:      fc.S3RootUser,
		S3RootPassword:  fc.S3RootPassword,
		S3Bucket:        fc.S3Bucket,
		S3Region:        fc.S3Region,
		S3BaseEndpoint:  fc.S3BaseEndpoint,
		PhotoBaseURL:    fc.PhotoBaseURL,
		AdminEmail:      fc.AdminEmail,
		AdminPassword:   fc.AdminPassword,
		LogLevel:        fc.LogLevel,
		ShutdownTimeout: fc.ShutdownTimeout.Duration,
	})
}

func parseEnv(cfg *Config) {
	var ec EnvConfig
	if err := configx.LoadEnv(&ec, EnvPrefix); err != nil {
		panic(err)
	}
	cfg.overlay(ec)
}

// overlay copies the non-zero values of src into c.
func (c *Config) overlay(src EnvConfig) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	setDur := func(dst *time.Duration, v time.Duration) {
		if v > 0 {
			*dst = v
		}
	}

	set(&c.ListenAddr, src.ListenAddr)
	set(&c.DatabaseDSN, src.DatabaseDSN)
	set(&c.SecretKey, src.SecretKey)
	setDur(&c.SessionValidity, src.SessionValidity)
	set(&c.S3RootUser, src.S3RootUser)
	set(&c.S3RootPassword, src.S3RootPassword)
	set(&c.S3Bucket, src.S3Bucket)
	set(&c.S3Region, src.S3Region)
	set(&c.S3BaseEndpoint, src.S3BaseEndpoint)
	set(&c.PhotoBaseURL, src.PhotoBaseURL)
	set(&c.AdminEmail, src.AdminEmail)
	set(&c.AdminPassword, src.AdminPassword)
	set(&c.LogLevel, src.LogLevel)
	setDur(&c.ShutdownTimeout, src.ShutdownTimeout)
}
