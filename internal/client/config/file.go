package config

import (
	"time"

	"github.com/dmitrijs2005/donadmin/internal/configx"
	"github.com/dmitrijs2005/donadmin/internal/flagx"
	"github.com/dmitrijs2005/donadmin/internal/timex"
)

// FileConfig is the on-disk shape of Config. Absent keys keep the value
// already in Config.
type FileConfig struct {
	APIBaseURL          *string         `json:"api_base_url" yaml:"api_base_url"`
	RedirectDelay       *timex.Duration `json:"redirect_delay" yaml:"redirect_delay"`
	LogoutDelay         *timex.Duration `json:"logout_delay" yaml:"logout_delay"`
	PageSize            *int            `json:"page_size" yaml:"page_size"`
	OnlineCheckInterval *timex.Duration `json:"online_check_interval" yaml:"online_check_interval"`
	LogLevel            *string         `json:"log_level" yaml:"log_level"`
}

// EnvConfig is read from DONADMIN_* variables.
type EnvConfig struct {
	APIBaseURL          string        `env:"API_BASE_URL"`
	RedirectDelay       time.Duration `env:"REDIRECT_DELAY"`
	LogoutDelay         time.Duration `env:"LOGOUT_DELAY"`
	PageSize            int           `env:"PAGE_SIZE"`
	OnlineCheckInterval time.Duration `env:"ONLINE_CHECK_INTERVAL"`
	LogLevel            string        `env:"LOG_LEVEL"`
}

const EnvPrefix = "DONADMIN_"

func parseFile(cfg *Config) {
	path := flagx.ConfigFileFlag()
	if path == "" {
		return
	}

	var fc FileConfig
	if err := configx.LoadFile(path, &fc); err != nil {
		panic(err)
	}
	fc.apply(cfg)
}

func (fc FileConfig) apply(cfg *Config) {
	if fc.APIBaseURL != nil {
		cfg.APIBaseURL = *fc.APIBaseURL
	}
	if fc.RedirectDelay != nil {
		cfg.RedirectDelay = fc.RedirectDelay.Duration
	}
	if fc.LogoutDelay != nil {
		cfg.LogoutDelay = fc.LogoutDelay.Duration
	}
	if fc.PageSize != nil {
		cfg.PageSize = *fc.PageSize
	}
	if fc.OnlineCheckInterval != nil {
		cfg.OnlineCheckInterval = fc.OnlineCheckInterval.Duration
	}
	if fc.LogLevel != nil {
		cfg.LogLevel = *fc.LogLevel
	}
}

func parseEnv(cfg *Config) {
	var ec EnvConfig
	if err := configx.LoadEnv(&ec, EnvPrefix); err != nil {
		panic(err)
	}

	if ec.APIBaseURL != "" {
		cfg.APIBaseURL = ec.APIBaseURL
	}
	if ec.RedirectDelay > 0 {
		cfg.RedirectDelay = ec.RedirectDelay
	}
	if ec.LogoutDelay > 0 {
		cfg.LogoutDelay = ec.LogoutDelay
	}
	if ec.PageSize > 0 {
		cfg.PageSize = ec.PageSize
	}
	if ec.OnlineCheckInterval > 0 {
		cfg.OnlineCheckInterval = ec.OnlineCheckInterval
	}
	if ec.LogLevel != "" {
		cfg.LogLevel = ec.LogLevel
	}
}
