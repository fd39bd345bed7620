package config

import "time"

// Config holds runtime settings for the console.
type Config struct {
	APIBaseURL          string
	RedirectDelay       time.Duration
	LogoutDelay         time.Duration
	PageSize            int
	OnlineCheckInterval time.Duration
	LogLevel            string
}

// LoadDefaults populates c with the defaults of a local setup.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://127.0.0.1:8080/api"
	c.RedirectDelay = 6 * time.Second
	c.LogoutDelay = 3 * time.Second
	c.PageSize = 10
	c.OnlineCheckInterval = 5 * time.Second
	c.LogLevel = "info"
}

// LoadConfig applies defaults, then the config file, the environment and
// the command-line flags. It panics when a source is present but broken.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseFile(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
