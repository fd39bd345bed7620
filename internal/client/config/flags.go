package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/donadmin/internal/flagx"
)

// parseFlags overlays Config with the console's command-line flags. Only the
// flags listed here are looked at; -c/-config is handled by parseFile.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-r", "-l", "-p", "-i", "-v"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "base URL of the REST API")
	redirect := fs.Int("r", int(cfg.RedirectDelay.Seconds()), "redirect delay after an update (in seconds)")
	logout := fs.Int("l", int(cfg.LogoutDelay.Seconds()), "logout delay after self-deletion (in seconds)")
	fs.IntVar(&cfg.PageSize, "p", cfg.PageSize, "default table page size")
	online := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	fs.StringVar(&cfg.LogLevel, "v", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RedirectDelay = time.Duration(*redirect) * time.Second
	cfg.LogoutDelay = time.Duration(*logout) * time.Second
	cfg.OnlineCheckInterval = time.Duration(*online) * time.Second
}
