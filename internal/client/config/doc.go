// Package config loads runtime configuration for the donadmin console.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected with -c or -config. Files ending in
//     .yaml or .yml are read as YAML, anything else as JSON.
//  3. Environment variables prefixed with DONADMIN_, optionally from a .env
//     file in the working directory.
//  4. Command-line flags, which override everything else.
//
// Supported flags
//
//	-a string   base URL of the REST API
//	-r int      redirect delay after an update (seconds)
//	-l int      logout delay after deleting the signed-in user (seconds)
//	-p int      default table page size
//	-i int      online status check interval (seconds)
//	-v string   log level (debug, info, warn, error)
//
// # File schema
//
// Durations use timex.Duration, so "6s" and integer nanoseconds both work:
//
//	api_base_url: http://localhost:8080/api
//	redirect_delay: 6s
//	logout_delay: 3s
//	page_size: 10
//	online_check_interval: 5s
//	log_level: info
package config
