// Package configx holds the file and environment layers shared by the
// console and server configuration loaders.
//
// Precedence is decided by the callers: defaults, then LoadFile, then
// LoadEnv, then command-line flags.
package configx

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

var ErrUnsupportedFormat = errors.New("unsupported config format")

// LoadFile decodes path into dst. The format follows the file extension:
// .yaml/.yml use YAML, .json (or no extension) uses JSON.
func LoadFile(path string, dst any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, dst)
	case ".json", "":
		err = json.Unmarshal(data, dst)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return fmt.Errorf("decode config %s: %w", path, err)
	}
	return nil
}

// LoadEnv fills dst from environment variables named prefix+tag. Variables
// found in dotenv files are added to the environment first, without
// overriding ones already set. Missing dotenv files are skipped; with no
// files given ".env" in the working directory is tried.
func LoadEnv(dst any, prefix string, dotenvFiles ...string) error {
	if len(dotenvFiles) == 0 {
		dotenvFiles = []string{".env"}
	}
	for _, f := range dotenvFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}

	if err := env.Parse(dst, env.Options{Prefix: prefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
