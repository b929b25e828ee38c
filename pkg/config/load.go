package config

import (
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/tfesenbecker/palisade/pkg/types"
)

// Load reads the configuration at path with environment interpolation.
// Relative file paths are resolved against the directory of path.
func Load(path string, getenv func(string) string) (*Config, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, types.ConfigError.New("resolving config path: %v", err)
	}
	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, types.ConfigError.New("reading config: %v", err)
	}
	return Parse(data, filepath.Dir(absPath), getenv)
}

// Parse decodes a configuration document. Relative file paths are
// resolved against baseDir when it is not empty.
func Parse(data []byte, baseDir string, getenv func(string) string) (*Config, error) {
	if getenv == nil {
		getenv = os.Getenv
	}
	data = interpolateEnv(data, getenv)

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, types.ConfigError.New("parsing config: %v", err)
	}
	cfg.BaseDir = baseDir

	for nick, path := range cfg.Files {
		if path != "" && baseDir != "" && !filepath.IsAbs(path) {
			cfg.Files[nick] = filepath.Join(baseDir, path)
		}
	}
	for name, v := range cfg.Locals {
		cfg.Locals[name] = normalize(v)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// normalize turns YAML integers into float64, the number type of
// expressions.
func normalize(v interface{}) interface{} {
	switch x := v.(type) {
	case int:
		return float64(x)
	case []interface{}:
		out := make([]interface{}, len(x))
		for i, item := range x {
			out[i] = normalize(item)
		}
		return out
	}
	return v
}

var envPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// interpolateEnv replaces ${VAR} and ${VAR:-default} patterns with environment values.
func interpolateEnv(data []byte, getenv func(string) string) []byte {
	return envPattern.ReplaceAllFunc(data, func(match []byte) []byte {
		parts := envPattern.FindSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		value := getenv(string(parts[1]))
		if value == "" && len(parts) >= 3 && len(parts[2]) > 0 {
			value = string(parts[2])
		}
		return []byte(value)
	})
}
