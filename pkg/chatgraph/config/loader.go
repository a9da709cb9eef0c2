package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/ohler55/ojg/oj"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes environment variable names.
const EnvPrefix = "CHATGRAPH_"

// parsers maps file extensions to the format that reads them.
var parsers = map[string]func([]byte) (Config, error){
	".yaml": FromYAML,
	".yml":  FromYAML,
	".json": FromJSON,
}

// FromFile reads a .yaml, .yml or .json file.
func FromFile(path string) (Config, error) {
	ext := strings.ToLower(filepath.Ext(path))
	parse, ok := parsers[ext]
	if !ok {
		return Config{}, fmt.Errorf("unsupported config file extension: %s", ext)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}
	return parse(data)
}

// FromYAML parses a YAML mapping.
func FromYAML(data []byte) (Config, error) {
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Config{}, fmt.Errorf("parse yaml: %w", err)
	}
	return New(m), nil
}

// FromJSON parses a JSON object.
func FromJSON(data []byte) (Config, error) {
	v, err := oj.Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("parse json: %w", err)
	}
	m, ok := v.(map[string]any)
	if !ok {
		return Config{}, fmt.Errorf("parse json: top level is %T, want an object", v)
	}
	return New(m), nil
}

// FromEnv collects the recognized keys from environment variables named
// EnvPrefix + upper-cased key. lookup is usually os.LookupEnv.
func FromEnv(lookup func(string) (string, bool)) Config {
	m := make(map[string]any)
	for _, key := range Keys {
		if v, ok := lookup(EnvPrefix + strings.ToUpper(key)); ok && v != "" {
			m[key] = v
		}
	}
	return New(m)
}

// FromDotEnv reads a .env file without touching the process environment and
// returns the recognized keys it sets. A missing file yields an empty Config.
func FromDotEnv(path string) (Config, error) {
	vars, err := godotenv.Read(path)
	if err != nil {
		if os.IsNotExist(err) {
			return New(nil), nil
		}
		return Config{}, fmt.Errorf("read env file: %w", err)
	}
	return FromEnv(func(name string) (string, bool) {
		v, ok := vars[name]
		return v, ok
	}), nil
}

// Load layers configuration sources, later ones winning:
// defaults, the config file (if path is non-empty), the .env file (if
// dotenvPath is non-empty), then the process environment.
func Load(path, dotenvPath string) (Config, error) {
	cfg := New(nil)

	if path != "" {
		fileCfg, err := FromFile(path)
		if err != nil {
			return Config{}, err
		}
		cfg = cfg.Merge(fileCfg)
	}

	if dotenvPath != "" {
		envCfg, err := FromDotEnv(dotenvPath)
		if err != nil {
			return Config{}, err
		}
		cfg = cfg.Merge(envCfg)
	}

	return cfg.Merge(FromEnv(os.LookupEnv)), nil
}
