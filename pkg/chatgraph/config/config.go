package config

import (
	"fmt"
	"maps"
	"strconv"
	"strings"
	"time"
)

// Config is a flat set of settings keyed by name, as read from a file, a
// .env file or the environment. Accessors never fail: a missing or
// unusable value yields the caller's default.
type Config struct {
	data map[string]any
}

// New wraps data. A nil map is treated as empty.
func New(data map[string]any) Config {
	if data == nil {
		data = map[string]any{}
	}
	return Config{data: data}
}

// number reads v as a float. Environment values arrive as strings, so
// numeric strings count.
func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	}
	return 0, false
}

// String returns the value for key as a string. Numeric and boolean
// scalars (`model: 3.1` in YAML) are formatted.
func (c Config) String(key, defaultVal string) string {
	switch v := c.data[key].(type) {
	case string:
		return v
	case int, int64, float64, bool:
		return fmt.Sprint(v)
	}
	return defaultVal
}

// Float returns the value for key as a float.
func (c Config) Float(key string, defaultVal float64) float64 {
	if f, ok := number(c.data[key]); ok {
		return f
	}
	return defaultVal
}

// Int returns the value for key if it is a whole number.
func (c Config) Int(key string, defaultVal int) int {
	f, ok := number(c.data[key])
	if !ok || f != float64(int(f)) {
		return defaultVal
	}
	return int(f)
}

// Duration returns the value for key as a duration. Strings are parsed with
// time.ParseDuration ("250ms", "1m"); bare numbers are seconds.
func (c Config) Duration(key string, defaultVal time.Duration) time.Duration {
	v := c.data[key]
	if d, ok := v.(time.Duration); ok {
		return d
	}
	if s, ok := v.(string); ok {
		if d, err := time.ParseDuration(strings.TrimSpace(s)); err == nil {
			return d
		}
	}
	if secs, ok := number(v); ok {
		return time.Duration(secs * float64(time.Second))
	}
	return defaultVal
}

// Has reports whether key is set, whatever its value.
func (c Config) Has(key string) bool {
	_, ok := c.data[key]
	return ok
}

// Merge returns c overlaid with other. Neither input is modified.
func (c Config) Merge(other Config) Config {
	out := make(map[string]any, len(c.data)+len(other.data))
	maps.Copy(out, c.data)
	maps.Copy(out, other.data)
	return Config{data: out}
}

// Raw exposes the underlying map; callers must not modify it.
func (c Config) Raw() map[string]any {
	return c.data
}
