package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Accessors(t *testing.T) {
	c := New(map[string]any{
		"name":      "llama2",
		"temp":      0.5,
		"temp_str":  "0.25",
		"count":     3,
		"count_f":   4.0,
		"count_bad": 4.5,
		"count_str": " 7 ",
		"delay":     "250ms",
		"delay_num": "2",
		"delay_int": 5,
		"delay_f":   1.5,
		"wrong":     []string{"x"},
	})

	assert.Equal(t, "llama2", c.String("name", "d"))
	assert.Equal(t, "d", c.String("missing", "d"))
	assert.Equal(t, "3", c.String("count", "d"))
	assert.Equal(t, "0.5", c.String("temp", "d"))
	assert.Equal(t, "d", c.String("wrong", "d"))

	assert.InDelta(t, 0.5, c.Float("temp", 0), 1e-9)
	assert.InDelta(t, 0.25, c.Float("temp_str", 0), 1e-9)
	assert.InDelta(t, 3.0, c.Float("count", 0), 1e-9)
	assert.InDelta(t, 9.0, c.Float("wrong", 9), 1e-9)

	assert.Equal(t, 3, c.Int("count", 0))
	assert.Equal(t, 4, c.Int("count_f", 0))
	assert.Equal(t, -1, c.Int("count_bad", -1))
	assert.Equal(t, 7, c.Int("count_str", 0))

	assert.Equal(t, 250*time.Millisecond, c.Duration("delay", 0))
	assert.Equal(t, 2*time.Second, c.Duration("delay_num", 0))
	assert.Equal(t, 5*time.Second, c.Duration("delay_int", 0))
	assert.Equal(t, 1500*time.Millisecond, c.Duration("delay_f", 0))
	assert.Equal(t, time.Minute, c.Duration("wrong", time.Minute))

	assert.True(t, c.Has("wrong"))
	assert.False(t, c.Has("missing"))
}

func TestConfig_Merge(t *testing.T) {
	base := New(map[string]any{"model": "llama2", "format": "json"})
	over := New(map[string]any{"model": "mistral"})

	merged := base.Merge(over)
	assert.Equal(t, "mistral", merged.String("model", ""))
	assert.Equal(t, "json", merged.String("format", ""))
	assert.Equal(t, "llama2", base.String("model", ""), "inputs are not modified")

	assert.Equal(t, "mistral", Config{}.Merge(over).String("model", ""))
}

func TestModelFrom_Defaults(t *testing.T) {
	m := ModelFrom(New(nil))
	assert.Equal(t, DefaultModel(), m)
	assert.Equal(t, "llama2", m.Model)
	assert.Equal(t, "json", m.Format)
	assert.Equal(t, "http://localhost:11434", m.BaseURL)
	assert.Zero(t, m.Temperature)
	assert.Zero(t, m.Timeout)
	assert.Zero(t, m.ContextWindow)
	assert.Equal(t, 3, m.MaxRetries)
	assert.Equal(t, time.Second, m.RetryDelay)
	require.NoError(t, m.Validate())
}

func TestModelFrom_Overrides(t *testing.T) {
	m := ModelFrom(New(map[string]any{
		"model":          "llama3.2",
		"temperature":    0.7,
		"format":         "",
		"base_url":       "http://gpu-box:11434",
		"timeout":        "30s",
		"context_window": 4096,
		"max_retries":    5,
		"retry_delay":    "100ms",
	}))

	assert.Equal(t, Model{
		Model:         "llama3.2",
		Temperature:   0.7,
		Format:        "",
		BaseURL:       "http://gpu-box:11434",
		Timeout:       30 * time.Second,
		ContextWindow: 4096,
		MaxRetries:    5,
		RetryDelay:    100 * time.Millisecond,
	}, m)
}

func TestModel_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Model)
		wantErr string
	}{
		{name: "empty model", mutate: func(m *Model) { m.Model = "" }, wantErr: "model must not be empty"},
		{name: "empty base url", mutate: func(m *Model) { m.BaseURL = "" }, wantErr: "base_url"},
		{name: "negative temperature", mutate: func(m *Model) { m.Temperature = -1 }, wantErr: "temperature"},
		{name: "negative timeout", mutate: func(m *Model) { m.Timeout = -time.Second }, wantErr: "timeout"},
		{name: "negative context window", mutate: func(m *Model) { m.ContextWindow = -1 }, wantErr: "context_window"},
		{name: "zero retries", mutate: func(m *Model) { m.MaxRetries = 0 }, wantErr: "max_retries"},
		{name: "negative delay", mutate: func(m *Model) { m.RetryDelay = -time.Second }, wantErr: "retry_delay"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := DefaultModel()
			tt.mutate(&m)
			err := m.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	t.Run("reports all problems", func(t *testing.T) {
		m := Model{}
		err := m.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "model must not be empty")
		assert.Contains(t, err.Error(), "max_retries")
	})
}

func TestFromYAML(t *testing.T) {
	c, err := FromYAML([]byte("model: mistral\ntemperature: 0.2\nmax_retries: 4\nretry_delay: 2s\n"))
	require.NoError(t, err)

	m := ModelFrom(c)
	assert.Equal(t, "mistral", m.Model)
	assert.InDelta(t, 0.2, m.Temperature, 1e-9)
	assert.Equal(t, 4, m.MaxRetries)
	assert.Equal(t, 2*time.Second, m.RetryDelay)

	c, err = FromYAML([]byte("model: 3.1\nformat: 3\n"))
	require.NoError(t, err)
	m = ModelFrom(c)
	assert.Equal(t, "3.1", m.Model, "numeric model names are kept")
	assert.Equal(t, "3", m.Format)

	_, err = FromYAML([]byte("model: [unclosed"))
	assert.ErrorContains(t, err, "parse yaml")
}

func TestFromJSON(t *testing.T) {
	c, err := FromJSON([]byte(`{"model":"phi3","context_window":2048,"timeout":10}`))
	require.NoError(t, err)

	m := ModelFrom(c)
	assert.Equal(t, "phi3", m.Model)
	assert.Equal(t, 2048, m.ContextWindow)
	assert.Equal(t, 10*time.Second, m.Timeout)

	_, err = FromJSON([]byte(`{`))
	assert.ErrorContains(t, err, "parse json")
}

func TestFromFile(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "chatgraph.yml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("model: gemma\n"), 0o600))
	c, err := FromFile(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, "gemma", c.String(KeyModel, ""))

	jsonPath := filepath.Join(dir, "chatgraph.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"model":"qwen"}`), 0o600))
	c, err = FromFile(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, "qwen", c.String(KeyModel, ""))

	tomlPath := filepath.Join(dir, "chatgraph.toml")
	require.NoError(t, os.WriteFile(tomlPath, []byte(`model = "x"`), 0o600))
	_, err = FromFile(tomlPath)
	assert.ErrorContains(t, err, "unsupported config file extension")

	_, err = FromFile(filepath.Join(dir, "nope.yaml"))
	assert.ErrorContains(t, err, "read config file")
}

func TestFromEnv(t *testing.T) {
	env := map[string]string{
		"CHATGRAPH_MODEL":       "mistral",
		"CHATGRAPH_TEMPERATURE": "0.3",
		"CHATGRAPH_MAX_RETRIES": "6",
		"CHATGRAPH_RETRY_DELAY": "50ms",
		"CHATGRAPH_FORMAT":      "",
		"UNRELATED":             "x",
	}
	c := FromEnv(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})

	assert.False(t, c.Has(KeyFormat), "empty values are ignored")
	assert.Len(t, c.Raw(), 4)

	m := ModelFrom(c)
	assert.Equal(t, "mistral", m.Model)
	assert.InDelta(t, 0.3, m.Temperature, 1e-9)
	assert.Equal(t, 6, m.MaxRetries)
	assert.Equal(t, 50*time.Millisecond, m.RetryDelay)
	assert.Equal(t, "json", m.Format)
}

func TestFromDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("CHATGRAPH_MODEL=llama3\nCHATGRAPH_BASE_URL=http://box:11434\nOTHER=1\n"), 0o600))

	c, err := FromDotEnv(path)
	require.NoError(t, err)
	assert.Equal(t, "llama3", c.String(KeyModel, ""))
	assert.Equal(t, "http://box:11434", c.String(KeyBaseURL, ""))
	assert.Len(t, c.Raw(), 2)

	_, set := os.LookupEnv("CHATGRAPH_MODEL")
	assert.False(t, set, "process environment is untouched")

	missing, err := FromDotEnv(filepath.Join(dir, "absent.env"))
	require.NoError(t, err)
	assert.Empty(t, missing.Raw())
}

func TestLoad_Layering(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "chatgraph.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("model: from-file\nformat: text\nmax_retries: 2\n"), 0o600))
	envPath := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("CHATGRAPH_FORMAT=json\nCHATGRAPH_MAX_RETRIES=4\n"), 0o600))
	t.Setenv("CHATGRAPH_MAX_RETRIES", "9")

	c, err := Load(cfgPath, envPath)
	require.NoError(t, err)

	m := ModelFrom(c)
	assert.Equal(t, "from-file", m.Model)
	assert.Equal(t, "json", m.Format)
	assert.Equal(t, 9, m.MaxRetries)

	_, err = Load(filepath.Join(dir, "missing.yaml"), "")
	assert.Error(t, err)
}
