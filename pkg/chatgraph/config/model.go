package config

import (
	"errors"
	"fmt"
	"time"
)

// Keys recognized in configuration files. Environment variables use the
// upper-cased key with the CHATGRAPH_ prefix (e.g. CHATGRAPH_BASE_URL).
const (
	KeyModel         = "model"
	KeyTemperature   = "temperature"
	KeyFormat        = "format"
	KeyBaseURL       = "base_url"
	KeyTimeout       = "timeout"
	KeyContextWindow = "context_window"
	KeyMaxRetries    = "max_retries"
	KeyRetryDelay    = "retry_delay"
)

// Keys lists every recognized configuration key.
var Keys = []string{
	KeyModel, KeyTemperature, KeyFormat, KeyBaseURL,
	KeyTimeout, KeyContextWindow, KeyMaxRetries, KeyRetryDelay,
}

// Model holds the language model settings and the chat retry policy.
// The model settings are passed through unmodified to the model client.
type Model struct {
	Model       string
	Temperature float64
	Format      string
	BaseURL     string
	// Timeout bounds each model call. Zero means none.
	Timeout time.Duration
	// ContextWindow is the requested context size. Zero leaves the server default.
	ContextWindow int

	MaxRetries int
	RetryDelay time.Duration
}

// DefaultModel returns the settings used when nothing is configured.
func DefaultModel() Model {
	return Model{
		Model:       "llama2",
		Temperature: 0.0,
		Format:      "json",
		BaseURL:     "http://localhost:11434",
		MaxRetries:  3,
		RetryDelay:  time.Second,
	}
}

// ModelFrom extracts Model settings from c, falling back to DefaultModel
// for anything absent.
func ModelFrom(c Config) Model {
	d := DefaultModel()
	return Model{
		Model:         c.String(KeyModel, d.Model),
		Temperature:   c.Float(KeyTemperature, d.Temperature),
		Format:        c.String(KeyFormat, d.Format),
		BaseURL:       c.String(KeyBaseURL, d.BaseURL),
		Timeout:       c.Duration(KeyTimeout, d.Timeout),
		ContextWindow: c.Int(KeyContextWindow, d.ContextWindow),
		MaxRetries:    c.Int(KeyMaxRetries, d.MaxRetries),
		RetryDelay:    c.Duration(KeyRetryDelay, d.RetryDelay),
	}
}

// Validate reports every invalid setting, joined.
func (m Model) Validate() error {
	var errs []error
	if m.Model == "" {
		errs = append(errs, errors.New("model must not be empty"))
	}
	if m.BaseURL == "" {
		errs = append(errs, errors.New("base_url must not be empty"))
	}
	if m.Temperature < 0 {
		errs = append(errs, fmt.Errorf("temperature must be >= 0, got %v", m.Temperature))
	}
	if m.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout must be >= 0, got %s", m.Timeout))
	}
	if m.ContextWindow < 0 {
		errs = append(errs, fmt.Errorf("context_window must be >= 0, got %d", m.ContextWindow))
	}
	if m.MaxRetries < 1 {
		errs = append(errs, fmt.Errorf("max_retries must be >= 1, got %d", m.MaxRetries))
	}
	if m.RetryDelay < 0 {
		errs = append(errs, fmt.Errorf("retry_delay must be >= 0, got %s", m.RetryDelay))
	}
	return errors.Join(errs...)
}
