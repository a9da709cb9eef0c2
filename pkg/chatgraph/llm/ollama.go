package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/randalmurphal/chatgraph/pkg/chatgraph/template"
)

// Defaults match a local Ollama install.
const (
	DefaultModel   = "llama2"
	DefaultBaseURL = "http://localhost:11434"
	DefaultFormat  = "json"
)

// ChatCompleter is the subset of the go-openai client used by Ollama.
// *openai.Client satisfies it; tests substitute a fake.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Ollama implements Processor against an Ollama server through its
// OpenAI-compatible endpoint (<base URL>/v1).
//
// Ollama is safe for concurrent use; all fields are fixed at construction.
type Ollama struct {
	client        ChatCompleter
	model         string
	temperature   float64
	format        string
	baseURL       string
	timeout       time.Duration
	contextWindow int
	logger        *slog.Logger
}

// OllamaOption configures Ollama.
type OllamaOption func(*Ollama)

// WithModel sets the model identifier (e.g. "llama3.2").
func WithModel(model string) OllamaOption {
	return func(o *Ollama) { o.model = model }
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) OllamaOption {
	return func(o *Ollama) { o.temperature = t }
}

// WithFormat sets the response-format hint. "json" requests JSON object mode;
// any other value (including "") leaves the output unconstrained.
func WithFormat(format string) OllamaOption {
	return func(o *Ollama) { o.format = format }
}

// WithBaseURL sets the server address, without the /v1 suffix.
func WithBaseURL(url string) OllamaOption {
	return func(o *Ollama) { o.baseURL = url }
}

// WithTimeout bounds each HTTP call. Zero means no client-side timeout.
func WithTimeout(d time.Duration) OllamaOption {
	return func(o *Ollama) { o.timeout = d }
}

// WithContextWindow records the context window size requested for the model.
// The OpenAI-compatible endpoint has no field for it, so a non-zero value is
// only logged with a warning; set num_ctx in the model's Modelfile instead.
func WithContextWindow(n int) OllamaOption {
	return func(o *Ollama) { o.contextWindow = n }
}

// WithChatClient replaces the go-openai client, for tests or custom transports.
func WithChatClient(c ChatCompleter) OllamaOption {
	return func(o *Ollama) { o.client = c }
}

// WithOllamaLogger sets the logger used for per-call debug records.
func WithOllamaLogger(logger *slog.Logger) OllamaOption {
	return func(o *Ollama) { o.logger = logger }
}

// NewOllama creates an Ollama processor.
func NewOllama(opts ...OllamaOption) *Ollama {
	o := &Ollama{
		model:   DefaultModel,
		format:  DefaultFormat,
		baseURL: DefaultBaseURL,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}

	if o.client == nil {
		cfg := openai.DefaultConfig("ollama")
		cfg.BaseURL = strings.TrimRight(o.baseURL, "/") + "/v1"
		cfg.HTTPClient = &http.Client{Timeout: o.timeout}
		o.client = openai.NewClientWithConfig(cfg)
	}

	o.logger.Debug("ollama processor configured",
		slog.String("model", o.model),
		slog.Float64("temperature", o.temperature),
		slog.String("format", o.format),
		slog.String("base_url", o.baseURL),
		slog.Duration("timeout", o.timeout),
		slog.Int("context_window", o.contextWindow),
	)
	if o.contextWindow > 0 {
		o.logger.Warn("context window is not sent to the server; set num_ctx in the Modelfile",
			slog.Int("context_window", o.contextWindow),
		)
	}
	return o
}

// Model returns the configured model identifier.
func (o *Ollama) Model() string {
	return o.model
}

// Process implements Processor. The template is rendered with vars and sent
// as a single user message.
func (o *Ollama) Process(ctx context.Context, tmpl string, vars map[string]any) (string, error) {
	prompt, err := template.Render(tmpl, vars)
	if err != nil {
		return "", NewError("render", err, false)
	}

	resp, err := o.client.CreateChatCompletion(ctx, o.buildRequest(prompt))
	if err != nil {
		return "", classifyError(ctx, err)
	}
	if len(resp.Choices) == 0 {
		return "", NewError("process", ErrNoChoices, true)
	}

	o.logger.Debug("ollama response",
		slog.String("model", resp.Model),
		slog.Int("prompt_tokens", resp.Usage.PromptTokens),
		slog.Int("completion_tokens", resp.Usage.CompletionTokens),
		slog.String("finish_reason", string(resp.Choices[0].FinishReason)),
	)
	return resp.Choices[0].Message.Content, nil
}

// buildRequest constructs the chat completion request for a rendered prompt.
func (o *Ollama) buildRequest(prompt string) openai.ChatCompletionRequest {
	// go-openai omits a zero temperature; the smallest positive float is the
	// documented way to send an effectively-zero value.
	temperature := float32(o.temperature)
	if temperature == 0 {
		temperature = math.SmallestNonzeroFloat32
	}

	req := openai.ChatCompletionRequest{
		Model:       o.model,
		Temperature: temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}
	if strings.EqualFold(o.format, "json") {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}
	return req
}

// classifyError maps transport and API failures onto Error values.
func classifyError(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return NewError("process", ctx.Err(), false)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return NewError("process", fmt.Errorf("%w: %v", ErrTimeout, err), true)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return NewError("process", err, retryableStatus(apiErr.HTTPStatusCode))
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return NewError("process", err, retryableStatus(reqErr.HTTPStatusCode))
	}

	return NewError("process", fmt.Errorf("%w: %v", ErrUnavailable, err), true)
}

func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}
