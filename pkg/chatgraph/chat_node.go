package chatgraph

import (
	"context"
	"time"

	"github.com/xeipuuv/gojsonschema"
	"go.opentelemetry.io/otel/attribute"

	cgerrors "github.com/randalmurphal/chatgraph/pkg/chatgraph/errors"
	"github.com/randalmurphal/chatgraph/pkg/chatgraph/llm"
	"github.com/randalmurphal/chatgraph/pkg/chatgraph/observability"
	"github.com/randalmurphal/chatgraph/pkg/chatgraph/template"
)

// Chat node defaults.
const (
	DefaultMaxRetries = 3
	DefaultRetryDelay = time.Second
)

// ChatNode sends a prompt template to a language model and stores the
// cleaned, validated answer in state.
//
// Template placeholders are {name} tokens filled from state; {{ and }} are
// literal braces. Unusable answers and model errors are retried with a fixed
// delay up to MaxRetries attempts.
type ChatNode struct {
	name       string
	processor  llm.Processor
	tmpl       *template.Template
	inputKey   string
	outputKey  string
	maxRetries int
	retryDelay time.Duration
	schema     *gojsonschema.Schema
	repair     bool
}

// ChatOption configures a ChatNode.
type ChatOption func(*ChatNode)

// WithInputKey sets the key that must hold a non-empty value before the
// model is called. An empty key disables the check. Defaults to "question".
func WithInputKey(key string) ChatOption {
	return func(n *ChatNode) {
		n.inputKey = key
	}
}

// WithOutputKey sets the key the answer is stored under.
// Defaults to "response".
func WithOutputKey(key string) ChatOption {
	return func(n *ChatNode) {
		if key != "" {
			n.outputKey = key
		}
	}
}

// WithMaxRetries sets the total number of attempts. Values below 1 are ignored.
func WithMaxRetries(attempts int) ChatOption {
	return func(n *ChatNode) {
		if attempts > 0 {
			n.maxRetries = attempts
		}
	}
}

// WithRetryDelay sets the fixed wait between attempts.
// Negative values are ignored.
func WithRetryDelay(d time.Duration) ChatOption {
	return func(n *ChatNode) {
		if d >= 0 {
			n.retryDelay = d
		}
	}
}

// WithResponseSchema requires JSON answers to satisfy schema.
// Text answers are not checked.
func WithResponseSchema(schema *gojsonschema.Schema) ChatOption {
	return func(n *ChatNode) {
		n.schema = schema
	}
}

// WithJSONRepair enables repair of malformed JSON objects and arrays before
// they are treated as text.
func WithJSONRepair(enabled bool) ChatOption {
	return func(n *ChatNode) {
		n.repair = enabled
	}
}

// NewChatNode creates a chat node called name that renders tmpl through
// processor. Panics if processor is nil.
func NewChatNode(name string, processor llm.Processor, tmpl string, opts ...ChatOption) *ChatNode {
	if processor == nil {
		panic("chatgraph: chat node processor cannot be nil")
	}

	n := &ChatNode{
		name:       name,
		processor:  processor,
		tmpl:       template.Parse(tmpl),
		inputKey:   KeyQuestion,
		outputKey:  KeyResponse,
		maxRetries: DefaultMaxRetries,
		retryDelay: DefaultRetryDelay,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Name implements Node.
func (n *ChatNode) Name() string { return n.name }

// OutputKey returns the key the answer is stored under.
func (n *ChatNode) OutputKey() string { return n.outputKey }

// MaxRetries returns the total number of attempts.
func (n *ChatNode) MaxRetries() int { return n.maxRetries }

// outcomeKind tags the result of one model attempt.
type outcomeKind int

const (
	outcomeValid outcomeKind = iota
	outcomeInvalid
	outcomeFailed
)

func (k outcomeKind) String() string {
	switch k {
	case outcomeValid:
		return "valid"
	case outcomeInvalid:
		return "invalid"
	case outcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// attemptOutcome is the result of one model attempt.
// response is set for valid outcomes, err for the others.
type attemptOutcome struct {
	kind     outcomeKind
	response string
	err      error
}

// Execute implements Node.
//
// Missing inputs fail immediately with *errors.MissingInputError. When every
// attempt fails the error is *errors.ExhaustedError. On success the state
// gains the answer under the output key and the attempt's duration in
// seconds under "execution_time".
func (n *ChatNode) Execute(ctx Context, state State) (State, error) {
	vars, err := n.inputs(state)
	if err != nil {
		return state, err
	}

	logger := ctx.Logger()
	var lastErr error

	for attempt := 1; attempt <= n.maxRetries; attempt++ {
		start := time.Now()
		out := n.attempt(ctx, vars)
		elapsed := time.Since(start)

		observability.LogAttempt(logger, attempt, out.kind.String(), elapsed, out.err)
		ctx.Metrics().RecordChatAttempt(ctx, n.name, out.kind.String(), elapsed)
		observability.AddSpanEvent(ctx, "chat.attempt",
			attribute.Int("attempt", attempt),
			attribute.String("outcome", out.kind.String()),
		)

		switch out.kind {
		case outcomeValid:
			state[n.outputKey] = out.response
			state[KeyExecutionTime] = elapsed.Seconds()
			return state, nil
		case outcomeFailed:
			lastErr = out.err
		case outcomeInvalid:
			// lastErr keeps the last model error only
		}

		if attempt < n.maxRetries {
			if err := wait(ctx, n.retryDelay); err != nil {
				return state, err
			}
		}
	}

	return state, &cgerrors.ExhaustedError{Attempts: n.maxRetries, LastErr: lastErr}
}

// inputs checks the input key and template placeholders against state and
// returns the placeholder values.
func (n *ChatNode) inputs(state State) (map[string]any, error) {
	if n.inputKey != "" {
		if v, ok := state[n.inputKey]; !ok || !truthy(v) {
			return nil, &cgerrors.MissingInputError{Keys: []string{n.inputKey}, Source: "input key"}
		}
	}

	if missing := n.tmpl.Missing(state); len(missing) > 0 {
		return nil, &cgerrors.MissingInputError{Keys: missing, Source: "template"}
	}

	names := n.tmpl.Variables()
	vars := make(map[string]any, len(names))
	for _, name := range names {
		vars[name] = state[name]
	}
	return vars, nil
}

// attempt makes one model call and classifies the answer.
func (n *ChatNode) attempt(ctx context.Context, vars map[string]any) attemptOutcome {
	raw, err := n.processor.Process(ctx, n.tmpl.Text(), vars)
	if err != nil {
		return attemptOutcome{kind: outcomeFailed, err: err}
	}

	resp := cleanResponse(raw, n.repair)
	if reason := resp.validate(n.schema); reason != "" {
		return attemptOutcome{
			kind: outcomeInvalid,
			err:  &cgerrors.InvalidResponseError{Response: resp.text, Reason: reason},
		}
	}
	return attemptOutcome{kind: outcomeValid, response: resp.text}
}

// wait sleeps for d or until ctx is done.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
