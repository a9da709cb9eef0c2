// Package llm connects chat nodes to a language model.
//
// The model is reached through the narrow Processor interface: a template
// and its variable values go in, a raw response string comes out. Ollama is
// the production implementation; MockProcessor records calls for tests.
package llm

import "context"

// Processor renders a prompt template with vars and returns the model's raw
// response. Implementations decide how the template is rendered and sent.
// A returned error means the call failed; the response is then ignored.
type Processor interface {
	Process(ctx context.Context, template string, vars map[string]any) (string, error)
}

// ProcessorFunc adapts a function to the Processor interface.
type ProcessorFunc func(ctx context.Context, template string, vars map[string]any) (string, error)

// Process implements Processor.
func (f ProcessorFunc) Process(ctx context.Context, template string, vars map[string]any) (string, error) {
	return f(ctx, template, vars)
}
