// Package registry maps graph names to builders so callers can pick a chat
// graph by name at runtime.
package registry

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/randalmurphal/chatgraph/pkg/chatgraph"
	"github.com/randalmurphal/chatgraph/pkg/chatgraph/llm"
	"github.com/randalmurphal/chatgraph/pkg/chatgraph/sentiment"
)

// ChatTemplate is the prompt of the "chat" graph.
const ChatTemplate = `You are a helpful AI assistant. Please answer the following question:
{question}

Provide a clear and concise response.`

// Names of the graphs in Default.
const (
	Chat      = "chat"
	Sentiment = "sentiment"
)

// ErrUnknownGraph is returned by Build for an unregistered name.
var ErrUnknownGraph = errors.New("unknown graph")

// Builder creates a chat graph around processor; opts configure its chat node.
type Builder func(processor llm.Processor, opts ...chatgraph.ChatOption) *chatgraph.ChatGraph

// Registry is a thread-safe set of named graph builders.
type Registry struct {
	mu       sync.RWMutex
	builders map[string]Builder
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{builders: make(map[string]Builder)}
}

// Default returns a registry holding the "chat" and "sentiment" graphs.
func Default() *Registry {
	r := New()
	r.Register(Chat, func(p llm.Processor, opts ...chatgraph.ChatOption) *chatgraph.ChatGraph {
		return chatgraph.NewChatGraph(p, ChatTemplate, opts...)
	})
	r.Register(Sentiment, sentiment.NewGraph)
	return r
}

// Register adds or replaces a builder. Panics on an empty name or nil builder.
func (r *Registry) Register(name string, b Builder) {
	if name == "" {
		panic("registry: graph name cannot be empty")
	}
	if b == nil {
		panic("registry: builder cannot be nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.builders[name] = b
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.builders[name]
	return ok
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.builders))
}

// Build creates the graph registered under name.
func (r *Registry) Build(name string, processor llm.Processor, opts ...chatgraph.ChatOption) (*chatgraph.ChatGraph, error) {
	r.mu.RLock()
	b, ok := r.builders[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w %q (available: %v)", ErrUnknownGraph, name, r.Names())
	}
	return b(processor, opts...), nil
}
