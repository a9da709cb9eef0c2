package chatgraph

import (
	"context"
	"log/slog"

	"github.com/randalmurphal/chatgraph/pkg/chatgraph/llm"
)

// NoResponse is returned by Chat when a walk succeeds without producing an
// answer.
const NoResponse = "No response generated."

// Node names used by NewChatGraph.
const (
	ChatNodeName = "chat"
	LogNodeName  = "log"
)

// ChatGraph runs a compiled graph one question at a time.
type ChatGraph struct {
	graph       *CompiledGraph
	responseKey string
	logger      *slog.Logger
	runOpts     []RunOption
}

// NewChatGraph builds the two-step chat graph: a chat node answering
// {question} with tmpl, then a logging node recording the question, the
// answer and the model time. opts configure the chat node.
func NewChatGraph(processor llm.Processor, tmpl string, opts ...ChatOption) *ChatGraph {
	chat := NewChatNode(ChatNodeName, processor, tmpl, opts...)
	log := NewLoggingNode(LogNodeName, KeyQuestion, chat.OutputKey(), KeyExecutionTime)

	compiled, err := Chain(chat, log).SetName("chat").Compile()
	if err != nil {
		panic("chatgraph: chat graph: " + err.Error())
	}
	return WrapGraph(compiled, chat.OutputKey())
}

// WrapGraph exposes compiled through Chat. The walk's answer is read from
// responseKey.
func WrapGraph(compiled *CompiledGraph, responseKey string) *ChatGraph {
	return &ChatGraph{
		graph:       compiled,
		responseKey: responseKey,
		logger:      slog.Default(),
	}
}

// WithLogger sets the logger each walk's Context uses.
func (c *ChatGraph) WithLogger(logger *slog.Logger) *ChatGraph {
	if logger != nil {
		c.logger = logger
	}
	return c
}

// WithRunOptions sets options applied to every walk.
func (c *ChatGraph) WithRunOptions(opts ...RunOption) *ChatGraph {
	c.runOpts = opts
	return c
}

// Graph returns the underlying compiled graph.
func (c *ChatGraph) Graph() *CompiledGraph { return c.graph }

// Name returns the graph name.
func (c *ChatGraph) Name() string { return c.graph.Name() }

// Run walks the graph with {"question": question} and returns the final state.
func (c *ChatGraph) Run(ctx context.Context, question string) (State, error) {
	gctx := NewContext(ctx, WithLogger(c.logger))
	return c.graph.Run(gctx, State{KeyQuestion: question}, c.runOpts...)
}

// Chat returns the answer to question, or NoResponse when the walk left no
// answer in state.
func (c *ChatGraph) Chat(ctx context.Context, question string) (string, error) {
	state, err := c.Run(ctx, question)
	if err != nil {
		return "", err
	}
	return Answer(state, c.responseKey), nil
}

// Answer reads key from state as a string, or NoResponse if it is absent.
func Answer(state State, key string) string {
	if s, ok := state.String(key); ok {
		return s
	}
	return NoResponse
}
