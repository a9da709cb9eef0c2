// Package sentiment provides a sentiment classification node and a chat
// graph that adapts its tone to the detected sentiment.
package sentiment

import (
	"fmt"
	"slices"
	"strings"

	"github.com/ohler55/ojg/oj"

	"github.com/randalmurphal/chatgraph/pkg/chatgraph"
	cgerrors "github.com/randalmurphal/chatgraph/pkg/chatgraph/errors"
	"github.com/randalmurphal/chatgraph/pkg/chatgraph/llm"
)

// Sentiment labels.
const (
	Positive = "positive"
	Neutral  = "neutral"
	Negative = "negative"
)

// Labels lists the accepted sentiment labels.
var Labels = []string{Positive, Neutral, Negative}

// KeySentiment is the state key the detected label is always stored under.
const KeySentiment = "sentiment"

// ClassifyTemplate asks the model for a one-word label.
const ClassifyTemplate = `Analyze the sentiment of the following text and respond with EXACTLY ONE WORD from these options: positive/neutral/negative.

Guidelines:
- Use 'neutral' for factual statements, questions, or statements without clear emotion
- Use 'positive' for statements expressing happiness, excitement, gratitude, or other positive emotions
- Use 'negative' for statements expressing anger, sadness, frustration, or other negative emotions

Text: {question}

Respond with just one word (positive/neutral/negative):`

// Node classifies the sentiment of the input text.
//
// The model's answer is normalized and checked against Labels; anything
// else is recorded as Neutral. The label is written to "sentiment" and, if
// different, to the node's output key.
type Node struct {
	name      string
	processor llm.Processor
	inputKey  string
	outputKey string
}

// Option configures a Node.
type Option func(*Node)

// WithName sets the node name. Defaults to "sentiment".
func WithName(name string) Option {
	return func(n *Node) {
		n.name = name
	}
}

// WithInputKey sets the key holding the text to classify.
// Defaults to "question".
func WithInputKey(key string) Option {
	return func(n *Node) {
		n.inputKey = key
	}
}

// WithOutputKey sets an extra key for the label. Defaults to "sentiment".
func WithOutputKey(key string) Option {
	return func(n *Node) {
		n.outputKey = key
	}
}

// NewNode creates a sentiment node. Panics if processor is nil.
func NewNode(processor llm.Processor, opts ...Option) *Node {
	if processor == nil {
		panic("sentiment: processor cannot be nil")
	}
	n := &Node{
		name:      "sentiment",
		processor: processor,
		inputKey:  chatgraph.KeyQuestion,
		outputKey: KeySentiment,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Name implements chatgraph.Node.
func (n *Node) Name() string { return n.name }

// Execute implements chatgraph.Node.
func (n *Node) Execute(ctx chatgraph.Context, state chatgraph.State) (chatgraph.State, error) {
	text, ok := state.String(n.inputKey)
	if !ok || strings.TrimSpace(text) == "" {
		return state, &cgerrors.MissingInputError{Keys: []string{n.inputKey}, Source: "input key"}
	}

	raw, err := n.processor.Process(ctx, ClassifyTemplate, map[string]any{"question": text})
	if err != nil {
		return state, fmt.Errorf("classify sentiment: %w", err)
	}

	label, valid := Normalize(raw)
	if !valid {
		ctx.Logger().Warn("invalid sentiment detected, defaulting to neutral",
			"raw", raw,
		)
	}
	ctx.Logger().Info("detected sentiment",
		"sentiment", label,
		"text", text,
	)

	state[KeySentiment] = label
	if n.outputKey != "" && n.outputKey != KeySentiment {
		state[n.outputKey] = label
	}
	return state, nil
}

// Normalize extracts a label from a model answer. It accepts a bare word
// (case and surrounding punctuation ignored), a JSON string, or a JSON
// object with a "sentiment" field. The second result is false, and the label
// Neutral, when no accepted label is found.
func Normalize(raw string) (string, bool) {
	candidate := strings.TrimSpace(raw)

	if v, err := oj.ParseString(candidate); err == nil {
		switch val := v.(type) {
		case string:
			candidate = val
		case map[string]any:
			if s, ok := val[KeySentiment].(string); ok {
				candidate = s
			}
		}
	}

	candidate = strings.ToLower(strings.Trim(candidate, " \t\r\n\"'.!"))
	if slices.Contains(Labels, candidate) {
		return candidate, true
	}
	return Neutral, false
}
