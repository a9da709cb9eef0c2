package chatgraph

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/chatgraph/pkg/chatgraph/llm"
)

func TestLoggingNode(t *testing.T) {
	logger, buf := captureLogger()
	n := NewLoggingNode("log", "question", "missing", "response")

	state := State{"question": "q", "response": "r", "other": "x"}
	result, err := n.Execute(NewContext(context.Background(), WithLogger(logger)), state)

	require.NoError(t, err)
	assert.Equal(t, state, result)
	assert.Equal(t, "log", n.Name())
	assert.Equal(t, []string{"question", "missing", "response"}, n.Keys())

	out := buf.String()
	assert.Contains(t, out, `"msg":"interaction"`)
	assert.Contains(t, out, `"question":"q"`)
	assert.Contains(t, out, `"response":"r"`)
	assert.NotContains(t, out, "missing")
	assert.NotContains(t, out, "other")
	assert.Less(t, strings.Index(out, `"question"`), strings.Index(out, `"response"`), "keys in configured order")
}

func TestLoggingNode_Level(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	n := NewLoggingNode("log", "question").WithLevel(slog.LevelDebug)

	_, err := n.Execute(NewContext(context.Background(), WithLogger(logger)), State{"question": "q"})
	require.NoError(t, err)
	assert.Empty(t, buf.String(), "debug records are below the info threshold")
}

func TestNewChatGraph(t *testing.T) {
	mock := llm.NewMockProcessor("Blue light scatters more.")
	g := NewChatGraph(mock, "Answer briefly: {question}", WithRetryDelay(0))

	assert.Equal(t, "chat", g.Name())
	assert.Equal(t, []string{ChatNodeName, LogNodeName}, g.Graph().Path())

	answer, err := g.Chat(context.Background(), "Why is the sky blue?")
	require.NoError(t, err)
	assert.Equal(t, "Blue light scatters more.", answer)

	calls := mock.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "Why is the sky blue?", calls[0].Vars["question"])
}

func TestChatGraph_Run(t *testing.T) {
	logger, buf := captureLogger()
	g := NewChatGraph(llm.NewMockProcessor("4"), "{question}", WithRetryDelay(0)).WithLogger(logger)

	state, err := g.Run(context.Background(), "2+2?")
	require.NoError(t, err)

	assert.Equal(t, "2+2?", state[KeyQuestion])
	assert.Equal(t, "4", state[KeyResponse])
	assert.Contains(t, state, KeyExecutionTime)
	assert.Contains(t, buf.String(), `"msg":"interaction"`)
}

func TestChatGraph_CustomOutputKey(t *testing.T) {
	g := NewChatGraph(llm.NewMockProcessor("hello"), "{question}",
		WithRetryDelay(0), WithOutputKey("answer"))

	state, err := g.Run(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "hello", state["answer"])
	assert.NotContains(t, state, KeyResponse)

	answer, err := g.Chat(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "hello", answer)
}

func TestChatGraph_Errors(t *testing.T) {
	mock := llm.NewMockProcessor().WithError(errors.New("offline"))
	g := NewChatGraph(mock, "{question}", WithRetryDelay(0), WithMaxRetries(2)).
		WithLogger(discardLogger())

	answer, err := g.Chat(context.Background(), "hi")
	require.Error(t, err)
	assert.Empty(t, answer)
	assert.Contains(t, err.Error(), "failed to get valid response after 2 attempts")

	_, err = g.Chat(context.Background(), "")
	var nodeErr *NodeError
	require.ErrorAs(t, err, &nodeErr)
	assert.Equal(t, ChatNodeName, nodeErr.NodeID)
	assert.Contains(t, err.Error(), "missing required variable for input key: question")
}

func TestWrapGraph_NoResponse(t *testing.T) {
	compiled := mustCompile(Chain(passthrough("noop")).SetName("empty"))
	g := WrapGraph(compiled, KeyResponse).WithLogger(discardLogger())

	answer, err := g.Chat(context.Background(), "anything")
	require.NoError(t, err)
	assert.Equal(t, NoResponse, answer)
	assert.Equal(t, "empty", g.Name())
}

func TestAnswer(t *testing.T) {
	assert.Equal(t, "x", Answer(State{"response": "x"}, "response"))
	assert.Equal(t, "42", Answer(State{"response": 42}, "response"))
	assert.Equal(t, NoResponse, Answer(State{}, "response"))
}

func TestState_Helpers(t *testing.T) {
	s := State{"b": 2, "a": "x"}
	assert.True(t, s.Has("a"))
	assert.False(t, s.Has("c"))
	assert.Equal(t, []string{"a", "b"}, s.Keys())

	v, ok := s.String("b")
	assert.True(t, ok)
	assert.Equal(t, "2", v)

	_, ok = s.String("c")
	assert.False(t, ok)
}
