package chatgraph

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
)

// Helper nodes

// passthrough returns a node that leaves the state unchanged.
func passthrough(name string) Node {
	return NewFuncNode(name, func(_ Context, s State) (State, error) {
		return s, nil
	})
}

// tracker records node execution order. Safe for concurrent walks.
type tracker struct {
	mu    sync.Mutex
	order []string
}

func (tr *tracker) record(name string) {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	tr.order = append(tr.order, name)
}

func (tr *tracker) visited() []string {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return append([]string(nil), tr.order...)
}

// trackingNode records its execution and appends its name to state["path"].
func trackingNode(name string, tr *tracker) Node {
	return NewFuncNode(name, func(_ Context, s State) (State, error) {
		tr.record(name)
		path, _ := s["path"].([]string)
		s["path"] = append(path, name)
		return s, nil
	})
}

// failingNode returns err when executed.
func failingNode(name string, err error) Node {
	return NewFuncNode(name, func(_ Context, s State) (State, error) {
		return s, err
	})
}

// panicNode panics with value when executed.
func panicNode(name string, value any) Node {
	return NewFuncNode(name, func(_ Context, _ State) (State, error) {
		panic(value)
	})
}

// testCtx creates a context that discards logs.
func testCtx() Context {
	return NewContext(context.Background(), WithLogger(discardLogger()))
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// captureLogger returns a JSON logger writing into the returned buffer.
func captureLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}

// mustCompile compiles g or panics.
func mustCompile(g *Graph) *CompiledGraph {
	compiled, err := g.Compile()
	if err != nil {
		panic(err)
	}
	return compiled
}
