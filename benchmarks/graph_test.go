package benchmarks

import (
	"fmt"
	"testing"

	"github.com/randalmurphal/chatgraph/pkg/chatgraph"
)

// BenchmarkChain_10 builds a 10-node chain.
func BenchmarkChain_10(b *testing.B) {
	nodes := noopNodes(10)
	b.ResetTimer()
	for b.Loop() {
		_ = chatgraph.Chain(nodes...)
	}
}

// BenchmarkCompile_Linear_10 compiles a 10-node linear graph.
func BenchmarkCompile_Linear_10(b *testing.B) {
	graph := chatgraph.Chain(noopNodes(10)...)
	b.ResetTimer()
	for b.Loop() {
		_, _ = graph.Compile()
	}
}

// BenchmarkCompile_Linear_100 compiles a 100-node linear graph.
func BenchmarkCompile_Linear_100(b *testing.B) {
	graph := chatgraph.Chain(noopNodes(100)...)
	b.ResetTimer()
	for b.Loop() {
		_, _ = graph.Compile()
	}
}

// BenchmarkCompile_Invalid measures error collection on a graph with a
// dangling edge and a cycle.
func BenchmarkCompile_Invalid(b *testing.B) {
	nodes := noopNodes(3)
	graph := chatgraph.NewGraph()
	for _, n := range nodes {
		graph.AddNode(n)
	}
	graph.AddEdge("n0", "n1").
		AddEdge("n1", "n0").
		AddEdge("n2", "missing").
		SetEntry("n0")
	b.ResetTimer()
	for b.Loop() {
		_, _ = graph.Compile()
	}
}

func noopNodes(n int) []chatgraph.Node {
	nodes := make([]chatgraph.Node, n)
	for i := range nodes {
		nodes[i] = chatgraph.NewFuncNode(fmt.Sprintf("n%d", i), noop)
	}
	return nodes
}

func noop(_ chatgraph.Context, s chatgraph.State) (chatgraph.State, error) {
	return s, nil
}

func mustCompile(g *chatgraph.Graph) *chatgraph.CompiledGraph {
	compiled, err := g.Compile()
	if err != nil {
		panic(err)
	}
	return compiled
}
