package chatgraph

import (
	"fmt"
	"strings"
	"sync"
)

// DefaultGraphName names graphs that never called SetName.
const DefaultGraphName = "chatgraph"

// Graph collects nodes and edges for Compile. Building methods return the
// graph so calls chain, and panic on programmer errors such as duplicate
// names; structural problems are left for Compile to report together.
//
//	graph := chatgraph.NewGraph().
//	    AddNode(chatNode).
//	    AddNode(logNode).
//	    AddEdge("chat", "log").
//	    AddEdge("log", chatgraph.END).
//	    SetEntry("chat")
//
// Build a Graph from one goroutine; share the CompiledGraph instead.
type Graph struct {
	mu         sync.RWMutex
	name       string
	nodes      []Node
	index      map[string]int
	edges      map[string][]string
	stops      map[string]StopCondition
	entryPoint string
}

// NewGraph creates an empty graph builder.
func NewGraph() *Graph {
	return &Graph{
		name:  DefaultGraphName,
		index: make(map[string]int),
		edges: make(map[string][]string),
		stops: make(map[string]StopCondition),
	}
}

// Chain builds a graph that runs nodes in the given order, starting with
// the first and ending after the last.
func Chain(nodes ...Node) *Graph {
	g := NewGraph()
	for i, n := range nodes {
		g.AddNode(n)
		if i > 0 {
			g.AddEdge(nodes[i-1].Name(), n.Name())
		}
	}
	if len(nodes) > 0 {
		g.AddEdge(nodes[len(nodes)-1].Name(), END)
		g.SetEntry(nodes[0].Name())
	}
	return g
}

// SetName sets the name reported in logs, spans and transcripts.
func (g *Graph) SetName(name string) *Graph {
	g.mu.Lock()
	defer g.mu.Unlock()

	if name != "" {
		g.name = name
	}
	return g
}

// AddNode adds node under node.Name(). It panics on a nil node or a name
// that is empty, reserved ("END" or END, any case), contains whitespace, or
// is already taken.
func (g *Graph) AddNode(node Node) *Graph {
	if node == nil {
		panic("chatgraph: node cannot be nil")
	}
	id := node.Name()
	if msg := checkNodeName(id); msg != "" {
		panic("chatgraph: " + msg)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, taken := g.index[id]; taken {
		panic(fmt.Sprintf("chatgraph: duplicate node name: %s", id))
	}
	g.index[id] = len(g.nodes)
	g.nodes = append(g.nodes, node)
	return g
}

func checkNodeName(id string) string {
	switch {
	case id == "":
		return "node name cannot be empty"
	case strings.EqualFold(id, "end") || strings.EqualFold(id, END):
		return "node name cannot be reserved word 'END'"
	case strings.ContainsAny(id, " \t\n\r"):
		return "node name cannot contain whitespace"
	}
	return ""
}

// AddEdge makes to run after from. to may be END. Endpoints are checked by
// Compile, so edges may be added before their nodes.
func (g *Graph) AddEdge(from, to string) *Graph {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.edges[from] = append(g.edges[from], to)
	return g
}

// AddStopCondition registers cond to run after the named node. When it
// reports true the walk ends there. Panics if cond is nil.
func (g *Graph) AddStopCondition(nodeID string, cond StopCondition) *Graph {
	if cond == nil {
		panic("chatgraph: stop condition cannot be nil")
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.stops[nodeID] = cond
	return g
}

// SetEntry names the first node to run.
func (g *Graph) SetEntry(id string) *Graph {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.entryPoint = id
	return g
}
