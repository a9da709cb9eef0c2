package chatgraph

// noSuccessor marks a node whose walk ends after it runs.
const noSuccessor = -1

// CompiledGraph is an immutable, executable graph.
// It is created by calling Compile() on a Graph builder.
//
// CompiledGraph is thread-safe and can be used concurrently for multiple
// Run() calls, each with its own state.
type CompiledGraph struct {
	name  string
	nodes []Node
	index map[string]int

	// next[i] is the index of the node after nodes[i], or noSuccessor.
	next  []int
	stops []StopCondition
	entry int
}

// Name returns the graph name.
func (cg *CompiledGraph) Name() string {
	return cg.name
}

// EntryPoint returns the entry node name.
func (cg *CompiledGraph) EntryPoint() string {
	return cg.nodes[cg.entry].Name()
}

// NodeIDs returns all node names in the order they were added.
func (cg *CompiledGraph) NodeIDs() []string {
	ids := make([]string, len(cg.nodes))
	for i, n := range cg.nodes {
		ids[i] = n.Name()
	}
	return ids
}

// HasNode checks if a node exists in the graph.
func (cg *CompiledGraph) HasNode(id string) bool {
	_, exists := cg.index[id]
	return exists
}

// Successor returns the node that runs after id.
// Returns END for the last node of the chain and "" for unknown nodes.
func (cg *CompiledGraph) Successor(id string) string {
	i, ok := cg.index[id]
	if !ok {
		return ""
	}
	if cg.next[i] == noSuccessor {
		return END
	}
	return cg.nodes[cg.next[i]].Name()
}

// Path returns the node names a walk visits when no stop condition fires.
func (cg *CompiledGraph) Path() []string {
	var path []string
	for i := cg.entry; i != noSuccessor; i = cg.next[i] {
		path = append(path, cg.nodes[i].Name())
	}
	return path
}
