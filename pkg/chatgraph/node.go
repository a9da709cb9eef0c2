package chatgraph

// END is the terminal node identifier.
// Use this as an edge target to mark the end of the chain explicitly.
// A node without an outgoing edge is terminal as well.
const END = "__end__"

// Node is a named unit of work in a graph.
//
// Execute receives the execution context and the current state and returns
// the state for the next node. Nodes may add keys to the state they are
// given and return it. Returning a nil state keeps the input state.
//
// Nodes must not keep per-walk data in their own fields: a compiled graph
// may run several walks at once.
type Node interface {
	Name() string
	Execute(ctx Context, state State) (State, error)
}

// NodeFunc is the signature for plain node functions.
//
// Example:
//
//	func shout(ctx chatgraph.Context, s chatgraph.State) (chatgraph.State, error) {
//	    q, _ := s.String("question")
//	    s["question"] = strings.ToUpper(q)
//	    return s, nil
//	}
type NodeFunc func(ctx Context, state State) (State, error)

// FuncNode adapts a NodeFunc to the Node interface.
type FuncNode struct {
	name string
	fn   NodeFunc
}

// NewFuncNode wraps fn as a node called name.
// Panics if fn is nil.
func NewFuncNode(name string, fn NodeFunc) *FuncNode {
	if fn == nil {
		panic("chatgraph: node function cannot be nil")
	}
	return &FuncNode{name: name, fn: fn}
}

// Name implements Node.
func (n *FuncNode) Name() string { return n.name }

// Execute implements Node.
func (n *FuncNode) Execute(ctx Context, state State) (State, error) {
	return n.fn(ctx, state)
}

// StopCondition ends a walk early when it returns true for the state a node
// produced.
type StopCondition func(state State) bool
