package chatgraph

import (
	"errors"
	"fmt"
)

// Compile errors. Compile joins every one it finds, so test with errors.Is.
var (
	ErrNoEntryPoint       = errors.New("entry point not set")
	ErrEntryNotFound      = errors.New("entry point node not found")
	ErrNodeNotFound       = errors.New("node not found")
	ErrMultipleSuccessors = errors.New("node has more than one outgoing edge")
	ErrCycle              = errors.New("cycle detected")
)

// ErrNilContext is returned by Run for a nil Context.
var ErrNilContext = errors.New("context cannot be nil")

// NodeError names the node whose execution failed. Op is "execute" for
// errors returned by the node itself.
type NodeError struct {
	NodeID string
	Op     string
	Err    error
}

func (e *NodeError) Error() string {
	return fmt.Sprintf("node %s: %s: %v", e.NodeID, e.Op, e.Err)
}

func (e *NodeError) Unwrap() error { return e.Err }

// PanicError is a recovered node panic. Stack is captured at recovery.
type PanicError struct {
	NodeID string
	Value  any
	Stack  string
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("node %s panicked: %v", e.NodeID, e.Value)
}

// CancellationError reports that the context was done before NodeID ran.
// State is what the last completed node left behind.
type CancellationError struct {
	NodeID string
	State  State
	Cause  error
}

func (e *CancellationError) Error() string {
	return fmt.Sprintf("cancelled before node %s: %v", e.NodeID, e.Cause)
}

func (e *CancellationError) Unwrap() error { return e.Cause }
