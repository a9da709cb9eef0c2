package chatgraph

import (
	"fmt"
	"maps"
	"slices"
)

// Well-known state keys.
const (
	// KeyQuestion holds the user's input.
	KeyQuestion = "question"
	// KeyResponse holds the model's cleaned answer.
	KeyResponse = "response"
	// KeyExecutionTime holds the wall-clock seconds (float64) of the
	// successful model attempt.
	KeyExecutionTime = "execution_time"
)

// State is the key-value map threaded through a walk.
// Nodes read and add keys; the same map is passed from node to node.
type State map[string]any

// Has reports whether key is present, regardless of its value.
func (s State) Has(key string) bool {
	_, ok := s[key]
	return ok
}

// String returns the value for key formatted as a string.
// The second result is false when the key is absent.
func (s State) String(key string) (string, bool) {
	v, ok := s[key]
	if !ok {
		return "", false
	}
	if str, ok := v.(string); ok {
		return str, true
	}
	return fmt.Sprint(v), true
}

// Keys returns the state's keys in sorted order.
func (s State) Keys() []string {
	return slices.Sorted(maps.Keys(s))
}
