package chatgraph

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
)

// Compile validates the graph and creates an executable CompiledGraph.
// Returns an error if validation fails. Multiple errors are joined together.
//
// Validation checks (in order):
//  1. Entry point must be set
//  2. Entry point must reference an existing node
//  3. All edge sources must reference existing nodes
//  4. All edge targets must reference existing nodes or END
//  5. No node may have more than one outgoing edge
//  6. Stop conditions must reference existing nodes
//  7. Following edges from the entry point must not revisit a node
//
// Unreachable nodes (not reachable from entry) are logged as warnings
// but do not cause compilation to fail.
func (g *Graph) Compile() (*CompiledGraph, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var errs []error

	entryOK := false
	if g.entryPoint == "" {
		errs = append(errs, ErrNoEntryPoint)
	} else if _, exists := g.index[g.entryPoint]; !exists {
		errs = append(errs, fmt.Errorf("%w: %s", ErrEntryNotFound, g.entryPoint))
	} else {
		entryOK = true
	}

	edgesOK := true
	for _, from := range slices.Sorted(maps.Keys(g.edges)) {
		targets := g.edges[from]
		if _, exists := g.index[from]; !exists {
			errs = append(errs, fmt.Errorf("%w: edge source '%s' does not exist", ErrNodeNotFound, from))
			edgesOK = false
		}
		for _, to := range targets {
			if to == END {
				continue
			}
			if _, exists := g.index[to]; !exists {
				errs = append(errs, fmt.Errorf("%w: edge target '%s' does not exist", ErrNodeNotFound, to))
				edgesOK = false
			}
		}
		if len(targets) > 1 {
			errs = append(errs, fmt.Errorf("%w: '%s' -> %v", ErrMultipleSuccessors, from, targets))
			edgesOK = false
		}
	}

	for _, id := range slices.Sorted(maps.Keys(g.stops)) {
		if _, exists := g.index[id]; !exists {
			errs = append(errs, fmt.Errorf("%w: stop condition on '%s'", ErrNodeNotFound, id))
		}
	}

	if entryOK && edgesOK {
		if node, ok := g.findCycle(); ok {
			errs = append(errs, fmt.Errorf("%w: '%s' is revisited", ErrCycle, node))
		} else {
			g.warnUnreachableNodes()
		}
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return g.buildCompiledGraph(), nil
}

// successorOf returns the single successor of id, or "" if it has none.
// Only valid after edge validation.
func (g *Graph) successorOf(id string) string {
	if targets := g.edges[id]; len(targets) == 1 && targets[0] != END {
		return targets[0]
	}
	return ""
}

// findCycle walks the chain from the entry point and reports the first
// node reached twice.
func (g *Graph) findCycle() (string, bool) {
	visited := make(map[string]bool, len(g.nodes))
	for current := g.entryPoint; current != ""; current = g.successorOf(current) {
		if visited[current] {
			return current, true
		}
		visited[current] = true
	}
	return "", false
}

// warnUnreachableNodes logs warnings for nodes not on the chain from entry.
func (g *Graph) warnUnreachableNodes() {
	reachable := make(map[string]bool, len(g.nodes))
	for current := g.entryPoint; current != ""; current = g.successorOf(current) {
		reachable[current] = true
	}

	for _, n := range g.nodes {
		if !reachable[n.Name()] {
			slog.Warn("node is unreachable from entry", "node_id", n.Name())
		}
	}
}

// buildCompiledGraph creates the immutable CompiledGraph from the builder state.
// Adjacency is stored as successor indices with noSuccessor marking the end.
func (g *Graph) buildCompiledGraph() *CompiledGraph {
	nodes := slices.Clone(g.nodes)
	index := maps.Clone(g.index)

	next := make([]int, len(nodes))
	stops := make([]StopCondition, len(nodes))
	for i, n := range nodes {
		next[i] = noSuccessor
		if to := g.successorOf(n.Name()); to != "" {
			next[i] = index[to]
		}
		stops[i] = g.stops[n.Name()]
	}

	return &CompiledGraph{
		name:  g.name,
		nodes: nodes,
		index: index,
		next:  next,
		stops: stops,
		entry: index[g.entryPoint],
	}
}
