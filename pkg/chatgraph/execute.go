package chatgraph

import (
	"context"
	"errors"
	"runtime/debug"
	"time"

	"github.com/randalmurphal/chatgraph/pkg/chatgraph/observability"
)

// Run walks the graph with the given initial state.
// Returns the final state and any error encountered.
//
// The state map is shared with the nodes and mutated in place. On error the
// returned state is the state at the point of failure.
//
// Execution flow:
//  1. Start at the entry point node
//  2. Check for cancellation
//  3. Execute the current node
//  4. Stop if the node's stop condition reports true
//  5. Move to the node's successor; stop after the last node
//
// Example:
//
//	ctx := chatgraph.NewContext(context.Background())
//	result, err := compiled.Run(ctx, chatgraph.State{"question": "hi"})
//	if err != nil {
//	    // result contains state at point of failure
//	}
func (cg *CompiledGraph) Run(ctx Context, state State, opts ...RunOption) (result State, runErr error) {
	if ctx == nil {
		return state, ErrNilContext
	}
	if state == nil {
		state = State{}
	}

	cfg := newRunConfig(ctx, opts)
	startTime := time.Now()

	observability.LogRunStart(cfg.logger, cfg.runID, state.Keys())

	spanCtx, runSpan := cfg.spans.StartRunSpan(ctx, cg.name, cfg.runID)
	defer func() {
		cfg.spans.EndSpanWithError(runSpan, runErr)
	}()

	var nodeCount int
	result, nodeCount, runErr = cg.walk(spanCtx, ctx, state, &cfg)

	duration := time.Since(startTime)
	durationMs := float64(duration.Milliseconds())

	cfg.metrics.RecordGraphRun(spanCtx, runErr == nil, duration)

	if runErr != nil {
		observability.LogRunError(cfg.logger, cfg.runID, runErr, durationMs, failedNode(runErr))
	} else {
		observability.LogRunComplete(cfg.logger, cfg.runID, durationMs, nodeCount)
	}

	return result, runErr
}

// walk follows successor indices from the entry node.
// spanCtx carries cancellation and the run span; base is the caller's Context.
// Returns the final state, the number of completed nodes and any error.
func (cg *CompiledGraph) walk(spanCtx context.Context, base Context, state State, cfg *runConfig) (State, int, error) {
	nodeCount := 0

	for idx := cg.entry; idx != noSuccessor; idx = cg.next[idx] {
		node := cg.nodes[idx]
		id := node.Name()

		select {
		case <-spanCtx.Done():
			return state, nodeCount, &CancellationError{
				NodeID: id,
				State:  state,
				Cause:  spanCtx.Err(),
			}
		default:
		}

		observability.LogNodeStart(cfg.logger, id)

		nodeSpanCtx, nodeSpan := cfg.spans.StartNodeSpan(spanCtx, id)
		nodeCtx := nodeContext(nodeSpanCtx, base, cfg.runID, id, cfg.metrics)

		nodeStart := time.Now()
		var nodeErr error
		state, nodeErr = executeNode(nodeCtx, node, state)
		nodeDuration := time.Since(nodeStart)

		cfg.metrics.RecordNodeExecution(nodeSpanCtx, id, nodeDuration, nodeErr)
		cfg.spans.EndSpanWithError(nodeSpan, nodeErr)

		if nodeErr != nil {
			observability.LogNodeError(cfg.logger, id, nodeErr)
			return state, nodeCount, nodeErr
		}
		observability.LogNodeComplete(cfg.logger, id, float64(nodeDuration.Milliseconds()))
		nodeCount++

		if stop := cg.stops[idx]; stop != nil && stop(state) {
			observability.LogRunStopped(cfg.logger, cfg.runID, id)
			break
		}
	}

	return state, nodeCount, nil
}

// executeNode runs a single node with panic recovery.
// Returns the new state and any error (including wrapped panics).
func executeNode(ctx *executionContext, node Node, state State) (result State, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = state
			err = &PanicError{
				NodeID: ctx.nodeID,
				Value:  r,
				Stack:  string(debug.Stack()),
			}
		}
	}()

	result, err = node.Execute(ctx, state)
	if result == nil {
		result = state
	}
	if err != nil {
		return result, &NodeError{
			NodeID: ctx.nodeID,
			Op:     "execute",
			Err:    err,
		}
	}

	return result, nil
}

// failedNode extracts the node a walk error refers to, if any.
func failedNode(err error) string {
	var nodeErr *NodeError
	var panicErr *PanicError
	var cancelErr *CancellationError
	switch {
	case errors.As(err, &nodeErr):
		return nodeErr.NodeID
	case errors.As(err, &panicErr):
		return panicErr.NodeID
	case errors.As(err, &cancelErr):
		return cancelErr.NodeID
	}
	return ""
}
