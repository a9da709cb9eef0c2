/*
Package chatgraph runs linear chains of nodes around language model calls.

# Overview

A graph is a sequence of named nodes sharing one State map. Each node reads
keys from the state, adds its own, and hands the state to its successor.
The walk ends after the last node, or earlier when a stop condition fires.
A failing node aborts the walk with a *NodeError naming it; nothing after it
runs.

# Basic Usage

	chat := chatgraph.NewChatNode("chat", processor,
	    "Answer briefly: {question}")
	logNode := chatgraph.NewLoggingNode("log", "question", "response", "execution_time")

	compiled, err := chatgraph.NewGraph().
	    AddNode(chat).
	    AddNode(logNode).
	    AddEdge("chat", "log").
	    AddEdge("log", chatgraph.END).
	    SetEntry("chat").
	    Compile()
	if err != nil {
	    log.Fatal(err)
	}

	ctx := chatgraph.NewContext(context.Background())
	state, err := compiled.Run(ctx, chatgraph.State{"question": "Why is the sky blue?"})

Chain builds the same graph from an ordered node list, and NewChatGraph
wraps it for one-call use:

	g := chatgraph.NewChatGraph(processor, "Answer briefly: {question}")
	answer, err := g.Chat(ctx, "Why is the sky blue?")

# Chat Nodes

A ChatNode checks its inputs before calling the model: the input key must
hold a non-empty value and every {placeholder} must be in state, otherwise
it fails with *errors.MissingInputError and the model is not called.

Answers are cleaned before validation. JSON answers are re-serialized with
sorted keys; anything else has its whitespace collapsed. Empty answers and
empty JSON values (null, false, 0, "", [], {}) are invalid. Invalid answers
and model errors are retried after a fixed delay; after the last attempt
the node fails with *errors.ExhaustedError.

# Building Rules

AddNode panics on programmer errors: nil nodes, empty names, names
containing whitespace, the reserved name END, and duplicate names.
Compile reports structural errors, joined:

  - ErrNoEntryPoint, ErrEntryNotFound
  - ErrNodeNotFound for edges or stop conditions naming unknown nodes
  - ErrMultipleSuccessors when a node has more than one outgoing edge
  - ErrCycle when the chain revisits a node

# Observability

Run logs run and node lifecycle records through the Context logger (or
WithObservabilityLogger). WithMetrics and WithTracing enable OpenTelemetry
instruments and spans on the global providers. Chat nodes log, count and
trace every attempt.

# Thread Safety

A CompiledGraph is immutable. Several walks may run at once as long as each
has its own State.
*/
package chatgraph
