package chatgraph

import "log/slog"

// LoggingNode records selected state keys and passes the state through.
type LoggingNode struct {
	name  string
	keys  []string
	level slog.Level
}

// NewLoggingNode logs keys (in the given order) whenever it runs.
// Keys missing from the state are skipped.
func NewLoggingNode(name string, keys ...string) *LoggingNode {
	return &LoggingNode{name: name, keys: keys, level: slog.LevelInfo}
}

// WithLevel sets the record level. Defaults to Info.
func (n *LoggingNode) WithLevel(level slog.Level) *LoggingNode {
	n.level = level
	return n
}

// Name implements Node.
func (n *LoggingNode) Name() string { return n.name }

// Keys returns the logged keys.
func (n *LoggingNode) Keys() []string { return n.keys }

// Execute implements Node. It never fails.
func (n *LoggingNode) Execute(ctx Context, state State) (State, error) {
	attrs := make([]slog.Attr, 0, len(n.keys))
	for _, key := range n.keys {
		if v, ok := state[key]; ok {
			attrs = append(attrs, slog.Any(key, v))
		}
	}
	ctx.Logger().LogAttrs(ctx, n.level, "interaction", attrs...)
	return state, nil
}
