package transcript

import (
	"context"
	"time"

	"github.com/randalmurphal/chatgraph/pkg/chatgraph"
)

// Asker answers a question by walking a graph.
// *chatgraph.ChatGraph satisfies it.
type Asker interface {
	Name() string
	Chat(ctx context.Context, question string) (string, error)
}

var _ Asker = (*chatgraph.ChatGraph)(nil)

// Recorder asks questions through an Asker and appends every interaction
// to a Store.
type Recorder struct {
	asker Asker
	store Store
}

// NewRecorder wraps asker so every Ask lands in store.
func NewRecorder(asker Asker, store Store) *Recorder {
	return &Recorder{asker: asker, store: store}
}

// Ask returns the answer and the recorded entry. The walk error is returned
// as is; a failure to append is returned only when the walk succeeded.
func (r *Recorder) Ask(ctx context.Context, question string) (string, Entry, error) {
	start := time.Now()
	answer, err := r.asker.Chat(ctx, question)

	e := stamp(Entry{
		Graph:    r.asker.Name(),
		Question: question,
		Response: answer,
		Duration: time.Since(start),
	})
	if err != nil {
		e.Error = err.Error()
	}

	if appendErr := r.store.Append(ctx, e); appendErr != nil && err == nil {
		return answer, e, appendErr
	}
	return answer, e, err
}
