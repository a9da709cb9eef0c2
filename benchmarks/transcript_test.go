package benchmarks

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/randalmurphal/chatgraph/pkg/chatgraph/transcript"
)

var entry = transcript.Entry{
	Graph:    "chat",
	Question: "What is the capital of France?",
	Response: "Paris.",
	Duration: 120 * time.Millisecond,
}

// BenchmarkMemoryStore_Append measures in-memory appends.
func BenchmarkMemoryStore_Append(b *testing.B) {
	store := transcript.NewMemoryStore()
	defer store.Close()
	ctx := context.Background()
	b.ResetTimer()
	for b.Loop() {
		_ = store.Append(ctx, entry)
	}
}

// BenchmarkSQLiteStore_Append measures file-backed appends.
func BenchmarkSQLiteStore_Append(b *testing.B) {
	store, err := transcript.NewSQLiteStore(filepath.Join(b.TempDir(), "bench.db"))
	if err != nil {
		b.Fatal(err)
	}
	defer store.Close()
	ctx := context.Background()
	b.ResetTimer()
	for b.Loop() {
		_ = store.Append(ctx, entry)
	}
}

// BenchmarkSQLiteStore_List measures reading the latest 20 of 1000 entries.
func BenchmarkSQLiteStore_List(b *testing.B) {
	store, err := transcript.NewSQLiteStore(":memory:")
	if err != nil {
		b.Fatal(err)
	}
	defer store.Close()
	ctx := context.Background()
	for range 1000 {
		if err := store.Append(ctx, entry); err != nil {
			b.Fatal(err)
		}
	}
	b.ResetTimer()
	for b.Loop() {
		_, _ = store.List(ctx, 20)
	}
}
