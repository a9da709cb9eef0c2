package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/randalmurphal/chatgraph/pkg/chatgraph/registry"
	"github.com/randalmurphal/chatgraph/pkg/chatgraph/transcript"
)

func newBatchCmd(flags *globalFlags) *cobra.Command {
	var (
		concurrency int
		graph       string
	)

	cmd := &cobra.Command{
		Use:   "batch FILE",
		Short: "Answer one question per line of FILE",
		Long: `batch walks a fresh run per non-empty line of FILE, several at a time,
and prints the answers in input order. Use "-" to read standard input.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			questions, err := readQuestions(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}

			s, err := flags.open(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			g, err := s.graph(graph)
			if err != nil {
				return err
			}

			results, err := runBatch(cmd.Context(), transcript.NewRecorder(g, s.store), questions, concurrency)
			if err != nil {
				return err
			}
			printResults(cmd.OutOrStdout(), results)
			return nil
		},
	}

	cmd.Flags().IntVarP(&concurrency, "concurrency", "c", 4, "Questions answered at once")
	cmd.Flags().StringVarP(&graph, "graph", "g", registry.Chat, "Graph to walk ("+strings.Join(registry.Default().Names(), ", ")+")")
	return cmd
}

// batchResult is the outcome for one question.
type batchResult struct {
	Question string
	Answer   string
	Err      error
}

// runBatch asks every question with at most limit walks in flight. Question
// failures are kept per result; only cancellation aborts the batch.
func runBatch(ctx context.Context, rec *transcript.Recorder, questions []string, limit int) ([]batchResult, error) {
	if limit < 1 {
		limit = 1
	}

	results := make([]batchResult, len(questions))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, q := range questions {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			answer, _, err := rec.Ask(gctx, q)
			results[i] = batchResult{Question: q, Answer: answer, Err: err}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func printResults(out io.Writer, results []batchResult) {
	for i, r := range results {
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintf(out, "Q: %s\n", r.Question)
		if r.Err != nil {
			fmt.Fprintf(out, "Error: %v\n", r.Err)
			continue
		}
		fmt.Fprintf(out, "A: %s\n", r.Answer)
	}
}

func readQuestions(path string, stdin io.Reader) ([]string, error) {
	in := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open questions: %w", err)
		}
		defer f.Close()
		in = f
	}

	var questions []string
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if q := strings.TrimSpace(scanner.Text()); q != "" {
			questions = append(questions, q)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read questions: %w", err)
	}
	return questions, nil
}
