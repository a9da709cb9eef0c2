package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/chatgraph/pkg/chatgraph/registry"
	"github.com/randalmurphal/chatgraph/pkg/chatgraph/transcript"
)

var exitWords = []string{"quit", "exit", "bye", "goodbye", "see you"}

func isExit(line string) bool {
	return slices.Contains(exitWords, strings.ToLower(strings.TrimSpace(line)))
}

func newChatCmd(flags *globalFlags) *cobra.Command {
	cmd := newInteractiveCmd(flags, registry.Chat)
	cmd.Short = "Interactive chat"
	cmd.Example = `  chatgraph chat
  chatgraph chat --model llama3.2 --temperature 0.7`
	return cmd
}

func newSentimentCmd(flags *globalFlags) *cobra.Command {
	cmd := newInteractiveCmd(flags, registry.Sentiment)
	cmd.Short = "Interactive chat that adapts its tone to your sentiment"
	return cmd
}

// newInteractiveCmd runs the interactive loop over the named graph.
func newInteractiveCmd(flags *globalFlags, graph string) *cobra.Command {
	return &cobra.Command{
		Use:  graph,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := flags.open(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			g, err := s.graph(graph)
			if err != nil {
				return err
			}
			return interact(cmd.Context(), transcript.NewRecorder(g, s.store), cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

// interact reads questions from in until EOF or an exit word. A failed
// question is reported and the loop continues.
func interact(ctx context.Context, rec *transcript.Recorder, in io.Reader, out io.Writer) error {
	fmt.Fprintln(out, "Chat started. Type 'quit' to exit.")

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "\nYou: ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if isExit(line) {
			fmt.Fprintln(out, "\nGoodbye!")
			return nil
		}
		if line == "" {
			continue
		}

		answer, _, err := rec.Ask(ctx, line)
		if err != nil {
			fmt.Fprintf(out, "\nError: %v\n", err)
			if ctx.Err() != nil {
				return ctx.Err()
			}
			continue
		}
		fmt.Fprintf(out, "\nAssistant: %s\n", answer)
	}
	fmt.Fprintln(out)
	return scanner.Err()
}
