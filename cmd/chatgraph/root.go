package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/chatgraph/pkg/chatgraph"
	"github.com/randalmurphal/chatgraph/pkg/chatgraph/config"
	"github.com/randalmurphal/chatgraph/pkg/chatgraph/llm"
	"github.com/randalmurphal/chatgraph/pkg/chatgraph/registry"
	"github.com/randalmurphal/chatgraph/pkg/chatgraph/transcript"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath  string
	dotenvPath  string
	model       string
	temperature float64
	baseURL     string
	logFile     string
	transcript  string
	verbose     bool
}

// session holds what a subcommand needs once flags and config are resolved.
type session struct {
	logger    *slog.Logger
	processor llm.Processor
	chatOpts  []chatgraph.ChatOption
	store     transcript.Store
	graphs    *registry.Registry
	closers   []io.Closer
}

// graph builds the named graph with the session's processor and policy.
func (s *session) graph(name string) (*chatgraph.ChatGraph, error) {
	g, err := s.graphs.Build(name, s.processor, s.chatOpts...)
	if err != nil {
		return nil, err
	}
	return g.WithLogger(s.logger), nil
}

func (s *session) Close() error {
	var first error
	for _, c := range s.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "chatgraph",
		Short: "Chat with a local language model through a node graph",
		Long: `chatgraph walks a small linear graph for every question: a chat node
renders a prompt, calls the model with retries and cleans the answer, and a
logging node records the interaction.

Settings come from the config file, then .env, then CHATGRAPH_* environment
variables, then flags.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "Config file (.yaml, .yml, .json)")
	pf.StringVar(&flags.dotenvPath, "env-file", ".env", "Dotenv file, ignored when missing")
	pf.StringVar(&flags.model, "model", "", "Model name (overrides config)")
	pf.Float64Var(&flags.temperature, "temperature", 0, "Sampling temperature (overrides config)")
	pf.StringVar(&flags.baseURL, "base-url", "", "Ollama base URL (overrides config)")
	pf.StringVar(&flags.logFile, "log-file", "chat_log.txt", "Append logs to this file as well as stderr; empty disables")
	pf.StringVar(&flags.transcript, "transcript", "", "SQLite transcript path; in-memory when empty")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "Enable debug logging")

	root.CompletionOptions.DisableDefaultCmd = true

	root.AddCommand(
		newChatCmd(flags),
		newSentimentCmd(flags),
		newBatchCmd(flags),
	)
	return root
}

// open resolves configuration and builds the session for cmd.
func (f *globalFlags) open(cmd *cobra.Command) (*session, error) {
	s := &session{graphs: registry.Default()}

	var logOut io.Writer = cmd.ErrOrStderr()
	if f.logFile != "" {
		file, err := os.OpenFile(f.logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		s.closers = append(s.closers, file)
		logOut = io.MultiWriter(logOut, file)
	}
	level := slog.LevelInfo
	if f.verbose {
		level = slog.LevelDebug
	}
	s.logger = slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: level}))

	cfg, err := config.Load(f.configPath, f.dotenvPath)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg = cfg.Merge(f.overrides(cmd))

	m := config.ModelFrom(cfg)
	if err := m.Validate(); err != nil {
		s.Close()
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	s.processor = llm.NewOllama(
		llm.WithModel(m.Model),
		llm.WithTemperature(m.Temperature),
		llm.WithFormat(m.Format),
		llm.WithBaseURL(m.BaseURL),
		llm.WithTimeout(m.Timeout),
		llm.WithContextWindow(m.ContextWindow),
		llm.WithOllamaLogger(s.logger),
	)
	s.chatOpts = []chatgraph.ChatOption{
		chatgraph.WithMaxRetries(m.MaxRetries),
		chatgraph.WithRetryDelay(m.RetryDelay),
	}

	if f.transcript == "" {
		s.store = transcript.NewMemoryStore()
	} else {
		store, err := transcript.NewSQLiteStore(f.transcript)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("open transcript: %w", err)
		}
		s.store = store
	}
	s.closers = append(s.closers, s.store)

	s.logger.Debug("session ready",
		"model", m.Model,
		"base_url", m.BaseURL,
		"max_retries", m.MaxRetries,
	)
	return s, nil
}

// overrides returns the flags the user actually set as config entries.
func (f *globalFlags) overrides(cmd *cobra.Command) config.Config {
	set := make(map[string]any)
	changed := cmd.Flags().Changed
	if changed("model") {
		set[config.KeyModel] = f.model
	}
	if changed("temperature") {
		set[config.KeyTemperature] = strconv.FormatFloat(f.temperature, 'f', -1, 64)
	}
	if changed("base-url") {
		set[config.KeyBaseURL] = f.baseURL
	}
	return config.New(set)
}
