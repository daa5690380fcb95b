package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/chzyer/readline"
	"github.com/huimingz/commitgen/internal/config"
	"github.com/huimingz/commitgen/internal/git"
	"github.com/huimingz/commitgen/internal/llm"
	"github.com/huimingz/commitgen/internal/log"
	"github.com/huimingz/commitgen/internal/pipeline"
	"github.com/huimingz/commitgen/internal/review"
	"github.com/huimingz/commitgen/internal/secret"
	"github.com/huimingz/commitgen/internal/ui"
	"github.com/huimingz/commitgen/pkg/lang"
	"github.com/spf13/cobra"
)

// session bundles what every pipeline command needs
type session struct {
	cfg     *config.Config
	secrets secret.Store
	printer *ui.StreamPrinter
	in      io.Reader
	out     io.Writer

	// lines is the one reader of piped input, shared by every prompt
	lines *bufio.Scanner
}

func newSession(cmd *cobra.Command) (*session, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	if language != "" {
		cfg.Language = language
	}
	l, err := lang.Parse(cfg.Language)
	if err != nil {
		return nil, &config.ConfigError{Path: cfg.Path(), Err: err}
	}
	cfg.Language = l.String()
	log.DebugConfig("Configuration", cfg)

	store, err := secret.ForConfig(cfg)
	if err != nil {
		return nil, &config.ConfigError{Path: cfg.Path(), Err: err}
	}

	in, out := cmd.InOrStdin(), cmd.OutOrStdout()
	return &session{
		cfg:     cfg,
		secrets: store,
		printer: ui.NewStreamPrinter(out, ui.WithVerbose(verbose || debugMode)),
		in:      in,
		out:     out,
		lines:   bufio.NewScanner(in),
	}, nil
}

// apiKey resolves the credential: flag, then environment and the configured
// backend, then an interactive prompt whose answer is stored for next time.
// An empty result is not an error; generation then falls back offline.
func (s *session) apiKey() string {
	if apiKeyFlag != "" {
		return apiKeyFlag
	}

	key, err := s.secrets.Get(secret.APIKey)
	if err == nil {
		return key
	}
	if !errors.Is(err, secret.ErrNotFound) {
		_ = s.printer.PrintWarning(fmt.Sprintf("Could not read API key: %v", err))
	}
	if s.cfg.Provider == "ollama" {
		return ""
	}

	_, _ = fmt.Fprintln(s.out, "🔑 API key not found in config.")
	key, err = s.readSecret(keyPrompt(s.cfg.Provider))
	if err != nil {
		log.Debug("API key prompt failed: %v", err)
		return ""
	}

	if err := s.secrets.Set(secret.APIKey, key); err != nil {
		_ = s.printer.PrintWarning(fmt.Sprintf("Could not save API key: %v", err))
	}
	return key
}

// terminal reports whether prompts talk to a real terminal
func (s *session) terminal() bool {
	return s.in == os.Stdin && readline.IsTerminal(int(os.Stdin.Fd()))
}

func (s *session) readSecret(prompt string) (string, error) {
	if s.terminal() {
		return ui.ReadSecret(prompt, s.in, s.out)
	}
	return ui.ReadSecretScanner(prompt, s.lines, s.out)
}

func keyPrompt(provider string) string {
	if provider == "openrouter" {
		return "Enter your OpenRouter API key: "
	}
	return fmt.Sprintf("Enter your %s API key: ", provider)
}

// generatorFactory defers credential lookup and client setup until the
// pipeline has found changes to describe.
func (s *session) generatorFactory() func() (llm.Generator, error) {
	return func() (llm.Generator, error) {
		mc := s.cfg.ModelConfig(modelName, s.apiKey())
		log.Debug("Using model: %s (provider: %s)", mc.Model, mc.Provider)

		opts := llm.GeneratorOptions{
			Timeout: time.Duration(s.cfg.Timeout) * time.Second,
			Retry:   llm.RetryConfigFrom(s.cfg.GetRetryConfig()),
		}
		if s.printer.Verbose() {
			opts.OnChunk = func(chunk string) { _ = s.printer.PrintLLMContent(chunk) }
		}

		gen, err := llm.NewProviderFactory().NewGenerator(mc, opts)
		if err != nil {
			return nil, err
		}
		return newInterruptibleGenerator(gen, s.printer), nil
	}
}

func (s *session) options() pipeline.Options {
	return pipeline.Options{
		Model:        s.cfg.ModelName(modelName),
		MaxDiffLines: s.cfg.MaxDiffLines,
		MaxTokens:    s.cfg.MaxTokens,
		Temperature:  s.cfg.Temperature,
		Language:     lang.Language(s.cfg.Language),
	}
}

// reviewer returns nil when both gates are switched off by flags
func (s *session) reviewer() pipeline.Reviewer {
	if !interactive && force {
		return nil
	}

	var p review.Prompter
	if s.terminal() {
		p = review.NewTerminalPrompter()
	} else {
		p = review.NewScannerPrompter(s.lines, s.out)
	}

	return review.NewReviewer(p,
		review.WithEditGate(interactive),
		review.WithConfirmGate(!force),
	)
}

func (s *session) openRepository() (*git.Repository, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get current directory: %w", err)
	}
	return git.Open(cwd)
}

func (s *session) runner(repo *git.Repository, withReview bool) *pipeline.Runner {
	opts := []pipeline.RunnerOption{
		pipeline.WithGeneratorFactory(s.generatorFactory()),
		pipeline.WithPrinter(s.printer),
	}
	if withReview {
		if rv := s.reviewer(); rv != nil {
			opts = append(opts, pipeline.WithReviewer(rv))
		}
	}
	return pipeline.NewRunner(repo, opts...)
}
