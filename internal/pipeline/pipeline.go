// Package pipeline runs one commit-message session from scan to commit.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/huimingz/commitgen/internal/diff"
	"github.com/huimingz/commitgen/internal/fallback"
	"github.com/huimingz/commitgen/internal/git"
	"github.com/huimingz/commitgen/internal/llm"
	"github.com/huimingz/commitgen/internal/log"
	"github.com/huimingz/commitgen/internal/ui"
	"github.com/huimingz/commitgen/pkg/lang"
)

// ErrNoChanges signals a normal early exit: neither staged nor unstaged
// changes exist, so nothing was generated or committed.
var ErrNoChanges = errors.New("no changes to commit")

// CommitError wraps a failure of the final commit step. The repository's
// index has been restored and HEAD has not moved.
type CommitError struct {
	Err error
}

func (e *CommitError) Error() string {
	return fmt.Sprintf("commit failed: %v", e.Err)
}

func (e *CommitError) Unwrap() error {
	return e.Err
}

// Outcome tells where the commit message came from
type Outcome interface {
	Message() string
}

// Generated is a message returned by the model
type Generated struct {
	Text string
}

func (g Generated) Message() string { return g.Text }

// FallbackUsed is a message from the offline heuristic, with the reason the
// model could not be used.
type FallbackUsed struct {
	Text   string
	Reason error
}

func (f FallbackUsed) Message() string { return f.Text }

// Provided is a message given by the user on the command line
type Provided struct {
	Text string
}

func (p Provided) Message() string { return p.Text }

// Repository is the part of git.Repository the pipeline needs
type Repository interface {
	Scan(ctx context.Context) (*git.ChangeSet, error)
	Commit(ctx context.Context, message string) (plumbing.Hash, error)
}

// Reviewer approves or edits a message before committing
type Reviewer interface {
	Review(ctx context.Context, message string) (string, error)
}

// Options are the per-run settings
type Options struct {
	// Message skips generation when set
	Message string
	// DryRun stops after the message is produced
	DryRun bool

	Model        string
	MaxDiffLines int
	MaxTokens    int
	Temperature  float64
	Language     lang.Language
}

// Result describes a finished run
type Result struct {
	Selection  git.DiffSelection
	Outcome    Outcome
	Message    string
	CommitHash plumbing.Hash
	Committed  bool
	Stats      ui.ExecutionStats
}

// RunnerOption configures a Runner
type RunnerOption func(*Runner)

// WithGenerator uses gen for every run
func WithGenerator(gen llm.Generator) RunnerOption {
	return func(r *Runner) {
		r.newGenerator = func() (llm.Generator, error) { return gen, nil }
	}
}

// WithGeneratorFactory builds the generator lazily, only when a run actually
// needs one. A factory error degrades to the offline heuristic.
func WithGeneratorFactory(fn func() (llm.Generator, error)) RunnerOption {
	return func(r *Runner) {
		r.newGenerator = fn
	}
}

// WithReviewer enables the review step before committing
func WithReviewer(rv Reviewer) RunnerOption {
	return func(r *Runner) {
		r.reviewer = rv
	}
}

// WithPrinter sets where progress is reported
func WithPrinter(p *ui.StreamPrinter) RunnerOption {
	return func(r *Runner) {
		if p != nil {
			r.printer = p
		}
	}
}

// Runner executes the steps strictly in order: scan, select, filter,
// generate, review, commit.
type Runner struct {
	repo         Repository
	newGenerator func() (llm.Generator, error)
	reviewer     Reviewer
	printer      *ui.StreamPrinter
}

// NewRunner creates a Runner for repo
func NewRunner(repo Repository, opts ...RunnerOption) *Runner {
	r := &Runner{
		repo:    repo,
		printer: ui.NewStreamPrinter(io.Discard, ui.WithColor(false)),
		newGenerator: func() (llm.Generator, error) {
			return nil, errors.New("no message generator configured")
		},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run performs one session. Repository failures abort it; every model
// failure falls back to the offline heuristic. A cancelled review returns
// review.ErrCancelled from the reviewer unchanged.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	result := &Result{}
	result.Stats.StartTime = time.Now()

	step := 0
	nextStep := func(message string) {
		step++
		_ = r.printer.PrintStep(step, message)
	}

	nextStep("Analyzing git changes")
	changes, err := r.repo.Scan(ctx)
	if err != nil {
		return nil, err
	}
	if changes.IsEmpty() {
		return nil, ErrNoChanges
	}

	sel := changes.Select()
	result.Selection = sel
	log.Debug("Selected %s scope with %d files", sel.Scope, len(sel.Files))
	_ = r.printer.PrintInfo(fmt.Sprintf("Describing %s changes (%d files)", sel.Scope, len(sel.Files)))

	filtered := diff.Filter(sel.Diff, opts.MaxDiffLines)
	r.collectStats(&result.Stats, sel, filtered)

	_ = r.printer.PrintDetail(fmt.Sprintf("📁 Files changed: %s", strings.Join(sel.Files, ", ")))
	_ = r.printer.PrintDetail(fmt.Sprintf("📊 Diff size: %d lines (filtered to %d)",
		len(diff.Lines(sel.Diff)), len(diff.Lines(filtered))))

	if opts.Message != "" {
		result.Outcome = Provided{Text: opts.Message}
	} else {
		nextStep("Generating commit message")
		result.Outcome = r.generate(ctx, opts, sel.Files, filtered)
		_, isFallback := result.Outcome.(FallbackUsed)
		_ = r.printer.PrintCommitMessage(result.Outcome.Message(), isFallback)
	}
	result.Message = result.Outcome.Message()

	if opts.DryRun {
		result.Stats.EndTime = time.Now()
		return result, nil
	}

	if r.reviewer != nil {
		nextStep("Reviewing message")
		approved, err := r.reviewer.Review(ctx, result.Message)
		if err != nil {
			result.Stats.EndTime = time.Now()
			return result, err
		}
		result.Message = approved
	}

	nextStep("Committing changes")
	hash, err := r.repo.Commit(ctx, result.Message)
	if err != nil {
		return nil, &CommitError{Err: err}
	}
	result.CommitHash = hash
	result.Committed = true
	result.Stats.EndTime = time.Now()

	return result, nil
}

// generate asks the model for a message and falls back to the heuristic on
// any failure, cancellation included.
func (r *Runner) generate(ctx context.Context, opts Options, files []string, filtered string) Outcome {
	useFallback := func(reason error) Outcome {
		_ = r.printer.PrintWarning(fmt.Sprintf("API failed: %v. Using intelligent fallback...", reason))
		return FallbackUsed{Text: fallback.Classify(files, filtered), Reason: reason}
	}

	gen, err := r.newGenerator()
	if err != nil {
		return useFallback(err)
	}

	_ = r.printer.PrintProgress(fmt.Sprintf("🤖 Waiting for %s...", opts.Model))
	start := time.Now()
	text, err := gen.Generate(ctx, llm.GenerationRequest{
		Files:       files,
		Diff:        filtered,
		Model:       opts.Model,
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
		Language:    opts.Language,
	})
	log.DebugDuration("Message generation", time.Since(start))
	if err != nil {
		return useFallback(err)
	}
	return Generated{Text: text}
}

func (r *Runner) collectStats(stats *ui.ExecutionStats, sel git.DiffSelection, filtered string) {
	stats.Files = len(sel.Files)
	stats.DiffLines = len(diff.Lines(sel.Diff))
	stats.Truncated = filtered != sel.Diff

	parsed, err := diff.ParseStats(sel.Diff)
	if err != nil {
		log.Debug("Could not parse diff stats: %v", err)
		return
	}
	_, stats.Insertions, stats.Deletions = parsed.Totals()
}
