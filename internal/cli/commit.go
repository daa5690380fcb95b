package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/huimingz/commitgen/internal/pipeline"
	"github.com/huimingz/commitgen/internal/review"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a commit message without committing",
	Long: `Generate a commit message for the pending changes and print it.

Nothing is staged or committed.

Examples:
  commitgen generate
  commitgen generate --model anthropic/claude-3-haiku
  commitgen --dry-run`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

var commitCmd = &cobra.Command{
	Use:   "commit [message]",
	Short: "Generate a message and commit all changes",
	Long: `Generate a commit message, let you review it, then stage every change
and commit.

A message given as argument is used as is and no model is called.

Examples:
  commitgen commit
  commitgen commit -i
  commitgen commit -f "Fix typo in README"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCommit,
}

func init() {
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(commitCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	return run(cmd, pipeline.Options{DryRun: true})
}

func runCommit(cmd *cobra.Command, args []string) error {
	opts := pipeline.Options{DryRun: dryRun}
	if len(args) == 1 {
		opts.Message = args[0]
	}
	return run(cmd, opts)
}

func run(cmd *cobra.Command, base pipeline.Options) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	repo, err := s.openRepository()
	if err != nil {
		return err
	}

	opts := s.options()
	opts.Message = base.Message
	opts.DryRun = base.DryRun

	result, err := s.runner(repo, !opts.DryRun).Run(ctx, opts)
	return s.report(result, err)
}

// report prints the outcome of a run and returns the error left for main
func (s *session) report(result *pipeline.Result, err error) error {
	var commitErr *pipeline.CommitError
	switch {
	case errors.Is(err, pipeline.ErrNoChanges):
		_, _ = fmt.Fprintln(s.out, "📭 No changes to commit.")
		return nil
	case errors.Is(err, review.ErrCancelled):
		_, _ = fmt.Fprintln(s.out, "❌ Commit cancelled.")
		return nil
	case errors.As(err, &commitErr):
		_ = s.printer.PrintError(commitErr.Error())
		_ = s.printer.PrintInfo("Nothing was committed; your changes are still in the working tree.")
		return reportedError{err}
	case err != nil:
		return err
	}

	if s.printer.Verbose() {
		_ = s.printer.PrintStats(&result.Stats)
	}

	if !result.Committed {
		return nil
	}

	_ = s.printer.PrintSuccess(fmt.Sprintf("Committed %s with message: %s",
		result.CommitHash.String()[:7], result.Message))
	return nil
}
