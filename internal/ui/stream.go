package ui

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
)

// ExecutionStats holds statistics about one pipeline run
type ExecutionStats struct {
	StartTime  time.Time
	EndTime    time.Time
	Files      int
	Insertions int
	Deletions  int
	DiffLines  int
	Truncated  bool
}

// Duration returns the execution duration
func (s *ExecutionStats) Duration() time.Duration {
	return s.EndTime.Sub(s.StartTime)
}

// StreamPrinterOption is a functional option for StreamPrinter
type StreamPrinterOption func(*StreamPrinter)

// WithColor enables or disables color output
func WithColor(enabled bool) StreamPrinterOption {
	return func(p *StreamPrinter) {
		p.colorEnabled = enabled
	}
}

// WithVerbose enables or disables verbose mode
func WithVerbose(verbose bool) StreamPrinterOption {
	return func(p *StreamPrinter) {
		p.verbose = verbose
	}
}

// StreamPrinter reports pipeline progress and streamed model output
type StreamPrinter struct {
	writer       io.Writer
	colorEnabled bool
	verbose      bool
}

// NewStreamPrinter creates a new StreamPrinter
func NewStreamPrinter(writer io.Writer, opts ...StreamPrinterOption) *StreamPrinter {
	p := &StreamPrinter{
		writer:       writer,
		colorEnabled: true,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Verbose reports whether detail output is enabled
func (p *StreamPrinter) Verbose() bool {
	return p.verbose
}

func (p *StreamPrinter) printf(attr color.Attribute, format string, args ...interface{}) error {
	if p.colorEnabled {
		_, err := color.New(attr).Fprintf(p.writer, format, args...)
		return err
	}
	_, err := fmt.Fprintf(p.writer, format, args...)
	return err
}

// PrintStep prints a step in the process
func (p *StreamPrinter) PrintStep(step int, message string) error {
	return p.printf(color.FgBlue, "📋 Step %d: %s\n", step, message)
}

// PrintProgress prints a progress message
func (p *StreamPrinter) PrintProgress(message string) error {
	return p.printf(color.FgYellow, "⏳ %s\n", message)
}

// PrintInfo prints an info message
func (p *StreamPrinter) PrintInfo(message string) error {
	return p.printf(color.FgCyan, "ℹ️  %s\n", message)
}

// PrintDetail prints a message only in verbose mode
func (p *StreamPrinter) PrintDetail(message string) error {
	if !p.verbose {
		return nil
	}
	return p.printf(color.FgHiBlack, "   %s\n", message)
}

// PrintSuccess prints a success message
func (p *StreamPrinter) PrintSuccess(message string) error {
	return p.printf(color.FgGreen, "✅ %s\n", message)
}

// PrintWarning prints a recoverable problem
func (p *StreamPrinter) PrintWarning(message string) error {
	return p.printf(color.FgYellow, "⚠️  %s\n", message)
}

// Flusher is an interface for writers that support flushing
type Flusher interface {
	Flush() error
}

// PrintLLMContent prints a chunk of a streamed model response.
// It flushes the output immediately if the writer supports it.
func (p *StreamPrinter) PrintLLMContent(content string) error {
	var err error
	if p.colorEnabled {
		_, err = color.New(color.FgWhite).Fprint(p.writer, content)
	} else {
		_, err = fmt.Fprint(p.writer, content)
	}

	if f, ok := p.writer.(Flusher); ok {
		_ = f.Flush()
	}

	return err
}

// PrintError prints an error message
func (p *StreamPrinter) PrintError(message string) error {
	return p.printf(color.FgRed, "❌ Error: %s\n", message)
}

// PrintCommitMessage shows a candidate commit message in a frame
func (p *StreamPrinter) PrintCommitMessage(message string, fallback bool) error {
	return ShowCommitMessage(message, fallback, p.writer)
}

// PrintStats prints execution statistics
func (p *StreamPrinter) PrintStats(stats *ExecutionStats) error {
	if stats == nil {
		return nil
	}

	truncated := ""
	if stats.Truncated {
		truncated = " (truncated)"
	}

	return p.printf(color.FgHiBlack, "\n📊 Stats: %d files, +%d/-%d, %d diff lines%s | Time: %s\n",
		stats.Files, stats.Insertions, stats.Deletions, stats.DiffLines, truncated, formatDuration(stats.Duration()))
}

// formatDuration formats a duration in a human-readable format
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.2fs", d.Seconds())
}
