package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/huimingz/commitgen/internal/llm"
	"github.com/huimingz/commitgen/internal/ui"
)

// interruptibleGenerator lets Ctrl+C abort a slow model call without ending
// the process. The aborted call surfaces as an error, which the pipeline
// answers with the offline fallback.
type interruptibleGenerator struct {
	inner   llm.Generator
	printer *ui.StreamPrinter
}

func newInterruptibleGenerator(inner llm.Generator, printer *ui.StreamPrinter) *interruptibleGenerator {
	return &interruptibleGenerator{inner: inner, printer: printer}
}

func (g *interruptibleGenerator) Generate(ctx context.Context, req llm.GenerationRequest) (string, error) {
	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	text, err := g.inner.Generate(sigCtx, req)
	if err != nil && sigCtx.Err() != nil && ctx.Err() == nil {
		_ = g.printer.PrintWarning("Received interrupt signal, skipping the model.")
	}
	return text, err
}
