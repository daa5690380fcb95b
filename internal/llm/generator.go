package llm

import (
	"context"

	"github.com/huimingz/commitgen/pkg/lang"
)

// GenerationRequest is built once per run and passed by value.
type GenerationRequest struct {
	Files       []string
	Diff        string
	Model       string
	MaxTokens   int
	Temperature float64
	Language    lang.Language
}

// Generator turns a request into a commit message candidate. Every error it
// returns is recoverable by falling back to the offline heuristic.
type Generator interface {
	Generate(ctx context.Context, req GenerationRequest) (string, error)
}

// retryingGenerator retries transient failures of the wrapped generator.
type retryingGenerator struct {
	inner Generator
	cfg   RetryConfig
}

// WithRetries wraps gen so that transient failures are retried per cfg.
func WithRetries(gen Generator, cfg RetryConfig) Generator {
	if !cfg.Enabled || cfg.MaxAttempts <= 0 {
		return gen
	}
	return &retryingGenerator{inner: gen, cfg: cfg}
}

func (g *retryingGenerator) Generate(ctx context.Context, req GenerationRequest) (string, error) {
	return WithRetryResult(ctx, g.cfg, func() (string, error) {
		return g.inner.Generate(ctx, req)
	})
}
