package llm

import (
	"context"
	"errors"
	"math"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/huimingz/commitgen/internal/config"
	"github.com/huimingz/commitgen/internal/log"
)

// ErrorType says whether a failed model call is worth repeating
type ErrorType int

const (
	ErrorTypeRetryable ErrorType = iota
	ErrorTypeNonRetryable
	// ErrorTypeUnknown is treated like ErrorTypeNonRetryable
	ErrorTypeUnknown
)

var errorTypeNames = map[ErrorType]string{
	ErrorTypeRetryable:    "Retryable",
	ErrorTypeNonRetryable: "NonRetryable",
	ErrorTypeUnknown:      "Unknown",
}

func (e ErrorType) String() string {
	if name, ok := errorTypeNames[e]; ok {
		return name
	}
	return "Unknown"
}

// HTTPStatusError is implemented by errors carrying the provider's status code
type HTTPStatusError interface {
	error
	HTTPStatusCode() int
}

// retryableStatus lists the codes a provider uses for overload and outages
var retryableStatus = map[int]bool{
	http.StatusTooManyRequests:    true,
	http.StatusBadGateway:         true,
	http.StatusServiceUnavailable: true,
	http.StatusGatewayTimeout:     true,
}

// promptTooLarge matches provider messages for a diff that exceeds the
// model's context window. Sending the same diff again cannot succeed.
var promptTooLarge = []string{
	"context length",
	"context_length",
	"maximum context",
	"token limit",
	"tokens exceeded",
}

// ClassifyError decides whether a generation error is transient
func ClassifyError(err error) ErrorType {
	var (
		netErr     *net.OpError
		dnsErr     *net.DNSError
		statusErr  HTTPStatusError
		invalidErr *InvalidResponseError
	)

	switch {
	case err == nil, errors.Is(err, context.Canceled):
		return ErrorTypeNonRetryable
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &netErr), errors.As(err, &dnsErr):
		return ErrorTypeRetryable
	case errors.As(err, &statusErr):
		return classifyStatus(statusErr.HTTPStatusCode())
	case errors.As(err, &invalidErr):
		return ErrorTypeNonRetryable
	}

	msg := strings.ToLower(err.Error())
	for _, kw := range promptTooLarge {
		if strings.Contains(msg, kw) {
			return ErrorTypeNonRetryable
		}
	}
	if strings.Contains(msg, "timeout") {
		return ErrorTypeRetryable
	}
	return ErrorTypeUnknown
}

func classifyStatus(code int) ErrorType {
	switch {
	case retryableStatus[code], code >= 500:
		return ErrorTypeRetryable
	case code >= 400:
		return ErrorTypeNonRetryable
	default:
		return ErrorTypeUnknown
	}
}

// CalculateBackoff returns min(base * 2^(attempt-1), max) seconds
func CalculateBackoff(attempt int, base, max float64) time.Duration {
	attempt = int(math.Max(float64(attempt), 1))
	secs := math.Min(base*math.Exp2(float64(attempt-1)), max)
	return time.Duration(secs * float64(time.Second))
}

// RetryConfig controls how often a generation call is repeated.
// MaxAttempts counts retries, so a call runs at most MaxAttempts+1 times.
type RetryConfig struct {
	Enabled     bool
	MaxAttempts int
	BackoffBase float64 // seconds
	BackoffMax  float64 // seconds
}

func DefaultRetryConfig() RetryConfig {
	return RetryConfigFrom(config.DefaultRetryConfig())
}

// RetryConfigFrom converts the file configuration, nil meaning defaults
func RetryConfigFrom(c *config.RetryConfig) RetryConfig {
	if c == nil {
		c = config.DefaultRetryConfig()
	}
	return RetryConfig{
		Enabled:     c.Enabled,
		MaxAttempts: c.MaxAttempts,
		BackoffBase: c.BackoffBase,
		BackoffMax:  c.BackoffMax,
	}
}

// Validate applies the same rules as the retry section of the config file
func (c *RetryConfig) Validate() error {
	return (&config.RetryConfig{
		Enabled:     c.Enabled,
		MaxAttempts: c.MaxAttempts,
		BackoffBase: c.BackoffBase,
		BackoffMax:  c.BackoffMax,
	}).Validate()
}

func (c RetryConfig) active() bool {
	return c.Enabled && c.MaxAttempts > 0
}

// RetryableFuncWithResult is one attempt of a retried call
type RetryableFuncWithResult[T any] func() (T, error)

// WithRetryResult runs fn until it succeeds, fails permanently, runs out of
// attempts or ctx ends. The last error from fn is returned unchanged.
func WithRetryResult[T any](ctx context.Context, cfg RetryConfig, fn RetryableFuncWithResult[T]) (T, error) {
	if !cfg.active() {
		return fn()
	}

	var zero T
	total := cfg.MaxAttempts + 1
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}
		if attempt == total || ClassifyError(err) != ErrorTypeRetryable {
			return zero, err
		}

		wait := CalculateBackoff(attempt, cfg.BackoffBase, cfg.BackoffMax)
		log.Debug("Generation attempt %d/%d failed (%v), retrying in %v", attempt, total, err, wait)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.C:
		}
	}
}
