package llm

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/huimingz/commitgen/internal/log"
)

// ChatModelGenerator generates messages through an Eino chat model.
type ChatModelGenerator struct {
	provider Provider
	timeout  time.Duration
	onChunk  func(string)
}

// ChatModelOption configures a ChatModelGenerator
type ChatModelOption func(*ChatModelGenerator)

// WithChunkHandler receives streamed content as it arrives
func WithChunkHandler(fn func(string)) ChatModelOption {
	return func(g *ChatModelGenerator) {
		g.onChunk = fn
	}
}

// WithChatTimeout bounds a single generation. Zero disables it.
func WithChatTimeout(d time.Duration) ChatModelOption {
	return func(g *ChatModelGenerator) {
		g.timeout = d
	}
}

// NewChatModelGenerator creates a generator for the given provider
func NewChatModelGenerator(provider Provider, opts ...ChatModelOption) *ChatModelGenerator {
	g := &ChatModelGenerator{provider: provider, timeout: DefaultRequestTimeout}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate streams a completion for the prompt and returns it trimmed.
func (g *ChatModelGenerator) Generate(ctx context.Context, req GenerationRequest) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	chatModel, err := g.provider.CreateChatModel(ctx)
	if err != nil {
		return "", &TransportError{Err: err}
	}

	messages := []*schema.Message{
		{Role: schema.User, Content: BuildPrompt(req)},
	}

	var opts []model.Option
	if req.Model != "" {
		opts = append(opts, model.WithModel(req.Model))
	}
	if req.MaxTokens > 0 {
		opts = append(opts, model.WithMaxTokens(req.MaxTokens))
	}
	opts = append(opts, model.WithTemperature(float32(req.Temperature)))

	log.Debug("Streaming from %s model %s", g.provider.Name(), req.Model)
	start := time.Now()

	stream, err := chatModel.Stream(ctx, messages, opts...)
	if err != nil {
		return "", &TransportError{Err: err}
	}
	defer stream.Close()

	var content strings.Builder
	for {
		chunk, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", &TransportError{Err: err}
		}
		if chunk.Content == "" {
			continue
		}
		content.WriteString(chunk.Content)
		if g.onChunk != nil {
			g.onChunk(chunk.Content)
		}
	}
	log.DebugDuration("Chat model generation", time.Since(start))

	text := strings.TrimSpace(content.String())
	if text == "" {
		return "", &InvalidResponseError{Reason: "model returned no content"}
	}
	return text, nil
}
