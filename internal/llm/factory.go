package llm

import (
	"fmt"
	"strings"
	"time"

	"github.com/huimingz/commitgen/internal/config"
)

// ProviderFactory creates LLM providers and generators based on configuration
type ProviderFactory struct{}

// NewProviderFactory creates a new ProviderFactory
func NewProviderFactory() *ProviderFactory {
	return &ProviderFactory{}
}

// Create creates an Eino-backed Provider for the model configuration
func (f *ProviderFactory) Create(cfg config.ModelConfig) (Provider, error) {
	switch cfg.Provider {
	case "openai":
		return newCompatProvider("openai", "", cfg), nil
	case "deepseek":
		return newCompatProvider("deepseek", DeepseekDefaultBaseURL, cfg), nil
	case "ollama":
		// Ollama doesn't require API key, set a placeholder
		if cfg.APIKey == "" {
			cfg.APIKey = "ollama"
		}
		return newCompatProvider("ollama", OllamaDefaultBaseURL, cfg), nil
	case "gemini":
		return NewGeminiProvider(cfg), nil
	case "grok":
		return newCompatProvider("grok", GrokDefaultBaseURL, cfg), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", cfg.Provider)
	}
}

// GeneratorOptions tunes the generator returned by NewGenerator
type GeneratorOptions struct {
	Timeout time.Duration
	Retry   RetryConfig
	// OnChunk receives streamed content; only Eino-backed providers stream
	OnChunk func(string)
}

// NewGenerator returns the generator for cfg.Provider. The "openrouter"
// provider talks HTTP directly; every other provider goes through Eino.
func (f *ProviderFactory) NewGenerator(cfg config.ModelConfig, opts GeneratorOptions) (Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var gen Generator
	if cfg.Provider == "openrouter" {
		endpoint := ""
		if cfg.BaseURL != "" {
			endpoint = strings.TrimRight(cfg.BaseURL, "/") + "/chat/completions"
		}
		gen = NewOpenRouterClient(cfg.APIKey, WithEndpoint(endpoint), WithTimeout(opts.Timeout))
	} else {
		provider, err := f.Create(cfg)
		if err != nil {
			return nil, err
		}
		gen = NewChatModelGenerator(provider, WithChatTimeout(opts.Timeout), WithChunkHandler(opts.OnChunk))
	}

	return WithRetries(gen, opts.Retry), nil
}
