package llm

import (
	"context"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/huimingz/commitgen/internal/config"
	"google.golang.org/genai"
)

// Default base URLs for providers that speak the OpenAI chat API
const (
	DeepseekDefaultBaseURL = "https://api.deepseek.com/v1"
	OllamaDefaultBaseURL   = "http://localhost:11434/v1"
	GrokDefaultBaseURL     = "https://api.x.ai/v1"
)

// Provider builds an Eino chat model for one backend
type Provider interface {
	// Name returns the provider name
	Name() string

	// GetConfig returns the model configuration
	GetConfig() config.ModelConfig

	// CreateChatModel creates an Eino ChatModel instance
	CreateChatModel(ctx context.Context) (model.ChatModel, error)
}

// compatProvider serves every backend with an OpenAI-compatible API
type compatProvider struct {
	name string
	cfg  config.ModelConfig
}

func newCompatProvider(name, defaultBaseURL string, cfg config.ModelConfig) *compatProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	return &compatProvider{name: name, cfg: cfg}
}

func (p *compatProvider) Name() string {
	return p.name
}

func (p *compatProvider) GetConfig() config.ModelConfig {
	return p.cfg
}

func (p *compatProvider) CreateChatModel(ctx context.Context) (model.ChatModel, error) {
	return openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:  p.cfg.APIKey,
		Model:   p.cfg.Model,
		BaseURL: p.cfg.BaseURL,
	})
}

// GeminiProvider implements Provider for Google Gemini
type GeminiProvider struct {
	cfg config.ModelConfig
}

// NewGeminiProvider creates a new Gemini provider
func NewGeminiProvider(cfg config.ModelConfig) *GeminiProvider {
	return &GeminiProvider{cfg: cfg}
}

func (p *GeminiProvider) Name() string {
	return "gemini"
}

func (p *GeminiProvider) GetConfig() config.ModelConfig {
	return p.cfg
}

// CreateChatModel creates an Eino ChatModel backed by a genai client
func (p *GeminiProvider) CreateChatModel(ctx context.Context) (model.ChatModel, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: p.cfg.APIKey,
	})
	if err != nil {
		return nil, err
	}

	return gemini.NewChatModel(ctx, &gemini.Config{
		Client: client,
		Model:  p.cfg.Model,
	})
}
