package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/huimingz/commitgen/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChatModel struct {
	chunks    []string
	streamErr error
	got       []*schema.Message
	opts      *model.Options
}

func (m *fakeChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	return nil, errors.New("not used")
}

func (m *fakeChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	m.got = input
	m.opts = model.GetCommonOptions(nil, opts...)
	if m.streamErr != nil {
		return nil, m.streamErr
	}
	msgs := make([]*schema.Message, 0, len(m.chunks))
	for _, c := range m.chunks {
		msgs = append(msgs, &schema.Message{Role: schema.Assistant, Content: c})
	}
	return schema.StreamReaderFromArray(msgs), nil
}

func (m *fakeChatModel) BindTools(tools []*schema.ToolInfo) error {
	return nil
}

type fakeProvider struct {
	chatModel *fakeChatModel
	err       error
}

func (p *fakeProvider) Name() string                  { return "fake" }
func (p *fakeProvider) GetConfig() config.ModelConfig { return config.ModelConfig{Provider: "fake"} }
func (p *fakeProvider) CreateChatModel(ctx context.Context) (model.ChatModel, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.chatModel, nil
}

func TestChatModelGenerator_StreamsAndTrims(t *testing.T) {
	cm := &fakeChatModel{chunks: []string{"  feat: ", "", "add parser\n"}}
	var streamed []string
	gen := NewChatModelGenerator(&fakeProvider{chatModel: cm}, WithChunkHandler(func(s string) {
		streamed = append(streamed, s)
	}))

	msg, err := gen.Generate(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Equal(t, "feat: add parser", msg)
	assert.Equal(t, []string{"  feat: ", "add parser\n"}, streamed)

	require.Len(t, cm.got, 1)
	assert.Equal(t, schema.User, cm.got[0].Role)
	assert.Contains(t, cm.got[0].Content, "Files changed: main.go")

	require.NotNil(t, cm.opts.Model)
	assert.Equal(t, "openai/gpt-3.5-turbo", *cm.opts.Model)
	require.NotNil(t, cm.opts.MaxTokens)
	assert.Equal(t, 150, *cm.opts.MaxTokens)
	require.NotNil(t, cm.opts.Temperature)
	assert.InDelta(t, 0.7, float64(*cm.opts.Temperature), 1e-6)
}

func TestChatModelGenerator_Errors(t *testing.T) {
	t.Run("provider construction", func(t *testing.T) {
		gen := NewChatModelGenerator(&fakeProvider{err: errors.New("bad credentials")})
		_, err := gen.Generate(context.Background(), testRequest())
		var transportErr *TransportError
		assert.ErrorAs(t, err, &transportErr)
	})

	t.Run("stream failure", func(t *testing.T) {
		gen := NewChatModelGenerator(&fakeProvider{chatModel: &fakeChatModel{streamErr: errors.New("connection reset")}})
		_, err := gen.Generate(context.Background(), testRequest())
		var transportErr *TransportError
		assert.ErrorAs(t, err, &transportErr)
	})

	t.Run("empty completion", func(t *testing.T) {
		gen := NewChatModelGenerator(&fakeProvider{chatModel: &fakeChatModel{chunks: []string{" ", "\n"}}})
		_, err := gen.Generate(context.Background(), testRequest())
		var invalid *InvalidResponseError
		assert.ErrorAs(t, err, &invalid)
	})
}
