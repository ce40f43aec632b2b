package openaicompat

import (
	"context"
	"fmt"
	"strings"
	"time"

	openaimodel "github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type LLMBuilder interface {
	New(ctx context.Context) (model.ToolCallingChatModel, error)
}

var _ LLMBuilder = (*Config)(nil)

// Config targets any endpoint that speaks the OpenAI chat completions
// protocol: Gemini's compatibility layer, DeepSeek, Mistral.
type Config struct {
	Provider           string
	BaseURL            string
	APIKey             string
	Model              string
	MaxCompletionToken *int
	Temperature        *float32
	Timeout            time.Duration

	// ReasoningEffort is forwarded as reasoning_effort when set.
	ReasoningEffort string
}

func (c *Config) New(ctx context.Context) (model.ToolCallingChatModel, error) {
	modelName := strings.TrimSpace(c.Model)
	if modelName == "" {
		return nil, fmt.Errorf("%s: model is required", c.name())
	}

	conf := &openaimodel.ChatModelConfig{
		BaseURL:     strings.TrimRight(strings.TrimSpace(c.BaseURL), "/"),
		APIKey:      strings.TrimSpace(c.APIKey),
		Model:       modelName,
		MaxTokens:   c.MaxCompletionToken,
		Temperature: c.Temperature,
		Timeout:     c.Timeout,
	}

	if effort := strings.TrimSpace(c.ReasoningEffort); effort != "" {
		conf.ExtraFields = map[string]any{
			"reasoning_effort": effort,
		}
	}

	m, err := openaimodel.NewChatModel(ctx, conf)
	if err != nil {
		return nil, fmt.Errorf("%s: create chat model: %w", c.name(), err)
	}

	return m, nil
}

func (c *Config) name() string {
	if p := strings.TrimSpace(c.Provider); p != "" {
		return p
	}
	return "openaicompat"
}

// NewClient creates an OpenAI SDK client for the configured endpoint.
func NewClient(cfg Config) *openaisdk.Client {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil
	}

	opts := []option.RequestOption{
		option.WithAPIKey(strings.TrimSpace(cfg.APIKey)),
	}

	if trimmed := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"); trimmed != "" {
		opts = append(opts, option.WithBaseURL(trimmed))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}

	client := openaisdk.NewClient(opts...)
	return &client
}
