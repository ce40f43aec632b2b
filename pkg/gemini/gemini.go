package gemini

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog/log"
	"google.golang.org/genai"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ExtraNonTextParts is set on a generated message when the candidate carried
// parts without text (inline data, function calls, executable code).
const ExtraNonTextParts = "non_text_parts"

var ErrNoCandidates = errors.New("gemini: response has no candidates")

type Config struct {
	APIKey          string
	Model           string
	Temperature     *float32
	MaxOutputTokens *int
	Timeout         time.Duration
}

// generator is the subset of *genai.Models used by ChatModel.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
	GenerateContentStream(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) iter.Seq2[*genai.GenerateContentResponse, error]
}

// ChatModel adapts the native Gemini SDK to eino's BaseChatModel.
type ChatModel struct {
	models  generator
	conf    Config
	timeout time.Duration
}

var _ model.BaseChatModel = (*ChatModel)(nil)

func NewChatModel(ctx context.Context, conf Config) (*ChatModel, error) {
	if strings.TrimSpace(conf.Model) == "" {
		return nil, fmt.Errorf("gemini: model is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  strings.TrimSpace(conf.APIKey),
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}

	return newChatModel(client.Models, conf), nil
}

func newChatModel(models generator, conf Config) *ChatModel {
	conf.Model = strings.TrimSpace(conf.Model)
	return &ChatModel{models: models, conf: conf, timeout: conf.Timeout}
}

func (m *ChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	modelName, contents, config, err := m.prepare(input, opts...)
	if err != nil {
		return nil, err
	}

	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	started := time.Now()
	resp, err := m.models.GenerateContent(ctx, modelName, contents, config)
	if err != nil {
		return nil, fmt.Errorf("gemini: generate content: %w", err)
	}

	out, err := toMessage(resp)
	if err != nil {
		return nil, err
	}

	log.Ctx(ctx).Debug().
		Str("model", modelName).
		Dur("latency", time.Since(started)).
		Int("content_len", len(out.Content)).
		Msg("gemini generate complete")

	return out, nil
}

func (m *ChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	modelName, contents, config, err := m.prepare(input, opts...)
	if err != nil {
		return nil, err
	}

	cancel := context.CancelFunc(func() {})
	if m.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
	}

	reader, writer := schema.Pipe[*schema.Message](16)
	go func() {
		defer cancel()
		defer writer.Close()

		for resp, err := range m.models.GenerateContentStream(ctx, modelName, contents, config) {
			if err != nil {
				writer.Send(nil, fmt.Errorf("gemini: stream content: %w", err))
				return
			}
			chunk, convErr := toMessage(resp)
			if convErr != nil {
				if errors.Is(convErr, ErrNoCandidates) {
					continue
				}
				writer.Send(nil, convErr)
				return
			}
			if closed := writer.Send(chunk, nil); closed {
				return
			}
		}
	}()

	return reader, nil
}

func (m *ChatModel) prepare(input []*schema.Message, opts ...model.Option) (string, []*genai.Content, *genai.GenerateContentConfig, error) {
	options := model.GetCommonOptions(&model.Options{
		Temperature: m.conf.Temperature,
		MaxTokens:   m.conf.MaxOutputTokens,
		Model:       &m.conf.Model,
	}, opts...)

	modelName := m.conf.Model
	if options.Model != nil && strings.TrimSpace(*options.Model) != "" {
		modelName = strings.TrimSpace(*options.Model)
	}

	contents, system, err := convertMessages(input)
	if err != nil {
		return "", nil, nil, err
	}
	if len(contents) == 0 {
		return "", nil, nil, fmt.Errorf("gemini: no user or model content to send")
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: system,
		Temperature:       options.Temperature,
	}
	if options.MaxTokens != nil && *options.MaxTokens > 0 {
		config.MaxOutputTokens = int32(*options.MaxTokens)
	}
	if len(options.Stop) > 0 {
		config.StopSequences = options.Stop
	}

	return modelName, contents, config, nil
}

func convertMessages(input []*schema.Message) ([]*genai.Content, *genai.Content, error) {
	var (
		contents   []*genai.Content
		system     *genai.Content
		toolByCall = map[string]string{}
	)

	for _, msg := range input {
		if msg == nil {
			continue
		}

		switch msg.Role {
		case schema.System:
			if strings.TrimSpace(msg.Content) == "" {
				continue
			}
			if system == nil {
				system = &genai.Content{}
			}
			system.Parts = append(system.Parts, &genai.Part{Text: msg.Content})

		case schema.Tool:
			name := toolByCall[msg.ToolCallID]
			if name == "" {
				name = msg.ToolCallID
			}
			contents = append(contents, &genai.Content{
				Role: string(genai.RoleUser),
				Parts: []*genai.Part{{
					FunctionResponse: &genai.FunctionResponse{
						Name:     name,
						Response: map[string]any{"result": msg.Content},
					},
				}},
			})

		case schema.Assistant:
			var parts []*genai.Part
			for _, tc := range msg.ToolCalls {
				var args map[string]any
				if strings.TrimSpace(tc.Function.Arguments) != "" {
					if err := json.Unmarshal([]byte(tc.Function.Arguments), &args); err != nil {
						return nil, nil, fmt.Errorf("gemini: decode tool call %s arguments: %w", tc.Function.Name, err)
					}
				}
				toolByCall[tc.ID] = tc.Function.Name
				parts = append(parts, &genai.Part{
					FunctionCall: &genai.FunctionCall{Name: tc.Function.Name, Args: args},
				})
			}
			if msg.Content != "" {
				parts = append(parts, &genai.Part{Text: msg.Content})
			}
			if len(parts) > 0 {
				contents = append(contents, &genai.Content{Role: string(genai.RoleModel), Parts: parts})
			}

		default:
			if msg.Content == "" {
				continue
			}
			contents = append(contents, &genai.Content{
				Role:  string(genai.RoleUser),
				Parts: []*genai.Part{{Text: msg.Content}},
			})
		}
	}

	return contents, system, nil
}

func toMessage(resp *genai.GenerateContentResponse) (*schema.Message, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		if resp != nil && resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			return nil, fmt.Errorf("%w: prompt blocked (%s)", ErrNoCandidates, resp.PromptFeedback.BlockReason)
		}
		return nil, ErrNoCandidates
	}

	candidate := resp.Candidates[0]
	var (
		text    strings.Builder
		nonText int
	)
	if candidate.Content != nil {
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			switch {
			case part.Thought:
				// reasoning summaries are not part of the answer
			case part.Text != "":
				text.WriteString(part.Text)
			case part.InlineData != nil, part.FileData != nil, part.FunctionCall != nil,
				part.ExecutableCode != nil, part.CodeExecutionResult != nil:
				nonText++
			}
		}
	}

	out := schema.AssistantMessage(text.String(), nil)
	if nonText > 0 {
		out.Extra = map[string]any{ExtraNonTextParts: nonText}
	}

	meta := &schema.ResponseMeta{FinishReason: string(candidate.FinishReason)}
	if u := resp.UsageMetadata; u != nil {
		meta.Usage = &schema.TokenUsage{
			PromptTokens:     int(u.PromptTokenCount),
			CompletionTokens: int(u.CandidatesTokenCount),
			TotalTokens:      int(u.TotalTokenCount),
		}
	}
	out.ResponseMeta = meta

	return out, nil
}
