package gemini

import (
	"context"
	"errors"
	"iter"
	"strings"
	"testing"

	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"
)

type fakeGenerator struct {
	resp     *genai.GenerateContentResponse
	err      error
	chunks   []*genai.GenerateContentResponse
	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig
}

func (f *fakeGenerator) GenerateContent(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model = model
	f.contents = contents
	f.config = config
	return f.resp, f.err
}

func (f *fakeGenerator) GenerateContentStream(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) iter.Seq2[*genai.GenerateContentResponse, error] {
	f.model = model
	f.contents = contents
	f.config = config
	return func(yield func(*genai.GenerateContentResponse, error) bool) {
		for _, c := range f.chunks {
			if !yield(c, nil) {
				return
			}
		}
		if f.err != nil {
			yield(nil, f.err)
		}
	}
}

func textResponse(parts ...*genai.Part) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content:      &genai.Content{Role: "model", Parts: parts},
			FinishReason: genai.FinishReasonStop,
		}},
		UsageMetadata: &genai.GenerateContentResponseUsageMetadata{
			PromptTokenCount:     12,
			CandidatesTokenCount: 30,
			TotalTokenCount:      42,
		},
	}
}

func TestGenerateConvertsMessages(t *testing.T) {
	t.Parallel()

	temp := float32(0.7)
	fake := &fakeGenerator{resp: textResponse(
		&genai.Part{Text: "thinking...", Thought: true},
		&genai.Part{Text: "The derivative is "},
		&genai.Part{Text: "the rate of change."},
	)}
	m := newChatModel(fake, Config{Model: " gemini-2.5-flash ", Temperature: &temp})

	out, err := m.Generate(context.Background(), []*schema.Message{
		schema.SystemMessage("be concise"),
		schema.UserMessage("What is a derivative?"),
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if out.Content != "The derivative is the rate of change." {
		t.Fatalf("unexpected content: %q", out.Content)
	}
	if out.ResponseMeta == nil || out.ResponseMeta.Usage == nil || out.ResponseMeta.Usage.TotalTokens != 42 {
		t.Fatalf("unexpected response meta: %#v", out.ResponseMeta)
	}
	if fake.model != "gemini-2.5-flash" {
		t.Fatalf("unexpected model: %q", fake.model)
	}
	if fake.config.SystemInstruction == nil || fake.config.SystemInstruction.Parts[0].Text != "be concise" {
		t.Fatalf("system instruction not forwarded: %#v", fake.config.SystemInstruction)
	}
	if fake.config.Temperature == nil || *fake.config.Temperature != temp {
		t.Fatalf("temperature not forwarded")
	}
	if len(fake.contents) != 1 || fake.contents[0].Role != "user" {
		t.Fatalf("unexpected contents: %#v", fake.contents)
	}
}

func TestGenerateFlagsNonTextParts(t *testing.T) {
	t.Parallel()

	fake := &fakeGenerator{resp: textResponse(
		&genai.Part{InlineData: &genai.Blob{MIMEType: "image/png", Data: []byte{0x1}}},
	)}
	m := newChatModel(fake, Config{Model: "gemini-2.5-flash"})

	out, err := m.Generate(context.Background(), []*schema.Message{schema.UserMessage("draw a circle")})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if out.Content != "" {
		t.Fatalf("unexpected content: %q", out.Content)
	}
	if n, _ := out.Extra[ExtraNonTextParts].(int); n != 1 {
		t.Fatalf("non-text parts = %v, want 1", out.Extra[ExtraNonTextParts])
	}
}

func TestGenerateErrors(t *testing.T) {
	t.Parallel()

	boom := errors.New("503 overloaded")
	m := newChatModel(&fakeGenerator{err: boom}, Config{Model: "gemini-2.5-flash"})
	if _, err := m.Generate(context.Background(), []*schema.Message{schema.UserMessage("q")}); !errors.Is(err, boom) {
		t.Fatalf("Generate() error = %v, want wrapped transport error", err)
	}

	blocked := &genai.GenerateContentResponse{PromptFeedback: &genai.GenerateContentResponsePromptFeedback{BlockReason: genai.BlockedReasonSafety}}
	m = newChatModel(&fakeGenerator{resp: blocked}, Config{Model: "gemini-2.5-flash"})
	_, err := m.Generate(context.Background(), []*schema.Message{schema.UserMessage("q")})
	if !errors.Is(err, ErrNoCandidates) || !strings.Contains(err.Error(), "blocked") {
		t.Fatalf("Generate() error = %v, want blocked ErrNoCandidates", err)
	}

	if _, err := m.Generate(context.Background(), []*schema.Message{schema.SystemMessage("only system")}); err == nil {
		t.Fatal("Generate() without content must fail")
	}
}

func TestConvertMessagesToolTurns(t *testing.T) {
	t.Parallel()

	contents, _, err := convertMessages([]*schema.Message{
		schema.UserMessage("Prove it"),
		schema.AssistantMessage("", []schema.ToolCall{{
			ID:       "call-1",
			Function: schema.FunctionCall{Name: "prove", Arguments: `{"question":"Prove it"}`},
		}}),
		schema.ToolMessage("Proof...", "call-1"),
	})
	if err != nil {
		t.Fatalf("convertMessages() error = %v", err)
	}
	if len(contents) != 3 {
		t.Fatalf("len(contents) = %d, want 3", len(contents))
	}
	call := contents[1].Parts[0].FunctionCall
	if call == nil || call.Name != "prove" || call.Args["question"] != "Prove it" {
		t.Fatalf("unexpected function call: %#v", call)
	}
	resp := contents[2].Parts[0].FunctionResponse
	if resp == nil || resp.Name != "prove" || resp.Response["result"] != "Proof..." {
		t.Fatalf("unexpected function response: %#v", resp)
	}
}

func TestStream(t *testing.T) {
	t.Parallel()

	fake := &fakeGenerator{chunks: []*genai.GenerateContentResponse{
		textResponse(&genai.Part{Text: "Rate "}),
		{},
		textResponse(&genai.Part{Text: "of change"}),
	}}
	m := newChatModel(fake, Config{Model: "gemini-2.5-flash"})

	sr, err := m.Stream(context.Background(), []*schema.Message{schema.UserMessage("q")})
	if err != nil {
		t.Fatalf("Stream() error = %v", err)
	}
	defer sr.Close()

	var b strings.Builder
	for {
		chunk, err := sr.Recv()
		if err != nil {
			break
		}
		b.WriteString(chunk.Content)
	}
	if b.String() != "Rate of change" {
		t.Fatalf("streamed content = %q", b.String())
	}
}
