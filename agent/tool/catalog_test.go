package tool

import (
	"context"
	"errors"
	"testing"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	contractx "github.com/tanpawarit/euclidia/agent/contract"
)

type stubSpecialist struct {
	calls    int
	question string
	content  string
}

func (s *stubSpecialist) Answer(_ context.Context, question string) contractx.Result {
	s.calls++
	s.question = question
	return contractx.Result{Message: schema.AssistantMessage(s.content, nil)}
}

type stubRegistry struct {
	explain *stubSpecialist
}

func (r stubRegistry) Router() einomodel.ToolCallingChatModel { return nil }

func (r stubRegistry) Specialist(c contractx.Capability) (contractx.Specialist, bool) {
	if c == contractx.CapabilityExplain && r.explain != nil {
		return r.explain, true
	}
	return nil, false
}

func (r stubRegistry) Cleaner() contractx.Cleaner { return nil }

func TestInfos(t *testing.T) {
	t.Parallel()

	infos := Infos()
	if len(infos) != 2 {
		t.Fatalf("expected 2 tool infos, got %d", len(infos))
	}
	if infos[0].Name != "explain" {
		t.Fatalf("unexpected first tool: %s", infos[0].Name)
	}
	if infos[1].Name != "prove" {
		t.Fatalf("unexpected second tool: %s", infos[1].Name)
	}
	for _, info := range infos {
		if info.ParamsOneOf == nil {
			t.Fatalf("tool %s has no parameters", info.Name)
		}
	}
}

func TestLookup(t *testing.T) {
	t.Parallel()

	if c, ok := Lookup("prove"); !ok || c != contractx.CapabilityProve {
		t.Fatalf("Lookup(prove) = %q, %v", c, ok)
	}
	for _, name := range []string{"", "use_gemini", "calculator", "Explain"} {
		if _, ok := Lookup(name); ok {
			t.Fatalf("Lookup(%q) must fail", name)
		}
	}
}

func TestDecodeQuestion(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		arguments string
		want      string
		wantOK    bool
		wantErr   bool
	}{
		{name: "valid", arguments: `{"question":"  What is a derivative?  "}`, want: "What is a derivative?", wantOK: true},
		{name: "blank", arguments: `{"question":"   "}`},
		{name: "missing", arguments: `{"topic":"limits"}`},
		{name: "empty arguments", arguments: ""},
		{name: "null", arguments: `{"question":null}`},
		{name: "not a string", arguments: `{"question":42}`, wantErr: true},
		{name: "malformed", arguments: `{"question":`, wantErr: true},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, ok, err := DecodeQuestion(tc.arguments)
			if tc.wantErr {
				if !errors.Is(err, contractx.ErrSchemaViolation) {
					t.Fatalf("DecodeQuestion() error = %v, want ErrSchemaViolation", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeQuestion() error = %v", err)
			}
			if got != tc.want || ok != tc.wantOK {
				t.Fatalf("DecodeQuestion() = %q, %v; want %q, %v", got, ok, tc.want, tc.wantOK)
			}
		})
	}
}

func TestNewExecutorInvokesSpecialist(t *testing.T) {
	t.Parallel()

	explain := &stubSpecialist{content: "Rate of change..."}
	executor := NewExecutor(stubRegistry{explain: explain})

	out := executor(context.Background(), contractx.CapabilityExplain, "What is a derivative?")
	if out.Failed() {
		t.Fatalf("unexpected failure: %v", out.Failure)
	}
	if out.Content() != "Rate of change..." {
		t.Fatalf("unexpected content: %q", out.Content())
	}
	if out.Capability != contractx.CapabilityExplain {
		t.Fatalf("unexpected capability: %s", out.Capability)
	}
	if explain.calls != 1 || explain.question != "What is a derivative?" {
		t.Fatalf("specialist calls=%d question=%q", explain.calls, explain.question)
	}
}

func TestDefaultExecutorUnavailable(t *testing.T) {
	t.Parallel()

	executor := NewExecutor(stubRegistry{})
	out := executor(context.Background(), contractx.CapabilityProve, "Prove that sqrt(2) is irrational")
	if !out.Failed() {
		t.Fatal("expected failure")
	}
	if out.Failure.Kind != contractx.FailureUnknownTool {
		t.Fatalf("unexpected failure kind: %s", out.Failure.Kind)
	}
	if !errors.Is(out.Failure, contractx.ErrValidation) {
		t.Fatalf("failure must wrap ErrValidation: %v", out.Failure)
	}
}
