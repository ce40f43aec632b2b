package console

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/cloudwego/eino/schema"
	contractx "github.com/tanpawarit/euclidia/agent/contract"
)

func TestReplyPlainOutput(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	c := New(&buf)

	c.Status(contractx.PhaseRouting)
	c.Status(contractx.PhaseProve)
	c.Reply(contractx.Reply{
		Message:    schema.AssistantMessage("$$a^2 + b^2 = c^2$$", nil),
		Capability: contractx.CapabilityProve,
		Warnings:   []string{"only the first tool was used"},
	})

	out := buf.String()
	for _, want := range []string{"Thinking...", "Reasoning...", "only the first tool was used", "EuclidIA · prove", "$$a^2 + b^2 = c^2$$"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\033[") {
		t.Fatalf("non-terminal output must not contain escape codes:\n%q", out)
	}
}

func TestReplyFailure(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	c := New(&buf)

	failure := &contractx.Failure{Kind: contractx.FailureUnknownTool, Tool: "use_wolfram"}
	c.Reply(contractx.Reply{Message: schema.AssistantMessage(failure.Notice(), nil), Failure: failure})
	c.Error(errors.New("too many nested tool calls"))

	out := buf.String()
	if !strings.Contains(out, "Unknown tool 'use_wolfram'") {
		t.Fatalf("failure notice missing:\n%s", out)
	}
	if strings.Contains(out, "EuclidIA ·") {
		t.Fatalf("failures must not get the answer header:\n%s", out)
	}
	if !strings.Contains(out, "❌ too many nested tool calls") {
		t.Fatalf("error line missing:\n%s", out)
	}
}
