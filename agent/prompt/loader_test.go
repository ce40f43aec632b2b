package prompt

import (
	"strings"
	"testing"
)

func TestLoadPromptSet(t *testing.T) {
	t.Parallel()

	set := LoadPromptSet()
	cases := map[string]struct {
		text        string
		placeholder string
	}{
		"explain":       {text: set.Explain, placeholder: "{question}"},
		"prove":         {text: set.Prove, placeholder: "{question}"},
		"cleanup":       {text: set.Cleanup, placeholder: "{text}"},
		"eval_generate": {text: set.EvalGenerate, placeholder: "{count}"},
		"eval_judge":    {text: set.EvalJudge, placeholder: "{answer}"},
	}
	for name, tc := range cases {
		if strings.TrimSpace(tc.text) == "" {
			t.Fatalf("prompt %s is empty", name)
		}
		if !strings.Contains(tc.text, tc.placeholder) {
			t.Fatalf("prompt %s is missing %s", name, tc.placeholder)
		}
	}
	if !strings.Contains(set.RouterSystem, "`explain`") || !strings.Contains(set.RouterSystem, "`prove`") {
		t.Fatal("router prompt must name both tools")
	}
	if !strings.Contains(set.Prove, "$$...$$") {
		t.Fatal("prove prompt must require block math delimiters")
	}
}
