package state

import (
	"fmt"
	"testing"

	"github.com/cloudwego/eino/schema"
)

func buildLog(systemAt map[int]bool, n int) []*schema.Message {
	out := make([]*schema.Message, 0, n)
	for i := 0; i < n; i++ {
		if systemAt[i] {
			out = append(out, schema.SystemMessage(fmt.Sprintf("sys-%d", i)))
			continue
		}
		if i%2 == 0 {
			out = append(out, schema.UserMessage(fmt.Sprintf("msg-%d", i)))
		} else {
			out = append(out, schema.AssistantMessage(fmt.Sprintf("msg-%d", i), nil))
		}
	}
	return out
}

func splitRoles(msgs []*schema.Message) (system, rest []*schema.Message) {
	for _, m := range msgs {
		if m.Role == schema.System {
			system = append(system, m)
		} else {
			rest = append(rest, m)
		}
	}
	return system, rest
}

func TestWindowEmpty(t *testing.T) {
	t.Parallel()

	got := Window(nil, 15)
	if got == nil || len(got) != 0 {
		t.Fatalf("Window(nil) = %#v, want empty slice", got)
	}
}

func TestWindowShortLogUnchanged(t *testing.T) {
	t.Parallel()

	in := buildLog(map[int]bool{0: true}, 5)
	got := Window(in, 15)
	if len(got) != 5 {
		t.Fatalf("len = %d, want 5", len(got))
	}
	for i := range in {
		if got[i] != in[i] {
			t.Fatalf("message %d changed: %q", i, got[i].Content)
		}
	}
}

func TestWindowBoundProperty(t *testing.T) {
	t.Parallel()

	cases := []struct {
		n        int
		max      int
		systemAt map[int]bool
	}{
		{n: 40, max: 15, systemAt: map[int]bool{0: true}},
		{n: 16, max: 15, systemAt: map[int]bool{0: true}},
		{n: 30, max: 10, systemAt: map[int]bool{0: true, 7: true, 21: true}},
		{n: 30, max: 5, systemAt: map[int]bool{}},
		{n: 12, max: 3, systemAt: map[int]bool{0: true, 1: true}},
		{n: 100, max: 1, systemAt: map[int]bool{}},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(fmt.Sprintf("n=%d/max=%d/sys=%d", tc.n, tc.max, len(tc.systemAt)), func(t *testing.T) {
			t.Parallel()

			in := buildLog(tc.systemAt, tc.n)
			got := Window(in, tc.max)
			if len(got) > tc.max {
				t.Fatalf("len = %d exceeds max %d", len(got), tc.max)
			}

			inSystem, inRest := splitRoles(in)
			for i, m := range inSystem {
				if got[i] != m {
					t.Fatalf("position %d = %q, want system %q", i, got[i].Content, m.Content)
				}
			}

			_, gotRest := splitRoles(got)
			want := tc.max - len(inSystem)
			if want < 1 {
				want = 1
			}
			if want > len(inRest) {
				want = len(inRest)
			}
			if len(gotRest) != want {
				t.Fatalf("non-system count = %d, want %d", len(gotRest), want)
			}
			tail := inRest[len(inRest)-want:]
			for i := range tail {
				if gotRest[i] != tail[i] {
					t.Fatalf("non-system %d = %q, want %q", i, gotRest[i].Content, tail[i].Content)
				}
			}
		})
	}
}

func TestWindowSystemMessagesFirst(t *testing.T) {
	t.Parallel()

	in := []*schema.Message{
		schema.UserMessage("q1"),
		schema.SystemMessage("late instruction"),
		schema.AssistantMessage("a1", nil),
	}
	got := Window(in, 15)
	if got[0].Role != schema.System || got[0].Content != "late instruction" {
		t.Fatalf("first message = %s %q, want system", got[0].Role, got[0].Content)
	}
	if got[1].Content != "q1" || got[2].Content != "a1" {
		t.Fatalf("unexpected order: %q, %q", got[1].Content, got[2].Content)
	}
}

func TestWindowSystemOverflowKeepsLatestTurn(t *testing.T) {
	t.Parallel()

	in := []*schema.Message{
		schema.SystemMessage("s1"),
		schema.SystemMessage("s2"),
		schema.SystemMessage("s3"),
		schema.UserMessage("old"),
		schema.UserMessage("latest"),
	}
	got := Window(in, 2)
	if len(got) != 4 {
		t.Fatalf("len = %d, want 4", len(got))
	}
	if got[3].Content != "latest" {
		t.Fatalf("last message = %q, want latest", got[3].Content)
	}
}

func TestWindowDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	in := buildLog(map[int]bool{0: true}, 20)
	before := make([]*schema.Message, len(in))
	copy(before, in)

	_ = Window(in, 5)

	for i := range in {
		if in[i] != before[i] {
			t.Fatalf("input mutated at %d", i)
		}
	}
}

func TestWindowDefaultSize(t *testing.T) {
	t.Parallel()

	in := buildLog(map[int]bool{0: true}, 50)
	got := Window(in, 0)
	if len(got) != DefaultWindow {
		t.Fatalf("len = %d, want %d", len(got), DefaultWindow)
	}
}
