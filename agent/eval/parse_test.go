package eval

import "testing"

func TestParseQuestions(t *testing.T) {
	t.Parallel()

	text := "Here you go\n\n1. What is a group?\n2) Prove 1+1=2.\n- Is 0 even?\n"
	got := parseQuestions(text, 3)
	want := []string{"Here you go", "What is a group?", "Prove 1+1=2."}
	if len(got) != len(want) {
		t.Fatalf("got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("question %d: got %q want %q", i, got[i], want[i])
		}
	}
}

func TestParseJudgement(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		text    string
		score   float64
		comment string
	}{
		{name: "plain", text: "Score: 7/10\nComment: Good.", score: 7, comment: "Good."},
		{name: "decimal", text: "Score: 8.5/10\nComment: Nice", score: 8.5, comment: "Nice"},
		{name: "bold", text: "**Score:** 9/10\n**Comment:** Solid", score: 9, comment: "Solid"},
		{name: "clamped", text: "Score: 14/10", score: 10, comment: defaultComment},
		{name: "missing", text: "I liked it", score: 0, comment: defaultComment},
		{name: "garbage score", text: "Score: high\nComment: hm", score: 0, comment: "hm"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			score, comment := parseJudgement(tt.text)
			if score != tt.score || comment != tt.comment {
				t.Fatalf("got (%v, %q), want (%v, %q)", score, comment, tt.score, tt.comment)
			}
		})
	}
}
