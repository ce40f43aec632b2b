package eval

import (
	"regexp"
	"strconv"
	"strings"
)

var listMarker = regexp.MustCompile(`^(?:\d+[.)]|[-*•#])\s*`)

const (
	maxScore       = 10
	defaultComment = "No comment."
)

// parseQuestions turns a numbered list into questions, keeping at most limit.
func parseQuestions(text string, limit int) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		q := strings.TrimSpace(listMarker.ReplaceAllString(strings.TrimSpace(line), ""))
		if q == "" {
			continue
		}
		out = append(out, q)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// parseJudgement reads "Score: X/10" and "Comment: ..." lines. A missing or
// unreadable score counts as 0.
func parseJudgement(text string) (score float64, comment string) {
	comment = defaultComment
	scoreFound, commentFound := false, false

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(strings.Trim(line, "*_ "))
		switch {
		case !scoreFound && strings.Contains(line, "Score:"):
			raw := strings.TrimSpace(line[strings.Index(line, "Score:")+len("Score:"):])
			if i := strings.Index(raw, "/"); i >= 0 {
				raw = raw[:i]
			}
			raw = strings.TrimSpace(strings.Trim(strings.TrimSpace(raw), "*_"))
			if v, err := strconv.ParseFloat(raw, 64); err == nil {
				score = min(max(v, 0), maxScore)
			}
			scoreFound = true
		case !commentFound && strings.Contains(line, "Comment:"):
			c := strings.TrimSpace(strings.TrimLeft(line[strings.Index(line, "Comment:")+len("Comment:"):], "*_ "))
			if c != "" {
				comment = c
			}
			commentFound = true
		}
	}
	return score, comment
}
