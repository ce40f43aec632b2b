package orchestratornode

import (
	"fmt"

	"github.com/cloudwego/eino/schema"
	contractx "github.com/tanpawarit/euclidia/agent/contract"
	statex "github.com/tanpawarit/euclidia/agent/state"
)

func TrimHistory(in GraphInput, window int) (*GraphState, error) {
	if in.Round < 0 {
		return nil, fmt.Errorf("%w: negative round=%d", contractx.ErrValidation, in.Round)
	}

	return &GraphState{
		Round:   in.Round,
		History: dropOrphanToolTurns(statex.Window(in.History, window)),
	}, nil
}

// dropOrphanToolTurns removes tool results whose assistant tool-call turn
// fell outside the window; providers reject a tool message without one.
func dropOrphanToolTurns(msgs []*schema.Message) []*schema.Message {
	out := make([]*schema.Message, 0, len(msgs))
	seen := map[string]bool{}
	for _, m := range msgs {
		switch m.Role {
		case schema.Assistant:
			for _, tc := range m.ToolCalls {
				seen[tc.ID] = true
			}
		case schema.Tool:
			if !seen[m.ToolCallID] {
				continue
			}
		}
		out = append(out, m)
	}
	return out
}
