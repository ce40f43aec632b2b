package orchestratornode

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/euclidia/agent/contract"
	toolx "github.com/tanpawarit/euclidia/agent/tool"
)

// SelectCapability keeps the first tool call and validates it. Any further
// calls are dropped with a warning.
func SelectCapability(ctx context.Context, in *GraphState) (*GraphState, error) {
	if in == nil || in.Decision == nil || len(in.Decision.ToolCalls) == 0 {
		return nil, fmt.Errorf("%w: no tool call to select", contractx.ErrValidation)
	}

	calls := in.Decision.ToolCalls
	call := calls[0]
	in.Call = &call

	name := strings.TrimSpace(call.Function.Name)
	if len(calls) > 1 {
		in.Warnings = append(in.Warnings, multipleCallsWarning(len(calls), name))
		log.Ctx(ctx).Warn().
			Int("tool_calls", len(calls)).
			Str("tool", name).
			Msg("multiple tool calls, keeping the first")
	}

	if name == "" {
		in.fail(&contractx.Failure{
			Kind: contractx.FailureMissingTool,
			Err:  fmt.Errorf("%w: tool call name is empty", contractx.ErrSchemaViolation),
		})
		return in, nil
	}

	capability, ok := toolx.Lookup(name)
	if !ok {
		in.fail(&contractx.Failure{
			Kind: contractx.FailureUnknownTool,
			Tool: name,
			Err:  fmt.Errorf("%w: tool=%s is not a known capability", contractx.ErrSchemaViolation, name),
		})
		return in, nil
	}
	in.Capability = capability

	question, present, err := toolx.DecodeQuestion(call.Function.Arguments)
	if err != nil {
		in.fail(&contractx.Failure{
			Kind:       contractx.FailureInvalidArguments,
			Capability: capability,
			Tool:       name,
			Err:        err,
		})
		return in, nil
	}
	if !present {
		in.fail(&contractx.Failure{
			Kind:       contractx.FailureMissingQuestion,
			Capability: capability,
			Tool:       name,
			Err:        fmt.Errorf("%w: %s is blank", contractx.ErrValidation, toolx.ArgQuestion),
		})
		return in, nil
	}

	in.Question = question
	return in, nil
}

func multipleCallsWarning(n int, first string) string {
	if first == "" {
		first = "unnamed"
	}
	return fmt.Sprintf("⚠️ The assistant requested %d tools at once; only the first ('%s') was used.", n, first)
}
