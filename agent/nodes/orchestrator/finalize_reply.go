package orchestratornode

import (
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"
	contractx "github.com/tanpawarit/euclidia/agent/contract"
)

func FinalizeReply(in *GraphState) (GraphOutput, error) {
	if in == nil {
		return GraphOutput{}, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	if in.Failure != nil {
		return GraphOutput{
			Message:    schema.AssistantMessage(in.Failure.Notice(), nil),
			Capability: in.Capability,
			Failure:    in.Failure,
			Warnings:   in.Warnings,
		}, nil
	}

	call := *in.Call
	if strings.TrimSpace(call.ID) == "" {
		call.ID = "call_" + uuid.NewString()
	}

	return GraphOutput{
		Message:    schema.AssistantMessage(in.Content, nil),
		Capability: in.Capability,
		Warnings:   in.Warnings,
		Decision:   in.Decision,
		ToolCall:   &call,
	}, nil
}
