package orchestratornode

import (
	"fmt"

	"github.com/cloudwego/eino/schema"
	contractx "github.com/tanpawarit/euclidia/agent/contract"
)

// DirectReply returns the router's own answer verbatim, or the routing
// failure notice.
func DirectReply(in *GraphState) (GraphOutput, error) {
	if in == nil {
		return GraphOutput{}, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	if in.Failure != nil {
		return GraphOutput{
			Message:  schema.AssistantMessage(in.Failure.Notice(), nil),
			Failure:  in.Failure,
			Warnings: in.Warnings,
		}, nil
	}

	return GraphOutput{
		Message:  schema.AssistantMessage(in.Decision.Content, nil),
		Warnings: in.Warnings,
	}, nil
}
