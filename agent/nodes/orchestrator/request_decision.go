package orchestratornode

import (
	"context"
	"errors"
	"fmt"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/euclidia/agent/contract"
)

const (
	BranchDirectReply      = "direct_reply"
	BranchSelectCapability = "select_capability"
)

// RequestDecision asks the router model for a routing decision. A failed
// call is recorded as a routing failure and never returned as an error.
func RequestDecision(
	ctx context.Context,
	in *GraphState,
	router einomodel.BaseChatModel,
	status contractx.StatusFunc,
) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	if status != nil {
		status(contractx.PhaseRouting)
	}

	if len(in.History) == 0 {
		in.fail(&contractx.Failure{
			Kind: contractx.FailureRouting,
			Err:  fmt.Errorf("%w: history is empty", contractx.ErrValidation),
		})
		return in, nil
	}

	msg, err := router.Generate(ctx, in.History)
	if err == nil && msg == nil {
		err = errors.New("router returned no message")
	}
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Int("round", in.Round).Msg("routing call failed")
		in.fail(&contractx.Failure{
			Kind: contractx.FailureRouting,
			Err:  fmt.Errorf("%w: routing: %v", contractx.ErrModelInvoke, err),
		})
		return in, nil
	}

	in.Decision = msg
	log.Ctx(ctx).Debug().
		Int("round", in.Round).
		Int("tool_calls", len(msg.ToolCalls)).
		Msg("routing decision received")
	return in, nil
}

func DecisionBranch(_ context.Context, in *GraphState) (string, error) {
	if in == nil {
		return "", fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	if in.Failure != nil || in.Decision == nil || len(in.Decision.ToolCalls) == 0 {
		return BranchDirectReply, nil
	}
	return BranchSelectCapability, nil
}
