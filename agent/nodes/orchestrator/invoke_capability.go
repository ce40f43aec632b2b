package orchestratornode

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/euclidia/agent/contract"
	toolx "github.com/tanpawarit/euclidia/agent/tool"
)

// InvokeCapability calls exactly one backend, and only when selection left
// no failure behind.
func InvokeCapability(
	ctx context.Context,
	in *GraphState,
	execute toolx.Executor,
	status contractx.StatusFunc,
) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	if in.Failure != nil {
		return in, nil
	}
	if execute == nil {
		return nil, fmt.Errorf("%w: capability executor is nil", contractx.ErrValidation)
	}

	if status != nil {
		status(contractx.Phase(in.Capability))
	}

	started := time.Now()
	in.Result = execute(ctx, in.Capability, in.Question)

	log.Ctx(ctx).Info().
		Str("capability", string(in.Capability)).
		Int("round", in.Round).
		Bool("failed", in.Result.Failed()).
		Dur("latency", time.Since(started)).
		Msg("capability invoked")
	return in, nil
}
