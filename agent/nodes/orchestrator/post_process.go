package orchestratornode

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/euclidia/agent/contract"
)

const cleanupFailedWarning = "⚠️ Math formatting cleanup failed; showing the original answer."

// PostProcess runs notation cleanup over prove output only.
func PostProcess(
	ctx context.Context,
	in *GraphState,
	cleaner contractx.Cleaner,
	enabled bool,
	status contractx.StatusFunc,
) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	if in.Failure != nil || !enabled || cleaner == nil || in.Capability != contractx.CapabilityProve {
		return in, nil
	}

	if status != nil {
		status(contractx.PhaseCleanup)
	}

	res := cleaner.Clean(ctx, in.Content)
	in.Content = res.Text
	if res.Err != nil {
		in.Warnings = append(in.Warnings, cleanupFailedWarning)
		log.Ctx(ctx).Warn().Err(res.Err).Msg("cleanup failed, keeping original")
	} else if res.Skipped != "" {
		log.Ctx(ctx).Debug().Str("reason", res.Skipped).Msg("cleanup skipped")
	}
	return in, nil
}
