package specialist

import (
	"context"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/euclidia/agent/contract"
)

type specialistImpl struct {
	capability contractx.Capability
	runner     compose.Runnable[map[string]any, *schema.Message]
}

var _ contractx.Specialist = (*specialistImpl)(nil)

func newSpecialist(
	ctx context.Context,
	capability contractx.Capability,
	chatModel einomodel.BaseChatModel,
	template string,
) (*specialistImpl, error) {
	if chatModel == nil {
		return nil, fmt.Errorf("%w: chat model for capability=%s is nil", contractx.ErrValidation, capability)
	}
	if strings.TrimSpace(template) == "" {
		return nil, fmt.Errorf("%w: capability=%s", contractx.ErrPromptMissing, capability)
	}

	runner, err := compilePromptGraph(ctx, chatModel, template, "specialist."+string(capability))
	if err != nil {
		return nil, fmt.Errorf("%w: compile specialist graph: %v", contractx.ErrModelInvoke, err)
	}

	return &specialistImpl{capability: capability, runner: runner}, nil
}

// Answer never returns a Go error: any provider failure, including a panic
// inside the model client, comes back as a FailureBackend result.
func (s *specialistImpl) Answer(ctx context.Context, question string) (res contractx.Result) {
	res.Capability = s.capability

	defer func() {
		if r := recover(); r != nil {
			res.Message = nil
			res.Failure = s.backendFailure(fmt.Errorf("%w: panic: %v", contractx.ErrModelInvoke, r))
			log.Ctx(ctx).Error().
				Str("capability", string(s.capability)).
				Interface("panic", r).
				Msg("specialist panicked")
		}
	}()

	msg, err := s.runner.Invoke(ctx, map[string]any{
		"question": question,
	})
	if err != nil {
		log.Ctx(ctx).Warn().
			Err(err).
			Str("capability", string(s.capability)).
			Msg("specialist backend failed")
		res.Failure = s.backendFailure(fmt.Errorf("%w: %v", contractx.ErrModelInvoke, err))
		return res
	}

	res.Message = msg
	return res
}

func (s *specialistImpl) backendFailure(err error) *contractx.Failure {
	return &contractx.Failure{
		Kind:       contractx.FailureBackend,
		Capability: s.capability,
		Err:        err,
	}
}
