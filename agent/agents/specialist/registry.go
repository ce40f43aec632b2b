package specialist

import (
	"context"
	"fmt"

	einomodel "github.com/cloudwego/eino/components/model"
	contractx "github.com/tanpawarit/euclidia/agent/contract"
	llmx "github.com/tanpawarit/euclidia/agent/llm"
	promptx "github.com/tanpawarit/euclidia/agent/prompt"
	geminix "github.com/tanpawarit/euclidia/pkg/gemini"
)

type registryImpl struct {
	router  einomodel.ToolCallingChatModel
	explain contractx.Specialist
	prove   contractx.Specialist
	cleaner contractx.Cleaner
}

func (r *registryImpl) Router() einomodel.ToolCallingChatModel {
	return r.router
}

func (r *registryImpl) Specialist(c contractx.Capability) (contractx.Specialist, bool) {
	switch c {
	case contractx.CapabilityExplain:
		return r.explain, r.explain != nil
	case contractx.CapabilityProve:
		return r.prove, r.prove != nil
	default:
		return nil, false
	}
}

func (r *registryImpl) Cleaner() contractx.Cleaner {
	return r.cleaner
}

// NewRegistry builds the router, both specialists and the cleaner once.
// The explain model also serves cleanup.
func NewRegistry(ctx context.Context, cfg llmx.Config) (contractx.Registry, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	routerCfg := cfg.RouterConfig()
	routerModel, err := routerCfg.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: create router model: %v", contractx.ErrModelInvoke, err)
	}

	explainModel, err := geminix.NewChatModel(ctx, cfg.ExplainConfig())
	if err != nil {
		return nil, fmt.Errorf("%w: create explain model: %v", contractx.ErrModelInvoke, err)
	}

	proveCfg := cfg.ProveConfig()
	proveModel, err := proveCfg.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: create prove model: %v", contractx.ErrModelInvoke, err)
	}

	return NewRegistryFromModels(ctx, routerModel, explainModel, proveModel, cfg.CleanupMaxChars)
}

func NewRegistryFromModels(
	ctx context.Context,
	router einomodel.ToolCallingChatModel,
	explainModel einomodel.BaseChatModel,
	proveModel einomodel.BaseChatModel,
	cleanupMaxChars int,
) (contractx.Registry, error) {
	if router == nil {
		return nil, fmt.Errorf("%w: router model is nil", contractx.ErrValidation)
	}

	prompts := promptx.LoadPromptSet()

	explain, err := newSpecialist(ctx, contractx.CapabilityExplain, explainModel, prompts.Explain)
	if err != nil {
		return nil, err
	}
	prove, err := newSpecialist(ctx, contractx.CapabilityProve, proveModel, prompts.Prove)
	if err != nil {
		return nil, err
	}
	cleaner, err := newCleaner(ctx, explainModel, prompts.Cleanup, cleanupMaxChars)
	if err != nil {
		return nil, err
	}

	return &registryImpl{
		router:  router,
		explain: explain,
		prove:   prove,
		cleaner: cleaner,
	}, nil
}
