package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/euclidia/agent/contract"
	nodex "github.com/tanpawarit/euclidia/agent/nodes/orchestrator"
	statex "github.com/tanpawarit/euclidia/agent/state"
	toolx "github.com/tanpawarit/euclidia/agent/tool"
)

type Mode string

const (
	// ModeDirect returns the tool output as the reply.
	ModeDirect Mode = "direct"
	// ModeSynthesize feeds the tool result back to the router until it
	// answers in text or the nested round limit is reached.
	ModeSynthesize Mode = "synthesize"
)

const DefaultMaxNestedRounds = 5

var ErrNestedCallLimit = contractx.ErrNestedCallLimit

// Config is loaded with the AGENT prefix.
type Config struct {
	HistoryWindow   int  `split_words:"true" default:"15"`
	MaxNestedRounds int  `split_words:"true" default:"5"`
	Mode            Mode `default:"direct"`
	Cleanup         bool `default:"true"`
}

type Option func(*Orchestrator)

// WithStatus registers a callback for the remote call a turn is waiting on.
func WithStatus(fn contractx.StatusFunc) Option {
	return func(o *Orchestrator) { o.status = fn }
}

// WithExecutor replaces the registry-backed capability executor.
func WithExecutor(exec toolx.Executor) Option {
	return func(o *Orchestrator) { o.execute = exec }
}

type Orchestrator struct {
	models  contractx.Registry
	execute toolx.Executor
	cleaner contractx.Cleaner
	status  contractx.StatusFunc

	window    int
	maxNested int
	mode      Mode
	cleanup   bool

	graphRunner compose.Runnable[nodex.GraphInput, nodex.GraphOutput]
}

func New(models contractx.Registry, cfg Config, opts ...Option) (*Orchestrator, error) {
	if models == nil {
		return nil, errors.New("model registry is required")
	}
	if models.Router() == nil {
		return nil, errors.New("router model is required")
	}

	mode := Mode(strings.ToLower(strings.TrimSpace(string(cfg.Mode))))
	switch mode {
	case "":
		mode = ModeDirect
	case ModeDirect, ModeSynthesize:
	default:
		return nil, fmt.Errorf("%w: unknown agent mode %q", contractx.ErrConfiguration, cfg.Mode)
	}

	window := cfg.HistoryWindow
	if window <= 0 {
		window = statex.DefaultWindow
	}
	maxNested := cfg.MaxNestedRounds
	if maxNested < 0 {
		maxNested = DefaultMaxNestedRounds
	}

	o := &Orchestrator{
		models:    models,
		execute:   toolx.NewExecutor(models),
		cleaner:   models.Cleaner(),
		window:    window,
		maxNested: maxNested,
		mode:      mode,
		cleanup:   cfg.Cleanup,
	}
	for _, opt := range opts {
		opt(o)
	}

	router, err := models.Router().WithTools(toolx.Infos())
	if err != nil {
		return nil, fmt.Errorf("%w: bind capability tools: %v", contractx.ErrModelInvoke, err)
	}

	graphRunner, err := o.compileRouteGraph(context.Background(), router)
	if err != nil {
		return nil, err
	}
	o.graphRunner = graphRunner

	return o, nil
}

// Route answers the latest turn of history. Failures come back in-band in
// the reply; the only error is ErrNestedCallLimit in synthesize mode.
// history is never modified.
func (o *Orchestrator) Route(ctx context.Context, history []*schema.Message) (contractx.Reply, error) {
	var (
		transcript []*schema.Message
		warnings   []string
		capability contractx.Capability
	)

	for round := 0; ; round++ {
		if round > o.maxNested {
			log.Ctx(ctx).Error().Int("rounds", round).Msg("nested tool call limit reached")
			return contractx.Reply{
				Capability: capability,
				Warnings:   warnings,
				Rounds:     round,
				Transcript: transcript,
			}, fmt.Errorf("%w: limit=%d", ErrNestedCallLimit, o.maxNested)
		}

		input := make([]*schema.Message, 0, len(history)+len(transcript))
		input = append(input, history...)
		input = append(input, transcript...)

		out, err := o.graphRunner.Invoke(ctx, nodex.GraphInput{History: input, Round: round})
		if err != nil {
			failure := &contractx.Failure{Kind: contractx.FailureRouting, Err: err}
			log.Ctx(ctx).Error().Err(err).Int("round", round).Msg("route graph failed")
			return contractx.Reply{
				Message:    schema.AssistantMessage(failure.Notice(), nil),
				Failure:    failure,
				Warnings:   warnings,
				Rounds:     round + 1,
				Transcript: transcript,
			}, nil
		}
		warnings = append(warnings, out.Warnings...)
		if out.Capability != "" {
			capability = out.Capability
		}

		if o.mode != ModeSynthesize || out.Failure != nil || out.ToolCall == nil {
			return contractx.Reply{
				Message:    out.Message,
				Capability: capability,
				Failure:    out.Failure,
				Warnings:   warnings,
				Rounds:     round + 1,
				Transcript: transcript,
			}, nil
		}

		decisionText := ""
		if out.Decision != nil {
			decisionText = out.Decision.Content
		}
		transcript = append(transcript,
			schema.AssistantMessage(decisionText, []schema.ToolCall{*out.ToolCall}),
			schema.ToolMessage(out.Message.Content, out.ToolCall.ID),
		)
	}
}
