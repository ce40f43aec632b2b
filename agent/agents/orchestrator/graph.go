package orchestrator

import (
	"context"
	"fmt"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	nodex "github.com/tanpawarit/euclidia/agent/nodes/orchestrator"
)

func (o *Orchestrator) compileRouteGraph(
	ctx context.Context,
	router einomodel.BaseChatModel,
) (compose.Runnable[nodex.GraphInput, nodex.GraphOutput], error) {
	graph := compose.NewGraph[nodex.GraphInput, nodex.GraphOutput]()

	if err := graph.AddLambdaNode("trim_history",
		compose.InvokableLambda(func(ctx context.Context, in nodex.GraphInput) (*nodex.GraphState, error) {
			return nodex.TrimHistory(in, o.window)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node trim_history: %w", err)
	}

	if err := graph.AddLambdaNode("request_decision",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.RequestDecision(ctx, in, router, o.status)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node request_decision: %w", err)
	}

	if err := graph.AddLambdaNode(nodex.BranchDirectReply,
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (nodex.GraphOutput, error) {
			return nodex.DirectReply(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node direct_reply: %w", err)
	}

	if err := graph.AddLambdaNode(nodex.BranchSelectCapability,
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.SelectCapability(ctx, in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node select_capability: %w", err)
	}

	if err := graph.AddLambdaNode("invoke_capability",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.InvokeCapability(ctx, in, o.execute, o.status)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node invoke_capability: %w", err)
	}

	if err := graph.AddLambdaNode("validate_result",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.ValidateResult(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node validate_result: %w", err)
	}

	if err := graph.AddLambdaNode("post_process",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.PostProcess(ctx, in, o.cleaner, o.cleanup, o.status)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node post_process: %w", err)
	}

	if err := graph.AddLambdaNode("finalize_reply",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (nodex.GraphOutput, error) {
			return nodex.FinalizeReply(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node finalize_reply: %w", err)
	}

	branch := compose.NewGraphBranch(
		nodex.DecisionBranch,
		map[string]bool{
			nodex.BranchDirectReply:      true,
			nodex.BranchSelectCapability: true,
		},
	)
	if err := graph.AddBranch("request_decision", branch); err != nil {
		return nil, fmt.Errorf("add decision branch: %w", err)
	}

	edges := [][2]string{
		{compose.START, "trim_history"},
		{"trim_history", "request_decision"},
		{nodex.BranchDirectReply, compose.END},
		{nodex.BranchSelectCapability, "invoke_capability"},
		{"invoke_capability", "validate_result"},
		{"validate_result", "post_process"},
		{"post_process", "finalize_reply"},
		{"finalize_reply", compose.END},
	}

	for _, edge := range edges {
		if err := graph.AddEdge(edge[0], edge[1]); err != nil {
			return nil, fmt.Errorf("add edge %s->%s: %w", edge[0], edge[1], err)
		}
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("orchestrator.route"))
	if err != nil {
		return nil, fmt.Errorf("compile orchestrator graph: %w", err)
	}
	return runner, nil
}
