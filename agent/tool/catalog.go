package tool

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"
	jsoniter "github.com/json-iterator/go"
	contractx "github.com/tanpawarit/euclidia/agent/contract"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ArgQuestion is the single required argument of every capability.
const ArgQuestion = "question"

type Executor func(ctx context.Context, capability contractx.Capability, question string) contractx.Result

func Infos() []*schema.ToolInfo {
	return []*schema.ToolInfo{
		{
			Name: string(contractx.CapabilityExplain),
			Desc: "Explain a mathematical concept, definition, or formula concisely and accurately. " +
				"Use for factual or definitional questions (what is, how does, define, give the formula).",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				ArgQuestion: {Type: schema.String, Desc: "The user's question, forwarded as written", Required: true},
			}),
		},
		{
			Name: string(contractx.CapabilityProve),
			Desc: "Produce a rigorous, step-by-step proof or derivation with every step justified. " +
				"Use when the user asks to prove, demonstrate, show, or derive a result.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				ArgQuestion: {Type: schema.String, Desc: "The statement to prove or the derivation to carry out", Required: true},
			}),
		},
	}
}

// Lookup maps a tool name chosen by the router onto a capability.
func Lookup(name string) (contractx.Capability, bool) {
	c := contractx.Capability(strings.TrimSpace(name))
	if !c.Valid() {
		return "", false
	}
	return c, true
}

// DecodeQuestion extracts the trimmed question argument from a tool call's
// JSON arguments. An empty question is reported with ok=false and no error.
func DecodeQuestion(arguments string) (question string, ok bool, err error) {
	if strings.TrimSpace(arguments) == "" {
		return "", false, nil
	}

	var args map[string]any
	if err := json.Unmarshal([]byte(arguments), &args); err != nil {
		return "", false, fmt.Errorf("%w: decode tool arguments: %v", contractx.ErrSchemaViolation, err)
	}

	raw, found := args[ArgQuestion]
	if !found || raw == nil {
		return "", false, nil
	}
	text, isString := raw.(string)
	if !isString {
		return "", false, fmt.Errorf("%w: %s must be a string, got %T", contractx.ErrSchemaViolation, ArgQuestion, raw)
	}
	text = strings.TrimSpace(text)
	return text, text != "", nil
}

func NewExecutor(registry contractx.Registry) Executor {
	fallback := DefaultExecutor()
	return func(ctx context.Context, capability contractx.Capability, question string) contractx.Result {
		if registry == nil {
			return fallback(ctx, capability, question)
		}
		specialist, ok := registry.Specialist(capability)
		if !ok || specialist == nil {
			return fallback(ctx, capability, question)
		}
		result := specialist.Answer(ctx, question)
		if result.Capability == "" {
			result.Capability = capability
		}
		return result
	}
}

func DefaultExecutor() Executor {
	return func(_ context.Context, capability contractx.Capability, _ string) contractx.Result {
		return contractx.Result{
			Capability: capability,
			Failure: &contractx.Failure{
				Kind: contractx.FailureUnknownTool,
				Tool: string(capability),
				Err:  fmt.Errorf("%w: capability=%s is unavailable", contractx.ErrValidation, capability),
			},
		}
	}
}
