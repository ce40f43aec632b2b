package orchestratornode

import (
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/euclidia/agent/contract"
)

func ValidateResult(in *GraphState) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	if in.Failure != nil {
		return in, nil
	}

	name := string(in.Capability)
	res := in.Result
	switch {
	case res.Failure != nil:
		in.fail(res.Failure)
	case res.Message == nil:
		in.fail(&contractx.Failure{
			Kind:       contractx.FailureNoResult,
			Capability: in.Capability,
			Tool:       name,
			Err:        fmt.Errorf("%w: capability returned nil message", contractx.ErrSchemaViolation),
		})
	case strings.TrimSpace(res.Message.Content) == "" && hasNonTextParts(res):
		in.fail(&contractx.Failure{
			Kind:       contractx.FailureNonTextResult,
			Capability: in.Capability,
			Tool:       name,
			Err:        fmt.Errorf("%w: capability returned only non-text parts", contractx.ErrSchemaViolation),
		})
	case strings.TrimSpace(res.Message.Content) == "":
		in.fail(&contractx.Failure{
			Kind:       contractx.FailureEmptyResult,
			Capability: in.Capability,
			Tool:       name,
			Err:        fmt.Errorf("%w: capability returned empty text", contractx.ErrSchemaViolation),
		})
	default:
		in.Content = res.Message.Content
	}
	return in, nil
}

func hasNonTextParts(res contractx.Result) bool {
	if res.Message == nil || res.Message.Extra == nil {
		return false
	}
	switch v := res.Message.Extra[contractx.ExtraNonTextParts].(type) {
	case int:
		return v > 0
	case bool:
		return v
	default:
		return v != nil
	}
}
