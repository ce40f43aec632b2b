package orchestratornode

import (
	"github.com/cloudwego/eino/schema"
	contractx "github.com/tanpawarit/euclidia/agent/contract"
)

// GraphInput is one routing round: the conversation so far plus any tool
// turns produced by earlier rounds of the same user turn.
type GraphInput struct {
	History []*schema.Message
	Round   int
}

type GraphOutput struct {
	Message    *schema.Message
	Capability contractx.Capability
	Failure    *contractx.Failure
	Warnings   []string

	// Decision and ToolCall are set when a capability ran successfully, so
	// the caller can feed the tool turn back to the router.
	Decision *schema.Message
	ToolCall *schema.ToolCall
}

type GraphState struct {
	Round   int
	History []*schema.Message

	Decision   *schema.Message
	Call       *schema.ToolCall
	Capability contractx.Capability
	Question   string

	Result  contractx.Result
	Content string

	Failure  *contractx.Failure
	Warnings []string
}

func (s *GraphState) fail(f *contractx.Failure) {
	if s.Failure == nil {
		s.Failure = f
	}
}
