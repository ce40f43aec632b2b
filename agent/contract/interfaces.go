package contract

import (
	"context"

	einomodel "github.com/cloudwego/eino/components/model"
)

type Specialist interface {
	Answer(ctx context.Context, question string) Result
}

type Cleaner interface {
	Clean(ctx context.Context, text string) CleanResult
}

// Registry owns the process-wide models; it is built once at startup and
// passed to the orchestrator.
type Registry interface {
	Router() einomodel.ToolCallingChatModel
	Specialist(c Capability) (Specialist, bool)
	Cleaner() Cleaner
}
