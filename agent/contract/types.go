package contract

import (
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"
)

type Capability string

const (
	CapabilityExplain Capability = "explain"
	CapabilityProve   Capability = "prove"
)

// Capabilities is the closed set of tools the router may select.
var Capabilities = []Capability{CapabilityExplain, CapabilityProve}

func (c Capability) Valid() bool {
	switch c {
	case CapabilityExplain, CapabilityProve:
		return true
	default:
		return false
	}
}

// ErrorMarker prefixes every in-band backend failure.
const ErrorMarker = "[ERROR]"

// ExtraNonTextParts is set on a generated message's Extra map when the
// provider answered with parts that carry no text (images, function calls).
const ExtraNonTextParts = "non_text_parts"

type FailureKind string

const (
	FailureRouting          FailureKind = "routing_failed"
	FailureMissingTool      FailureKind = "missing_tool"
	FailureUnknownTool      FailureKind = "unknown_tool"
	FailureInvalidArguments FailureKind = "invalid_arguments"
	FailureMissingQuestion  FailureKind = "missing_question"
	FailureBackend          FailureKind = "backend_failed"
	FailureNoResult         FailureKind = "no_result"
	FailureNonTextResult    FailureKind = "non_text_result"
	FailureEmptyResult      FailureKind = "empty_result"
)

// Failure is an in-band failure: the conversation continues and the user
// sees Notice() as the assistant reply.
type Failure struct {
	Kind       FailureKind
	Capability Capability
	Tool       string
	Err        error
}

func (f *Failure) Error() string {
	if f == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(string(f.Kind))
	if f.Tool != "" {
		fmt.Fprintf(&b, " tool=%s", f.Tool)
	} else if f.Capability != "" {
		fmt.Fprintf(&b, " capability=%s", f.Capability)
	}
	if f.Err != nil {
		fmt.Fprintf(&b, ": %v", f.Err)
	}
	return b.String()
}

func (f *Failure) Unwrap() error {
	if f == nil {
		return nil
	}
	return f.Err
}

// Notice is the user-facing text for the failure.
func (f *Failure) Notice() string {
	if f == nil {
		return ""
	}
	name := f.Tool
	if name == "" {
		name = string(f.Capability)
	}

	switch f.Kind {
	case FailureRouting:
		return "❌ An error occurred while processing your question. Please try again."
	case FailureMissingTool:
		return "❌ The assistant selected a tool without a name."
	case FailureUnknownTool:
		return fmt.Sprintf("❌ Unknown tool '%s'.", name)
	case FailureInvalidArguments:
		return fmt.Sprintf("❌ Could not read the arguments for tool '%s'.", name)
	case FailureMissingQuestion:
		return fmt.Sprintf("❌ Tool '%s' was called without a question.", name)
	case FailureBackend:
		if f.Err != nil {
			return fmt.Sprintf("%s %s backend failed: %v", ErrorMarker, name, f.Err)
		}
		return fmt.Sprintf("%s %s backend failed", ErrorMarker, name)
	case FailureNoResult:
		return fmt.Sprintf("❌ Tool '%s' returned no result.", name)
	case FailureNonTextResult:
		return fmt.Sprintf("❌ Tool '%s' returned a non-text result.", name)
	case FailureEmptyResult:
		return fmt.Sprintf("❌ Tool '%s' returned an empty response.", name)
	default:
		return fmt.Sprintf("%s %s", ErrorMarker, f.Error())
	}
}

// Result is what a specialist returns for one question. Exactly one of
// Message and Failure is meaningful: a backend error never escapes as a Go
// error, it is carried in Failure.
type Result struct {
	Capability Capability
	Message    *schema.Message
	Failure    *Failure
}

func (r Result) Failed() bool {
	return r.Failure != nil
}

// Content renders the result as text, encoding a failure in-band.
func (r Result) Content() string {
	if r.Failure != nil {
		return r.Failure.Notice()
	}
	if r.Message == nil {
		return ""
	}
	return r.Message.Content
}

type CleanResult struct {
	Text    string
	Applied bool
	Skipped string
	Err     error
}

// Reply is the outcome of one routed turn.
type Reply struct {
	Message    *schema.Message
	Capability Capability
	Failure    *Failure
	Warnings   []string
	Rounds     int

	// Transcript holds the tool-call and tool-result turns produced while
	// routing; it is not part of the canonical conversation log.
	Transcript []*schema.Message
}

func (r Reply) Content() string {
	if r.Message == nil {
		return ""
	}
	return r.Message.Content
}

type Phase string

const (
	PhaseRouting Phase = "routing"
	PhaseExplain Phase = "explain"
	PhaseProve   Phase = "prove"
	PhaseCleanup Phase = "cleanup"
)

// StatusFunc reports which remote call a turn is currently waiting on.
type StatusFunc func(Phase)
