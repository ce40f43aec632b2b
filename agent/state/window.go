package state

import "github.com/cloudwego/eino/schema"

const DefaultWindow = 15

// Window returns the bounded view of messages sent to the router model:
// every system message in original order, followed by the most recent
// non-system messages so that the total stays within max. When the system
// messages alone fill the window, the latest non-system message is still
// kept. The input slice is never modified.
func Window(messages []*schema.Message, max int) []*schema.Message {
	if len(messages) == 0 {
		return []*schema.Message{}
	}
	if max <= 0 {
		max = DefaultWindow
	}

	system := make([]*schema.Message, 0, 2)
	rest := make([]*schema.Message, 0, len(messages))
	for _, m := range messages {
		if m == nil {
			continue
		}
		if m.Role == schema.System {
			system = append(system, m)
			continue
		}
		rest = append(rest, m)
	}

	budget := max - len(system)
	if budget < 1 {
		budget = 1
	}
	if len(rest) > budget {
		rest = rest[len(rest)-budget:]
	}

	out := make([]*schema.Message, 0, len(system)+len(rest))
	out = append(out, system...)
	out = append(out, rest...)
	return out
}
