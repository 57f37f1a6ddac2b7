package nodes

import (
	"strings"
	"time"

	"github.com/cloudwego/eino/schema"

	"github.com/fitpal-core/agent/internal/agent/model"
)

// ===== Small helpers to keep nodes simple/readable =====

// latestUserContent returns the content of the most recent user message.
func latestUserContent(messages []*schema.Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		m := messages[i]
		if m == nil {
			continue
		}
		if m.Role == schema.User {
			return strings.TrimSpace(m.Content)
		}
	}
	return ""
}

// trimTail keeps at most maxTurns trailing messages as parser context.
func trimTail(messages []*schema.Message, maxTurns int) []*schema.Message {
	if maxTurns <= 0 || len(messages) <= maxTurns {
		result := make([]*schema.Message, len(messages))
		copy(result, messages)
		return result
	}
	source := messages[len(messages)-maxTurns:]
	result := make([]*schema.Message, len(source))
	copy(result, source)
	return result
}

// resolveDate returns the parser-provided date key or today when absent.
func resolveDate(target string) string {
	if target == "" {
		return model.Today()
	}
	if _, err := time.Parse("2006-01-02", target); err != nil {
		return model.Today()
	}
	return target
}
