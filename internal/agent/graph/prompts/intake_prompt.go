package prompts

import (
	"context"
	_ "embed"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
)

//go:embed template/intake_prompt.txt
var intakeSystemPrompt string

// RenderIntakeSystem renders the intake parser system prompt via the Eino
// prompt component. This triggers prompt callbacks and returns the final
// system prompt string.
func RenderIntakeSystem(ctx context.Context, now time.Time) (string, error) {
	// Render known tokens with a replacer to avoid interfering with the JSON
	// braces embedded in the template.
	content := strings.NewReplacer(
		"{TODAY}", now.UTC().Format("2006-01-02"),
	).Replace(intakeSystemPrompt)

	// Wrap via the Eino prompt component using a messages placeholder so the
	// template body is never re-interpreted as an FString.
	tpl := prompt.FromMessages(
		schema.FString,
		schema.MessagesPlaceholder("system_messages", false),
	)
	msgs, err := tpl.Format(ctx, map[string]any{
		"system_messages": []*schema.Message{schema.SystemMessage(content)},
	})
	if err != nil {
		return "", fmt.Errorf("intake prompt render: %w", err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", fmt.Errorf("intake prompt render: empty result")
	}
	return msgs[0].Content, nil
}
