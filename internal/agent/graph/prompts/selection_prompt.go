package prompts

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"github.com/fitpal-core/agent/internal/agent/model"
)

//go:embed template/selection_prompt.txt
var selectionSystemPrompt string

// RenderSelectionSystem renders the selection/estimation system prompt and
// triggers prompt callbacks.
func RenderSelectionSystem(ctx context.Context) (string, error) {
	tpl := prompt.FromMessages(
		schema.FString,
		schema.MessagesPlaceholder("system_messages", false),
	)
	msgs, err := tpl.Format(ctx, map[string]any{
		"system_messages": []*schema.Message{schema.SystemMessage(selectionSystemPrompt)},
	})
	if err != nil {
		return "", fmt.Errorf("selection prompt render: %w", err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", fmt.Errorf("selection prompt render: empty result")
	}
	return msgs[0].Content, nil
}

// BuildSelectionUserMessage formats the in-flight item and its candidates
// into the user message consumed by the selection model.
func BuildSelectionUserMessage(item model.FoodIntakeItem, candidates []model.FoodCandidate) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Food item: %s\n", item.FoodName)
	fmt.Fprintf(&b, "Amount: %.0fg\n", item.AmountGrams)
	if item.OriginalText != "" {
		fmt.Fprintf(&b, "User said: %q\n", item.OriginalText)
	}
	if len(candidates) == 0 {
		b.WriteString("\nCandidates: none\n")
		return b.String()
	}
	b.WriteString("\nCandidates (macros per 100g):\n")
	for _, c := range candidates {
		fmt.Fprintf(&b, "- id=%d %s (%.0f kcal, %.1fg protein, %.1fg carbs, %.1fg fat)\n",
			c.ID, c.Name,
			c.PerHundredGrams.Calories, c.PerHundredGrams.Protein,
			c.PerHundredGrams.Carbs, c.PerHundredGrams.Fat)
	}
	return b.String()
}
