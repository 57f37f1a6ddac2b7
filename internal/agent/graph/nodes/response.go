package nodes

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"

	"github.com/fitpal-core/agent/internal/agent/model"
)

// NewResponseNode creates the terminal response node. Whatever upstream node
// staged a reply (confirmation prompt, stats summary) wins; otherwise the
// text is rendered from the turn's processing results. The reply is appended
// to the conversation before control returns to the caller.
func NewResponseNode() NodeFn {
	return func(ctx context.Context, s *model.SessionState) error {
		if s.ResponseText == "" {
			s.ResponseText = renderResponse(s)
		}
		s.Messages = append(s.Messages, schema.AssistantMessage(s.ResponseText, nil))
		return nil
	}
}

func renderResponse(s *model.SessionState) string {
	if len(s.ProcessingResults) > 0 {
		return renderLoggingSummary(s)
	}

	switch s.LastAction {
	case model.ActionConfirmEstimation:
		return "There's nothing waiting for confirmation right now. Tell me what you ate and I'll log it."
	case model.ActionChitchat:
		return "I'm FitPal, your nutrition tracker. Tell me what you ate, or ask what you've eaten today."
	}
	return "Okay! Tell me what you ate, or ask what you've eaten today."
}

func renderLoggingSummary(s *model.SessionState) string {
	var logged, skipped []string
	for _, r := range s.ProcessingResults {
		switch r.Status {
		case model.ProcessingLogged:
			entry := fmt.Sprintf("%s (%.0fg, %.0f kcal)", r.FoodName, r.AmountGrams, r.Calories)
			if r.Estimated {
				entry += " [estimated]"
			}
			logged = append(logged, entry)
		case model.ProcessingSkipped:
			skipped = append(skipped, r.FoodName)
		}
	}

	var b strings.Builder
	if len(logged) > 0 {
		fmt.Fprintf(&b, "Logged %s.", strings.Join(logged, ", "))
		fmt.Fprintf(&b, " Today so far: %.0f kcal, %.1fg protein, %.1fg carbs, %.1fg fat.",
			s.DailyTotals.Calories, s.DailyTotals.Protein, s.DailyTotals.Carbs, s.DailyTotals.Fat)
	}
	if len(skipped) > 0 {
		if b.Len() > 0 {
			b.WriteString(" ")
		}
		fmt.Fprintf(&b, "I couldn't find a match for %s, so nothing was logged for that.",
			strings.Join(skipped, ", "))
	}
	if b.Len() == 0 {
		return "Nothing to log this time."
	}
	return b.String()
}

func formatStats(date string, records []model.LogRecord, totals model.Macros) string {
	if len(records) == 0 {
		return fmt.Sprintf("No entries logged for %s yet.", date)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "On %s you logged %d %s: ", date, len(records), pluralEntry(len(records)))
	names := make([]string, 0, len(records))
	for _, r := range records {
		names = append(names, fmt.Sprintf("%s (%.0fg)", r.FoodName, r.AmountGrams))
	}
	b.WriteString(strings.Join(names, ", "))
	fmt.Fprintf(&b, ". Totals: %.0f kcal, %.1fg protein, %.1fg carbs, %.1fg fat.",
		totals.Calories, totals.Protein, totals.Carbs, totals.Fat)
	return b.String()
}

func pluralEntry(n int) string {
	if n == 1 {
		return "entry"
	}
	return "entries"
}
