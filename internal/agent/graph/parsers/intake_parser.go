package parsers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/fitpal-core/agent/internal/agent/model"
	errx "github.com/fitpal-core/agent/internal/core/error"
	logx "github.com/fitpal-core/agent/pkg/logger"
)

// basic safety limits to avoid pathological model outputs
const (
	maxContentLen = 64 * 1024
	maxItems      = 50
)

var validate = validator.New()

// ParseIntakeEvent decodes and validates the intake model's raw output into
// a FoodIntakeEvent. Any deviation from the schema is a typed parsing error;
// partial or coerced results are never returned.
func ParseIntakeEvent(content string) (*model.FoodIntakeEvent, error) {
	raw, err := extractJSONObject(content)
	if err != nil {
		logx.Warn().Err(err).Str("component", "intake_parser").Msg("no JSON object in model output")
		return nil, errx.Parsing(err)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	var ev model.FoodIntakeEvent
	if err := dec.Decode(&ev); err != nil {
		return nil, errx.Parsing(fmt.Errorf("decode intake event: %w", err))
	}
	if err := validate.Struct(&ev); err != nil {
		return nil, errx.Parsing(fmt.Errorf("intake event schema: %w", err))
	}

	// Cross-field rules the tag validators cannot express.
	if ev.Action == model.ActionLogFood && len(ev.Items) == 0 {
		return nil, errx.Parsing(fmt.Errorf("LOG_FOOD with no items"))
	}
	if ev.Action != model.ActionLogFood && len(ev.Items) > 0 {
		return nil, errx.Parsing(fmt.Errorf("items present for action %s", ev.Action))
	}
	if len(ev.Items) > maxItems {
		return nil, errx.Parsing(fmt.Errorf("too many items: %d", len(ev.Items)))
	}
	for i := range ev.Items {
		if ev.Items[i].Unit == "" {
			ev.Items[i].Unit = "g"
		}
	}

	return &ev, nil
}

// extractJSONObject locates the outermost JSON object in model output,
// tolerating markdown fences and surrounding prose.
func extractJSONObject(content string) ([]byte, error) {
	if len(content) > maxContentLen {
		content = content[:maxContentLen]
	}
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		if idx := strings.LastIndex(content, "```"); idx >= 0 {
			content = content[:idx]
		}
		content = strings.TrimSpace(content)
	}
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object found")
	}
	return []byte(content[start : end+1]), nil
}
