package llm

import (
	"context"
	"time"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/fitpal-core/agent/internal/agent/graph/parsers"
	"github.com/fitpal-core/agent/internal/agent/graph/prompts"
	"github.com/fitpal-core/agent/internal/agent/model"
	errx "github.com/fitpal-core/agent/internal/core/error"
	logx "github.com/fitpal-core/agent/pkg/logger"
)

// GeminiIntakeParser implements model.IntakeParser over an Eino chat model.
type GeminiIntakeParser struct {
	cm einomodel.BaseChatModel
}

func NewIntakeParser(cm einomodel.BaseChatModel) *GeminiIntakeParser {
	return &GeminiIntakeParser{cm: cm}
}

// Parse renders the intake system prompt, sends the trimmed history plus the
// new message to the model and validates its structured output.
func (p *GeminiIntakeParser) Parse(ctx context.Context, history []*schema.Message, message string) (*model.FoodIntakeEvent, error) {
	systemPrompt, err := prompts.RenderIntakeSystem(ctx, time.Now())
	if err != nil {
		return nil, errx.New(err, errx.KindInternal, errx.InternalMessage)
	}

	msgs := make([]*schema.Message, 0, len(history)+2)
	msgs = append(msgs, schema.SystemMessage(systemPrompt))
	msgs = append(msgs, history...)
	msgs = append(msgs, schema.UserMessage(message))

	out, err := p.cm.Generate(ctx, msgs)
	if err != nil {
		logx.Error().Err(err).Msg("Intake model call failed")
		return nil, errx.Lookup(err)
	}
	if out == nil {
		return nil, errx.Parsing(errEmptyModelOutput)
	}

	return parsers.ParseIntakeEvent(out.Content)
}

var _ model.IntakeParser = (*GeminiIntakeParser)(nil)
