package llm

import (
	"context"
	"errors"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/fitpal-core/agent/internal/agent/graph/parsers"
	"github.com/fitpal-core/agent/internal/agent/graph/prompts"
	"github.com/fitpal-core/agent/internal/agent/model"
	errx "github.com/fitpal-core/agent/internal/core/error"
	logx "github.com/fitpal-core/agent/pkg/logger"
)

var errEmptyModelOutput = errors.New("model returned no message")

// GeminiFoodSelector implements model.FoodSelector over an Eino chat model.
// The tie-break policy (generic over processed, cooked over raw, common
// variant) lives in the system prompt; the caller enforces the
// status/candidate contract on the result.
type GeminiFoodSelector struct {
	cm einomodel.BaseChatModel
}

func NewFoodSelector(cm einomodel.BaseChatModel) *GeminiFoodSelector {
	return &GeminiFoodSelector{cm: cm}
}

func (s *GeminiFoodSelector) Select(ctx context.Context, item model.FoodIntakeItem, candidates []model.FoodCandidate) (*model.FoodSelectionResult, error) {
	systemPrompt, err := prompts.RenderSelectionSystem(ctx)
	if err != nil {
		return nil, errx.New(err, errx.KindInternal, errx.InternalMessage)
	}

	msgs := []*schema.Message{
		schema.SystemMessage(systemPrompt),
		schema.UserMessage(prompts.BuildSelectionUserMessage(item, candidates)),
	}

	out, err := s.cm.Generate(ctx, msgs)
	if err != nil {
		logx.Error().Err(err).Str("food", item.FoodName).Msg("Selection model call failed")
		return nil, errx.Lookup(err)
	}
	if out == nil {
		return nil, errx.Validation(errEmptyModelOutput)
	}

	return parsers.ParseSelectionResult(out.Content)
}

var _ model.FoodSelector = (*GeminiFoodSelector)(nil)
