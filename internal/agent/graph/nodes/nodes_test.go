package nodes

import (
	"context"
	"errors"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitpal-core/agent/internal/agent/model"
	errx "github.com/fitpal-core/agent/internal/core/error"
)

func f64(v float64) *float64 { return &v }
func i64(v int64) *int64     { return &v }

func estimatedResult() *model.FoodSelectionResult {
	return &model.FoodSelectionResult{
		Status:           model.StatusEstimated,
		EstimatedCal:     f64(250),
		EstimatedProtein: f64(20),
		EstimatedCarbs:   f64(5),
		EstimatedFat:     f64(15),
	}
}

func TestCheckSelectionContract(t *testing.T) {
	candidates := []model.FoodCandidate{{ID: 1, Name: "chicken breast"}, {ID: 2, Name: "chicken breast, grilled"}}

	tests := []struct {
		name       string
		result     *model.FoodSelectionResult
		candidates []model.FoodCandidate
		wantKind   errx.Kind
	}{
		{
			name:       "estimated on empty candidates is valid",
			result:     estimatedResult(),
			candidates: nil,
		},
		{
			name:       "selected on empty candidates is rejected",
			result:     &model.FoodSelectionResult{Status: model.StatusSelected, FoodID: i64(1)},
			candidates: nil,
			wantKind:   errx.KindValidation,
		},
		{
			name:       "no match on empty candidates is rejected",
			result:     &model.FoodSelectionResult{Status: model.StatusNoMatch},
			candidates: nil,
			wantKind:   errx.KindValidation,
		},
		{
			name:       "selected id from the set is valid",
			result:     &model.FoodSelectionResult{Status: model.StatusSelected, FoodID: i64(2)},
			candidates: candidates,
		},
		{
			name:       "selected id outside the set is rejected",
			result:     &model.FoodSelectionResult{Status: model.StatusSelected, FoodID: i64(99)},
			candidates: candidates,
			wantKind:   errx.KindValidation,
		},
		{
			name:       "selected without id is rejected",
			result:     &model.FoodSelectionResult{Status: model.StatusSelected},
			candidates: candidates,
			wantKind:   errx.KindValidation,
		},
		{
			name:       "estimated despite candidates is rejected",
			result:     estimatedResult(),
			candidates: candidates,
			wantKind:   errx.KindValidation,
		},
		{
			name:       "no match with candidates is valid",
			result:     &model.FoodSelectionResult{Status: model.StatusNoMatch},
			candidates: candidates,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkSelectionContract(tt.result, tt.candidates)
			if tt.wantKind == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantKind, errx.KindOf(err))
		})
	}
}

func TestFoodSearchPopsOnlyWhenIdle(t *testing.T) {
	db := searchFunc(func(ctx context.Context, name string) ([]model.FoodCandidate, error) {
		return []model.FoodCandidate{{ID: 1, Name: name}}, nil
	})
	node := NewFoodSearchNode(db)

	s := model.NewSessionState("t1")
	s.PendingFoodItems = []model.FoodIntakeItem{
		{FoodName: "rice", AmountGrams: 100},
		{FoodName: "egg", AmountGrams: 50},
	}

	require.NoError(t, node(context.Background(), s))
	require.NotNil(t, s.CurrentItem)
	assert.Equal(t, "rice", s.CurrentItem.FoodName)
	assert.Len(t, s.PendingFoodItems, 1)

	// Re-entry with an item already in flight must not pop again.
	require.NoError(t, node(context.Background(), s))
	assert.Equal(t, "rice", s.CurrentItem.FoodName)
	assert.Len(t, s.PendingFoodItems, 1)
}

func TestFoodSearchRestoresItemOnLookupFailure(t *testing.T) {
	node := NewFoodSearchNode(searchFunc(func(ctx context.Context, name string) ([]model.FoodCandidate, error) {
		return nil, errors.New("connection refused")
	}))

	s := model.NewSessionState("t1")
	s.PendingFoodItems = []model.FoodIntakeItem{
		{FoodName: "cheese", AmountGrams: 30},
		{FoodName: "rice", AmountGrams: 100},
	}

	err := node(context.Background(), s)
	require.Error(t, err)
	assert.Equal(t, errx.KindLookup, errx.KindOf(err))

	assert.Nil(t, s.CurrentItem, "no item stays in flight after a failed lookup")
	require.Len(t, s.PendingFoodItems, 2, "the popped item returns to the queue head")
	assert.Equal(t, "cheese", s.PendingFoodItems[0].FoodName)
	assert.Equal(t, "rice", s.PendingFoodItems[1].FoodName)
}

func TestFoodSearchFailsWithNothingToDo(t *testing.T) {
	node := NewFoodSearchNode(searchFunc(func(ctx context.Context, name string) ([]model.FoodCandidate, error) {
		return nil, nil
	}))
	s := model.NewSessionState("t1")

	err := node(context.Background(), s)
	require.Error(t, err)
	assert.Equal(t, errx.KindInternal, errx.KindOf(err))
}

type searchFunc func(ctx context.Context, name string) ([]model.FoodCandidate, error)

func (f searchFunc) Search(ctx context.Context, name string) ([]model.FoodCandidate, error) {
	return f(ctx, name)
}

func TestConfirmGateArmsThenDisarms(t *testing.T) {
	node := NewConfirmGateNode()

	s := model.NewSessionState("t1")
	s.CurrentItem = &model.FoodIntakeItem{FoodName: "durian sticky rice", AmountGrams: 150}
	s.SelectionResult = estimatedResult()

	require.NoError(t, node(context.Background(), s))
	assert.True(t, s.AwaitingConfirmation)
	assert.Contains(t, s.ResponseText, "durian sticky rice")
	assert.Contains(t, s.ResponseText, "375 kcal", "250 kcal/100g scaled by 1.5")

	s.LastAction = model.ActionConfirmEstimation
	require.NoError(t, node(context.Background(), s))
	assert.False(t, s.AwaitingConfirmation)
	assert.NotNil(t, s.CurrentItem, "the item stays in flight for calculate_log")
	assert.NotNil(t, s.SelectionResult)
}

func TestConfirmGateRejectsBadEntry(t *testing.T) {
	node := NewConfirmGateNode()

	s := model.NewSessionState("t1")
	err := node(context.Background(), s)
	require.Error(t, err)
	assert.Equal(t, errx.KindInternal, errx.KindOf(err))

	s.CurrentItem = &model.FoodIntakeItem{FoodName: "rice", AmountGrams: 100}
	s.SelectionResult = &model.FoodSelectionResult{Status: model.StatusSelected, FoodID: i64(1)}
	err = node(context.Background(), s)
	require.Error(t, err)
	assert.Equal(t, errx.KindInternal, errx.KindOf(err))
}

func TestTrimTail(t *testing.T) {
	msgs := []*schema.Message{
		schema.UserMessage("one"),
		schema.AssistantMessage("two", nil),
		schema.UserMessage("three"),
		schema.AssistantMessage("four", nil),
	}

	trimmed := trimTail(msgs, 2)
	require.Len(t, trimmed, 2)
	assert.Equal(t, "three", trimmed[0].Content)
	assert.Equal(t, "four", trimmed[1].Content)

	assert.Len(t, trimTail(msgs, 10), 4)
	assert.Len(t, trimTail(msgs, 0), 4, "zero means unlimited")

	// The trimmed slice is a copy, not a window over the source.
	trimmed[0] = schema.UserMessage("mutated")
	assert.Equal(t, "three", msgs[2].Content)
}

func TestLatestUserContent(t *testing.T) {
	msgs := []*schema.Message{
		schema.UserMessage("first"),
		schema.AssistantMessage("reply", nil),
		schema.UserMessage("  second  "),
	}
	assert.Equal(t, "second", latestUserContent(msgs))
	assert.Equal(t, "", latestUserContent(nil))
	assert.Equal(t, "", latestUserContent([]*schema.Message{schema.AssistantMessage("only", nil)}))
}

func TestResolveDate(t *testing.T) {
	assert.Equal(t, "2026-08-28", resolveDate("2026-08-28"))
	assert.Equal(t, model.Today(), resolveDate(""))
	assert.Equal(t, model.Today(), resolveDate("yesterday"))
	assert.Equal(t, model.Today(), resolveDate("28/08/2026"))
}
