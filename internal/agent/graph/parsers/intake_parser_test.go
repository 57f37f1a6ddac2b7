package parsers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitpal-core/agent/internal/agent/model"
	errx "github.com/fitpal-core/agent/internal/core/error"
)

func TestParseIntakeEvent(t *testing.T) {
	content := `{
		"action": "LOG_FOOD",
		"items": [
			{"food_name": "chicken breast", "amount_grams": 200, "unit": "g", "original_text": "200g of chicken breast"},
			{"food_name": "white rice", "amount_grams": 150, "original_text": "a bowl of rice"}
		]
	}`

	ev, err := ParseIntakeEvent(content)
	require.NoError(t, err)
	assert.Equal(t, model.ActionLogFood, ev.Action)
	require.Len(t, ev.Items, 2)
	assert.Equal(t, "chicken breast", ev.Items[0].FoodName)
	assert.Equal(t, 200.0, ev.Items[0].AmountGrams)
	assert.Equal(t, "g", ev.Items[1].Unit, "missing unit defaults to grams")
}

func TestParseIntakeEventMarkdownFence(t *testing.T) {
	content := "Here you go:\n```json\n{\"action\": \"CHITCHAT\", \"items\": []}\n```\nHope that helps!"

	ev, err := ParseIntakeEvent(content)
	require.NoError(t, err)
	assert.Equal(t, model.ActionChitchat, ev.Action)
	assert.Empty(t, ev.Items)
}

func TestParseIntakeEventTargetDate(t *testing.T) {
	ev, err := ParseIntakeEvent(`{"action": "QUERY_DAILY_STATS", "items": [], "target_date": "2026-08-28"}`)
	require.NoError(t, err)
	assert.Equal(t, "2026-08-28", ev.TargetDate)

	_, err = ParseIntakeEvent(`{"action": "QUERY_DAILY_STATS", "items": [], "target_date": "28/08/2026"}`)
	require.Error(t, err)
	assert.Equal(t, errx.KindParsing, errx.KindOf(err))
}

func TestParseIntakeEventRejections(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"no JSON object", "I ate some chicken"},
		{"unknown field", `{"action": "CHITCHAT", "items": [], "mood": "happy"}`},
		{"unknown action", `{"action": "DELETE_LOG", "items": []}`},
		{"missing action", `{"items": []}`},
		{"log food without items", `{"action": "LOG_FOOD", "items": []}`},
		{"items on a stats query", `{"action": "QUERY_DAILY_STATS", "items": [{"food_name": "rice", "amount_grams": 100, "original_text": "rice"}]}`},
		{"zero grams", `{"action": "LOG_FOOD", "items": [{"food_name": "rice", "amount_grams": 0, "original_text": "rice"}]}`},
		{"negative grams", `{"action": "LOG_FOOD", "items": [{"food_name": "rice", "amount_grams": -50, "original_text": "rice"}]}`},
		{"non-gram unit", `{"action": "LOG_FOOD", "items": [{"food_name": "milk", "amount_grams": 250, "unit": "ml", "original_text": "milk"}]}`},
		{"missing food name", `{"action": "LOG_FOOD", "items": [{"amount_grams": 100, "original_text": "something"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := ParseIntakeEvent(tt.content)
			require.Error(t, err)
			assert.Nil(t, ev, "no partial result on rejection")
			assert.Equal(t, errx.KindParsing, errx.KindOf(err))
		})
	}
}
