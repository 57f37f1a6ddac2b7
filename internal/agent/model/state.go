package model

import (
	"time"

	"github.com/cloudwego/eino/schema"
)

// ActionType is the intent classified by the input parser for a turn.
type ActionType string

const (
	ActionLogFood           ActionType = "LOG_FOOD"
	ActionQueryDailyStats   ActionType = "QUERY_DAILY_STATS"
	ActionChitchat          ActionType = "CHITCHAT"
	ActionConfirmEstimation ActionType = "CONFIRM_ESTIMATION"
)

// SelectionStatus is the outcome of resolving one item against the food database.
type SelectionStatus string

const (
	StatusSelected  SelectionStatus = "SELECTED"
	StatusNoMatch   SelectionStatus = "NO_MATCH"
	StatusEstimated SelectionStatus = "ESTIMATED"
)

// ProcessingStatus is the per-item outcome recorded after the logging loop
// handled an item.
type ProcessingStatus string

const (
	ProcessingLogged  ProcessingStatus = "LOGGED"
	ProcessingSkipped ProcessingStatus = "SKIPPED"
)

// FoodIntakeItem is one grams-normalized food mention extracted from user text.
type FoodIntakeItem struct {
	FoodName     string  `json:"food_name" validate:"required"`
	AmountGrams  float64 `json:"amount_grams" validate:"gt=0"`
	Unit         string  `json:"unit" validate:"omitempty,eq=g"`
	OriginalText string  `json:"original_text"`
	MealType     string  `json:"meal_type,omitempty"`
}

// FoodIntakeEvent is the structured result of parsing one user message.
type FoodIntakeEvent struct {
	Action     ActionType       `json:"action" validate:"required,oneof=LOG_FOOD QUERY_DAILY_STATS CHITCHAT CONFIRM_ESTIMATION"`
	Items      []FoodIntakeItem `json:"items" validate:"dive"`
	MealType   string           `json:"meal_type,omitempty"`
	TargetDate string           `json:"target_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// FoodSelectionResult is the selection collaborator's decision for the item
// currently in flight. FoodID is set iff Status is SELECTED; the four
// estimated per-100g macro fields are set iff Status is ESTIMATED.
type FoodSelectionResult struct {
	Status           SelectionStatus `json:"status" validate:"required,oneof=SELECTED NO_MATCH ESTIMATED"`
	FoodID           *int64          `json:"food_id,omitempty"`
	Confidence       string          `json:"confidence,omitempty"`
	EstimatedCal     *float64        `json:"estimated_calories,omitempty" validate:"omitempty,gte=0"`
	EstimatedProtein *float64        `json:"estimated_protein,omitempty" validate:"omitempty,gte=0"`
	EstimatedCarbs   *float64        `json:"estimated_carbs,omitempty" validate:"omitempty,gte=0"`
	EstimatedFat     *float64        `json:"estimated_fat,omitempty" validate:"omitempty,gte=0"`
}

// EstimatedMacros returns the per-100g macros of an ESTIMATED result.
// Only meaningful when all four fields were validated as present.
func (r *FoodSelectionResult) EstimatedMacros() Macros {
	m := Macros{}
	if r.EstimatedCal != nil {
		m.Calories = *r.EstimatedCal
	}
	if r.EstimatedProtein != nil {
		m.Protein = *r.EstimatedProtein
	}
	if r.EstimatedCarbs != nil {
		m.Carbs = *r.EstimatedCarbs
	}
	if r.EstimatedFat != nil {
		m.Fat = *r.EstimatedFat
	}
	return m
}

// ProcessingResult records the outcome for one drained item, feeding the
// final turn response.
type ProcessingResult struct {
	FoodName    string           `json:"food_name"`
	AmountGrams float64          `json:"amount_grams"`
	Status      ProcessingStatus `json:"status"`
	Calories    float64          `json:"calories"`
	Estimated   bool             `json:"estimated"`
	Message     string           `json:"message"`
}

// SessionState is the single state record threaded through every node of a
// turn and persisted between turns.
//
// Concurrency model:
//   - One workflow invocation mutates a state record at a time; nodes within
//     a turn run sequentially and never concurrently.
//   - Distinct threads (conversations) each carry their own record; the
//     checkpoint store keys by thread ID.
//   - Never retain a *SessionState across an Invoke boundary; always
//     rehydrate from the checkpoint store.
type SessionState struct {
	ThreadID string            `json:"thread_id"`
	Messages []*schema.Message `json:"messages"`

	LastAction           ActionType           `json:"last_action,omitempty"`
	PendingFoodItems     []FoodIntakeItem     `json:"pending_food_items,omitempty"`
	CurrentItem          *FoodIntakeItem      `json:"current_item,omitempty"`
	SearchResults        []FoodCandidate      `json:"search_results,omitempty"`
	SelectionResult      *FoodSelectionResult `json:"selection_result,omitempty"`
	AwaitingConfirmation bool                 `json:"awaiting_confirmation"`

	// CurrentDate is the day being logged or queried, formatted as 2006-01-02.
	CurrentDate string `json:"current_date,omitempty"`

	// DailyTotals mirrors the persistence layer's aggregation for CurrentDate.
	// Owned by the log store; the graph only reads and refreshes it.
	DailyTotals Macros `json:"daily_totals"`

	ProcessingResults []ProcessingResult `json:"processing_results,omitempty"`
	ResponseText      string             `json:"response_text,omitempty"`

	// Version increments on every checkpoint save.
	Version int `json:"version"`
}

// NewSessionState creates a fresh state record for a thread at first contact.
func NewSessionState(threadID string) *SessionState {
	return &SessionState{
		ThreadID: threadID,
		Messages: []*schema.Message{},
	}
}

// DayKey formats a time as the date key used across state and stores.
func DayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Today returns the date key for the current UTC day.
func Today() string {
	return DayKey(time.Now())
}
