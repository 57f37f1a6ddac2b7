package model

import "time"

// Macros holds nutritional values, either per 100g (catalog and estimates)
// or scaled to a consumed amount (log records and totals).
type Macros struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// Scale returns the macros multiplied by factor.
func (m Macros) Scale(factor float64) Macros {
	return Macros{
		Calories: m.Calories * factor,
		Protein:  m.Protein * factor,
		Carbs:    m.Carbs * factor,
		Fat:      m.Fat * factor,
	}
}

// Add returns the element-wise sum of two macro sets.
func (m Macros) Add(o Macros) Macros {
	return Macros{
		Calories: m.Calories + o.Calories,
		Protein:  m.Protein + o.Protein,
		Carbs:    m.Carbs + o.Carbs,
		Fat:      m.Fat + o.Fat,
	}
}

// FoodCandidate is one ranked food database hit with per-100g macros.
type FoodCandidate struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	PerHundredGrams Macros `json:"per_hundred_grams"`
}

// LogRecord is one persisted food log entry. FoodID is nil for entries
// written from a confirmed estimation; those carry Estimated=true.
type LogRecord struct {
	ID           string    `json:"id"`
	FoodID       *int64    `json:"food_id,omitempty"`
	FoodName     string    `json:"food_name"`
	AmountGrams  float64   `json:"amount_grams"`
	Macros       Macros    `json:"macros"`
	MealType     string    `json:"meal_type,omitempty"`
	OriginalText string    `json:"original_text,omitempty"`
	Estimated    bool      `json:"estimated"`
	Timestamp    time.Time `json:"timestamp"`
}
