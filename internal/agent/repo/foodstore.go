package repo

import (
	"context"
	"sort"
	"strings"

	"github.com/fitpal-core/agent/internal/agent/model"
)

const defaultMaxSearchResults = 5

// FoodStore is the in-memory food catalog with ranked name search.
type FoodStore struct {
	catalog    []model.FoodCandidate
	maxResults int
}

// NewFoodStore creates a store over the built-in catalog.
func NewFoodStore(maxResults int) *FoodStore {
	if maxResults <= 0 {
		maxResults = defaultMaxSearchResults
	}
	return &FoodStore{catalog: catalog, maxResults: maxResults}
}

// NewFoodStoreWith creates a store over an explicit catalog, for tests.
func NewFoodStoreWith(items []model.FoodCandidate, maxResults int) *FoodStore {
	s := NewFoodStore(maxResults)
	s.catalog = items
	return s
}

// Search ranks catalog entries against the query: exact name match first,
// then prefix, then substring. An empty result slice is a valid outcome.
func (s *FoodStore) Search(ctx context.Context, name string) ([]model.FoodCandidate, error) {
	query := strings.ToLower(strings.TrimSpace(name))
	if query == "" {
		return []model.FoodCandidate{}, nil
	}

	type ranked struct {
		cand model.FoodCandidate
		rank int
	}
	var matches []ranked
	for _, c := range s.catalog {
		lower := strings.ToLower(c.Name)
		switch {
		case lower == query:
			matches = append(matches, ranked{c, 0})
		case strings.HasPrefix(lower, query):
			matches = append(matches, ranked{c, 1})
		case strings.Contains(lower, query):
			matches = append(matches, ranked{c, 2})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].rank < matches[j].rank
	})
	if len(matches) > s.maxResults {
		matches = matches[:s.maxResults]
	}

	results := make([]model.FoodCandidate, 0, len(matches))
	for _, m := range matches {
		results = append(results, m.cand)
	}
	return results, nil
}

var _ model.FoodDatabase = (*FoodStore)(nil)

// catalog holds per-100g macros for common whole foods.
var catalog = []model.FoodCandidate{
	{ID: 1, Name: "chicken breast", PerHundredGrams: model.Macros{Calories: 165, Protein: 31.0, Carbs: 0.0, Fat: 3.6}},
	{ID: 2, Name: "chicken breast, grilled", PerHundredGrams: model.Macros{Calories: 151, Protein: 30.5, Carbs: 0.0, Fat: 3.2}},
	{ID: 3, Name: "chicken breast, raw", PerHundredGrams: model.Macros{Calories: 120, Protein: 22.5, Carbs: 0.0, Fat: 2.6}},
	{ID: 4, Name: "chicken thigh", PerHundredGrams: model.Macros{Calories: 209, Protein: 26.0, Carbs: 0.0, Fat: 10.9}},
	{ID: 5, Name: "white rice, cooked", PerHundredGrams: model.Macros{Calories: 130, Protein: 2.7, Carbs: 28.2, Fat: 0.3}},
	{ID: 6, Name: "brown rice, cooked", PerHundredGrams: model.Macros{Calories: 112, Protein: 2.3, Carbs: 23.5, Fat: 0.8}},
	{ID: 7, Name: "pasta, cooked", PerHundredGrams: model.Macros{Calories: 158, Protein: 5.8, Carbs: 30.9, Fat: 0.9}},
	{ID: 8, Name: "cheddar cheese", PerHundredGrams: model.Macros{Calories: 403, Protein: 24.9, Carbs: 1.3, Fat: 33.1}},
	{ID: 9, Name: "mozzarella cheese", PerHundredGrams: model.Macros{Calories: 280, Protein: 27.5, Carbs: 3.1, Fat: 17.1}},
	{ID: 10, Name: "egg, boiled", PerHundredGrams: model.Macros{Calories: 155, Protein: 12.6, Carbs: 1.1, Fat: 10.6}},
	{ID: 11, Name: "salmon, cooked", PerHundredGrams: model.Macros{Calories: 206, Protein: 22.1, Carbs: 0.0, Fat: 12.4}},
	{ID: 12, Name: "apple", PerHundredGrams: model.Macros{Calories: 52, Protein: 0.3, Carbs: 13.8, Fat: 0.2}},
	{ID: 13, Name: "banana", PerHundredGrams: model.Macros{Calories: 89, Protein: 1.1, Carbs: 22.8, Fat: 0.3}},
	{ID: 14, Name: "whole wheat bread", PerHundredGrams: model.Macros{Calories: 247, Protein: 13.0, Carbs: 41.3, Fat: 3.4}},
	{ID: 15, Name: "greek yogurt", PerHundredGrams: model.Macros{Calories: 59, Protein: 10.2, Carbs: 3.6, Fat: 0.4}},
	{ID: 16, Name: "oats, dry", PerHundredGrams: model.Macros{Calories: 389, Protein: 16.9, Carbs: 66.3, Fat: 6.9}},
	{ID: 17, Name: "olive oil", PerHundredGrams: model.Macros{Calories: 884, Protein: 0.0, Carbs: 0.0, Fat: 100.0}},
	{ID: 18, Name: "broccoli, cooked", PerHundredGrams: model.Macros{Calories: 35, Protein: 2.4, Carbs: 7.2, Fat: 0.4}},
	{ID: 19, Name: "potato, boiled", PerHundredGrams: model.Macros{Calories: 87, Protein: 1.9, Carbs: 20.1, Fat: 0.1}},
	{ID: 20, Name: "ground beef, cooked", PerHundredGrams: model.Macros{Calories: 250, Protein: 26.0, Carbs: 0.0, Fat: 15.0}},
}
