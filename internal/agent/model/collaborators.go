package model

import (
	"context"

	"github.com/cloudwego/eino/schema"
)

// IntakeParser decomposes a user message into a structured intake event.
// Implementations must return a schema-valid event or a typed parsing error;
// best-effort coercion of malformed output is not allowed.
type IntakeParser interface {
	Parse(ctx context.Context, history []*schema.Message, message string) (*FoodIntakeEvent, error)
}

// FoodSelector decides which candidate matches an item, or estimates macros
// when no candidates exist. The caller enforces the status/candidate contract.
type FoodSelector interface {
	Select(ctx context.Context, item FoodIntakeItem, candidates []FoodCandidate) (*FoodSelectionResult, error)
}

// FoodDatabase searches the food catalog by name. An empty result set is a
// valid outcome, not an error; it signals the estimation path.
type FoodDatabase interface {
	Search(ctx context.Context, name string) ([]FoodCandidate, error)
}

// LogStore persists daily food log entries keyed by date (2006-01-02).
// Idempotency of retries is the caller's responsibility.
type LogStore interface {
	CreateLogEntry(ctx context.Context, date string, rec LogRecord) (*LogRecord, error)
	GetLogsByDate(ctx context.Context, date string) ([]LogRecord, error)
	DailyTotals(ctx context.Context, date string) (Macros, error)
}

// CheckpointStore saves and rehydrates session state keyed by thread ID.
// Load returns (nil, nil) when no state exists for the thread.
type CheckpointStore interface {
	Load(ctx context.Context, threadID string) (*SessionState, error)
	Save(ctx context.Context, threadID string, state *SessionState) error
}
