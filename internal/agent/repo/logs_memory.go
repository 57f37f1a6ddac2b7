package repo

import (
	"context"
	"sync"

	"github.com/fitpal-core/agent/internal/agent/model"
)

// MemoryLogStore is the in-memory log store used by tests.
type MemoryLogStore struct {
	mu   sync.Mutex
	logs map[string][]model.LogRecord
}

func NewMemoryLogStore() *MemoryLogStore {
	return &MemoryLogStore{logs: map[string][]model.LogRecord{}}
}

func (m *MemoryLogStore) CreateLogEntry(ctx context.Context, date string, rec model.LogRecord) (*model.LogRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs[date] = append(m.logs[date], rec)
	return &rec, nil
}

func (m *MemoryLogStore) GetLogsByDate(ctx context.Context, date string) ([]model.LogRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	records := make([]model.LogRecord, len(m.logs[date]))
	copy(records, m.logs[date])
	return records, nil
}

func (m *MemoryLogStore) DailyTotals(ctx context.Context, date string) (model.Macros, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	totals := model.Macros{}
	for _, rec := range m.logs[date] {
		totals = totals.Add(rec.Macros)
	}
	return totals, nil
}

var _ model.LogStore = (*MemoryLogStore)(nil)
