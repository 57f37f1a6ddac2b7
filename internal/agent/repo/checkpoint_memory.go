package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/fitpal-core/agent/internal/agent/model"
)

// MemoryCheckpointStore is the in-memory checkpoint strategy used by tests
// and single-process runs. State is stored marshalled so a loaded record
// never aliases a saved one.
type MemoryCheckpointStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func NewMemoryCheckpointStore() *MemoryCheckpointStore {
	return &MemoryCheckpointStore{data: map[string][]byte{}}
}

func (m *MemoryCheckpointStore) Load(ctx context.Context, threadID string) (*model.SessionState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	raw, ok := m.data[threadID]
	if !ok {
		return nil, nil
	}
	var state model.SessionState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("unmarshal checkpoint: %w", err)
	}
	return &state, nil
}

func (m *MemoryCheckpointStore) Save(ctx context.Context, threadID string, state *model.SessionState) error {
	b, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal checkpoint: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[threadID] = b
	return nil
}

var _ model.CheckpointStore = (*MemoryCheckpointStore)(nil)
