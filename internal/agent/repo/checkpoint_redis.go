package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fitpal-core/agent/internal/agent/model"
	errx "github.com/fitpal-core/agent/internal/core/error"
	logx "github.com/fitpal-core/agent/pkg/logger"
)

// RedisCheckpointStore persists session state as one JSON value per thread.
// The TTL is refreshed on every save so active conversations never expire
// mid-loop.
type RedisCheckpointStore struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewRedisCheckpointStore(rdb redis.Cmdable, ttl time.Duration) *RedisCheckpointStore {
	return &RedisCheckpointStore{rdb: rdb, ttl: ttl}
}

func (r *RedisCheckpointStore) threadKey(threadID string) string {
	return fmt.Sprintf("thread:%s:state", threadID)
}

func (r *RedisCheckpointStore) Load(ctx context.Context, threadID string) (*model.SessionState, error) {
	key := r.threadKey(threadID)

	raw, err := r.rdb.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		logx.Error().Err(err).Str("key", key).Msg("failed to load checkpoint from redis")
		return nil, errx.WrapRedisRead(err)
	}

	var state model.SessionState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		logx.Error().Err(err).Str("threadID", threadID).Msg("failed to unmarshal checkpoint")
		return nil, fmt.Errorf("unmarshal checkpoint: %w", err)
	}
	return &state, nil
}

func (r *RedisCheckpointStore) Save(ctx context.Context, threadID string, state *model.SessionState) error {
	b, err := json.Marshal(state)
	if err != nil {
		logx.Error().Err(err).Str("threadID", threadID).Msg("failed to marshal checkpoint")
		return fmt.Errorf("marshal checkpoint: %w", err)
	}
	key := r.threadKey(threadID)

	if err := r.rdb.Set(ctx, key, b, r.ttl).Err(); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to write checkpoint to redis")
		return errx.WrapRedisWrite(err)
	}
	return nil
}

var _ model.CheckpointStore = (*RedisCheckpointStore)(nil)
