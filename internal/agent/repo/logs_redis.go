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

// RedisLogStore keeps one list of JSON log records per date key. Totals are
// aggregated on read; the list is the single source of truth.
type RedisLogStore struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewRedisLogStore(rdb redis.Cmdable, ttl time.Duration) *RedisLogStore {
	return &RedisLogStore{rdb: rdb, ttl: ttl}
}

func (r *RedisLogStore) dateKey(date string) string {
	return fmt.Sprintf("daily_log:%s", date)
}

func (r *RedisLogStore) CreateLogEntry(ctx context.Context, date string, rec model.LogRecord) (*model.LogRecord, error) {
	b, err := json.Marshal(rec)
	if err != nil {
		logx.Error().Err(err).Str("date", date).Msg("failed to marshal log record")
		return nil, fmt.Errorf("marshal log record: %w", err)
	}
	key := r.dateKey(date)

	if err := r.rdb.RPush(ctx, key, b).Err(); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to push log record to redis")
		return nil, errx.WrapRedisWrite(err)
	}
	if r.ttl > 0 {
		if ok, err := r.rdb.Expire(ctx, key, r.ttl).Result(); err != nil {
			logx.Error().Err(err).Str("key", key).Msg("failed to set expire")
			return nil, errx.WrapRedisWrite(err)
		} else if !ok {
			logx.Warn().Str("key", key).Dur("ttl", r.ttl).Msg("failed to set TTL on daily log key")
		}
	}
	return &rec, nil
}

func (r *RedisLogStore) GetLogsByDate(ctx context.Context, date string) ([]model.LogRecord, error) {
	key := r.dateKey(date)

	rows, err := r.rdb.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		if err == redis.Nil {
			return []model.LogRecord{}, nil
		}
		logx.Error().Err(err).Str("key", key).Msg("failed to load daily logs from redis")
		return nil, errx.WrapRedisRead(err)
	}

	records := make([]model.LogRecord, 0, len(rows))
	for i, row := range rows {
		var rec model.LogRecord
		if err := json.Unmarshal([]byte(row), &rec); err != nil {
			logx.Error().Err(err).Str("date", date).Int("index", i).Msg("failed to unmarshal log record")
			return nil, fmt.Errorf("unmarshal log record at index %d: %w", i, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func (r *RedisLogStore) DailyTotals(ctx context.Context, date string) (model.Macros, error) {
	records, err := r.GetLogsByDate(ctx, date)
	if err != nil {
		return model.Macros{}, err
	}
	totals := model.Macros{}
	for _, rec := range records {
		totals = totals.Add(rec.Macros)
	}
	return totals, nil
}

var _ model.LogStore = (*RedisLogStore)(nil)
