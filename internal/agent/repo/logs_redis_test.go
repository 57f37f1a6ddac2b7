package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitpal-core/agent/internal/agent/model"
	"github.com/fitpal-core/agent/internal/agent/repo"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisLogStore_AppendAndRead(t *testing.T) {
	_, client := newTestRedis(t)
	store := repo.NewRedisLogStore(client, 0)
	ctx := context.Background()

	foodID := int64(1)
	rec1 := model.LogRecord{
		ID:          "rec-1",
		FoodID:      &foodID,
		FoodName:    "chicken breast",
		AmountGrams: 200,
		Macros:      model.Macros{Calories: 330, Protein: 62, Carbs: 0, Fat: 7.2},
		Timestamp:   time.Now().UTC(),
	}
	rec2 := model.LogRecord{
		ID:          "rec-2",
		FoodName:    "unicorn steak",
		AmountGrams: 150,
		Macros:      model.Macros{Calories: 375, Protein: 30, Carbs: 7.5, Fat: 22.5},
		Estimated:   true,
		Timestamp:   time.Now().UTC(),
	}

	saved, err := store.CreateLogEntry(ctx, "2026-08-29", rec1)
	require.NoError(t, err)
	assert.Equal(t, rec1.ID, saved.ID)

	_, err = store.CreateLogEntry(ctx, "2026-08-29", rec2)
	require.NoError(t, err)

	records, err := store.GetLogsByDate(ctx, "2026-08-29")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "chicken breast", records[0].FoodName, "insertion order preserved")
	assert.Nil(t, records[1].FoodID)
	assert.True(t, records[1].Estimated)
}

func TestRedisLogStore_DatesAreIsolated(t *testing.T) {
	_, client := newTestRedis(t)
	store := repo.NewRedisLogStore(client, 0)
	ctx := context.Background()

	_, err := store.CreateLogEntry(ctx, "2026-08-28", model.LogRecord{ID: "a", FoodName: "apple", AmountGrams: 100})
	require.NoError(t, err)

	records, err := store.GetLogsByDate(ctx, "2026-08-29")
	require.NoError(t, err)
	assert.Empty(t, records, "absent date reads as empty, not as an error")
}

func TestRedisLogStore_DailyTotals(t *testing.T) {
	_, client := newTestRedis(t)
	store := repo.NewRedisLogStore(client, 0)
	ctx := context.Background()

	totals, err := store.DailyTotals(ctx, "2026-08-29")
	require.NoError(t, err)
	assert.Equal(t, model.Macros{}, totals)

	_, err = store.CreateLogEntry(ctx, "2026-08-29", model.LogRecord{
		ID: "a", FoodName: "chicken breast", AmountGrams: 200,
		Macros: model.Macros{Calories: 330, Protein: 62, Carbs: 0, Fat: 7.2},
	})
	require.NoError(t, err)
	_, err = store.CreateLogEntry(ctx, "2026-08-29", model.LogRecord{
		ID: "b", FoodName: "white rice, cooked", AmountGrams: 150,
		Macros: model.Macros{Calories: 195, Protein: 4.05, Carbs: 42.3, Fat: 0.45},
	})
	require.NoError(t, err)

	totals, err = store.DailyTotals(ctx, "2026-08-29")
	require.NoError(t, err)
	assert.InDelta(t, 525.0, totals.Calories, 0.001)
	assert.InDelta(t, 66.05, totals.Protein, 0.001)
	assert.InDelta(t, 42.3, totals.Carbs, 0.001)
	assert.InDelta(t, 7.65, totals.Fat, 0.001)
}

func TestRedisLogStore_TTL(t *testing.T) {
	mr, client := newTestRedis(t)
	store := repo.NewRedisLogStore(client, time.Hour)
	ctx := context.Background()

	_, err := store.CreateLogEntry(ctx, "2026-08-29", model.LogRecord{ID: "a", FoodName: "apple", AmountGrams: 100})
	require.NoError(t, err)
	require.True(t, mr.Exists("daily_log:2026-08-29"))

	mr.FastForward(2 * time.Hour)

	records, err := store.GetLogsByDate(ctx, "2026-08-29")
	require.NoError(t, err)
	assert.Empty(t, records)
}
