package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JoeShih716/go-mem-point/internal/app/core/domain"
)

func TestBalanceStore_GetDefault(t *testing.T) {
	store := NewBalanceStore(nil)

	point, err := store.Get(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, int64(42), point.ID)
	assert.Equal(t, int64(0), point.Point)
	assert.True(t, point.UpdatedAt.IsZero())
	assert.Equal(t, 0, store.Len())
}

func TestBalanceStore_SetStampsTime(t *testing.T) {
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	store := NewBalanceStore(func() time.Time { return fixed })
	ctx := context.Background()

	written, err := store.Set(ctx, 1, 700)
	require.NoError(t, err)
	assert.Equal(t, domain.UserPoint{ID: 1, Point: 700, UpdatedAt: fixed}, written)

	read, err := store.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, written, read)
	assert.Equal(t, 1, store.Len())
}

func TestHistoryStore_AppendOrder(t *testing.T) {
	store := NewHistoryStore()
	ctx := context.Background()
	at := time.Now()

	require.NoError(t, store.Append(ctx, 1, 1000, domain.TransactionTypeCharge, at))
	require.NoError(t, store.Append(ctx, 2, 10, domain.TransactionTypeCharge, at))
	require.NoError(t, store.Append(ctx, 1, 300, domain.TransactionTypeUse, at))

	got, err := store.GetAll(ctx, 1)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].ID)
	assert.Equal(t, domain.TransactionTypeCharge, got[0].Type)
	assert.Equal(t, int64(3), got[1].ID)
	assert.Equal(t, domain.TransactionTypeUse, got[1].Type)
	assert.Equal(t, int64(300), got[1].Amount)

	empty, err := store.GetAll(ctx, 99)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestHistoryStore_GetAllReturnsCopy(t *testing.T) {
	store := NewHistoryStore()
	ctx := context.Background()
	require.NoError(t, store.Append(ctx, 1, 1000, domain.TransactionTypeCharge, time.Now()))

	got, err := store.GetAll(ctx, 1)
	require.NoError(t, err)
	got[0].Amount = 1

	again, err := store.GetAll(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), again[0].Amount)
}

func TestHistoryStore_ConcurrentAppendUniqueIDs(t *testing.T) {
	store := NewHistoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()
			_ = store.Append(ctx, userID, 1, domain.TransactionTypeCharge, time.Now())
		}(int64(i%5 + 1))
	}
	wg.Wait()

	seen := make(map[int64]bool)
	for userID := int64(1); userID <= 5; userID++ {
		entries, err := store.GetAll(ctx, userID)
		require.NoError(t, err)
		assert.Len(t, entries, 20)
		for _, e := range entries {
			assert.False(t, seen[e.ID], "duplicate id %d", e.ID)
			seen[e.ID] = true
		}
	}
	assert.Len(t, seen, 100)
}
