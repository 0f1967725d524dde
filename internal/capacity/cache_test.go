package capacity

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bluepeak/home-services-platform/pkg/logging"
)

func newTestCache(t *testing.T) (*SnapshotCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewSnapshotCache(client, time.Minute, logging.New("error")), mr
}

func TestSnapshotCacheRoundTrip(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()
	date := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	snap := &Snapshot{
		Overall:        Overall{Score: 75, State: StateFeeWaived},
		ExpressWindows: []Window{{TimeSlot: "08:00 - 11:00", AvailableTechs: 3}},
	}
	cache.Put(ctx, date, "02139", snap)

	got, ok := cache.Get(ctx, date, "02139")
	require.True(t, ok)
	assert.Equal(t, snap, got)

	// Different zip keys a different entry.
	_, ok = cache.Get(ctx, date, "02140")
	assert.False(t, ok)
}

func TestSnapshotCacheExpiry(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()
	date := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	cache.Put(ctx, date, "", &Snapshot{Overall: Overall{Score: 50, State: StateLimited}})
	mr.FastForward(2 * time.Minute)

	_, ok := cache.Get(ctx, date, "")
	assert.False(t, ok)
}

func TestSnapshotCacheCorruptEntryIgnored(t *testing.T) {
	cache, mr := newTestCache(t)
	date := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	require.NoError(t, mr.Set(cacheKey(date, "any"), "{not json"))

	_, ok := cache.Get(context.Background(), date, "")
	assert.False(t, ok)
}

func TestCalculatorUsesCache(t *testing.T) {
	cache, _ := newTestCache(t)
	sched := &fakeSchedule{}
	calc := NewCalculator(sched, 4, cache, logging.New("error"))
	ctx := context.Background()
	date := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	_, err := calc.Calculate(ctx, date, "02139")
	require.NoError(t, err)
	_, err = calc.Calculate(ctx, date, "02139")
	require.NoError(t, err)

	assert.Equal(t, 1, sched.calls, "second call should be served from cache")
}
