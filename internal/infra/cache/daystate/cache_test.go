package daystate

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/GardenBookingService/internal/domain"
)

func TestKey(t *testing.T) {
	date := time.Date(2025, 6, 3, 15, 4, 0, 0, time.UTC)
	assert.Equal(t, "garden:daystate:2025-06-03", Key(date))
	assert.Equal(t, "garden:daystate:ver:2025-06-03", versionKey(date))
}

func TestCache_UnreachableRedisIsReportedNotPanicked(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	c := NewCache(client, time.Minute)
	ctx := context.Background()
	date := time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)

	_, ok, err := c.Get(ctx, date)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCache)
	assert.False(t, ok)

	_, err = c.Version(ctx, date)
	assert.ErrorIs(t, err, ErrCache)

	stored, err := c.Set(ctx, date, 0, &domain.DayBookingState{})
	assert.ErrorIs(t, err, ErrCache)
	assert.False(t, stored)

	assert.ErrorIs(t, c.Invalidate(ctx, date), ErrCache)
}

// needs a live redis: GARDEN_TEST_REDIS_ADDR=localhost:6379
func TestCache_InvalidateWinsOverInFlightSet(t *testing.T) {
	addr := os.Getenv("GARDEN_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("GARDEN_TEST_REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()

	c := NewCache(client, time.Minute)
	ctx := context.Background()
	date := time.Date(2031, 1, 7, 0, 0, 0, 0, time.UTC)
	t.Cleanup(func() { client.Del(context.Background(), Key(date), versionKey(date)) })

	stale := &domain.DayBookingState{}
	fresh := &domain.DayBookingState{TotalBookings: 1}
	fresh.Slots[2] = domain.SlotOccupancy{Booked: true, Service: "lawn-cutting"}

	// reader loads bookings, a booking lands and invalidates, then the reader stores
	v, err := c.Version(ctx, date)
	require.NoError(t, err)
	require.NoError(t, c.Invalidate(ctx, date))

	stored, err := c.Set(ctx, date, v, stale)
	require.NoError(t, err)
	assert.False(t, stored)
	_, ok, err := c.Get(ctx, date)
	require.NoError(t, err)
	assert.False(t, ok)

	v, err = c.Version(ctx, date)
	require.NoError(t, err)
	stored, err = c.Set(ctx, date, v, fresh)
	require.NoError(t, err)
	assert.True(t, stored)

	got, ok, err := c.Get(ctx, date)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, fresh, got)
}
