package daystate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/GardenBookingService/internal/domain"
)

const (
	keyPrefix        = "garden:daystate:"
	versionKeyPrefix = "garden:daystate:ver:"

	// versionTTL keeps a date's version around well past any cached state of it
	versionTTL = 24 * time.Hour
)

// setIfVersion KEYS[1] version key, KEYS[2] state key; ARGV version, payload, ttl ms.
// Returns 1 when stored, 0 when the date was invalidated since the version was read.
var setIfVersion = redis.NewScript(`
local current = redis.call('GET', KEYS[1]) or '0'
if current ~= ARGV[1] then
	return 0
end
redis.call('SET', KEYS[2], ARGV[2], 'PX', ARGV[3])
return 1
`)

var (
	// ErrCache redis unreachable or returned an unexpected error
	ErrCache = errors.New("daystate.cache: redis error")

	// ErrDecode cached payload could not be decoded
	ErrDecode = errors.New("daystate.cache: decode error")
)

// Cache derived Day Booking State per calendar date, stored in Redis.
// Entries expire after ttl and are dropped on every booking create/cancel of the date.
// Each invalidation bumps a per-date version; a state computed before the bump is
// never stored after it.
type Cache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewCache creates a cache on top of a go-redis client
func NewCache(client redis.Cmdable, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

type cachedSlot struct {
	Booked   bool   `json:"b"`
	IsBuffer bool   `json:"buf,omitempty"`
	Service  string `json:"s,omitempty"`
}

type cachedState struct {
	TotalBookings int          `json:"total"`
	FullDayBooked bool         `json:"fullDay"`
	Slots         []cachedSlot `json:"slots"`
}

// Get returns the cached state of date; ok is false on a miss
func (c *Cache) Get(ctx context.Context, date time.Time) (*domain.DayBookingState, bool, error) {
	raw, err := c.client.Get(ctx, Key(date)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: get: %v", ErrCache, err)
	}

	var cs cachedState
	if err := json.Unmarshal(raw, &cs); err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if len(cs.Slots) != domain.SlotsPerDay {
		// written with a different calendar; treat as a miss
		return nil, false, nil
	}

	state := &domain.DayBookingState{
		TotalBookings: cs.TotalBookings,
		FullDayBooked: cs.FullDayBooked,
	}
	for i, s := range cs.Slots {
		state.Slots[i] = domain.SlotOccupancy{Booked: s.Booked, IsBuffer: s.IsBuffer, Service: s.Service}
	}

	return state, true, nil
}

// Version current invalidation counter of date; read it before loading the bookings
// the state is derived from and hand it back to Set.
func (c *Cache) Version(ctx context.Context, date time.Time) (int64, error) {
	v, err := c.client.Get(ctx, versionKey(date)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("%w: get version: %v", ErrCache, err)
	}
	return v, nil
}

// Set stores the state of date unless the date was invalidated after version was
// read. stored reports whether the state was written.
func (c *Cache) Set(ctx context.Context, date time.Time, version int64, state *domain.DayBookingState) (bool, error) {
	cs := cachedState{
		TotalBookings: state.TotalBookings,
		FullDayBooked: state.FullDayBooked,
		Slots:         make([]cachedSlot, len(state.Slots)),
	}
	for i, s := range state.Slots {
		cs.Slots[i] = cachedSlot{Booked: s.Booked, IsBuffer: s.IsBuffer, Service: s.Service}
	}

	raw, err := json.Marshal(cs)
	if err != nil {
		return false, fmt.Errorf("%w: encode: %v", ErrCache, err)
	}

	keys := []string{versionKey(date), Key(date)}
	stored, err := setIfVersion.Run(ctx, c.client, keys, version, raw, c.ttl.Milliseconds()).Int()
	if err != nil {
		return false, fmt.Errorf("%w: set: %v", ErrCache, err)
	}
	return stored == 1, nil
}

// Invalidate bumps the version of date and drops its cached state
func (c *Cache) Invalidate(ctx context.Context, date time.Time) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, versionKey(date))
		pipe.Expire(ctx, versionKey(date), versionTTL)
		pipe.Del(ctx, Key(date))
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: invalidate: %v", ErrCache, err)
	}
	return nil
}

// Key redis key of a date's state
func Key(date time.Time) string {
	return keyPrefix + date.Format(domain.DateFormat)
}

func versionKey(date time.Time) string {
	return versionKeyPrefix + date.Format(domain.DateFormat)
}
