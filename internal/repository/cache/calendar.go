// Package cache decorates reconciliation sources with a Redis read-through cache.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/calendar"
)

const keyPrefix = "attendance-engine:calendar"

// CalendarCache wraps a CalendarRepository. Misses and not-found results go
// to the wrapped source; Redis failures are logged and never surface.
type CalendarCache struct {
	next   calendar.CalendarRepository
	client redis.UniversalClient
	ttl    time.Duration
}

var _ calendar.CalendarRepository = (*CalendarCache)(nil)

func NewCalendarCache(next calendar.CalendarRepository, client redis.UniversalClient, ttl time.Duration) *CalendarCache {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &CalendarCache{next: next, client: client, ttl: ttl}
}

// GetWeekends implements calendar.CalendarRepository.
func (c *CalendarCache) GetWeekends(ctx context.Context, companyID string) ([]int, error) {
	key := fmt.Sprintf("%s:%s:weekends", keyPrefix, companyID)
	return readThrough(ctx, c, key, func() ([]int, error) {
		return c.next.GetWeekends(ctx, companyID)
	})
}

// GetHolidays implements calendar.CalendarRepository.
func (c *CalendarCache) GetHolidays(ctx context.Context, companyID string, year int) ([]calendar.Holiday, error) {
	key := fmt.Sprintf("%s:%s:holidays:%d", keyPrefix, companyID, year)
	return readThrough(ctx, c, key, func() ([]calendar.Holiday, error) {
		return c.next.GetHolidays(ctx, companyID, year)
	})
}

// GetTimezone implements calendar.CalendarRepository.
func (c *CalendarCache) GetTimezone(ctx context.Context, companyID string) (string, error) {
	key := fmt.Sprintf("%s:%s:timezone", keyPrefix, companyID)
	return readThrough(ctx, c, key, func() (string, error) {
		return c.next.GetTimezone(ctx, companyID)
	})
}

func readThrough[T any](ctx context.Context, c *CalendarCache, key string, load func() (T, error)) (T, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var cached T
		if jsonErr := json.Unmarshal(raw, &cached); jsonErr == nil {
			return cached, nil
		}
		slog.Warn("Discarding corrupt calendar cache entry", "key", key)
	case !errors.Is(err, redis.Nil):
		slog.Warn("Calendar cache read failed", "key", key, "error", err)
	}

	value, err := load()
	if err != nil {
		return value, err
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return value, nil
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		slog.Warn("Calendar cache write failed", "key", key, "error", err)
	}

	return value, nil
}
