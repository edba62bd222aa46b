package vacation

import (
	"context"

	"github.com/illmade-knight/go-vacario/pkg/cache"
	"github.com/illmade-knight/go-vacario/pkg/kvstore"
	"github.com/rs/zerolog"
)

const (
	// DayCacheNamespace is the store key the vacation-days cache lives under.
	DayCacheNamespace = "day-cache"
	// ActivityCacheNamespace is the store key the activity cache lives under.
	ActivityCacheNamespace = "activity-cache"
)

// CacheConfig holds settings shared by the domain caches. A nil config uses the defaults.
type CacheConfig struct {
	// Capacity is the number of vacations or activities kept. Zero means cache.DefaultCapacity.
	Capacity int
}

// DayCache caches the list of days of recently viewed vacations, keyed by vacation id.
type DayCache struct {
	*cache.BoundedCache[[]Day]
}

// NewDayCache creates the vacation-days cache on top of store.
func NewDayCache(cfg *CacheConfig, store kvstore.Store, logger zerolog.Logger) (*DayCache, error) {
	if cfg == nil {
		cfg = &CacheConfig{}
	}
	c, err := cache.NewBoundedCache[[]Day](&cache.Config{
		Namespace: DayCacheNamespace,
		Capacity:  cfg.Capacity,
	}, store, logger)
	if err != nil {
		return nil, err
	}
	return &DayCache{BoundedCache: c}, nil
}

// GetVacationDays returns the cached days of a vacation, or an error wrapping cache.ErrCacheMiss.
func (c *DayCache) GetVacationDays(ctx context.Context, vacationID string) ([]Day, error) {
	return c.Get(ctx, vacationID)
}

// SetVacationDays caches the days of a vacation.
func (c *DayCache) SetVacationDays(ctx context.Context, vacationID string, days []Day) error {
	return c.Set(ctx, vacationID, days)
}

// ActivityCache caches recently viewed activities, keyed by activity id.
type ActivityCache struct {
	*cache.BoundedCache[Activity]
}

// NewActivityCache creates the activity cache on top of store.
func NewActivityCache(cfg *CacheConfig, store kvstore.Store, logger zerolog.Logger) (*ActivityCache, error) {
	if cfg == nil {
		cfg = &CacheConfig{}
	}
	c, err := cache.NewBoundedCache[Activity](&cache.Config{
		Namespace: ActivityCacheNamespace,
		Capacity:  cfg.Capacity,
	}, store, logger)
	if err != nil {
		return nil, err
	}
	return &ActivityCache{BoundedCache: c}, nil
}

// GetActivity returns a cached activity, or an error wrapping cache.ErrCacheMiss.
func (c *ActivityCache) GetActivity(ctx context.Context, activityID string) (Activity, error) {
	return c.Get(ctx, activityID)
}

// SetActivity caches an activity.
func (c *ActivityCache) SetActivity(ctx context.Context, activityID string, activity Activity) error {
	return c.Set(ctx, activityID, activity)
}
