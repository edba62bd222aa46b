package vacation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/illmade-knight/go-vacario/pkg/cache"
	"github.com/rs/zerolog"
)

// Source is the remote source of truth for vacation data, typically the
// planner's REST backend. It is supplied by the caller.
type Source interface {
	VacationDays(ctx context.Context, vacationID string) ([]Day, error)
	Activity(ctx context.Context, ref ActivityRef) (Activity, error)
}

// ActivityRef locates an activity within a vacation day.
type ActivityRef struct {
	VacationID string
	DayID      string
	ActivityID string
}

// LoaderConfig holds configuration for the cache/source loader.
type LoaderConfig struct {
	// CacheWriteTimeout bounds each write-back to the cache. Zero means no extra bound.
	CacheWriteTimeout time.Duration
}

// Loader combines the domain caches with a Source.
//
// Days are served cache first: the source is only asked on a miss, and its answer
// is written back. Activities are served source first so details are fresh, with
// the cache as the offline fallback. A failed write-back is logged, never returned.
type Loader struct {
	days         cache.Cache[[]Day]
	activities   cache.Cache[Activity]
	source       Source
	writeTimeout time.Duration
	logger       zerolog.Logger
}

// NewLoader creates a Loader. days is keyed by vacation id and activities by
// activity id; *DayCache and *ActivityCache are the usual implementations.
// A nil cfg uses the defaults.
func NewLoader(
	cfg *LoaderConfig,
	days cache.Cache[[]Day],
	activities cache.Cache[Activity],
	source Source,
	logger zerolog.Logger,
) (*Loader, error) {
	if days == nil || activities == nil {
		return nil, errors.New("day and activity caches are required")
	}
	if source == nil {
		return nil, errors.New("source cannot be nil")
	}
	if cfg == nil {
		cfg = &LoaderConfig{}
	}
	return &Loader{
		days:         days,
		activities:   activities,
		source:       source,
		writeTimeout: cfg.CacheWriteTimeout,
		logger:       logger.With().Str("component", "VacationLoader").Logger(),
	}, nil
}

// Days returns the days of a vacation sorted by date.
func (l *Loader) Days(ctx context.Context, vacationID string) ([]Day, error) {
	// 1. Try the cache.
	days, err := l.days.Get(ctx, vacationID)
	if err == nil {
		l.logger.Debug().Str("vacation_id", vacationID).Msg("Cache hit.")
		SortDays(days)
		return days, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		return nil, fmt.Errorf("error reading day cache: %w", err)
	}
	l.logger.Debug().Str("vacation_id", vacationID).Msg("Cache miss. Falling back to source.")

	// 2. Cache miss, fall back to the source and write back.
	return l.RefreshDays(ctx, vacationID)
}

// RefreshDays always asks the source, updates the cache and returns the days sorted by date.
func (l *Loader) RefreshDays(ctx context.Context, vacationID string) ([]Day, error) {
	days, err := l.source.VacationDays(ctx, vacationID)
	if err != nil {
		l.logger.Error().Err(err).Str("vacation_id", vacationID).Msg("Error fetching days from source.")
		return nil, fmt.Errorf("error fetching days from source: %w", err)
	}

	l.writeBack(ctx, func(writeCtx context.Context) error {
		return l.days.Set(writeCtx, vacationID, days)
	}, vacationID)

	sorted := append([]Day(nil), days...)
	SortDays(sorted)
	return sorted, nil
}

// Activity returns an activity from the source, or from the cache when the source fails.
func (l *Loader) Activity(ctx context.Context, ref ActivityRef) (Activity, error) {
	activity, srcErr := l.source.Activity(ctx, ref)
	if srcErr == nil {
		l.writeBack(ctx, func(writeCtx context.Context) error {
			return l.activities.Set(writeCtx, ref.ActivityID, activity)
		}, ref.ActivityID)
		return activity, nil
	}
	l.logger.Warn().Err(srcErr).Str("activity_id", ref.ActivityID).Msg("Source failed. Falling back to cache.")

	cached, cacheErr := l.activities.Get(ctx, ref.ActivityID)
	if cacheErr != nil {
		return Activity{}, fmt.Errorf("activity %s unavailable: %w", ref.ActivityID, errors.Join(srcErr, cacheErr))
	}
	return cached, nil
}

func (l *Loader) writeBack(ctx context.Context, write func(context.Context) error, key string) {
	writeCtx := ctx
	if l.writeTimeout > 0 {
		var cancel context.CancelFunc
		writeCtx, cancel = context.WithTimeout(ctx, l.writeTimeout)
		defer cancel()
	}
	if err := write(writeCtx); err != nil {
		l.logger.Error().Err(err).Str("key", key).Msg("Failed to write back to cache.")
	}
}
