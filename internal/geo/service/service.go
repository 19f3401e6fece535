// Package service layers a Redis cache over a geo.Lookup. Children and
// survey-type lists change rarely relative to how often the cascade requests
// them, so a short TTL cache-aside absorbs most traffic to the registry.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/esteham/eland-portal/internal/geo"
	"github.com/esteham/eland-portal/internal/geo/models"
	"github.com/esteham/eland-portal/internal/platform/redis"
)

type Cached struct {
	next   geo.Lookup
	cache  *redis.Client
	ttl    time.Duration
	group  singleflight.Group
	logger *slog.Logger
}

// NewCached decorates next with a Redis cache. A nil cache client disables
// caching (the decorator passes straight through), so wiring stays uniform.
func NewCached(next geo.Lookup, cache *redis.Client, ttl time.Duration, logger *slog.Logger) *Cached {
	return &Cached{next: next, cache: cache, ttl: ttl, logger: logger}
}

func (c *Cached) Children(ctx context.Context, level models.Level, parentID string) ([]models.GeoNode, error) {
	key := fmt.Sprintf("geo:children:%s:%s", level.String(), parentID)
	var nodes []models.GeoNode
	err := c.lookup(ctx, key, &nodes, func() (any, error) {
		return c.next.Children(ctx, level, parentID)
	})
	// Level is not part of the wire shape; restore it after the cache round-trip.
	for i := range nodes {
		nodes[i].Level = level
		nodes[i].LevelName = level.String()
	}
	return nodes, err
}

func (c *Cached) SurveyTypes(ctx context.Context, sheetID string) ([]models.SurveyTypeOption, error) {
	key := "geo:surveytypes:" + sheetID
	var opts []models.SurveyTypeOption
	err := c.lookup(ctx, key, &opts, func() (any, error) {
		return c.next.SurveyTypes(ctx, sheetID)
	})
	return opts, err
}

// lookup is the shared cache-aside path: read-through on hit, singleflight
// collapse on miss so concurrent identical lookups hit the registry once.
// Cache failures degrade to the underlying lookup rather than erroring.
func (c *Cached) lookup(ctx context.Context, key string, out any, fetch func() (any, error)) error {
	if c.cache != nil {
		cached, err := c.cache.Get(ctx, key).Bytes()
		if err == nil {
			if err := json.Unmarshal(cached, out); err == nil {
				return nil
			}
			c.logger.WarnContext(ctx, "corrupt geo cache entry, refetching", "key", key)
		}
	}

	value, err, _ := c.group.Do(key, func() (any, error) {
		fresh, err := fetch()
		if err != nil {
			return nil, err
		}
		if c.cache != nil {
			if payload, err := json.Marshal(fresh); err == nil {
				if err := c.cache.Set(ctx, key, payload, c.ttl).Err(); err != nil {
					c.logger.WarnContext(ctx, "geo cache write failed", "key", key, "error", err)
				}
			}
		}
		return fresh, nil
	})
	if err != nil {
		return err
	}

	// Round-trip through JSON to copy into the caller's slice type.
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal geo result: %w", err)
	}
	return json.Unmarshal(payload, out)
}
