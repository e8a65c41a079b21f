package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"myCourseCompass/domain"
	"myCourseCompass/pkg/logger"
	"myCourseCompass/pkg/metrics"

	"github.com/redis/go-redis/v9"
)

const catalogKeyPrefix = "catalog:courses:"

// CourseCatalog contract interface
type CourseCatalog interface {
	FindWithRequirementsByProgramType(ctx context.Context, programType string) ([]domain.Course, error)
	FindWithRequirementsByIDs(ctx context.Context, ids []uint64) ([]domain.Course, error)
	FindAllWithRequirements(ctx context.Context) ([]domain.Course, error)
}

// CatalogCache keeps course lists with their requirements in Redis. Any Redis
// failure falls through to the wrapped catalog.
type CatalogCache struct {
	client *redis.Client
	next   CourseCatalog
	ttl    time.Duration
}

func NewCatalogCache(client *redis.Client, next CourseCatalog, ttl time.Duration) *CatalogCache {
	return &CatalogCache{
		client: client,
		next:   next,
		ttl:    ttl,
	}
}

func (c *CatalogCache) cached(ctx context.Context, key string, load func(context.Context) ([]domain.Course, error)) ([]domain.Course, error) {
	val, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var courses []domain.Course
		if uerr := json.Unmarshal(val, &courses); uerr == nil {
			metrics.CatalogCacheLookups.WithLabelValues("hit").Inc()
			return courses, nil
		}
		logger.Warn("Discarding unreadable catalog cache entry", "key", key)
		metrics.CatalogCacheLookups.WithLabelValues("error").Inc()
	case errors.Is(err, redis.Nil):
		metrics.CatalogCacheLookups.WithLabelValues("miss").Inc()
	default:
		logger.Warn("Catalog cache unavailable", "key", key, "error", err)
		metrics.CatalogCacheLookups.WithLabelValues("error").Inc()
	}

	courses, err := load(ctx)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(courses)
	if err != nil {
		logger.Warn("Failed to encode courses for cache", err)
		return courses, nil
	}

	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		logger.Warn("Failed to write catalog cache", "key", key, "error", err)
	}

	return courses, nil
}

func (c *CatalogCache) FindWithRequirementsByProgramType(ctx context.Context, programType string) ([]domain.Course, error) {
	return c.cached(ctx, catalogKeyPrefix+"program:"+programType, func(ctx context.Context) ([]domain.Course, error) {
		return c.next.FindWithRequirementsByProgramType(ctx, programType)
	})
}

func (c *CatalogCache) FindAllWithRequirements(ctx context.Context) ([]domain.Course, error) {
	return c.cached(ctx, catalogKeyPrefix+"all", c.next.FindAllWithRequirements)
}

// FindWithRequirementsByIDs is not cached; id sets rarely repeat.
func (c *CatalogCache) FindWithRequirementsByIDs(ctx context.Context, ids []uint64) ([]domain.Course, error) {
	return c.next.FindWithRequirementsByIDs(ctx, ids)
}

// Invalidate drops every cached course list.
func (c *CatalogCache) Invalidate(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, catalogKeyPrefix+"*", 100).Result()
		if err != nil {
			return fmt.Errorf("failed to scan catalog cache: %w", err)
		}

		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("failed to clear catalog cache: %w", err)
			}
		}

		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}
