package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/GTDGit/cpq_api/internal/models"
)

const catalogKey = "catalog:tiered-products"

// CatalogData is the cached snapshot of the tiered product list.
type CatalogData struct {
	Items    []models.CatalogItem `json:"items"`
	CachedAt time.Time            `json:"cachedAt"`
}

// CatalogCache stores the tiered product list fetched from the CRM.
type CatalogCache struct {
	redis *RedisClient
	ttl   time.Duration
}

// NewCatalogCache creates a new CatalogCache.
func NewCatalogCache(redis *RedisClient, ttl time.Duration) *CatalogCache {
	return &CatalogCache{redis: redis, ttl: ttl}
}

// Get returns the cached catalog or utils.ErrCacheMiss.
func (c *CatalogCache) Get(ctx context.Context) (*CatalogData, error) {
	raw, err := c.redis.Get(ctx, catalogKey)
	if err != nil {
		return nil, err
	}

	var data CatalogData
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal catalog data: %w", err)
	}
	return &data, nil
}

// Set replaces the cached catalog.
func (c *CatalogCache) Set(ctx context.Context, items []models.CatalogItem) error {
	data := CatalogData{Items: items, CachedAt: time.Now()}
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal catalog data: %w", err)
	}
	if err := c.redis.Set(ctx, catalogKey, string(raw), c.ttl); err != nil {
		return fmt.Errorf("failed to set catalog key: %w", err)
	}
	return nil
}

// Invalidate drops the cached catalog.
func (c *CatalogCache) Invalidate(ctx context.Context) error {
	return c.redis.Delete(ctx, catalogKey)
}
