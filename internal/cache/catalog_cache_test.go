package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTDGit/cpq_api/internal/config"
	"github.com/GTDGit/cpq_api/internal/models"
	"github.com/GTDGit/cpq_api/internal/utils"
)

func newTestRedis(t *testing.T) (*RedisClient, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rc, err := NewRedisClient(&config.RedisConfig{Host: mr.Host(), Port: mr.Port()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = rc.Close() })
	return rc, mr
}

func TestCatalogCache_RoundTrip(t *testing.T) {
	rc, _ := newTestRedis(t)
	c := NewCatalogCache(rc, time.Minute)
	ctx := context.Background()

	_, err := c.Get(ctx)
	assert.ErrorIs(t, err, utils.ErrCacheMiss)

	items := []models.CatalogItem{
		{ID: "1", Name: "[Standard] Add-on A", UnitPrice: decimal.RequireFromString("10.00"), DefaultQuantity: 500, SelectedQuantity: 500, Tier: models.TierStandard},
	}
	require.NoError(t, c.Set(ctx, items))

	got, err := c.Get(ctx)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "1", got.Items[0].ID)
	assert.True(t, got.Items[0].UnitPrice.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, models.TierStandard, got.Items[0].Tier)
}

func TestCatalogCache_ExpiresAndInvalidates(t *testing.T) {
	rc, mr := newTestRedis(t)
	c := NewCatalogCache(rc, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, []models.CatalogItem{{ID: "1"}}))
	mr.FastForward(2 * time.Minute)
	_, err := c.Get(ctx)
	assert.ErrorIs(t, err, utils.ErrCacheMiss)

	require.NoError(t, c.Set(ctx, []models.CatalogItem{{ID: "1"}}))
	require.NoError(t, c.Invalidate(ctx))
	_, err = c.Get(ctx)
	assert.ErrorIs(t, err, utils.ErrCacheMiss)
}
